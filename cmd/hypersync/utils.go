// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vexidus/hypersync/co"
	"github.com/vexidus/hypersync/genesis"
	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/keystore"
	"github.com/vexidus/hypersync/log"
	"github.com/vexidus/hypersync/lvldb"
	"github.com/vexidus/hypersync/metrics"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	color := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return log.Setup(os.Stderr, ctx.Int(verbosityFlag.Name), ctx.Bool(jsonLogsFlag.Name), color)
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	if path := ctx.String(genesisFlag.Name); path != "" {
		return genesis.Load(path)
	}
	if !ctx.Bool(soloFlag.Name) {
		return nil, errors.New("genesis file required, or run in solo mode")
	}
	// the first slot opens now
	now := uint64(time.Now().Unix())
	return genesis.NewDevnet(now-now%hs.BlockInterval(), 1), nil
}

// openMainDB opens the state database. Solo nodes run in memory.
func openMainDB(ctx *cli.Context, solo bool) (*lvldb.LevelDB, string, error) {
	if solo {
		db, err := lvldb.NewMem()
		if err != nil {
			return nil, "", errors.Wrap(err, "open memory database")
		}
		return db, "Memory", nil
	}

	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, "", errors.New("unable to infer default data dir, use -data-dir to specify")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	path := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 500,
	})
	if err != nil {
		return nil, "", errors.Wrapf(err, "open main database [%v]", path)
	}
	return db, dataDir, nil
}

// loadMaster loads the validator key. Solo nodes use the first devnet validator unless a key file is given.
func loadMaster(ctx *cli.Context, dataDir string, solo bool) (*keystore.Key, error) {
	keyFile := ctx.String(keyFileFlag.Name)
	if keyFile == "" {
		if solo {
			return genesis.DevKeys()[0], nil
		}
		keyFile = filepath.Join(dataDir, "master.key")
	}
	key, err := keystore.LoadOrGenerate(keyFile)
	if err != nil {
		return nil, errors.Wrapf(err, "load key file [%v]", keyFile)
	}
	return key, nil
}

func startAPIServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func startMetricsServer(addr string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics addr [%v]", addr)
	}
	router := http.NewServeMux()
	router.Handle("/metrics", metrics.HTTPHandler())
	srv := &http.Server{Handler: router, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/metrics", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	if resp.ClockOffset > time.Duration(hs.BlockInterval())*time.Second/2 {
		logger.Warn("clock offset detected", "offset", resp.ClockOffset)
	}
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		select {
		case sig := <-exitSignalCh:
			logger.Info("exit signal received", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.hypersync")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.hypersync")
		default:
			return filepath.Join(home, ".org.hypersync")
		}
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func printStartupMessage(
	gene *genesis.Genesis,
	master keystore.Signer,
	dataDir string,
	apiURL string,
	metricsURL string,
	adminURL string,
) {
	if metricsURL == "" {
		metricsURL = "disabled"
	}
	if adminURL == "" {
		adminURL = "disabled"
	}
	fmt.Printf(`Starting HyperSync %v
    Genesis      [ %v @%v ]
    Validators   [ %v ]
    Master       [ %v ]
    Data dir     [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]
`,
		fullVersion(),
		gene.ID(), time.Unix(int64(gene.LaunchTime), 0),
		len(gene.Validators),
		master.PublicKey(),
		dataDir,
		apiURL,
		metricsURL,
		adminURL,
	)
}
