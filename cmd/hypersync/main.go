// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vexidus/hypersync/admin"
	"github.com/vexidus/hypersync/api"
	"github.com/vexidus/hypersync/co"
	"github.com/vexidus/hypersync/consensus"
	"github.com/vexidus/hypersync/health"
	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/keystore"
	"github.com/vexidus/hypersync/log"
	"github.com/vexidus/hypersync/metrics"
	"github.com/vexidus/hypersync/node"
	"github.com/vexidus/hypersync/packer"
	"github.com/vexidus/hypersync/state"
	"github.com/vexidus/hypersync/txpool"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "HyperSync",
		Usage:     "Validator node of the HyperSync proof of stake network",
		Copyright: "2025 The VeChainThor developers",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			keyFileFlag,
			apiAddrFlag,
			apiCorsFlag,
			enableAPILogsFlag,
			metricsAddrFlag,
			adminAddrFlag,
			noLeaderCheckFlag,
			soloFlag,
			verbosityFlag,
			jsonLogsFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	solo := ctx.Bool(soloFlag.Name)

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	gene.Apply()
	hs.LockConfig()

	mainDB, dataDir, err := openMainDB(ctx, solo)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	store, err := state.NewStore(mainDB)
	if err != nil {
		return err
	}
	if err := gene.Build(store); err != nil {
		return err
	}

	master, err := loadMaster(ctx, dataDir, solo)
	if err != nil {
		return err
	}

	metricsURL := ""
	if addr := ctx.String(metricsAddrFlag.Name); addr != "" {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := startMetricsServer(addr)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		metricsURL = url
	}

	adminURL := ""
	if addr := ctx.String(adminAddrFlag.Name); addr != "" {
		nodeHealth := health.New(store, time.Duration(hs.BlockInterval())*time.Second)
		var goes co.Goes
		healthCtx, cancel := context.WithCancel(exitSignal)
		goes.GoCtx(healthCtx, nodeHealth.Run)
		defer func() { cancel(); goes.Wait() }()

		url, closeFunc, err := admin.StartServer(addr, logLevel, nodeHealth)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
		adminURL = url
	}

	go checkClockOffset()

	leaderCheck := !ctx.Bool(noLeaderCheckFlag.Name)
	cons := consensus.New(store, keystore.Ed25519, gene.LaunchTime, consensus.Options{LeaderCheck: leaderCheck})

	txPool := txpool.New(store, keystore.Ed25519, txpool.DefaultOptions())
	defer func() { logger.Info("closing tx pool..."); txPool.Close() }()

	apiHandler := api.New(store, cons, txPool, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   metricsURL != "",
	})
	apiURL, srvCloser, err := startAPIServer(ctx.String(apiAddrFlag.Name), apiHandler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	printStartupMessage(gene, master, dataDir, apiURL, metricsURL, adminURL)

	return node.New(
		cons,
		packer.New(store, gene.LaunchTime, master),
		txPool,
		node.NewLoopback(64),
		master,
		keystore.Ed25519,
		node.Options{Solo: solo && !leaderCheck},
	).Run(exitSignal)
}
