// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vexidus/hypersync/log"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the state database and the master key",
	}
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to the YAML genesis file, defaults to a devnet in solo mode",
	}
	keyFileFlag = cli.StringFlag{
		Name:  "key-file",
		Usage: "path to the validator key file, generated if missing (defaults to <data-dir>/master.key)",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "",
		Usage: "metrics service listening address, disabled if empty",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "",
		Usage: "admin service listening address, disabled if empty",
	}
	noLeaderCheckFlag = cli.BoolFlag{
		Name:  "no-leader-check",
		Usage: "accept blocks from any signer, only for test networks",
	}
	soloFlag = cli.BoolFlag{
		Name:  "solo",
		Usage: "run a standalone in-memory node on a devnet",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: log.LvlInfo,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "log-json",
		Usage: "output logs in JSON format",
	}
)
