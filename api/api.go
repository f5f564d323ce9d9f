// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves the HTTP JSON interface of the node.
package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vexidus/hypersync/api/accounts"
	"github.com/vexidus/hypersync/api/epoch"
	"github.com/vexidus/hypersync/api/staking"
	"github.com/vexidus/hypersync/api/transactions"
	"github.com/vexidus/hypersync/api/validators"
	"github.com/vexidus/hypersync/consensus"
	"github.com/vexidus/hypersync/log"
	"github.com/vexidus/hypersync/state"
	"github.com/vexidus/hypersync/txpool"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EnableReqLogger bool
	EnableMetrics   bool
}

// New return api router
func New(
	store *state.Store,
	cons *consensus.Consensus,
	txPool *txpool.TxPool,
	opts Options,
) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(store).
		Mount(router, "/accounts")
	validators.New(store).
		Mount(router, "/validators")
	staking.New(store).
		Mount(router, "/staking")
	epoch.New(store, cons).
		Mount(router, "/epoch")
	transactions.New(store, txPool).
		Mount(router, "/transactions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP
}
