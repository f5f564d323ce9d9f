// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vexidus/hypersync/api/utils"
	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/state"
	"github.com/vexidus/hypersync/tx"
	"github.com/vexidus/hypersync/txpool"
)

var errEmptyBody = errors.New("empty body")

type Transactions struct {
	store *state.Store
	pool  *txpool.TxPool
}

func New(store *state.Store, pool *txpool.TxPool) *Transactions {
	return &Transactions{
		store,
		pool,
	}
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var raw *RawTx
	if err := utils.ParseJSON(req.Body, &raw); err != nil {
		return utils.BadRequest(err, "body")
	}
	if raw == nil {
		return utils.BadRequest(errEmptyBody, "body")
	}
	trx, err := raw.decode()
	if err != nil {
		return utils.BadRequest(err, "raw")
	}

	if err := t.pool.AddLocal(trx); err != nil {
		if txpool.IsBadTx(err) {
			return utils.BadRequest(err, "bad tx")
		}
		if txpool.IsTxRejected(err) {
			return utils.Forbidden(err, "rejected tx")
		}
		return err
	}
	metricTxSent().AddWithLabel(1, map[string]string{"kind": trx.Kind().String()})
	return utils.WriteJSON(w, map[string]string{
		"id": trx.ID().String(),
	})
}

func (t *Transactions) handleGetTransactionByID(w http.ResponseWriter, req *http.Request) error {
	txID, err := hs.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(err, "id")
	}
	pending := t.pool.Get(txID)
	if pending == nil {
		return utils.NotFound("pending transaction")
	}
	return utils.WriteJSON(w, convertTransaction(pending))
}

func (t *Transactions) handleGetTransactionReceiptByID(w http.ResponseWriter, req *http.Request) error {
	txID, err := hs.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(err, "id")
	}
	raw, err := t.store.State().GetReceipt(txID)
	if err != nil {
		return err
	}
	if raw == nil {
		return utils.WriteJSON(w, nil)
	}
	receipt, err := tx.DecodeReceipt(raw)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertReceipt(receipt))
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /transactions").
		HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /transactions/{id}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionByID))
	sub.Path("/{id}/receipt").
		Methods(http.MethodGet).
		Name("GET /transactions/{id}/receipt").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionReceiptByID))
}
