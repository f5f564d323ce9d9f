// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vexidus/hypersync/api/utils"
	"github.com/vexidus/hypersync/state"
)

// Account is the balance and nonce of an address.
type Account struct {
	Balance uint64 `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

type Accounts struct {
	store *state.Store
}

func New(store *state.Store) *Accounts {
	return &Accounts{store}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	acc, err := a.store.State().GetAccount(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{
		Balance: acc.Balance,
		Nonce:   acc.Nonce,
	})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
