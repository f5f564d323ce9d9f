// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validators

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vexidus/hypersync/api/utils"
	"github.com/vexidus/hypersync/staker"
	"github.com/vexidus/hypersync/state"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

type Validators struct {
	store *state.Store
}

func New(store *state.Store) *Validators {
	return &Validators{store}
}

func (v *Validators) handleGetValidator(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	val, err := staker.New(v.store.State()).Get(addr)
	if err != nil {
		return err
	}
	if val == nil {
		return utils.NotFound("validator")
	}
	return utils.WriteJSON(w, convertValidator(val))
}

func (v *Validators) handleListValidators(w http.ResponseWriter, req *http.Request) error {
	limit, err := utils.ParseLimit(req.URL.Query().Get("limit"), defaultLimit, maxLimit)
	if err != nil {
		return err
	}
	vals, err := staker.New(v.store.State()).List(limit)
	if err != nil {
		return err
	}
	list := make([]*Summary, 0, len(vals))
	for _, val := range vals {
		list = append(list, convertSummary(val))
	}
	return utils.WriteJSON(w, list)
}

func (v *Validators) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /validators").
		HandlerFunc(utils.WrapHandlerFunc(v.handleListValidators))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /validators/{address}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetValidator))
}
