// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vexidus/hypersync/api/utils"
	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/staker"
	"github.com/vexidus/hypersync/state"
)

// Info is the global staking figures.
type Info struct {
	TotalStaked    uint64    `json:"totalStaked"`
	ActiveCount    int       `json:"activeCount"`
	ValidatorCount int       `json:"validatorCount"`
	Config         hs.Config `json:"config"`
}

type Staking struct {
	store *state.Store
}

func New(store *state.Store) *Staking {
	return &Staking{store}
}

func (s *Staking) handleGetInfo(w http.ResponseWriter, _ *http.Request) error {
	info, err := staker.New(s.store.State()).Info()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Info{
		TotalStaked:    info.TotalStaked,
		ActiveCount:    info.ActiveCount,
		ValidatorCount: info.ValidatorCount,
		Config:         hs.GetConfig(),
	})
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /staking").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetInfo))
}
