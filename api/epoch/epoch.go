// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vexidus/hypersync/api/utils"
	"github.com/vexidus/hypersync/consensus"
	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/pos"
	"github.com/vexidus/hypersync/state"
)

const maxSchedule = 1000

// Slot is a scheduled proposal.
type Slot struct {
	Slot     uint64     `json:"slot"`
	Epoch    uint64     `json:"epoch"`
	Time     uint64     `json:"time"`
	Proposer hs.Address `json:"proposer"`
}

// Epoch is the running epoch with the upcoming proposers.
type Epoch struct {
	Number    uint64       `json:"number"`
	StartTime uint64       `json:"startTime"`
	Duration  uint64       `json:"duration"`
	Seed      hs.Bytes32   `json:"seed"`
	ActiveSet []hs.Address `json:"activeSet"`
	Current   *Slot        `json:"current"`
	Schedule  []Slot       `json:"schedule"`
}

type Epochs struct {
	store *state.Store
	cons  *consensus.Consensus
}

func New(store *state.Store, cons *consensus.Consensus) *Epochs {
	return &Epochs{store, cons}
}

func (e *Epochs) handleGetEpoch(w http.ResponseWriter, req *http.Request) error {
	n, err := utils.ParseLimit(req.URL.Query().Get("schedule"), int(hs.SlotsPerEpoch()), maxSchedule)
	if err != nil {
		return err
	}
	cur, err := e.store.State().GetEpoch()
	if err != nil {
		return err
	}
	if cur == nil {
		return utils.NotFound("epoch")
	}

	res := &Epoch{
		Number:    cur.Number,
		StartTime: cur.StartTime,
		Duration:  cur.Duration,
		Seed:      cur.Seed,
		ActiveSet: cur.ActiveSet,
		Schedule:  []Slot{},
	}
	if info, ok := e.cons.Current(); ok {
		res.Current = convertSlot(info)
	}

	schedule, err := e.cons.Schedule(n)
	if err != nil && !errors.Is(err, pos.ErrNoEligibleValidators) {
		return err
	}
	for _, info := range schedule {
		res.Schedule = append(res.Schedule, *convertSlot(info))
	}
	return utils.WriteJSON(w, res)
}

func convertSlot(info consensus.SlotInfo) *Slot {
	return &Slot{
		Slot:     info.Slot,
		Epoch:    info.Epoch,
		Time:     info.Time,
		Proposer: info.Proposer,
	}
}

func (e *Epochs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /epoch").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetEpoch))
}
