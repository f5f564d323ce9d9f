// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package epoch runs the boundary processing between two epochs: reputation
// recalculation, active set admission, seed derivation and unbonding release.
package epoch

import (
	"github.com/pkg/errors"

	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/log"
	"github.com/vexidus/hypersync/pos"
	"github.com/vexidus/hypersync/reputation"
	"github.com/vexidus/hypersync/staker"
	"github.com/vexidus/hypersync/state"
)

var logger = log.WithContext("pkg", "epoch")

// Transition summarizes the processing of one epoch boundary.
type Transition struct {
	Number       uint64
	StartTime    uint64
	Seed         hs.Bytes32
	Active       []hs.Address // sorted ascending
	Admitted     []hs.Address
	Dropped      []hs.Address
	Recalculated int
	Claimable    int
}

// Start opens epoch 0 at genesis with the genesis seed. No reputation is computed.
func Start(st *state.State, seed hs.Bytes32, startTime uint64) (*Transition, error) {
	cur, err := st.GetEpoch()
	if err != nil {
		return nil, err
	}
	if cur != nil {
		return nil, errors.New("epoch already started")
	}
	return advance(st, 0, startTime, seed)
}

// Advance processes the boundary into epoch number, which must follow the current epoch.
func Advance(st *state.State, number uint64, startTime uint64) (*Transition, error) {
	cur, err := st.GetEpoch()
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, errors.New("epoch not started")
	}
	if number != cur.Number+1 {
		return nil, errors.Errorf("epoch %d does not follow %d", number, cur.Number)
	}
	return advance(st, number, startTime, pos.NextSeed(cur.Seed, number))
}

func advance(st *state.State, number, startTime uint64, seed hs.Bytes32) (*Transition, error) {
	vals, err := st.Validators()
	if err != nil {
		return nil, err
	}
	trans := &Transition{Number: number, StartTime: startTime, Seed: seed}

	// reputation of the ending epoch, over the set that served it
	if number > 0 {
		var served []*state.Validator
		for _, v := range vals {
			if v.Active {
				served = append(served, v)
			}
		}
		avg := reputation.AveragesOf(served)
		for _, v := range served {
			prev := v.Score()
			f := reputation.Recalculate(v, avg, number)
			logger.Debug("score updated", "validator", v.ID, "from", prev, "to", v.Score(), "delta", f.Delta())
		}
		trans.Recalculated = len(served)
	}

	// admission, capped by stake
	candidates := make([]*state.Validator, 0, len(vals))
	for _, v := range vals {
		if v.Stake >= hs.MinStake() {
			candidates = append(candidates, v)
		}
	}
	staker.SortByStake(candidates)
	admitted := make(map[hs.Address]bool, len(candidates))
	for i, v := range candidates {
		if uint64(i) >= hs.MaxActiveValidators() {
			break
		}
		admitted[v.ID] = true
	}

	for _, v := range vals {
		in := admitted[v.ID]
		switch {
		case in && !v.Active:
			v.BondedSince = number
			trans.Admitted = append(trans.Admitted, v.ID)
		case !in && v.Active:
			trans.Dropped = append(trans.Dropped, v.ID)
		}
		v.Active = in
		v.Pending = false
		if in {
			trans.Active = append(trans.Active, v.ID)
		}

		for i := range v.Unbonding {
			if r := &v.Unbonding[i]; !r.Claimable && r.ReleaseTime <= startTime {
				r.Claimable = true
				trans.Claimable++
			}
		}
		if err := st.SetValidator(v); err != nil {
			return nil, err
		}
	}
	hs.SortAddresses(trans.Active)

	if err := st.SetEpoch(&state.Epoch{
		Number:    number,
		StartTime: startTime,
		Duration:  hs.EpochDuration(),
		Seed:      seed,
		ActiveSet: trans.Active,
	}); err != nil {
		return nil, err
	}

	metricEpoch().Set(int64(number))
	metricActive().Set(int64(len(trans.Active)))
	metricAdmitted().Add(int64(len(trans.Admitted)))
	metricDropped().Add(int64(len(trans.Dropped)))
	logger.Info("epoch started",
		"number", number,
		"active", len(trans.Active),
		"admitted", len(trans.Admitted),
		"dropped", len(trans.Dropped),
		"claimable", trans.Claimable,
		"seed", seed.AbbrevString(),
	)
	return trans, nil
}
