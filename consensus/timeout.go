// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/jail"
)

// SlotTimeout closes slot. The scheduled proposer is accounted the slot, and a miss
// when no block was committed, which may jail it. A closed slot accepts no block.
// It reports whether the proposer got jailed.
func (c *Consensus) SlotTimeout(slot uint64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx := c.cur
	if ctx == nil || ctx.Slot != slot {
		return false, reject(ErrBlockRejected, "slot %d is not the current slot", slot)
	}
	if ctx.closed {
		return false, nil
	}
	ctx.closed = true
	if ctx.Proposer.IsZero() {
		return false, nil
	}

	st := c.store.State()
	v, err := st.GetValidator(ctx.Proposer)
	if err != nil {
		return false, err
	}
	if v == nil {
		return false, nil
	}
	v.Stats.SlotsAssigned++
	if err := st.SetValidator(v); err != nil {
		return false, err
	}

	jailed := false
	if !ctx.committed {
		metricMissed().Add(1)
		now := hs.SlotTime(c.genesisTime, slot+1)
		if jailed, err = jail.New(st).RecordMiss(ctx.Proposer, now); err != nil {
			return false, err
		}
		logger.Debug("slot missed", "slot", slot, "proposer", ctx.Proposer, "jailed", jailed)
	}
	if _, err := st.Commit(); err != nil {
		return false, err
	}
	return jailed, nil
}
