// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package consensus drives the per slot protocol: epoch boundaries, leader checks,
// block application with rewards, vote tallying and missed slot accounting.
package consensus

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/vexidus/hypersync/cache"
	"github.com/vexidus/hypersync/epoch"
	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/keystore"
	"github.com/vexidus/hypersync/log"
	"github.com/vexidus/hypersync/pos"
	"github.com/vexidus/hypersync/state"
)

var logger = log.WithContext("pkg", "consensus")

const schedulerCacheSize = 16

// Options tunes the consensus rules of a node.
type Options struct {
	// LeaderCheck rejects blocks not signed by the scheduled proposer.
	// Disabled, any signer is accepted and an empty schedule is not fatal.
	LeaderCheck bool
}

// SlotInfo describes a begun slot.
type SlotInfo struct {
	Slot     uint64
	Epoch    uint64
	Time     uint64     // start time of the slot
	Proposer hs.Address // zero when nobody is eligible
}

type slotContext struct {
	SlotInfo
	epoch     *state.Epoch
	sched     *pos.Scheduler
	committed bool
	closed    bool
}

// Consensus applies the protocol to the state store. It is safe for concurrent use,
// all mutation is serialized.
type Consensus struct {
	mu          sync.Mutex
	store       *state.Store
	verifier    keystore.Verifier
	genesisTime uint64
	opts        Options

	scheds *cache.LRU[uint64, *pos.Scheduler]
	votes  *voteLedger
	cur    *slotContext
}

// New create a Consensus instance on top of an initialized store.
func New(store *state.Store, verifier keystore.Verifier, genesisTime uint64, opts Options) *Consensus {
	scheds, _ := cache.NewLRU[uint64, *pos.Scheduler](schedulerCacheSize)
	return &Consensus{
		store:       store,
		verifier:    verifier,
		genesisTime: genesisTime,
		opts:        opts,
		scheds:      scheds,
		votes:       newVoteLedger(),
	}
}

// GenesisTime returns the launch time of the chain.
func (c *Consensus) GenesisTime() uint64 {
	return c.genesisTime
}

// Current returns the slot in process, or false before the first BeginSlot.
func (c *Consensus) Current() (SlotInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return SlotInfo{}, false
	}
	return c.cur.SlotInfo, true
}

// BeginSlot opens slot. An epoch boundary crossed since the previous slot is processed first,
// then the proposer is drawn from the start of slot snapshot.
func (c *Consensus) BeginSlot(slot uint64) (*SlotInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cur != nil && slot <= c.cur.Slot {
		return nil, reject(ErrBlockRejected, "slot %d not after %d", slot, c.cur.Slot)
	}

	st := c.store.State()
	cur, err := st.GetEpoch()
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, errors.New("state not initialized with genesis")
	}
	for target := hs.EpochOf(slot); cur.Number < target; {
		next := cur.Number + 1
		if _, err := epoch.Advance(st, next, hs.SlotTime(c.genesisTime, next*hs.SlotsPerEpoch())); err != nil {
			return nil, errors.Wrapf(err, "advance epoch %d", next)
		}
		if cur, err = st.GetEpoch(); err != nil {
			return nil, err
		}
	}
	if st.Changed() {
		if _, err := st.Commit(); err != nil {
			return nil, err
		}
		c.votes.prune(cur.Number)
	}

	ctx := &slotContext{
		SlotInfo: SlotInfo{
			Slot:  slot,
			Epoch: cur.Number,
			Time:  hs.SlotTime(c.genesisTime, slot),
		},
		epoch: cur,
	}
	sched, err := c.scheduler()
	switch {
	case err == nil:
		ctx.sched = sched
		ctx.Proposer = sched.Proposer(slot)
	case errors.Is(err, pos.ErrNoEligibleValidators) && !c.opts.LeaderCheck:
		logger.Warn("no eligible validators", "slot", slot)
	default:
		return nil, err
	}
	c.cur = ctx

	metricSlot().Set(int64(slot))
	logger.Debug("slot begun", "slot", slot, "epoch", cur.Number, "proposer", ctx.Proposer)
	info := ctx.SlotInfo
	return &info, nil
}

// scheduler returns the scheduler of the current store version.
func (c *Consensus) scheduler() (*pos.Scheduler, error) {
	return c.scheds.GetOrLoad(c.store.Version(), func(uint64) (*pos.Scheduler, error) {
		st := c.store.State()
		e, err := st.GetEpoch()
		if err != nil {
			return nil, err
		}
		vals, err := st.Validators()
		if err != nil {
			return nil, err
		}
		return pos.NewScheduler(pos.ProposersOf(vals), e.Seed)
	})
}

// Schedule lists the proposers of the n slots following the current one, as drawn from
// the current snapshot. Later state changes may alter the assignment.
func (c *Consensus) Schedule(n int) ([]SlotInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	from := uint64(0)
	if c.cur != nil {
		from = c.cur.Slot
	}
	sched, err := c.scheduler()
	if err != nil {
		return nil, err
	}
	list := make([]SlotInfo, 0, n)
	for i, p := range sched.Schedule(from, n) {
		slot := from + uint64(i)
		list = append(list, SlotInfo{
			Slot:     slot,
			Epoch:    hs.EpochOf(slot),
			Time:     hs.SlotTime(c.genesisTime, slot),
			Proposer: p,
		})
	}
	return list, nil
}
