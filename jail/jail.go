// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package jail tracks consecutive missed proposals and moves validators in and out of jail.
// Jailing is event driven: it reacts to every slot outcome and never touches the score.
package jail

import (
	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/log"
	"github.com/vexidus/hypersync/state"
)

var logger = log.WithContext("pkg", "jail")

// Manager applies jail transitions to a state.
type Manager struct {
	state *state.State
}

// New create a new instance.
func New(st *state.State) *Manager {
	return &Manager{state: st}
}

// RecordMiss counts a missed proposal of validator id and jails it once the
// consecutive misses reach the threshold. It reports whether id got jailed by this call.
func (m *Manager) RecordMiss(id hs.Address, now uint64) (bool, error) {
	v, err := m.state.GetValidator(id)
	if err != nil {
		return false, err
	}
	if v == nil {
		return false, ErrUnknownValidator.With("%v", id)
	}
	metricMissed().Add(1)

	v.MissedBlocks++
	jailed := false
	if !v.Jailed && v.MissedBlocks >= hs.JailThreshold() {
		v.Jailed = true
		v.JailReleaseTime = now + hs.JailCooldown()
		jailed = true
		metricJailed().Add(1)
		logger.Info("validator jailed", "validator", v.ID, "missed", v.MissedBlocks, "release", v.JailReleaseTime)
	} else {
		logger.Debug("missed block", "validator", v.ID, "missed", v.MissedBlocks)
	}
	return jailed, m.state.SetValidator(v)
}

// RecordProposal resets the consecutive miss counter of validator id.
func (m *Manager) RecordProposal(id hs.Address) error {
	v, err := m.state.GetValidator(id)
	if err != nil {
		return err
	}
	if v == nil {
		return ErrUnknownValidator.With("%v", id)
	}
	if v.MissedBlocks == 0 {
		return nil
	}
	v.MissedBlocks = 0
	return m.state.SetValidator(v)
}

// Unjail releases the validator identified by addr, its id or its staker, once the
// cooldown elapsed. The miss counter is reset, the score is kept.
func (m *Manager) Unjail(addr hs.Address, now uint64) error {
	v, err := m.lookup(addr)
	if err != nil {
		return err
	}
	if !v.Jailed {
		return ErrNotJailed
	}
	if now < v.JailReleaseTime {
		return ErrCooldownNotElapsed.With("release at %d, now %d", v.JailReleaseTime, now)
	}

	v.Jailed = false
	v.JailReleaseTime = 0
	v.MissedBlocks = 0
	if err := m.state.SetValidator(v); err != nil {
		return err
	}
	metricUnjailed().Add(1)
	logger.Info("validator unjailed", "validator", v.ID)
	return nil
}

func (m *Manager) lookup(addr hs.Address) (*state.Validator, error) {
	v, err := m.state.GetValidator(addr)
	if err != nil || v != nil {
		return v, err
	}
	id, ok, err := m.state.ValidatorOf(addr)
	if err != nil {
		return nil, err
	}
	if ok {
		if v, err = m.state.GetValidator(id); err != nil {
			return nil, err
		}
	}
	if v == nil {
		return nil, ErrUnknownValidator.With("%v", addr)
	}
	return v, nil
}
