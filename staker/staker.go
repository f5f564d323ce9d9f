// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staker is the stake ledger: validator admission stake, unbonding requests,
// commission and profile metadata.
package staker

import (
	"cmp"
	"slices"

	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/log"
	"github.com/vexidus/hypersync/state"
)

var logger = log.WithContext("pkg", "staker")

// Staker applies stake ledger operations to a state.
// Each operation first validates without writing, then mutates.
type Staker struct {
	state *state.State
}

// New create a new instance.
func New(st *state.State) *Staker {
	return &Staker{state: st}
}

// Info summarizes the ledger.
type Info struct {
	TotalStaked    uint64
	ActiveCount    int
	ValidatorCount int
}

//
// Getters - no state change
//

// Get returns the validator identified by addr, which may be the validator id or its staker.
// It returns nil if addr is neither.
func (s *Staker) Get(addr hs.Address) (*state.Validator, error) {
	v, err := s.state.GetValidator(addr)
	if err != nil || v != nil {
		return v, err
	}
	id, ok, err := s.state.ValidatorOf(addr)
	if err != nil || !ok {
		return nil, err
	}
	return s.state.GetValidator(id)
}

// List returns up to limit validators ordered by stake descending, then id ascending.
// A zero limit lists all.
func (s *Staker) List(limit int) ([]*state.Validator, error) {
	vals, err := s.state.Validators()
	if err != nil {
		return nil, err
	}
	SortByStake(vals)
	if limit > 0 && len(vals) > limit {
		vals = vals[:limit]
	}
	return vals, nil
}

// Info returns the global staking figures.
func (s *Staker) Info() (*Info, error) {
	vals, err := s.state.Validators()
	if err != nil {
		return nil, err
	}
	info := &Info{ValidatorCount: len(vals)}
	for _, v := range vals {
		info.TotalStaked += v.Stake
		if v.Active {
			info.ActiveCount++
		}
	}
	return info, nil
}

// SortByStake orders validators by stake descending, ties by id ascending.
func SortByStake(vals []*state.Validator) {
	slices.SortFunc(vals, func(a, b *state.Validator) int {
		if c := cmp.Compare(b.Stake, a.Stake); c != 0 {
			return c
		}
		return a.ID.Compare(b.ID)
	})
}

//
// Setters - state change
//

// Stake moves amount from the staker's balance into validator id's stake. The first stake
// registers the validator and binds it to the staker. A validator outside the active set,
// or holding less than the minimum, needs a total stake of at least the minimum.
func (s *Staker) Stake(staker hs.Address, amount uint64, id hs.Address) (err error) {
	defer func() { countOp("stake", err) }()
	logger.Debug("staking", "staker", staker, "validator", id, "amount", amount)

	// validation phase, no state writes
	if amount == 0 {
		return ErrZeroAmount
	}
	bound, isBound, err := s.state.ValidatorOf(staker)
	if err != nil {
		return err
	}
	if isBound && bound != id {
		return ErrStakerBound.With("bound to %v", bound)
	}
	v, err := s.state.GetValidator(id)
	if err != nil {
		return err
	}
	if v != nil && v.Staker != staker {
		return ErrNotStaker
	}
	balance, err := s.state.GetBalance(staker)
	if err != nil {
		return err
	}
	if balance < amount {
		return ErrInsufficientBalance.With("have %d, want %d", balance, amount)
	}
	var held uint64
	if v != nil {
		held = v.Stake
	}
	total := held + amount
	if total < held {
		return ErrInsufficientBalance.With("stake overflow")
	}
	// an active validator that unstaked below the minimum is treated as a newcomer
	if (v == nil || !v.Active || held < hs.MinStake()) && total < hs.MinStake() {
		return ErrInsufficientAmount.With("have %d, want %d", total, hs.MinStake())
	}

	// mutation phase
	if v == nil {
		v = state.NewValidator(id, staker)
		s.state.BindStaker(staker, id)
		logger.Info("validator registered", "validator", id, "staker", staker)
	}
	if _, err := s.state.SubBalance(staker, amount); err != nil {
		return err
	}
	v.Stake = total
	markPending(v)
	return s.state.SetValidator(v)
}

// Unstake removes amount from the usable stake and queues it for release after the
// unbonding period. It returns the id of the unbonding request.
// An admitted validator must keep at least the minimum stake, or unstake everything.
func (s *Staker) Unstake(staker hs.Address, amount uint64, now uint64) (_ uint64, err error) {
	defer func() { countOp("unstake", err) }()
	logger.Debug("unstaking", "staker", staker, "amount", amount)

	v, err := s.owned(staker)
	if err != nil {
		return 0, err
	}
	if amount == 0 {
		return 0, ErrZeroAmount
	}
	if amount > v.Stake {
		return 0, ErrInsufficientStake.With("have %d, want %d", v.Stake, amount)
	}
	remaining := v.Stake - amount
	if v.Active && remaining > 0 && remaining < hs.MinStake() {
		return 0, ErrRemainingBelowMin.With("remaining %d, minimum %d", remaining, hs.MinStake())
	}

	req := state.UnbondingRequest{
		ID:          v.NextRequestID,
		Amount:      amount,
		ReleaseTime: now + hs.UnbondingPeriod(),
	}
	v.Unbonding = append(v.Unbonding, req)
	v.NextRequestID++
	v.Stake = remaining
	markPending(v)
	if err := s.state.SetValidator(v); err != nil {
		return 0, err
	}
	logger.Debug("unbonding requested", "validator", v.ID, "request", req.ID, "release", req.ReleaseTime)
	return req.ID, nil
}

// ClaimUnstake pays out a released unbonding request to the staker and removes it.
// It returns the claimed amount.
func (s *Staker) ClaimUnstake(staker hs.Address, requestID uint64, now uint64) (_ uint64, err error) {
	defer func() { countOp("claim", err) }()

	v, err := s.owned(staker)
	if err != nil {
		return 0, err
	}
	i := v.Request(requestID)
	if i < 0 {
		return 0, ErrRequestNotFound.With("id %d", requestID)
	}
	req := v.Unbonding[i]
	if now < req.ReleaseTime {
		return 0, ErrNotYetReleasable.With("release at %d, now %d", req.ReleaseTime, now)
	}

	v.Unbonding = slices.Delete(v.Unbonding, i, i+1)
	if len(v.Unbonding) == 0 {
		v.Unbonding = nil
	}
	if err := s.state.AddBalance(staker, req.Amount); err != nil {
		return 0, err
	}
	if err := s.state.SetValidator(v); err != nil {
		return 0, err
	}
	return req.Amount, nil
}

// SetCommission sets the validator's commission in basis points.
func (s *Staker) SetCommission(staker hs.Address, bps uint64) (err error) {
	defer func() { countOp("commission", err) }()

	v, err := s.owned(staker)
	if err != nil {
		return err
	}
	if bps > hs.MaxCommission() {
		return ErrCommissionTooHigh.With("have %d, max %d", bps, hs.MaxCommission())
	}
	v.CommissionBPS = bps
	return s.state.SetValidator(v)
}

// SetMetadata replaces the validator's profile.
func (s *Staker) SetMetadata(staker hs.Address, md state.Metadata) (err error) {
	defer func() { countOp("metadata", err) }()

	v, err := s.owned(staker)
	if err != nil {
		return err
	}
	for _, field := range []string{md.Name, md.Description, md.URL, md.AvatarURL} {
		if len(field) > hs.MaxMetadataLength {
			return ErrMetadataTooLong.With("%d bytes, max %d", len(field), hs.MaxMetadataLength)
		}
	}
	v.Metadata = md
	return s.state.SetValidator(v)
}

// owned returns the validator bound to staker.
func (s *Staker) owned(staker hs.Address) (*state.Validator, error) {
	id, ok, err := s.state.ValidatorOf(staker)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotStaker
	}
	v, err := s.state.GetValidator(id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNotStaker
	}
	return v, nil
}

// markPending flags a validator whose stake crossed the minimum in either direction.
// The active set picks the change up at the next epoch boundary.
func markPending(v *state.Validator) {
	v.Pending = v.Active != (v.Stake >= hs.MinStake())
}
