// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/lvldb"
	"github.com/vexidus/hypersync/state"
)

func addr(b byte) hs.Address {
	return hs.BytesToAddress([]byte{b})
}

func newStaker(t *testing.T, balances map[hs.Address]uint64) (*Staker, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store, err := state.NewStore(db)
	require.NoError(t, err)

	st := store.State()
	for a, b := range balances {
		require.NoError(t, st.AddBalance(a, b))
	}
	return New(st), st
}

func balance(t *testing.T, st *state.State, a hs.Address) uint64 {
	b, err := st.GetBalance(a)
	require.NoError(t, err)
	return b
}

func TestStakeBelowMinimum(t *testing.T) {
	alice, val := addr(1), addr(100)
	s, st := newStaker(t, map[hs.Address]uint64{alice: 5000})

	err := s.Stake(alice, 999, val)
	assert.True(t, errors.Is(err, ErrInsufficientAmount))
	assert.True(t, IsRevertErr(err))

	// state untouched
	assert.Equal(t, uint64(5000), balance(t, st, alice))
	v, err := s.Get(val)
	require.NoError(t, err)
	assert.Nil(t, v)
	_, bound, err := st.ValidatorOf(alice)
	require.NoError(t, err)
	assert.False(t, bound)
}

func TestStake(t *testing.T) {
	alice, bob, val := addr(1), addr(2), addr(100)
	s, st := newStaker(t, map[hs.Address]uint64{alice: 5000, bob: 5000})

	require.NoError(t, s.Stake(alice, 1000, val))
	assert.Equal(t, uint64(4000), balance(t, st, alice))

	v, err := s.Get(val)
	require.NoError(t, err)
	assert.Equal(t, alice, v.Staker)
	assert.Equal(t, uint64(1000), v.Stake)
	assert.False(t, v.Active, "admission waits for the epoch boundary")
	assert.True(t, v.Pending)
	assert.Equal(t, hs.InitialScore, v.Score())

	// lookup by staker
	byStaker, err := s.Get(alice)
	require.NoError(t, err)
	assert.Equal(t, v, byStaker)

	// top-up below the minimum is fine once the total reaches it
	require.NoError(t, s.Stake(alice, 1, val))
	v, err = s.Get(val)
	require.NoError(t, err)
	assert.Equal(t, uint64(1001), v.Stake)

	tests := []struct {
		name   string
		staker hs.Address
		amount uint64
		target hs.Address
		want   error
	}{
		{"zero", alice, 0, val, ErrZeroAmount},
		{"other staker", bob, 1000, val, ErrNotStaker},
		{"bound elsewhere", alice, 1000, addr(101), ErrStakerBound},
		{"short balance", bob, 6000, addr(102), ErrInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Stake(tt.staker, tt.amount, tt.target)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestStakeAccumulatesHeldStake(t *testing.T) {
	alice, val := addr(1), addr(100)
	s, _ := newStaker(t, map[hs.Address]uint64{alice: 5000})

	require.NoError(t, s.Stake(alice, 1000, val))
	_, err := s.Unstake(alice, 600, 0)
	require.NoError(t, err)

	v, err := s.Get(val)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), v.Stake)
	assert.False(t, v.Pending)

	assert.True(t, errors.Is(s.Stake(alice, 500, val), ErrInsufficientAmount))
	require.NoError(t, s.Stake(alice, 600, val))
	v, err = s.Get(val)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), v.Stake)
	assert.True(t, v.Pending)
}

func TestRestakeAfterFullUnstake(t *testing.T) {
	alice, val := addr(1), addr(100)
	s, st := newStaker(t, map[hs.Address]uint64{alice: 5000})

	require.NoError(t, s.Stake(alice, 1000, val))
	v, err := s.Get(val)
	require.NoError(t, err)
	v.Active, v.Pending = true, false
	require.NoError(t, st.SetValidator(v))

	// an active validator above the minimum may top up by any amount
	require.NoError(t, s.Stake(alice, 1, val))

	_, err = s.Unstake(alice, 1001, 0)
	require.NoError(t, err)

	err = s.Stake(alice, 500, val)
	assert.True(t, errors.Is(err, ErrInsufficientAmount))
	v, err = s.Get(val)
	require.NoError(t, err)
	assert.Zero(t, v.Stake)
	assert.True(t, v.Pending, "leaves the active set at the next boundary")

	require.NoError(t, s.Stake(alice, 1000, val))
	v, err = s.Get(val)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), v.Stake)
	assert.False(t, v.Pending, "back at the minimum, stays active")
}

func TestUnstake(t *testing.T) {
	alice, val := addr(1), addr(100)
	s, st := newStaker(t, map[hs.Address]uint64{alice: 5000})

	_, err := s.Unstake(alice, 1, 0)
	assert.True(t, errors.Is(err, ErrNotStaker))

	require.NoError(t, s.Stake(alice, 3000, val))

	// admit, as the epoch transition would
	v, err := s.Get(val)
	require.NoError(t, err)
	v.Active, v.Pending = true, false
	require.NoError(t, st.SetValidator(v))

	_, err = s.Unstake(alice, 3001, 100)
	assert.True(t, errors.Is(err, ErrInsufficientStake))
	_, err = s.Unstake(alice, 2500, 100)
	assert.True(t, errors.Is(err, ErrRemainingBelowMin))
	_, err = s.Unstake(alice, 0, 100)
	assert.True(t, errors.Is(err, ErrZeroAmount))

	id0, err := s.Unstake(alice, 2000, 100)
	require.NoError(t, err)
	id1, err := s.Unstake(alice, 1000, 200)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id0)
	assert.Equal(t, uint64(1), id1)

	v, err = s.Get(val)
	require.NoError(t, err)
	assert.Zero(t, v.Stake)
	assert.True(t, v.Pending, "active validator fell below the minimum")
	require.Len(t, v.Unbonding, 2)
	assert.Equal(t, 100+hs.UnbondingPeriod(), v.Unbonding[0].ReleaseTime)
	assert.Equal(t, uint64(3000), v.Unbonded())
	assert.Equal(t, uint64(2000), balance(t, st, alice), "unbonding stake is not paid out")
}

func TestClaimUnstake(t *testing.T) {
	alice, val := addr(1), addr(100)
	s, st := newStaker(t, map[hs.Address]uint64{alice: 5000})

	require.NoError(t, s.Stake(alice, 2000, val))
	id, err := s.Unstake(alice, 500, 1000)
	require.NoError(t, err)
	release := 1000 + hs.UnbondingPeriod()

	_, err = s.ClaimUnstake(alice, id, release-1)
	assert.True(t, errors.Is(err, ErrNotYetReleasable))
	_, err = s.ClaimUnstake(alice, id+1, release)
	assert.True(t, errors.Is(err, ErrRequestNotFound))

	amount, err := s.ClaimUnstake(alice, id, release)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), amount)
	assert.Equal(t, uint64(3500), balance(t, st, alice))

	_, err = s.ClaimUnstake(alice, id, release+1)
	assert.True(t, errors.Is(err, ErrRequestNotFound), "replay fails")
	assert.Equal(t, uint64(3500), balance(t, st, alice))

	v, err := s.Get(val)
	require.NoError(t, err)
	assert.Empty(t, v.Unbonding)
}

func TestCommissionAndMetadata(t *testing.T) {
	alice, val := addr(1), addr(100)
	s, _ := newStaker(t, map[hs.Address]uint64{alice: 5000})

	assert.True(t, errors.Is(s.SetCommission(alice, 100), ErrNotStaker))
	require.NoError(t, s.Stake(alice, 1000, val))

	require.NoError(t, s.SetCommission(alice, 5000))
	assert.True(t, errors.Is(s.SetCommission(alice, 5001), ErrCommissionTooHigh))

	md := state.Metadata{Name: "alice", Description: "fast", URL: "https://alice.example", AvatarURL: "https://alice.example/a.png"}
	require.NoError(t, s.SetMetadata(alice, md))
	tooLong := md
	tooLong.Description = strings.Repeat("x", hs.MaxMetadataLength+1)
	assert.True(t, errors.Is(s.SetMetadata(alice, tooLong), ErrMetadataTooLong))

	v, err := s.Get(val)
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), v.CommissionBPS)
	assert.Equal(t, md, v.Metadata)
	assert.Equal(t, uint64(1000), v.Stake, "metadata does not touch stake")
}

func TestListAndInfo(t *testing.T) {
	balances := map[hs.Address]uint64{addr(1): 9000, addr(2): 9000, addr(3): 9000}
	s, st := newStaker(t, balances)

	require.NoError(t, s.Stake(addr(1), 2000, addr(13)))
	require.NoError(t, s.Stake(addr(2), 3000, addr(12)))
	require.NoError(t, s.Stake(addr(3), 2000, addr(11)))

	v, err := s.Get(addr(12))
	require.NoError(t, err)
	v.Active = true
	require.NoError(t, st.SetValidator(v))

	vals, err := s.List(0)
	require.NoError(t, err)
	var ids []hs.Address
	for _, v := range vals {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []hs.Address{addr(12), addr(11), addr(13)}, ids)

	vals, err = s.List(2)
	require.NoError(t, err)
	assert.Len(t, vals, 2)

	info, err := s.Info()
	require.NoError(t, err)
	assert.Equal(t, &Info{TotalStaked: 7000, ActiveCount: 1, ValidatorCount: 3}, info)
}
