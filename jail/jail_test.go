// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package jail

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/lvldb"
	"github.com/vexidus/hypersync/reverts"
	"github.com/vexidus/hypersync/state"
)

var (
	valID  = hs.BytesToAddress([]byte{0xaa})
	staker = hs.BytesToAddress([]byte{0x01})
)

func newManager(t *testing.T) (*Manager, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store, err := state.NewStore(db)
	require.NoError(t, err)

	st := store.State()
	v := state.NewValidator(valID, staker)
	v.Stake = 1000
	v.Active = true
	v.SetScore(0.73)
	require.NoError(t, st.SetValidator(v))
	st.BindStaker(staker, valID)
	return New(st), st
}

func get(t *testing.T, st *state.State) *state.Validator {
	v, err := st.GetValidator(valID)
	require.NoError(t, err)
	require.NotNil(t, v)
	return v
}

func TestJailAfterThreshold(t *testing.T) {
	m, st := newManager(t)
	now := uint64(1_000_000)

	for i := uint64(1); i < hs.JailThreshold(); i++ {
		jailed, err := m.RecordMiss(valID, now)
		require.NoError(t, err)
		assert.False(t, jailed)
		assert.Equal(t, i, get(t, st).MissedBlocks)
	}
	jailed, err := m.RecordMiss(valID, now)
	require.NoError(t, err)
	assert.True(t, jailed)

	v := get(t, st)
	assert.True(t, v.Jailed)
	assert.Equal(t, now+hs.JailCooldown(), v.JailReleaseTime)
	assert.False(t, v.Eligible())

	// further misses keep the release time
	jailed, err = m.RecordMiss(valID, now+10)
	require.NoError(t, err)
	assert.False(t, jailed)
	assert.Equal(t, now+hs.JailCooldown(), get(t, st).JailReleaseTime)
}

func TestProposalResetsMisses(t *testing.T) {
	m, st := newManager(t)

	for i := uint64(0); i < hs.JailThreshold()-1; i++ {
		_, err := m.RecordMiss(valID, 1)
		require.NoError(t, err)
	}
	require.NoError(t, m.RecordProposal(valID))
	assert.Zero(t, get(t, st).MissedBlocks)

	jailed, err := m.RecordMiss(valID, 1)
	require.NoError(t, err)
	assert.False(t, jailed)
}

func TestUnjail(t *testing.T) {
	m, st := newManager(t)
	now := uint64(5000)

	err := m.Unjail(valID, now)
	assert.True(t, errors.Is(err, ErrNotJailed))

	for i := uint64(0); i < hs.JailThreshold(); i++ {
		_, err := m.RecordMiss(valID, now)
		require.NoError(t, err)
	}

	err = m.Unjail(valID, now+hs.JailCooldown()-1)
	assert.True(t, errors.Is(err, ErrCooldownNotElapsed))
	assert.True(t, reverts.IsRevertErr(err))
	assert.True(t, get(t, st).Jailed)

	// by staker address
	require.NoError(t, m.Unjail(staker, now+hs.JailCooldown()))
	v := get(t, st)
	assert.False(t, v.Jailed)
	assert.Zero(t, v.MissedBlocks)
	assert.Zero(t, v.JailReleaseTime)
	assert.Equal(t, 0.73, v.Score())
	assert.True(t, v.Eligible())
}

func TestUnknownValidator(t *testing.T) {
	m, _ := newManager(t)
	other := hs.BytesToAddress([]byte{0xbb})

	_, err := m.RecordMiss(other, 1)
	assert.True(t, errors.Is(err, ErrUnknownValidator))
	assert.True(t, errors.Is(m.RecordProposal(other), ErrUnknownValidator))
	assert.True(t, errors.Is(m.Unjail(other, 1), ErrUnknownValidator))
}
