// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/lvldb"
	"github.com/vexidus/hypersync/state"
)

const sample = `
launchTime: 1700000000
seed: "0x000000000000000000000000000000000000000000000000000000000000abcd"
config:
  minStake: 500
accounts:
  - address: "0x1111111111111111111111111111111111111111111111111111111111111111"
    balance: 7000
validators:
  - id: "0x2222222222222222222222222222222222222222222222222222222222222222"
    staker: "0x1111111111111111111111111111111111111111111111111111111111111111"
    stake: 800
    commission: 100
    name: alpha
`

func newStore(t *testing.T) *state.Store {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store, err := state.NewStore(db)
	require.NoError(t, err)
	return store
}

func TestParse(t *testing.T) {
	g, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, uint64(1700000000), g.LaunchTime)
	assert.Equal(t, uint64(500), g.Config.MinStake)
	require.Len(t, g.Validators, 1)
	assert.Equal(t, hs.MustParseAddress("0x1111111111111111111111111111111111111111111111111111111111111111"), g.Validators[0].Staker)
	assert.Equal(t, "alpha", g.Validators[0].Name)
	assert.Equal(t, g.ID(), g.ID())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		g    Genesis
	}{
		{"no validators", Genesis{}},
		{"below minimum", Genesis{Validators: []Validator{{ID: hs.BytesToAddress([]byte{1}), Stake: 1}}}},
		{"zero id", Genesis{Validators: []Validator{{Stake: hs.MinStake()}}}},
		{"duplicate", Genesis{Validators: []Validator{
			{ID: hs.BytesToAddress([]byte{1}), Stake: hs.MinStake()},
			{ID: hs.BytesToAddress([]byte{1}), Stake: hs.MinStake()},
		}}},
		{"commission", Genesis{Validators: []Validator{{ID: hs.BytesToAddress([]byte{1}), Stake: hs.MinStake(), Commission: 9999}}}},
		{"bad config", Genesis{Config: &hs.Config{BlockInterval: 7, EpochDuration: 10}, Validators: []Validator{{ID: hs.BytesToAddress([]byte{1}), Stake: hs.MinStake()}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.g.Validate())
		})
	}
}

func TestBuild(t *testing.T) {
	g := NewDevnet(1000, 3)
	require.NoError(t, g.Validate())
	store := newStore(t)
	require.NoError(t, g.Build(store))

	st := store.State()
	id, ok, err := st.GetGenesis()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, g.ID(), id)

	e, err := st.GetEpoch()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), e.Number)
	assert.Equal(t, g.Seed, e.Seed)
	assert.Len(t, e.ActiveSet, 3)

	keys := DevKeys()
	v, err := st.GetValidator(keys[0].PublicKey())
	require.NoError(t, err)
	assert.True(t, v.Active)
	assert.Equal(t, keys[0].PublicKey(), v.Staker)
	assert.Equal(t, "dev-0", v.Metadata.Name)

	bal, err := st.GetBalance(keys[9].PublicKey())
	require.NoError(t, err)
	assert.Equal(t, DevBalance, bal)

	// same genesis again is a no-op, another one is refused
	require.NoError(t, g.Build(store))
	assert.Error(t, NewDevnet(1001, 3).Build(store))
}

func TestDevKeys(t *testing.T) {
	assert.Len(t, DevKeys(), 10)
	assert.Equal(t, DevKeys()[3].PublicKey(), DevKeys()[3].PublicKey())
	assert.NotEqual(t, DevKeys()[0].PublicKey(), DevKeys()[1].PublicKey())
}
