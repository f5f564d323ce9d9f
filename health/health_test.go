// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/lvldb"
	"github.com/vexidus/hypersync/state"
)

func newStore(t *testing.T) *state.Store {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := state.NewStore(db)
	require.NoError(t, err)
	return store
}

func commitHead(t *testing.T, store *state.Store, head *state.Head) {
	st := store.State()
	require.NoError(t, st.SetHead(head))
	_, err := st.Commit()
	require.NoError(t, err)
}

func TestNoBlock(t *testing.T) {
	h := New(newStore(t), time.Second)
	require.NoError(t, h.poll())

	status := h.Status()
	assert.False(t, status.Healthy)
	assert.Nil(t, status.BlockIngestion.ID)
}

func TestNewBestBlock(t *testing.T) {
	store := newStore(t)
	h := New(store, 3*time.Second)

	id := hs.Bytes32{0x01, 0x02, 0x03}
	commitHead(t, store, &state.Head{Slot: 7, Number: 2, ID: id})
	require.NoError(t, h.poll())

	status := h.Status()
	assert.True(t, status.Healthy)
	assert.Equal(t, id, *status.BlockIngestion.ID)
	assert.Equal(t, uint64(2), status.BlockIngestion.Number)
	assert.Equal(t, uint64(7), status.BlockIngestion.Slot)
	assert.Nil(t, status.BlockIngestion.Finalized)
	assert.WithinDuration(t, time.Now(), *status.BlockIngestion.Timestamp, time.Second)

	// stale after the interval plus slack
	assert.False(t, h.status(time.Now().Add(3*time.Second+delayBuffer+time.Second)).Healthy)
}

func TestFinalityKeepsTimestamp(t *testing.T) {
	store := newStore(t)
	h := New(store, time.Second)

	id := hs.Bytes32{0x0a}
	commitHead(t, store, &state.Head{Slot: 1, Number: 1, ID: id})
	require.NoError(t, h.poll())
	first := *h.Status().BlockIngestion.Timestamp

	commitHead(t, store, &state.Head{Slot: 1, Number: 1, ID: id, Finalized: id})
	require.NoError(t, h.poll())

	status := h.Status()
	assert.Equal(t, id, *status.BlockIngestion.Finalized)
	assert.Equal(t, first, *status.BlockIngestion.Timestamp)
}
