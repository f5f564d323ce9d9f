// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexidus/hypersync/block"
	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/keystore"
	"github.com/vexidus/hypersync/tx"
)

func TestVotesFinalize(t *testing.T) {
	c := newTestChain(t, 3, Options{LeaderCheck: true})
	info := c.begin(0)
	blk := c.pack(0, c.keys[info.Proposer])
	_, err := c.cons.ProcessBlock(blk)
	require.NoError(t, err)
	id := blk.Header().ID()


	// prevotes do not count
	for i := 0; i < 3; i++ {
		done, err := c.cons.ProcessVote(block.NewVote(c.key(i), id, block.VotePrevote, 0))
		require.NoError(t, err)
		assert.False(t, done)
	}

	done, err := c.cons.ProcessVote(block.NewVote(c.key(0), id, block.VotePrecommit, 0))
	require.NoError(t, err)
	assert.False(t, done)

	// duplicates are ignored
	done, err = c.cons.ProcessVote(block.NewVote(c.key(0), id, block.VotePrecommit, 0))
	require.NoError(t, err)
	assert.False(t, done)
	// counters move with the next block only
	assert.Zero(t, c.validator(c.key(0).PublicKey()).Stats.VotesCast)

	// exactly two thirds is not enough
	done, err = c.cons.ProcessVote(block.NewVote(c.key(1), id, block.VotePrecommit, 0))
	require.NoError(t, err)
	assert.False(t, done)

	done, err = c.cons.ProcessVote(block.NewVote(c.key(2), id, block.VotePrecommit, 0))
	require.NoError(t, err)
	assert.True(t, done)

	head, err := c.store.State().GetHead()
	require.NoError(t, err)
	assert.Equal(t, id, head.Finalized)
	assert.Equal(t, id, head.ID)
}

func TestVotesRejected(t *testing.T) {
	c := newTestChain(t, 2, Options{LeaderCheck: true})
	info := c.begin(0)
	blk := c.pack(0, c.keys[info.Proposer])
	_, err := c.cons.ProcessBlock(blk)
	require.NoError(t, err)
	id := blk.Header().ID()

	tests := []struct {
		name string
		vote *block.Vote
		want error
	}{
		{"unknown block", block.NewVote(c.key(0), hs.Blake2b([]byte("x")), block.VotePrecommit, 0), ErrVoteRejected},
		{"wrong epoch", block.NewVote(c.key(0), id, block.VotePrecommit, 1), ErrVoteRejected},
		{"outsider", block.NewVote(c.key(5), id, block.VotePrecommit, 0), ErrVoteRejected},
		{"unknown type", block.NewVote(c.key(0), id, block.VoteType(9), 0), ErrVoteRejected},
		{"bad signature", func() *block.Vote {
			v := block.NewVote(c.key(0), id, block.VotePrecommit, 0)
			v.Signature = block.NewVote(c.key(1), id, block.VotePrecommit, 0).Signature
			return v
		}(), ErrInvalidSignature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.cons.ProcessVote(tt.vote)
			assert.True(t, errors.Is(err, tt.want), "%v", err)
			assert.True(t, IsRejected(err))
		})
	}
	assert.Zero(t, c.validator(c.key(0).PublicKey()).Stats.VotesCast)
}

func TestVotesCarriedByNextBlock(t *testing.T) {
	c := newTestChain(t, 3, Options{LeaderCheck: true})
	info := c.begin(0)
	blk := c.pack(0, c.keys[info.Proposer])
	_, err := c.cons.ProcessBlock(blk)
	require.NoError(t, err)
	id := blk.Header().ID()

	for i := 0; i < 2; i++ {
		_, err := c.cons.ProcessVote(block.NewVote(c.key(i), id, block.VotePrecommit, 0))
		require.NoError(t, err)
	}
	carried, err := c.cons.HeadPrecommits()
	require.NoError(t, err)
	require.Len(t, carried, 2)

	info = c.begin(1)
	next := c.pack(1, c.keys[info.Proposer])
	assert.Len(t, next.Votes(), 2)
	assert.Equal(t, next.Votes().RootHash(), next.Header().VotesRoot())
	_, err = c.cons.ProcessBlock(next)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		v := c.validator(c.key(i).PublicKey())
		assert.Equal(t, uint64(1), v.Stats.VotesExpected, "validator %d", i)
		if i < 2 {
			assert.Equal(t, uint64(1), v.Stats.VotesCast, "validator %d", i)
		} else {
			assert.Zero(t, v.Stats.VotesCast)
		}
	}

	// nothing collected yet for the new head
	carried, err = c.cons.HeadPrecommits()
	require.NoError(t, err)
	assert.Empty(t, carried)
}

func TestCarriedVotesRejected(t *testing.T) {
	c := newTestChain(t, 2, Options{LeaderCheck: true})
	info := c.begin(0)
	blk := c.pack(0, c.keys[info.Proposer])
	_, err := c.cons.ProcessBlock(blk)
	require.NoError(t, err)
	id := blk.Header().ID()

	info = c.begin(1)
	signer := c.keys[info.Proposer]
	good := block.NewVote(c.key(0), id, block.VotePrecommit, 0)
	tests := []struct {
		name  string
		votes block.Votes
		want  error
	}{
		{"prevote", block.Votes{block.NewVote(c.key(0), id, block.VotePrevote, 0)}, ErrBlockRejected},
		{"other block", block.Votes{block.NewVote(c.key(0), hs.Blake2b([]byte("x")), block.VotePrecommit, 0)}, ErrBlockRejected},
		{"wrong epoch", block.Votes{block.NewVote(c.key(0), id, block.VotePrecommit, 1)}, ErrBlockRejected},
		{"outsider", block.Votes{block.NewVote(c.key(5), id, block.VotePrecommit, 0)}, ErrBlockRejected},
		{"duplicate", block.Votes{good, good}, ErrBlockRejected},
		{"bad signature", block.Votes{func() *block.Vote {
			v := block.NewVote(c.key(0), id, block.VotePrecommit, 0)
			v.Signature = block.NewVote(c.key(1), id, block.VotePrecommit, 0).Signature
			return v
		}()}, ErrInvalidSignature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.cons.ProcessBlock(forgeBlock(t, c, 1, signer, tt.votes))
			assert.True(t, errors.Is(err, tt.want), "%v", err)
			assert.True(t, IsRejected(err))
		})
	}
	assert.Zero(t, c.validator(c.key(0).PublicKey()).Stats.VotesCast)

	_, err = c.cons.ProcessBlock(forgeBlock(t, c, 1, signer, block.Votes{good}))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), c.validator(c.key(0).PublicKey()).Stats.VotesCast)
}

// forgeBlock builds a signed empty block of slot on top of the head, carrying votes as given.
func forgeBlock(t *testing.T, c *testChain, slot uint64, signer *keystore.Key, votes block.Votes) *block.Block {
	head, err := c.store.State().GetHead()
	require.NoError(t, err)
	b := new(block.Builder).
		ParentID(head.ID).
		Slot(slot).
		Number(head.Number + 1).
		Timestamp(hs.SlotTime(c.gen.LaunchTime, slot)).
		Proposer(signer.PublicKey()).
		Receipts(tx.Receipts{})
	for _, v := range votes {
		b.Vote(v)
	}
	return b.Build().Sign(signer)
}

func TestVoteMessage(t *testing.T) {
	id := hs.Blake2b([]byte("block"))
	msg := block.VoteMessage(id, block.VotePrecommit, 0x0102)
	require.Len(t, msg, 41)
	assert.Equal(t, id[:], msg[:32])
	assert.Equal(t, byte(2), msg[32])
	assert.Equal(t, []byte{0x02, 0x01, 0, 0, 0, 0, 0, 0}, msg[33:])
}

func TestLedgerPrune(t *testing.T) {
	l := newVoteLedger()
	l.open(hs.Bytes32{1}, 1, 0, map[hs.Address]uint64{{1}: 10})
	l.open(hs.Bytes32{2}, 30, 1, nil)
	l.open(hs.Bytes32{3}, 60, 2, nil)

	l.prune(2)
	assert.Nil(t, l.get(hs.Bytes32{1}))
	assert.NotNil(t, l.get(hs.Bytes32{2}))
	assert.NotNil(t, l.get(hs.Bytes32{3}))
}
