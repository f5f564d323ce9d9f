// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"sync"
	"sync/atomic"

	"github.com/vexidus/hypersync/block"
)

// Transport carries blocks and votes between validators.
type Transport interface {
	Blocks() <-chan *block.Block
	Votes() <-chan *block.Vote
	Broadcast(blk *block.Block)
}

// VoteBroadcaster is implemented by transports able to gossip votes.
type VoteBroadcaster interface {
	BroadcastVote(vote *block.Vote)
}

// PeerCounter is implemented by transports that know their connected peers.
// The count goes into the header of proposed blocks.
type PeerCounter interface {
	PeerCount() int
}

// Loopback is an in-process transport. What is broadcast is delivered back to the
// receiving side, which is enough for solo mode and for tests to inject remote blocks.
type Loopback struct {
	closeOnce sync.Once
	blocks    chan *block.Block
	votes     chan *block.Vote
	peers     atomic.Int64
}

var (
	_ Transport       = (*Loopback)(nil)
	_ VoteBroadcaster = (*Loopback)(nil)
	_ PeerCounter     = (*Loopback)(nil)
)

// NewLoopback creates a loopback transport buffering up to size messages of each kind.
func NewLoopback(size int) *Loopback {
	return &Loopback{
		blocks: make(chan *block.Block, size),
		votes:  make(chan *block.Vote, size),
	}
}

func (l *Loopback) Blocks() <-chan *block.Block { return l.blocks }
func (l *Loopback) Votes() <-chan *block.Vote   { return l.votes }

// SetPeerCount sets the count PeerCount reports.
func (l *Loopback) SetPeerCount(n int) { l.peers.Store(int64(n)) }

func (l *Loopback) PeerCount() int { return int(l.peers.Load()) }

// Broadcast delivers blk, or drops it when the buffer is full.
func (l *Loopback) Broadcast(blk *block.Block) {
	select {
	case l.blocks <- blk:
	default:
		logger.Debug("loopback full, block dropped", "id", blk.Header().ID())
	}
}

// BroadcastVote delivers vote, or drops it when the buffer is full.
func (l *Loopback) BroadcastVote(vote *block.Vote) {
	select {
	case l.votes <- vote:
	default:
		logger.Debug("loopback full, vote dropped", "block", vote.BlockID)
	}
}
