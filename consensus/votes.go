// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"slices"

	"github.com/holiman/uint256"

	"github.com/vexidus/hypersync/block"
	"github.com/vexidus/hypersync/hs"
)

// tally collects the votes of one committed block.
type tally struct {
	slot      uint64
	epoch     uint64
	weights   map[hs.Address]uint64 // active set weights when the block was committed
	total     uint256.Int
	voted      uint256.Int // precommit weight
	precommits block.Votes // carried by the next block
	seen       map[voteKey]bool
	finalized  bool
}

type voteKey struct {
	voter hs.Address
	typ   block.VoteType
}

// reached reports whether more than two thirds of the weight precommitted.
func (t *tally) reached() bool {
	var lhs, rhs uint256.Int
	lhs.Mul(&t.voted, uint256.NewInt(3))
	rhs.Mul(&t.total, uint256.NewInt(2))
	return lhs.Gt(&rhs)
}

type voteLedger struct {
	tallies map[hs.Bytes32]*tally
}

func newVoteLedger() *voteLedger {
	return &voteLedger{tallies: make(map[hs.Bytes32]*tally)}
}

func (l *voteLedger) open(id hs.Bytes32, slot, epoch uint64, weights map[hs.Address]uint64) {
	t := &tally{
		slot:    slot,
		epoch:   epoch,
		weights: weights,
		seen:    make(map[voteKey]bool),
	}
	for _, w := range weights {
		t.total.AddUint64(&t.total, w)
	}
	l.tallies[id] = t
}

func (l *voteLedger) get(id hs.Bytes32) *tally {
	return l.tallies[id]
}

// prune drops the tallies of epochs before the previous one.
func (l *voteLedger) prune(epoch uint64) {
	for id, t := range l.tallies {
		if t.epoch+1 < epoch {
			delete(l.tallies, id)
		}
	}
}

// ProcessVote records a vote of an active validator for a committed block.
// Duplicates are ignored. It reports whether the vote finalized the block.
// Precommits are credited to the voters by the next block, which carries them.
func (c *Consensus) ProcessVote(vote *block.Vote) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	finalized, err := c.processVote(vote)
	label := map[string]string{"type": voteTypeName(vote.Type), "status": "ok"}
	switch {
	case err == nil:
	case IsRejected(err):
		label["status"] = "rejected"
	default:
		label["status"] = "error"
	}
	metricVotes().AddWithLabel(1, label)
	return finalized, err
}

func (c *Consensus) processVote(vote *block.Vote) (bool, error) {
	if vote.Type != block.VotePrevote && vote.Type != block.VotePrecommit {
		return false, reject(ErrVoteRejected, "unknown vote type %d", vote.Type)
	}
	t := c.votes.get(vote.BlockID)
	if t == nil {
		return false, reject(ErrVoteRejected, "unknown block %v", vote.BlockID)
	}
	if vote.Epoch != t.epoch {
		return false, reject(ErrVoteRejected, "epoch mismatch: want %d, have %d", t.epoch, vote.Epoch)
	}
	weight, ok := t.weights[vote.Voter]
	if !ok {
		return false, reject(ErrVoteRejected, "voter %v not in the active set", vote.Voter)
	}
	if !vote.Verify(c.verifier) {
		return false, reject(ErrInvalidSignature, "vote of %v", vote.Voter)
	}
	key := voteKey{vote.Voter, vote.Type}
	if t.seen[key] {
		return false, nil
	}
	if vote.Type == block.VotePrevote {
		t.seen[key] = true
		return false, nil
	}

	st := c.store.State()
	finalized := false
	t.voted.AddUint64(&t.voted, weight)
	if !t.finalized && t.reached() {
		head, err := st.GetHead()
		if err != nil {
			return false, err
		}
		if head != nil && !head.Finalized.IsZero() {
			// finality only moves forward
			if prev := c.votes.get(head.Finalized); prev != nil && prev.slot >= t.slot {
				head = nil
			}
		}
		if head != nil {
			head.Finalized = vote.BlockID
			if err := st.SetHead(head); err != nil {
				return false, err
			}
		}
		finalized = true
	}
	if _, err := st.Commit(); err != nil {
		return false, err
	}
	t.seen[key] = true
	t.precommits = append(t.precommits, vote)
	if finalized {
		t.finalized = true
		metricFinalized().Set(int64(t.slot))
		logger.Info("block finalized", "slot", t.slot, "id", vote.BlockID.AbbrevString())
	}
	return finalized, nil
}

// HeadPrecommits returns the precommits collected for the head block, for the next
// block to carry.
func (c *Consensus) HeadPrecommits() (block.Votes, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	head, err := c.store.State().GetHead()
	if err != nil || head == nil {
		return nil, err
	}
	t := c.votes.get(head.ID)
	if t == nil {
		return nil, nil
	}
	return slices.Clone(t.precommits), nil
}

func voteTypeName(typ block.VoteType) string {
	switch typ {
	case block.VotePrevote:
		return "prevote"
	case block.VotePrecommit:
		return "precommit"
	}
	return "unknown"
}
