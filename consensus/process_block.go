// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"slices"
	"time"

	"github.com/pkg/errors"

	"github.com/vexidus/hypersync/block"
	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/jail"
	"github.com/vexidus/hypersync/keystore"
	"github.com/vexidus/hypersync/reputation"
	"github.com/vexidus/hypersync/runtime"
	"github.com/vexidus/hypersync/state"
	"github.com/vexidus/hypersync/tx"
)

// VerifySignatures checks the signatures of the block, its transactions and the votes it carries.
// It reads no state, so candidates can be checked in parallel.
func VerifySignatures(blk *block.Block, verifier keystore.Verifier) error {
	if !blk.Header().Verify(verifier) {
		return reject(ErrInvalidSignature, "block %v", blk.Header().ID())
	}
	for _, t := range blk.Transactions() {
		if !t.Verify(verifier) {
			return reject(ErrInvalidSignature, "tx %v", t.ID())
		}
	}
	for _, v := range blk.Votes() {
		if !v.Verify(verifier) {
			return reject(ErrInvalidSignature, "vote of %v", v.Voter)
		}
	}
	return nil
}

// ProcessBlock validates blk against the current slot and commits it with its transactions,
// the proposer bookkeeping and the reward. A rejected block leaves the state untouched.
func (c *Consensus) ProcessBlock(blk *block.Block) (tx.Receipts, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	startTime := time.Now()
	receipts, err := c.processBlock(blk)
	status := "ok"
	if err != nil {
		status = "rejected"
		if !IsRejected(err) {
			status = "error"
		}
	}
	metricBlocks().AddWithLabel(1, map[string]string{"status": status})
	if err != nil {
		return nil, err
	}

	metricBlockDuration().Observe(time.Since(startTime).Milliseconds())
	metricTxs().Add(int64(len(receipts)))
	header := blk.Header()
	logger.Info("block committed",
		"slot", header.Slot(),
		"number", header.Number(),
		"id", header.ID().AbbrevString(),
		"proposer", header.Proposer(),
		"txs", len(receipts),
		"fee", header.TotalFee(),
		"et", time.Since(startTime),
	)
	return receipts, nil
}

func (c *Consensus) processBlock(blk *block.Block) (tx.Receipts, error) {
	header := blk.Header()
	ctx := c.cur
	if ctx == nil || header.Slot() != ctx.Slot {
		return nil, reject(ErrBlockRejected, "block of slot %d outside the current slot", header.Slot())
	}
	if ctx.committed {
		return nil, reject(ErrBlockRejected, "slot %d already has a block", ctx.Slot)
	}
	if ctx.closed {
		return nil, reject(ErrBlockRejected, "slot %d timed out", ctx.Slot)
	}
	if ts := header.Timestamp(); ts < ctx.Time || ts >= hs.SlotTime(c.genesisTime, ctx.Slot+1) {
		return nil, reject(ErrBlockRejected, "timestamp %d outside slot %d", ts, ctx.Slot)
	}

	st := c.store.State()
	head, err := c.validateParent(st, header)
	if err != nil {
		return nil, err
	}
	if c.opts.LeaderCheck && header.Proposer() != ctx.Proposer {
		return nil, reject(ErrInvalidProposer, "want %v, have %v", ctx.Proposer, header.Proposer())
	}
	if err := VerifySignatures(blk, c.verifier); err != nil {
		return nil, err
	}
	if root := blk.Transactions().RootHash(); header.TxsRoot() != root {
		return nil, reject(ErrBlockRejected, "txs root mismatch: want %v, have %v", root, header.TxsRoot())
	}
	if root := blk.Votes().RootHash(); header.VotesRoot() != root {
		return nil, reject(ErrBlockRejected, "votes root mismatch: want %v, have %v", root, header.VotesRoot())
	}
	parentSet, err := c.validateVotes(st, head, blk.Votes())
	if err != nil {
		return nil, err
	}

	receipts, err := c.applyTransactions(st, blk)
	if err != nil {
		return nil, err
	}
	if root := receipts.RootHash(); header.ReceiptsRoot() != root {
		return nil, reject(ErrBlockRejected, "receipts root mismatch: want %v, have %v", root, header.ReceiptsRoot())
	}
	if fee := receipts.Fees(); header.TotalFee() != fee {
		return nil, reject(ErrBlockRejected, "total fee mismatch: want %v, have %v", fee, header.TotalFee())
	}

	if err := c.rewardProposer(st, header, len(receipts)); err != nil {
		return nil, err
	}
	if err := c.creditVotes(st, parentSet, blk.Votes()); err != nil {
		return nil, err
	}
	weights, err := c.voteWeights(st, ctx.epoch)
	if err != nil {
		return nil, err
	}
	if err := c.storeBlock(st, blk, receipts); err != nil {
		return nil, err
	}
	if _, err := st.Commit(); err != nil {
		return nil, err
	}

	ctx.committed = true
	c.votes.open(header.ID(), header.Slot(), ctx.Epoch, weights)
	return receipts, nil
}

// validateParent checks that header extends the head. It returns the head, nil before the first block.
func (c *Consensus) validateParent(st *state.State, header *block.Header) (*state.Head, error) {
	head, err := st.GetHead()
	if err != nil {
		return nil, err
	}
	parent := head
	if parent == nil {
		genesisID, ok, err := st.GetGenesis()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New("state not initialized with genesis")
		}
		parent = &state.Head{ID: genesisID}
	}
	if header.ParentID() != parent.ID {
		return nil, reject(ErrBlockRejected, "parent mismatch: want %v, have %v", parent.ID, header.ParentID())
	}
	if header.Number() != parent.Number+1 {
		return nil, reject(ErrBlockRejected, "number mismatch: want %d, have %d", parent.Number+1, header.Number())
	}
	return head, nil
}

// validateVotes checks the precommits carried for the parent block: one per member of the
// parent's active set at most. It returns that active set, empty for the first block.
func (c *Consensus) validateVotes(st *state.State, head *state.Head, votes block.Votes) ([]hs.Address, error) {
	if head == nil {
		if len(votes) > 0 {
			return nil, reject(ErrBlockRejected, "first block carries %d votes", len(votes))
		}
		return nil, nil
	}
	e, err := st.GetEpochAt(hs.EpochOf(head.Slot))
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, errors.Errorf("missing epoch snapshot for slot %d", head.Slot)
	}
	seen := make(map[hs.Address]bool, len(votes))
	for _, v := range votes {
		if v.Type != block.VotePrecommit {
			return nil, reject(ErrBlockRejected, "carried vote of %v is not a precommit", v.Voter)
		}
		if v.BlockID != head.ID {
			return nil, reject(ErrBlockRejected, "carried vote of %v for %v, want %v", v.Voter, v.BlockID, head.ID)
		}
		if v.Epoch != e.Number {
			return nil, reject(ErrBlockRejected, "carried vote of %v: epoch mismatch: want %d, have %d", v.Voter, e.Number, v.Epoch)
		}
		if _, ok := slices.BinarySearchFunc(e.ActiveSet, v.Voter, hs.Address.Compare); !ok {
			return nil, reject(ErrBlockRejected, "carried vote of %v: not in the active set", v.Voter)
		}
		if seen[v.Voter] {
			return nil, reject(ErrBlockRejected, "duplicate carried vote of %v", v.Voter)
		}
		seen[v.Voter] = true
	}
	return e.ActiveSet, nil
}

// creditVotes counts one expected vote for each member of the parent's active set and
// one cast vote for each carried precommit.
func (c *Consensus) creditVotes(st *state.State, activeSet []hs.Address, votes block.Votes) error {
	cast := make(map[hs.Address]bool, len(votes))
	for _, v := range votes {
		cast[v.Voter] = true
	}
	for _, id := range activeSet {
		v, err := st.GetValidator(id)
		if err != nil {
			return err
		}
		if v == nil {
			continue
		}
		v.Stats.VotesExpected++
		if cast[id] {
			v.Stats.VotesCast++
		}
		if err := st.SetValidator(v); err != nil {
			return err
		}
	}
	return nil
}

// applyTransactions executes the transactions in order. A transaction the runtime refuses
// makes the whole block invalid.
func (c *Consensus) applyTransactions(st *state.State, blk *block.Block) (tx.Receipts, error) {
	header := blk.Header()
	rt := runtime.New(st, header.Slot(), header.Timestamp())

	receipts := make(tx.Receipts, 0, len(blk.Transactions()))
	for _, t := range blk.Transactions() {
		receipt, err := rt.ExecuteTransaction(t)
		if err != nil {
			var se *state.Error
			if errors.As(err, &se) {
				return nil, err
			}
			return nil, reject(ErrBlockRejected, "tx %v: %v", t.ID(), err)
		}
		if receipt.Reverted {
			logger.Debug("tx reverted", "id", t.ID(), "kind", t.Kind(), "reason", receipt.Error)
		}
		receipts = append(receipts, receipt)
	}
	return receipts, nil
}

// rewardProposer resets the miss counter of the proposer, updates its counters and credits
// fees plus the block reward to its staker. A jailed or unknown proposer earns nothing.
func (c *Consensus) rewardProposer(st *state.State, header *block.Header, txs int) error {
	v, err := st.GetValidator(header.Proposer())
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	v.Stats.BlocksProduced++
	v.Stats.TxsProcessed += uint64(txs)
	if n := header.Peers(); n > 0 {
		v.Stats.Peers = n
	}
	if err := st.SetValidator(v); err != nil {
		return err
	}
	if err := jail.New(st).RecordProposal(v.ID); err != nil {
		return err
	}
	if v.Jailed {
		return nil
	}
	reward := header.TotalFee() + hs.BlockReward()
	if err := st.AddBalance(v.Staker, reward); err != nil {
		return err
	}
	metricRewards().Add(int64(reward))
	return nil
}

// voteWeights returns the voting weights of the active set.
func (c *Consensus) voteWeights(st *state.State, e *state.Epoch) (map[hs.Address]uint64, error) {
	weights := make(map[hs.Address]uint64, len(e.ActiveSet))
	for _, id := range e.ActiveSet {
		v, err := st.GetValidator(id)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		weights[id] = reputation.WeightOf(v.Stake, v.Score())
	}
	return weights, nil
}

func (c *Consensus) storeBlock(st *state.State, blk *block.Block, receipts tx.Receipts) error {
	header := blk.Header()
	head, err := st.GetHead()
	if err != nil {
		return err
	}
	var finalized hs.Bytes32
	if head != nil {
		finalized = head.Finalized
	}

	raw, err := blk.Encode()
	if err != nil {
		return err
	}
	st.PutBlock(header.Slot(), raw)
	for _, r := range receipts {
		r.BlockID = header.ID()
		data, err := r.Encode()
		if err != nil {
			return err
		}
		st.PutReceipt(r.TxID, data)
	}
	return st.SetHead(&state.Head{
		Slot:      header.Slot(),
		Number:    header.Number(),
		ID:        header.ID(),
		Finalized: finalized,
	})
}
