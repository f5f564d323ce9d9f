// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node drives the consensus slot by slot: it proposes when scheduled, imports
// the blocks received from the transport, casts votes and closes timed out slots.
package node

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/vexidus/hypersync/block"
	"github.com/vexidus/hypersync/consensus"
	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/keystore"
	"github.com/vexidus/hypersync/log"
	"github.com/vexidus/hypersync/packer"
	"github.com/vexidus/hypersync/txpool"
)

var logger = log.WithContext("pkg", "node")

// Options for Node.
type Options struct {
	// Solo packs a block on every slot. Requires consensus leader check disabled.
	Solo bool
	// Workers bounds parallel pre-validation of candidate blocks, 0 means GOMAXPROCS.
	Workers int
}

// Node is the abstraction of local node.
type Node struct {
	options   Options
	cons      *consensus.Consensus
	packer    *packer.Packer
	txPool    *txpool.TxPool
	transport Transport
	master    keystore.Signer
	verifier  keystore.Verifier
	now       func() time.Time
}

// New create a Node.
func New(
	cons *consensus.Consensus,
	packer *packer.Packer,
	txPool *txpool.TxPool,
	transport Transport,
	master keystore.Signer,
	verifier keystore.Verifier,
	options Options,
) *Node {
	return &Node{
		options:   options,
		cons:      cons,
		packer:    packer,
		txPool:    txPool,
		transport: transport,
		master:    master,
		verifier:  verifier,
		now:       time.Now,
	}
}

// Run processes slots until ctx is canceled or a fatal consensus error occurs.
func (n *Node) Run(ctx context.Context) error {
	logger.Debug("enter slot loop")
	defer logger.Debug("leave slot loop")

	genesisTime := n.cons.GenesisTime()
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		slot := n.nextSlot()

		// wait for the slot to open
		if wait := time.Until(time.Unix(int64(hs.SlotTime(genesisTime, slot)), 0)); wait > 0 {
			timer.Reset(wait)
			select {
			case <-ctx.Done():
				return nil
			case <-timer.C:
			}
		}

		timer.Reset(time.Until(time.Unix(int64(hs.SlotTime(genesisTime, slot+1)), 0)))
		err := n.runSlot(ctx, slot, timer.C)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			if consensus.IsFatal(err) {
				logger.Error("slot loop stopped", "slot", slot, "err", err)
				return err
			}
			logger.Warn("failed to process slot", "slot", slot, "err", err)
		}
	}
}

// nextSlot returns the slot of now, never one already begun.
func (n *Node) nextSlot() uint64 {
	genesisTime := n.cons.GenesisTime()
	slot := uint64(0)
	if now := uint64(n.now().Unix()); now > genesisTime {
		slot = hs.Slot(genesisTime, now)
	}
	if cur, ok := n.cons.Current(); ok && slot <= cur.Slot {
		slot = cur.Slot + 1
	}
	return slot
}

// runSlot begins slot, proposes if scheduled, imports received blocks and votes until
// deadline fires, then closes the slot.
func (n *Node) runSlot(ctx context.Context, slot uint64, deadline <-chan time.Time) error {
	info, err := n.cons.BeginSlot(slot)
	if err != nil {
		return err
	}

	committed := false
	if n.shouldPropose(info) {
		blk, err := n.propose(info)
		switch {
		case err == nil:
			committed = true
			n.transport.Broadcast(blk)
			n.castVotes(info, blk)
		case errors.As(err, &packError{}) || !consensus.IsFatal(err):
			logger.Warn("failed to propose block", "slot", slot, "err", err)
		default:
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			jailed, err := n.cons.SlotTimeout(slot)
			if err != nil {
				return err
			}
			if jailed {
				logger.Info("proposer jailed", "slot", slot, "proposer", info.Proposer)
			}
			return nil
		case blk := <-n.transport.Blocks():
			if committed {
				continue
			}
			candidates := n.drainBlocks(blk)
			imported, err := n.importCandidates(candidates)
			if err != nil {
				return err
			}
			if imported != nil {
				committed = true
				n.castVotes(info, imported)
			}
		case vote := <-n.transport.Votes():
			n.processVote(vote)
		}
	}
}

func (n *Node) shouldPropose(info *consensus.SlotInfo) bool {
	if n.master == nil || n.packer == nil {
		return false
	}
	return n.options.Solo || info.Proposer == n.master.PublicKey()
}

// drainBlocks collects first and the blocks already queued behind it.
func (n *Node) drainBlocks(first *block.Block) []*block.Block {
	blocks := []*block.Block{first}
	for {
		select {
		case blk := <-n.transport.Blocks():
			blocks = append(blocks, blk)
		default:
			return blocks
		}
	}
}

func (n *Node) processVote(vote *block.Vote) {
	if _, err := n.cons.ProcessVote(vote); err != nil {
		if consensus.IsRejected(err) {
			logger.Debug("vote rejected", "voter", vote.Voter, "err", err)
		} else {
			logger.Warn("failed to process vote", "err", err)
		}
	}
}

// castVotes signs both rounds of blk and feeds them to the local consensus and the transport.
func (n *Node) castVotes(info *consensus.SlotInfo, blk *block.Block) {
	if n.master == nil {
		return
	}
	id := blk.Header().ID()
	for _, typ := range []block.VoteType{block.VotePrevote, block.VotePrecommit} {
		vote := block.NewVote(n.master, id, typ, info.Epoch)
		if _, err := n.cons.ProcessVote(vote); err != nil {
			// not in the active set
			if errors.Is(err, consensus.ErrVoteRejected) {
				metricVotesCast().AddWithLabel(1, map[string]string{"status": "skipped"})
				return
			}
			logger.Warn("failed to cast vote", "err", err)
			metricVotesCast().AddWithLabel(1, map[string]string{"status": "failed"})
			return
		}
		metricVotesCast().AddWithLabel(1, map[string]string{"status": "cast"})
		if vb, ok := n.transport.(VoteBroadcaster); ok {
			vb.BroadcastVote(vote)
		}
	}
}
