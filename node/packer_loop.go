// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"time"

	"github.com/pkg/errors"

	"github.com/vexidus/hypersync/block"
	"github.com/vexidus/hypersync/consensus"
	"github.com/vexidus/hypersync/packer"
	"github.com/vexidus/hypersync/tx"
)

// packError fails the local proposal without affecting the slot.
type packError struct {
	error
}

func (e packError) Unwrap() error { return e.error }

// propose packs the executable pool txs into the block of the slot and commits it.
func (n *Node) propose(info *consensus.SlotInfo) (*block.Block, error) {
	var blk *block.Block
	err := evalBlockProposeMetrics(func() error {
		startTime := time.Now()
		reports, err := n.reports()
		if err != nil {
			return packError{errors.Wrap(err, "reports")}
		}
		adopt, commit, err := n.packer.Prepare(info.Slot, reports)
		if err != nil {
			return packError{errors.Wrap(err, "prepare")}
		}

		txs, err := n.txPool.Executables()
		if err != nil {
			return packError{errors.Wrap(err, "executables")}
		}
		var adopted tx.Transactions
	loop:
		for _, t := range txs {
			switch err := adopt(t); {
			case err == nil:
				adopted = append(adopted, t)
			case packer.IsTxsLimitReached(err):
				break loop
			case packer.IsKnownTx(err) || packer.IsBadTx(err):
				n.txPool.Remove(t.ID())
			default:
				logger.Debug("tx not adopted", "id", t.ID(), "err", err)
			}
		}

		b, receipts, err := commit()
		if err != nil {
			return packError{errors.Wrap(err, "commit")}
		}
		if _, err := n.cons.ProcessBlock(b); err != nil {
			return err
		}
		for _, t := range adopted {
			n.txPool.Remove(t.ID())
		}
		blk = b

		metricBlockProposedTxs().Add(int64(len(receipts)))
		logger.Info("📦 new block packed",
			"slot", info.Slot,
			"txs", len(receipts),
			"id", b.Header().ID().AbbrevString(),
			"et", time.Since(startTime),
		)
		return nil
	})
	return blk, err
}

// reports gathers what the proposer declares in its block.
func (n *Node) reports() (packer.Reports, error) {
	votes, err := n.cons.HeadPrecommits()
	if err != nil {
		return packer.Reports{}, err
	}
	reports := packer.Reports{Votes: votes}
	if pc, ok := n.transport.(PeerCounter); ok {
		if count := pc.PeerCount(); count > 0 {
			reports.Peers = uint64(count)
		}
	}
	return reports, nil
}
