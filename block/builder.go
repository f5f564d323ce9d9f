// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/tx"
)

// Builder to make it easy to build a block object.
type Builder struct {
	headerBody headerBody
	txs        tx.Transactions
	votes      Votes
}

// ParentID set parent id.
func (b *Builder) ParentID(id hs.Bytes32) *Builder {
	b.headerBody.ParentID = id
	return b
}

// Slot set the slot the block is proposed for.
func (b *Builder) Slot(slot uint64) *Builder {
	b.headerBody.Slot = slot
	return b
}

// Number set the height of the block.
func (b *Builder) Number(n uint64) *Builder {
	b.headerBody.Number = n
	return b
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(ts uint64) *Builder {
	b.headerBody.Timestamp = ts
	return b
}

// Proposer set the proposing validator.
func (b *Builder) Proposer(id hs.Address) *Builder {
	b.headerBody.Proposer = id
	return b
}

// Transaction add a transaction.
func (b *Builder) Transaction(t *tx.Transaction) *Builder {
	b.txs = append(b.txs, t)
	return b
}

// Vote add a precommit of the parent block.
func (b *Builder) Vote(v *Vote) *Builder {
	b.votes = append(b.votes, v)
	return b
}

// Peers set the peer count reported by the proposer.
func (b *Builder) Peers(n uint64) *Builder {
	b.headerBody.Peers = n
	return b
}

// Receipts commits to the execution outcome of the transactions.
func (b *Builder) Receipts(rs tx.Receipts) *Builder {
	b.headerBody.ReceiptsRoot = rs.RootHash()
	b.headerBody.TotalFee = rs.Fees()
	return b
}

// Build build a block object.
func (b *Builder) Build() *Block {
	header := Header{body: b.headerBody}
	header.body.TxsRoot = b.txs.RootHash()
	header.body.VotesRoot = b.votes.RootHash()

	return &Block{
		header: &header,
		txs:    b.txs,
		votes:  b.votes,
	}
}
