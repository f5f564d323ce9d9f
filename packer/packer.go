// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package packer assembles the block of a slot from pending transactions.
package packer

import (
	"github.com/pkg/errors"

	"github.com/vexidus/hypersync/block"
	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/keystore"
	"github.com/vexidus/hypersync/runtime"
	"github.com/vexidus/hypersync/state"
	"github.com/vexidus/hypersync/tx"
)

// DefaultMaxTxs bounds the transactions of one block.
const DefaultMaxTxs = 1000

// Packer to pack txs and build new blocks.
type Packer struct {
	store       *state.Store
	genesisTime uint64
	signer      keystore.Signer
	maxTxs      int
}

// New create a new Packer instance.
func New(store *state.Store, genesisTime uint64, signer keystore.Signer) *Packer {
	return &Packer{
		store:       store,
		genesisTime: genesisTime,
		signer:      signer,
		maxTxs:      DefaultMaxTxs,
	}
}

// SetMaxTxs sets the transaction limit per block.
func (p *Packer) SetMaxTxs(n int) *Packer {
	p.maxTxs = n
	return p
}

// Adopt adopt transaction into new block.
type Adopt func(t *tx.Transaction) error

// Commit generate new block.
type Commit func() (*block.Block, tx.Receipts, error)

// Reports are what the proposer attests in its block besides transactions.
type Reports struct {
	Peers uint64      // current peer count, 0 if unknown
	Votes block.Votes // precommits of the head block
}

// Prepare starts a block for slot on top of the committed head.
// Transactions run on a scratch state, the store is not changed.
func (p *Packer) Prepare(slot uint64, reports Reports) (Adopt, Commit, error) {
	st := p.store.State()
	head, err := st.GetHead()
	if err != nil {
		return nil, nil, errors.Wrap(err, "head")
	}
	if head == nil {
		genesisID, ok, err := st.GetGenesis()
		if err != nil {
			return nil, nil, errors.Wrap(err, "genesis")
		}
		if !ok {
			return nil, nil, errors.New("store not initialized")
		}
		head = &state.Head{ID: genesisID}
	}
	if head.Number > 0 && slot <= head.Slot {
		return nil, nil, errors.Errorf("slot %d not after head slot %d", slot, head.Slot)
	}

	var (
		timestamp = hs.SlotTime(p.genesisTime, slot)
		receipts  tx.Receipts
		processed = make(map[hs.Bytes32]bool)
		rt        = runtime.New(st, slot, timestamp)
		builder   = new(block.Builder).
				ParentID(head.ID).
				Slot(slot).
				Number(head.Number + 1).
				Timestamp(timestamp).
				Proposer(p.signer.PublicKey()).
				Peers(reports.Peers)
	)
	// the first block has no voted parent
	for _, v := range reports.Votes {
		if head.Number > 0 && v.BlockID == head.ID {
			builder.Vote(v)
		}
	}

	return func(t *tx.Transaction) error {
			if len(receipts) >= p.maxTxs {
				return errTxsLimitReached
			}
			if processed[t.ID()] {
				return errKnownTx
			}
			committed, err := st.GetReceipt(t.ID())
			if err != nil {
				return err
			}
			if committed != nil {
				return errKnownTx
			}

			chkpt := st.NewCheckpoint()
			receipt, err := rt.ExecuteTransaction(t)
			if err != nil {
				// skip and revert state
				st.RevertTo(chkpt)
				var se *state.Error
				if errors.As(err, &se) {
					return err
				}
				return badTxError{err.Error()}
			}
			processed[t.ID()] = true
			receipts = append(receipts, receipt)
			builder.Transaction(t)
			metricTransactionTypeCounter().AddWithLabel(1, map[string]string{"type": t.Kind().String()})
			return nil
		},
		func() (*block.Block, tx.Receipts, error) {
			blk := builder.Receipts(receipts).Build().Sign(p.signer)
			return blk, receipts, nil
		}, nil
}
