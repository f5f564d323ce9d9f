// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vexidus/hypersync/hs"
)

// Receipt represents the results of a transaction.
type Receipt struct {
	TxID     hs.Bytes32
	Reverted bool
	Error    string // revert reason
	Fee      uint64 // charged fee, zero when reverted
	Slot     uint64
	BlockID  hs.Bytes32
}

// Receipts slice of receipts.
type Receipts []*Receipt

// Encode returns the RLP encoding of the receipt.
func (r *Receipt) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(r)
}

// DecodeReceipt decodes a receipt encoded by Encode.
func DecodeReceipt(data []byte) (*Receipt, error) {
	var r Receipt
	if err := rlp.DecodeBytes(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Fees sums the charged fees.
func (rs Receipts) Fees() uint64 {
	var total uint64
	for _, r := range rs {
		total += r.Fee
	}
	return total
}

// RootHash computes the hash of the receipts. The block location is left out because
// the root is part of the block it locates.
func (rs Receipts) RootHash() hs.Bytes32 {
	if len(rs) == 0 {
		return hs.Bytes32{}
	}
	type outcome struct {
		TxID     hs.Bytes32
		Reverted bool
		Error    string
		Fee      uint64
	}
	list := make([]outcome, 0, len(rs))
	for _, r := range rs {
		list = append(list, outcome{r.TxID, r.Reverted, r.Error, r.Fee})
	}
	data, _ := rlp.EncodeToBytes(list)
	return hs.Blake2b(data)
}
