// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/tx"
)

// RawTx raw transaction
type RawTx struct {
	Raw string `json:"raw"`
}

func (rtx *RawTx) decode() (*tx.Transaction, error) {
	data, err := hexutil.Decode(rtx.Raw)
	if err != nil {
		return nil, err
	}
	var t *tx.Transaction
	if err := rlp.DecodeBytes(data, &t); err != nil {
		return nil, err
	}
	return t, nil
}

// Transaction is a pending transaction.
type Transaction struct {
	ID         hs.Bytes32  `json:"id"`
	Kind       string      `json:"kind"`
	Origin     hs.Address  `json:"origin"`
	Nonce      uint64      `json:"nonce"`
	Fee        uint64      `json:"fee"`
	Amount     uint64      `json:"amount,omitempty"`
	Validator  *hs.Address `json:"validator,omitempty"`
	RequestID  uint64      `json:"requestId,omitempty"`
	Commission uint64      `json:"commissionBps,omitempty"`
}

func convertTransaction(t *tx.Transaction) *Transaction {
	c := &Transaction{
		ID:         t.ID(),
		Kind:       t.Kind().String(),
		Origin:     t.Origin(),
		Nonce:      t.Nonce(),
		Fee:        t.Fee(),
		Amount:     t.Amount(),
		RequestID:  t.RequestID(),
		Commission: t.Commission(),
	}
	if v := t.Validator(); !v.IsZero() {
		c.Validator = &v
	}
	return c
}

// Receipt is the outcome of a committed transaction.
type Receipt struct {
	TxID     hs.Bytes32 `json:"txId"`
	Reverted bool       `json:"reverted"`
	Error    string     `json:"error,omitempty"`
	Fee      uint64     `json:"fee"`
	Slot     uint64     `json:"slot"`
	BlockID  hs.Bytes32 `json:"blockId"`
}

func convertReceipt(r *tx.Receipt) *Receipt {
	return &Receipt{
		TxID:     r.TxID,
		Reverted: r.Reverted,
		Error:    r.Error,
		Fee:      r.Fee,
		Slot:     r.Slot,
		BlockID:  r.BlockID,
	}
}
