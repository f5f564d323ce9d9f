// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/pkg/errors"

	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/tx"
)

// ResolvedTransaction a transaction whose static fields are checked.
type ResolvedTransaction struct {
	tx     *tx.Transaction
	Origin hs.Address
	Kind   tx.Kind
}

// ResolveTransaction resolves the transaction and performs basic validation.
func ResolveTransaction(t *tx.Transaction) (*ResolvedTransaction, error) {
	if !t.Kind().IsValid() {
		return nil, errors.Errorf("unknown transaction kind %v", t.Kind())
	}
	if t.Origin().IsZero() {
		return nil, errors.New("zero origin")
	}
	if len(t.Signature()) == 0 {
		return nil, errors.New("unsigned transaction")
	}
	if t.Kind() == tx.KindStake && t.Validator().IsZero() {
		return nil, errors.New("stake without validator")
	}
	return &ResolvedTransaction{
		tx:     t,
		Origin: t.Origin(),
		Kind:   t.Kind(),
	}, nil
}

// Tx returns the resolved transaction.
func (r *ResolvedTransaction) Tx() *tx.Transaction {
	return r.tx
}
