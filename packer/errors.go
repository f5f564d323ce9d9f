// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import "errors"

var (
	errTxsLimitReached = errors.New("txs limit reached")
	errKnownTx         = errors.New("known tx")
)

// IsTxsLimitReached block is full of txs.
func IsTxsLimitReached(err error) bool {
	return errors.Is(err, errTxsLimitReached)
}

// IsKnownTx tx is already packed or committed.
func IsKnownTx(err error) bool {
	return errors.Is(err, errKnownTx)
}

// IsBadTx not a valid tx.
func IsBadTx(err error) bool {
	return errors.As(err, &badTxError{})
}

type badTxError struct {
	msg string
}

func (e badTxError) Error() string {
	return "bad tx: " + e.msg
}
