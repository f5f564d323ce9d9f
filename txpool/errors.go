// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import "github.com/pkg/errors"

var (
	errKnownTx      = errors.New("known transaction")
	errTooLarge     = errors.New("tx too large")
	errBadSignature = errors.New("invalid signature")
	errStaleNonce   = errors.New("nonce too low")
	errPoolFull     = errors.New("tx pool is full")
	errAccountQuota = errors.New("account quota exceeded")
)

func IsErrKnownTx(err error) bool {
	return err == errKnownTx
}

func IsErrTooLarge(err error) bool {
	return err == errTooLarge
}

func IsErrBadSignature(err error) bool {
	return err == errBadSignature
}

func IsErrStaleNonce(err error) bool {
	return errors.Cause(err) == errStaleNonce
}

// IsTxRejected returns if the tx is valid but the pool can not accept it.
func IsTxRejected(err error) bool {
	return err == errKnownTx || err == errPoolFull || err == errAccountQuota
}

// IsBadTx returns if the error rejects the tx itself, rather than the pool state.
func IsBadTx(err error) bool {
	var bad badTxError
	return errors.As(err, &bad) || err == errTooLarge || err == errBadSignature || IsErrStaleNonce(err)
}

type badTxError struct {
	msg string
}

func (e badTxError) Error() string {
	return "bad tx: " + e.msg
}
