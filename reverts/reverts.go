// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the error type of rejected staking operations.
// A revert leaves state untouched and is reported in the transaction receipt.
package reverts

import (
	"errors"
	"fmt"
)

type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{message: message}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// With returns an error carrying detail that still matches e via errors.Is.
func (e *ErrRevert) With(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{e}, args...)...)
}

func IsRevertErr(err error) bool {
	if err == nil {
		return false
	}
	var re *ErrRevert
	return errors.As(err, &re)
}
