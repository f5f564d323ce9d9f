// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"errors"
	"fmt"

	"github.com/vexidus/hypersync/pos"
)

const (
	ErrInvalidProposer  consensusError = "invalid proposer"
	ErrInvalidSignature consensusError = "invalid signature"
	ErrBlockRejected    consensusError = "block rejected"
	ErrVoteRejected     consensusError = "vote rejected"
)

type consensusError string

func (err consensusError) Error() string {
	return string(err)
}

type rejection struct {
	kind   consensusError
	reason string
}

func (r *rejection) Error() string {
	return fmt.Sprintf("%v: %v", r.kind, r.reason)
}

func (r *rejection) Unwrap() error {
	return r.kind
}

func reject(kind consensusError, format string, args ...any) error {
	return &rejection{kind, fmt.Sprintf(format, args...)}
}

// IsRejected returns if the error rejects the block or vote under process.
// The state is left untouched and processing may continue.
func IsRejected(err error) bool {
	var ce consensusError
	return errors.As(err, &ce)
}

// IsFatal returns if the error must stop the slot loop.
func IsFatal(err error) bool {
	if errors.Is(err, pos.ErrNoEligibleValidators) {
		return true
	}
	return err != nil && !IsRejected(err)
}
