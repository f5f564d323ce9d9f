// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import "github.com/vexidus/hypersync/reverts"

var (
	ErrZeroAmount          = reverts.New("amount must be positive")
	ErrInsufficientAmount  = reverts.New("stake below minimum")
	ErrInsufficientStake   = reverts.New("insufficient stake")
	ErrInsufficientBalance = reverts.New("insufficient balance")
	ErrRemainingBelowMin   = reverts.New("remaining stake below minimum")
	ErrCommissionTooHigh   = reverts.New("commission too high")
	ErrNotYetReleasable    = reverts.New("unbonding request not yet releasable")
	ErrRequestNotFound     = reverts.New("unbonding request not found")
	ErrNotStaker           = reverts.New("not the staker of the validator")
	ErrStakerBound         = reverts.New("staker already bound to another validator")
	ErrMetadataTooLong     = reverts.New("metadata field too long")
)

// IsRevertErr reports whether err rejects a staking operation without state change.
func IsRevertErr(err error) bool {
	return reverts.IsRevertErr(err)
}
