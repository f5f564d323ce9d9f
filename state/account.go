// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/vexidus/hypersync/hs"

// Account is the native token balance of an address.
type Account struct {
	Balance uint64
	Nonce   uint64 // count of transactions sent
}

// IsEmpty returns if an account is empty.
func (a *Account) IsEmpty() bool {
	return a.Balance == 0 && a.Nonce == 0
}

// Epoch is the snapshot taken at an epoch boundary.
type Epoch struct {
	Number    uint64
	StartTime uint64
	Duration  uint64
	Seed      hs.Bytes32
	ActiveSet []hs.Address // sorted ascending
}

// Head describes the last committed block.
type Head struct {
	Slot      uint64
	Number    uint64 // count of committed blocks
	ID        hs.Bytes32
	Finalized hs.Bytes32 // last block with more than 2/3 of the active weight voting
}
