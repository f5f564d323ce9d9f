// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vexidus/hypersync/hs"
)

// Transactions a slice of transactions.
type Transactions []*Transaction

// RootHash computes the hash committing to the ordered transactions.
func (txs Transactions) RootHash() hs.Bytes32 {
	if len(txs) == 0 {
		return hs.Bytes32{}
	}
	data, _ := rlp.EncodeToBytes(txs)
	return hs.Blake2b(data)
}
