// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pos

import (
	"encoding/binary"

	"github.com/vexidus/hypersync/hs"
)

// NextSeed derives the seed of epoch from the seed of the previous one.
func NextSeed(prev hs.Bytes32, epoch uint64) hs.Bytes32 {
	var num [8]byte
	binary.BigEndian.PutUint64(num[:], epoch)
	return hs.Blake2b(prev[:], num[:])
}
