// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package hs

// Constants of the protocol that are not configurable.
const (
	InitialScore = 0.8 // performance score of a newly staked validator
	MinScore     = 0.5
	MaxScore     = 1.0

	// ScorePrecision is the fixed point scale applied when a score multiplies stake.
	ScorePrecision uint64 = 10000

	MaxMetadataLength = 256 // bytes per validator metadata field
)

// Slot returns the slot number of timestamp t for a chain launched at genesisTime.
func Slot(genesisTime, t uint64) uint64 {
	if t < genesisTime {
		return 0
	}
	return (t - genesisTime) / BlockInterval()
}

// SlotTime returns the start time of slot.
func SlotTime(genesisTime, slot uint64) uint64 {
	return genesisTime + slot*BlockInterval()
}

// EpochOf returns the epoch number the slot belongs to.
func EpochOf(slot uint64) uint64 {
	return slot / SlotsPerEpoch()
}

// IsEpochStart returns whether slot is the first slot of its epoch.
func IsEpochStart(slot uint64) bool {
	return slot%SlotsPerEpoch() == 0
}
