// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import "github.com/vexidus/hypersync/metrics"

var (
	metricSlot          = metrics.LazyLoadGauge("consensus_slot")
	metricFinalized     = metrics.LazyLoadGauge("consensus_finalized_slot")
	metricBlocks        = metrics.LazyLoadCounterVec("consensus_blocks_count", []string{"status"})
	metricBlockDuration = metrics.LazyLoadHistogram("consensus_block_duration_ms", metrics.BucketMillis)
	metricTxs           = metrics.LazyLoadCounter("consensus_txs_count")
	metricVotes         = metrics.LazyLoadCounterVec("consensus_votes_count", []string{"type", "status"})
	metricMissed        = metrics.LazyLoadCounter("consensus_missed_slots_count")
	metricRewards       = metrics.LazyLoadCounter("consensus_rewards_total")
)
