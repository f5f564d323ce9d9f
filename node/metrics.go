// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"time"

	"github.com/vexidus/hypersync/metrics"
)

var (
	metricBlockProposedCount    = metrics.LazyLoadCounterVec("node_block_proposed_count", []string{"status"})
	metricBlockProposedTxs      = metrics.LazyLoadCounter("node_block_proposed_tx_count")
	metricBlockProposedDuration = metrics.LazyLoadHistogram("node_block_proposed_duration_ms", metrics.BucketMillis)

	metricBlockReceivedCount    = metrics.LazyLoadCounterVec("node_block_received_count", []string{"status"})
	metricBlockReceivedDuration = metrics.LazyLoadHistogram("node_block_received_duration_ms", metrics.BucketMillis)

	metricVotesCast = metrics.LazyLoadCounterVec("node_votes_cast_count", []string{"status"})
)

// evalBlockReceivedMetrics captures block receiving metrics
func evalBlockReceivedMetrics(f func() error) error {
	startTime := time.Now()
	err := f()
	status := "received"
	if err != nil {
		status = "failed"
	}
	metricBlockReceivedCount().AddWithLabel(1, map[string]string{"status": status})
	metricBlockReceivedDuration().Observe(time.Since(startTime).Milliseconds())
	return err
}

// evalBlockProposeMetrics captures block proposing metrics
func evalBlockProposeMetrics(f func() error) error {
	startTime := time.Now()
	err := f()
	status := "proposed"
	if err != nil {
		status = "failed"
	}
	metricBlockProposedCount().AddWithLabel(1, map[string]string{"status": status})
	metricBlockProposedDuration().Observe(time.Since(startTime).Milliseconds())
	return err
}
