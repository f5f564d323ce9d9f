// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package jail

import "github.com/vexidus/hypersync/metrics"

var (
	metricJailed   = metrics.LazyLoadCounter("jail_jailed_count")
	metricUnjailed = metrics.LazyLoadCounter("jail_unjailed_count")
	metricMissed   = metrics.LazyLoadCounter("jail_missed_blocks_count")
)
