// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import "github.com/vexidus/hypersync/metrics"

var (
	metricEpoch    = metrics.LazyLoadGauge("epoch_number")
	metricActive   = metrics.LazyLoadGauge("epoch_active_validators")
	metricAdmitted = metrics.LazyLoadCounter("epoch_admitted_count")
	metricDropped  = metrics.LazyLoadCounter("epoch_dropped_count")
)
