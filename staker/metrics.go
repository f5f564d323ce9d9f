// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import "github.com/vexidus/hypersync/metrics"

var metricOps = metrics.LazyLoadCounterVec("staker_ops_count", []string{"op", "status"})

func countOp(op string, err error) {
	status := "ok"
	switch {
	case err == nil:
	case IsRevertErr(err):
		status = "reverted"
	default:
		status = "error"
	}
	metricOps().AddWithLabel(1, map[string]string{"op": op, "status": status})
}
