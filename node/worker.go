// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/vexidus/hypersync/block"
	"github.com/vexidus/hypersync/consensus"
)

// importCandidates verifies the candidates in parallel, then hands the valid ones to the
// consensus in arrival order. It returns the first block committed, if any.
// Only fatal errors are returned.
func (n *Node) importCandidates(candidates []*block.Block) (*block.Block, error) {
	verified := make([]error, len(candidates))

	var g errgroup.Group
	workers := n.options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)
	for i, blk := range candidates {
		i, blk := i, blk
		g.Go(func() error {
			verified[i] = consensus.VerifySignatures(blk, n.verifier)
			return nil
		})
	}
	g.Wait()

	for i, blk := range candidates {
		if err := verified[i]; err != nil {
			metricBlockReceivedCount().AddWithLabel(1, map[string]string{"status": "invalid"})
			logger.Debug("candidate rejected", "id", blk.Header().ID(), "err", err)
			continue
		}
		err := evalBlockReceivedMetrics(func() error {
			_, err := n.cons.ProcessBlock(blk)
			return err
		})
		switch {
		case err == nil:
			return blk, nil
		case consensus.IsFatal(err):
			return nil, err
		default:
			logger.Debug("candidate rejected", "id", blk.Header().ID(), "err", err)
		}
	}
	return nil, nil
}
