// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package health reports whether the node keeps committing blocks.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/log"
	"github.com/vexidus/hypersync/state"
)

var logger = log.WithContext("pkg", "health")

const delayBuffer = 5 * time.Second

type BlockIngestion struct {
	ID        *hs.Bytes32 `json:"id"`
	Number    uint64      `json:"number"`
	Slot      uint64      `json:"slot"`
	Finalized *hs.Bytes32 `json:"finalized"`
	Timestamp *time.Time  `json:"timestamp"`
}

type Status struct {
	Healthy        bool            `json:"healthy"`
	BlockIngestion *BlockIngestion `json:"blockIngestion"`
}

// Health tracks the head of the store.
type Health struct {
	lock          sync.RWMutex
	store         *state.Store
	blockInterval time.Duration
	newBestBlock  time.Time
	head          *state.Head
}

// New creates a Health over store. The node is healthy while a new head appears
// at least once per blockInterval, with some slack.
func New(store *state.Store, blockInterval time.Duration) *Health {
	return &Health{
		store:         store,
		blockInterval: blockInterval,
	}
}

// Run polls the head until ctx is done.
func (h *Health) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := h.poll(); err != nil {
				logger.Debug("failed to read head", "err", err)
			}
		}
	}
}

func (h *Health) poll() error {
	head, err := h.store.State().GetHead()
	if err != nil || head == nil {
		return err
	}

	h.lock.RLock()
	changed := h.head == nil || h.head.ID != head.ID || h.head.Finalized != head.Finalized
	h.lock.RUnlock()

	if changed {
		h.NewBestBlock(head)
	}
	return nil
}

// NewBestBlock records head as observed now.
func (h *Health) NewBestBlock(head *state.Head) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.head == nil || h.head.ID != head.ID {
		h.newBestBlock = time.Now()
	}
	cpy := *head
	h.head = &cpy
}

// Status returns the status as of now.
func (h *Health) Status() *Status {
	return h.status(time.Now())
}

func (h *Health) status(now time.Time) *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	ingestion := &BlockIngestion{}
	if h.head != nil {
		id, finalized, ts := h.head.ID, h.head.Finalized, h.newBestBlock
		ingestion.ID = &id
		ingestion.Number = h.head.Number
		ingestion.Slot = h.head.Slot
		ingestion.Timestamp = &ts
		if !finalized.IsZero() {
			ingestion.Finalized = &finalized
		}
	}

	return &Status{
		Healthy:        h.head != nil && now.Sub(h.newBestBlock) <= h.blockInterval+delayBuffer,
		BlockIngestion: ingestion,
	}
}
