// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package txpool queues signed staking transactions until a block includes them.
package txpool

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vexidus/hypersync/co"
	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/keystore"
	"github.com/vexidus/hypersync/log"
	"github.com/vexidus/hypersync/runtime"
	"github.com/vexidus/hypersync/state"
	"github.com/vexidus/hypersync/tx"
)

const (
	// max size of tx allowed
	maxTxSize = 64 * 1024

	washInterval = time.Second
)

var logger = log.WithContext("pkg", "txpool")

// Options options for tx pool.
type Options struct {
	Limit           int
	LimitPerAccount int
	MaxLifetime     time.Duration
}

// DefaultOptions returns the options used by the node.
func DefaultOptions() Options {
	return Options{
		Limit:           10000,
		LimitPerAccount: 16,
		MaxLifetime:     20 * time.Minute,
	}
}

// TxEvent will be posted when tx is added or status changed.
type TxEvent struct {
	Tx         *tx.Transaction
	Executable bool
	IsLocal    bool
}

// TxPool maintains unprocessed transactions.
type TxPool struct {
	options  Options
	store    *state.Store
	verifier keystore.Verifier

	all    *txObjectMap
	ctx    context.Context
	cancel func()
	txFeed event.Feed
	scope  event.SubscriptionScope
	goes   co.Goes
	added  co.Signal
}

// New create a new TxPool instance.
// Shutdown is required to be called at end.
func New(store *state.Store, verifier keystore.Verifier, options Options) *TxPool {
	ctx, cancel := context.WithCancel(context.Background())
	pool := &TxPool{
		options:  options,
		store:    store,
		verifier: verifier,
		all:      newTxObjectMap(),
		ctx:      ctx,
		cancel:   cancel,
	}
	pool.goes.Go(pool.housekeeping)
	return pool
}

func (p *TxPool) housekeeping() {
	logger.Debug("enter housekeeping")
	defer logger.Debug("leave housekeeping")

	ticker := time.NewTicker(washInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			removed, err := p.wash(time.Now())
			if err != nil {
				logger.Warn("failed to wash txs", "err", err)
				continue
			}
			if removed > 0 {
				logger.Debug("wash done", "removed", removed, "remaining", p.all.Len())
			}
		}
	}
}

// Close cleanup inner go routines.
func (p *TxPool) Close() {
	p.cancel()
	p.scope.Close()
	p.goes.Wait()
	logger.Debug("closed")
}

// SubscribeTxEvent receivers will receive a tx.
func (p *TxPool) SubscribeTxEvent(ch chan *TxEvent) event.Subscription {
	return p.scope.Track(p.txFeed.Subscribe(ch))
}

// Added returns a channel closed when the next tx enters the pool.
func (p *TxPool) Added() <-chan struct{} {
	return p.added.Wait()
}

func (p *TxPool) add(newTx *tx.Transaction, local bool) error {
	if p.all.Contains(newTx.ID()) {
		return errKnownTx
	}
	data, err := rlp.EncodeToBytes(newTx)
	if err != nil {
		return badTxError{err.Error()}
	}
	if len(data) > maxTxSize {
		metricBadTxGauge().AddWithLabel(1, map[string]string{"reason": "size"})
		return errTooLarge
	}
	if _, err := runtime.ResolveTransaction(newTx); err != nil {
		metricBadTxGauge().AddWithLabel(1, map[string]string{"reason": "resolve"})
		return badTxError{err.Error()}
	}
	if !newTx.Verify(p.verifier) {
		metricBadTxGauge().AddWithLabel(1, map[string]string{"reason": "signature"})
		return errBadSignature
	}

	st := p.store.State()
	if receipt, err := st.GetReceipt(newTx.ID()); err != nil {
		return err
	} else if receipt != nil {
		return errKnownTx
	}
	acc, err := st.GetAccount(newTx.Origin())
	if err != nil {
		return err
	}
	if newTx.Nonce() < acc.Nonce {
		metricBadTxGauge().AddWithLabel(1, map[string]string{"reason": "nonce"})
		return errors.Wrapf(errStaleNonce, "account nonce %d", acc.Nonce)
	}

	if err := p.all.Add(&txObject{Transaction: newTx, timeAdded: time.Now(), local: local}, p.options.Limit, p.options.LimitPerAccount); err != nil {
		return err
	}
	metricTxPoolGauge().AddWithLabel(1, map[string]string{"source": sourceOf(local)})
	logger.Debug("tx added", "id", newTx.ID(), "kind", newTx.Kind(), "origin", newTx.Origin())

	p.goes.Go(func() {
		p.txFeed.Send(&TxEvent{Tx: newTx, Executable: newTx.Nonce() == acc.Nonce, IsLocal: local})
	})
	p.added.Broadcast()
	return nil
}

// Add adds a new tx from the network into the pool.
func (p *TxPool) Add(newTx *tx.Transaction) error {
	return p.add(newTx, false)
}

// AddLocal adds a tx submitted through the API.
func (p *TxPool) AddLocal(newTx *tx.Transaction) error {
	return p.add(newTx, true)
}

// Get get pooled tx by id.
func (p *TxPool) Get(id hs.Bytes32) *tx.Transaction {
	if txObj := p.all.Get(id); txObj != nil {
		return txObj.Transaction
	}
	return nil
}

// Remove removes tx from pool by its id.
func (p *TxPool) Remove(id hs.Bytes32) bool {
	txObj := p.all.Get(id)
	if txObj == nil || !p.all.Remove(id) {
		return false
	}
	metricTxPoolGauge().AddWithLabel(-1, map[string]string{"source": sourceOf(txObj.local)})
	logger.Debug("tx removed", "id", id)
	return true
}

// Executables returns the txs that can be applied on the committed state,
// grouped by origin with consecutive nonces starting at the account nonce.
func (p *TxPool) Executables() (tx.Transactions, error) {
	st := p.store.State()
	var (
		txs    tx.Transactions
		origin hs.Address
		next   uint64
	)
	for i, obj := range p.all.ToTxObjects() {
		if i == 0 || obj.Origin() != origin {
			acc, err := st.GetAccount(obj.Origin())
			if err != nil {
				return nil, err
			}
			origin, next = obj.Origin(), acc.Nonce
		}
		if obj.Nonce() == next {
			txs = append(txs, obj.Transaction)
			next++
		}
	}
	return txs, nil
}

// Dump dumps all txs in the pool.
func (p *TxPool) Dump() tx.Transactions {
	return p.all.ToTxs()
}

// Len returns count of pooled txs.
func (p *TxPool) Len() int {
	return p.all.Len()
}

// wash evicts txs which are committed, stale by nonce or expired.
func (p *TxPool) wash(now time.Time) (int, error) {
	st := p.store.State()
	nonces := make(map[hs.Address]uint64)

	var removed int
	for _, obj := range p.all.ToTxObjects() {
		nonce, ok := nonces[obj.Origin()]
		if !ok {
			acc, err := st.GetAccount(obj.Origin())
			if err != nil {
				return removed, err
			}
			nonce = acc.Nonce
			nonces[obj.Origin()] = nonce
		}

		evict := obj.Nonce() < nonce
		if !evict {
			receipt, err := st.GetReceipt(obj.ID())
			if err != nil {
				return removed, err
			}
			evict = receipt != nil
		}
		if !evict && p.options.MaxLifetime > 0 && now.Sub(obj.timeAdded) > p.options.MaxLifetime {
			evict = true
		}
		if evict && p.Remove(obj.ID()) {
			removed++
		}
	}
	return removed, nil
}

func sourceOf(local bool) string {
	if local {
		return "local"
	}
	return "remote"
}
