// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/tx"
)

type txObject struct {
	*tx.Transaction
	timeAdded time.Time
	local     bool
}

// txObjectMap to maintain mapping of tx id to tx object and account quota.
type txObjectMap struct {
	lock    sync.RWMutex
	mapByID map[hs.Bytes32]*txObject
	quota   map[hs.Address]int
}

func newTxObjectMap() *txObjectMap {
	return &txObjectMap{
		mapByID: make(map[hs.Bytes32]*txObject),
		quota:   make(map[hs.Address]int),
	}
}

func (m *txObjectMap) Contains(id hs.Bytes32) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	_, found := m.mapByID[id]
	return found
}

func (m *txObjectMap) Add(txObj *txObject, limit, limitPerAccount int) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	id := txObj.ID()
	if _, found := m.mapByID[id]; found {
		return errKnownTx
	}
	if limit > 0 && len(m.mapByID) >= limit {
		return errPoolFull
	}
	origin := txObj.Origin()
	if limitPerAccount > 0 && m.quota[origin] >= limitPerAccount {
		return errAccountQuota
	}
	m.mapByID[id] = txObj
	m.quota[origin]++
	return nil
}

func (m *txObjectMap) Get(id hs.Bytes32) *txObject {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.mapByID[id]
}

func (m *txObjectMap) Remove(id hs.Bytes32) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	txObj, ok := m.mapByID[id]
	if !ok {
		return false
	}
	delete(m.mapByID, id)
	origin := txObj.Origin()
	if m.quota[origin] > 1 {
		m.quota[origin]--
	} else {
		delete(m.quota, origin)
	}
	return true
}

func (m *txObjectMap) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.mapByID)
}

// ToTxObjects returns the pooled objects ordered by origin, nonce and arrival.
func (m *txObjectMap) ToTxObjects() []*txObject {
	m.lock.RLock()
	objs := make([]*txObject, 0, len(m.mapByID))
	for _, obj := range m.mapByID {
		objs = append(objs, obj)
	}
	m.lock.RUnlock()

	slices.SortFunc(objs, func(a, b *txObject) int {
		if c := a.Origin().Compare(b.Origin()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Nonce(), b.Nonce()); c != 0 {
			return c
		}
		if c := a.timeAdded.Compare(b.timeAdded); c != 0 {
			return c
		}
		id1, id2 := a.ID(), b.ID()
		return slices.Compare(id1[:], id2[:])
	})
	return objs
}

func (m *txObjectMap) ToTxs() tx.Transactions {
	objs := m.ToTxObjects()
	txs := make(tx.Transactions, 0, len(objs))
	for _, obj := range objs {
		txs = append(txs, obj.Transaction)
	}
	return txs
}
