// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"encoding/binary"
	"sync"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vexidus/hypersync/cache"
	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/kv"
	"github.com/vexidus/hypersync/log"
)

var logger = log.WithContext("pkg", "state")

// key spaces
const (
	validatorBucket = kv.Bucket("v") // id => validator
	stakerBucket    = kv.Bucket("s") // staker => validator id
	accountBucket   = kv.Bucket("a") // address => account
	epochBucket     = kv.Bucket("e") // be64 number => epoch
	blockBucket     = kv.Bucket("b") // be64 slot => raw block
	receiptBucket   = kv.Bucket("r") // tx id => raw receipt
	metaBucket      = kv.Bucket("m")
)

var (
	versionKey = metaBucket.Key([]byte("version"))
	epochKey   = metaBucket.Key([]byte("epoch"))
	headKey    = metaBucket.Key([]byte("head"))
	genesisKey = metaBucket.Key([]byte("genesis"))
)

const validatorCacheSize = 1024

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return "state: " + e.cause.Error()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Store is the versioned persistent state. Every commit bumps the version.
type Store struct {
	db      kv.GetPutter
	mu      sync.RWMutex
	version uint64
	cache   *cache.LRU[hs.Address, *Validator]
}

// NewStore opens the store on db.
func NewStore(db kv.GetPutter) (*Store, error) {
	lru, err := cache.NewLRU[hs.Address, *Validator](validatorCacheSize)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db, cache: lru}

	data, err := db.Get(versionKey)
	switch {
	case err == nil:
		if len(data) != 8 {
			return nil, &Error{errors.New("corrupted version")}
		}
		s.version = binary.BigEndian.Uint64(data)
	case db.IsNotFound(err):
	default:
		return nil, &Error{err}
	}
	return s, nil
}

// Version returns the number of commits applied to the store.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// State returns a staging state on top of the latest committed version.
func (s *Store) State() *State {
	return newState(s)
}

// get reads a committed value, returning nil if absent.
func (s *Store) get(key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(key)
}

func (s *Store) getLocked(key []byte) ([]byte, error) {
	data, err := s.db.Get(key)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, nil
		}
		return nil, &Error{err}
	}
	return data, nil
}

var errNoValidator = errors.New("no validator")

// getValidator loads under the read lock, so a concurrent commit cannot leave a stale cache entry.
func (s *Store) getValidator(id hs.Address) (*Validator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, err := s.cache.GetOrLoad(id, func(id hs.Address) (*Validator, error) {
		data, err := s.getLocked(validatorBucket.Key(id[:]))
		if err != nil {
			return nil, err
		}
		if data == nil {
			return nil, errNoValidator
		}
		return decodeValidator(data)
	})
	if err != nil {
		if err == errNoValidator {
			return nil, nil
		}
		return nil, err
	}
	return v.Copy(), nil
}

// keys lists the committed keys of bucket.
func (s *Store) keys(bucket kv.Bucket) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it := s.db.NewIterator(bucket.Range())
	defer it.Release()

	var keys [][]byte
	for it.Next() {
		keys = append(keys, append([]byte(nil), it.Key()[len(bucket):]...))
	}
	if err := it.Error(); err != nil {
		return nil, &Error{err}
	}
	return keys, nil
}

// commit writes changes atomically. A nil value deletes the key.
// Cached entries of the touched validators are dropped.
func (s *Store) commit(changes map[string][]byte, validators []hs.Address) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.db.NewBatch()
	for k, v := range changes {
		var err error
		if v == nil {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), v)
		}
		if err != nil {
			return 0, &Error{err}
		}
	}

	var ver [8]byte
	binary.BigEndian.PutUint64(ver[:], s.version+1)
	if err := batch.Put(versionKey, ver[:]); err != nil {
		return 0, &Error{err}
	}
	if err := batch.Write(); err != nil {
		return 0, &Error{err}
	}
	s.version++

	for _, id := range validators {
		s.cache.Remove(id)
	}
	if changed, hit, miss := s.cache.Stats().Stats(); changed {
		logger.Debug("validator cache stats", "hit", hit, "miss", miss)
	}
	return s.version, nil
}

func decodeValidator(data []byte) (*Validator, error) {
	var v Validator
	if err := rlp.DecodeBytes(data, &v); err != nil {
		return nil, &Error{errors.Wrap(err, "decode validator")}
	}
	if len(v.Unbonding) == 0 {
		v.Unbonding = nil
	}
	return &v, nil
}

func be64(n uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)
	return b[:]
}
