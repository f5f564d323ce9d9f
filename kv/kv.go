// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Getter wraps methods for getting kvs.
type Getter interface {
	// Get value for given key.
	// An error returned if key not found. It can be checked via IsNotFound.
	Get(key []byte) (value []byte, err error)
	Has(key []byte) (bool, error)
	IsNotFound(error) bool

	NewIterator(r Range) Iterator
}

// Putter wraps methods for putting kvs.
type Putter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// GetPutter wraps methods for getting/putting kvs.
type GetPutter interface {
	Getter
	Putter

	NewBatch() Batch
}

// GetPutCloser with close method.
type GetPutCloser interface {
	GetPutter
	Close() error
}

// Batch collects puts and deletes that are written atomically.
type Batch interface {
	Putter

	Len() int
	Write() error
}

// Iterator to iterates kvs in key order.
type Iterator interface {
	Next() bool
	Release()
	Error() error

	Key() []byte
	Value() []byte
}

// Range is the key range [From, To). A nil To means no upper bound.
type Range struct {
	From []byte
	To   []byte
}

// PrefixRange returns the range covering all keys with the given prefix.
func PrefixRange(prefix []byte) Range {
	var limit []byte
	for i := len(prefix) - 1; i >= 0; i-- {
		if c := prefix[i]; c < 0xff {
			limit = make([]byte, i+1)
			copy(limit, prefix)
			limit[i] = c + 1
			break
		}
	}
	return Range{From: prefix, To: limit}
}

// Bucket is a key prefix acting as a namespace.
type Bucket string

// Key returns the full key of k in the bucket.
func (b Bucket) Key(k []byte) []byte {
	key := make([]byte, 0, len(b)+len(k))
	key = append(key, b...)
	return append(key, k...)
}

// Range returns the range covering the bucket.
func (b Bucket) Range() Range {
	return PrefixRange([]byte(b))
}
