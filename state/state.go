// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vexidus/hypersync/hs"
)

// State stages changes on top of a committed store version. Nothing is visible
// to the store until Commit. A State is not safe for concurrent use.
type State struct {
	store   *Store
	changes map[string][]byte // key => encoded value, nil for deleted
	journal []change
}

type change struct {
	key     string
	prev    []byte
	existed bool
}

func newState(store *Store) *State {
	return &State{
		store:   store,
		changes: make(map[string][]byte),
	}
}

func (s *State) get(key []byte) ([]byte, error) {
	if v, ok := s.changes[string(key)]; ok {
		return v, nil
	}
	return s.store.get(key)
}

func (s *State) put(key []byte, value []byte) {
	k := string(key)
	prev, existed := s.changes[k]
	s.journal = append(s.journal, change{k, prev, existed})
	s.changes[k] = value
}

func (s *State) putRLP(key []byte, val any) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return &Error{err}
	}
	s.put(key, data)
	return nil
}

func (s *State) getRLP(key []byte, val any) (bool, error) {
	data, err := s.get(key)
	if err != nil || data == nil {
		return false, err
	}
	if err := rlp.DecodeBytes(data, val); err != nil {
		return false, &Error{err}
	}
	return true, nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return len(s.journal)
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	for i := len(s.journal) - 1; i >= revision; i-- {
		c := s.journal[i]
		if c.existed {
			s.changes[c.key] = c.prev
		} else {
			delete(s.changes, c.key)
		}
	}
	s.journal = s.journal[:revision]
}

// Changed reports whether anything is staged.
func (s *State) Changed() bool {
	return len(s.changes) > 0
}

// Commit writes all staged changes atomically and returns the new store version.
// The state is emptied and can be reused on top of the new version.
func (s *State) Commit() (uint64, error) {
	var validators []hs.Address
	for k := range s.changes {
		if id, ok := validatorKeyID(k); ok {
			validators = append(validators, id)
		}
	}
	ver, err := s.store.commit(s.changes, validators)
	if err != nil {
		return 0, err
	}
	s.changes = make(map[string][]byte)
	s.journal = nil
	return ver, nil
}

func validatorKeyID(key string) (hs.Address, bool) {
	if len(key) != len(validatorBucket)+hs.AddressLength || key[:len(validatorBucket)] != string(validatorBucket) {
		return hs.Address{}, false
	}
	return hs.BytesToAddress([]byte(key[len(validatorBucket):])), true
}

// GetValidator returns a copy of the validator record, or nil if unknown.
func (s *State) GetValidator(id hs.Address) (*Validator, error) {
	if data, ok := s.changes[string(validatorBucket.Key(id[:]))]; ok {
		if data == nil {
			return nil, nil
		}
		return decodeValidator(data)
	}
	return s.store.getValidator(id)
}

// SetValidator stages the validator record.
func (s *State) SetValidator(v *Validator) error {
	return s.putRLP(validatorBucket.Key(v.ID[:]), v)
}

// ValidatorIDs lists all known validator ids in ascending order.
func (s *State) ValidatorIDs() ([]hs.Address, error) {
	keys, err := s.store.keys(validatorBucket)
	if err != nil {
		return nil, err
	}
	set := make(map[hs.Address]bool, len(keys))
	for _, k := range keys {
		set[hs.BytesToAddress(k)] = true
	}
	for k, v := range s.changes {
		if id, ok := validatorKeyID(k); ok {
			set[id] = v != nil
		}
	}

	ids := make([]hs.Address, 0, len(set))
	for id, ok := range set {
		if ok {
			ids = append(ids, id)
		}
	}
	hs.SortAddresses(ids)
	return ids, nil
}

// Validators returns all validator records in ascending id order.
func (s *State) Validators() ([]*Validator, error) {
	ids, err := s.ValidatorIDs()
	if err != nil {
		return nil, err
	}
	vals := make([]*Validator, 0, len(ids))
	for _, id := range ids {
		v, err := s.GetValidator(id)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, &Error{errors.Errorf("validator %v listed but missing", id)}
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// ValidatorOf returns the validator bound to staker.
func (s *State) ValidatorOf(staker hs.Address) (hs.Address, bool, error) {
	data, err := s.get(stakerBucket.Key(staker[:]))
	if err != nil || data == nil {
		return hs.Address{}, false, err
	}
	return hs.BytesToAddress(data), true, nil
}

// BindStaker records staker as the owner of validator id.
func (s *State) BindStaker(staker, id hs.Address) {
	s.put(stakerBucket.Key(staker[:]), bytes.Clone(id[:]))
}

// GetAccount returns the account of addr. Unknown addresses have an empty account.
func (s *State) GetAccount(addr hs.Address) (*Account, error) {
	var acc Account
	if _, err := s.getRLP(accountBucket.Key(addr[:]), &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// SetAccount stages the account. Empty accounts are deleted.
func (s *State) SetAccount(addr hs.Address, acc *Account) error {
	if acc.IsEmpty() {
		s.put(accountBucket.Key(addr[:]), nil)
		return nil
	}
	return s.putRLP(accountBucket.Key(addr[:]), acc)
}

// GetBalance returns the balance of addr.
func (s *State) GetBalance(addr hs.Address) (uint64, error) {
	acc, err := s.GetAccount(addr)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

// AddBalance credits amount to addr.
func (s *State) AddBalance(addr hs.Address, amount uint64) error {
	acc, err := s.GetAccount(addr)
	if err != nil {
		return err
	}
	if acc.Balance+amount < acc.Balance {
		return &Error{errors.New("balance overflow")}
	}
	acc.Balance += amount
	return s.SetAccount(addr, acc)
}

// SubBalance debits amount from addr. It returns false without change if the balance is short.
func (s *State) SubBalance(addr hs.Address, amount uint64) (bool, error) {
	acc, err := s.GetAccount(addr)
	if err != nil {
		return false, err
	}
	if acc.Balance < amount {
		return false, nil
	}
	acc.Balance -= amount
	return true, s.SetAccount(addr, acc)
}

// IncNonce increments the transaction count of addr.
func (s *State) IncNonce(addr hs.Address) error {
	acc, err := s.GetAccount(addr)
	if err != nil {
		return err
	}
	acc.Nonce++
	return s.SetAccount(addr, acc)
}

// GetEpoch returns the current epoch, or nil before genesis.
func (s *State) GetEpoch() (*Epoch, error) {
	var e Epoch
	ok, err := s.getRLP(epochKey, &e)
	if err != nil || !ok {
		return nil, err
	}
	return normalizeEpoch(&e), nil
}

// GetEpochAt returns the epoch snapshot taken when epoch number began, or nil.
func (s *State) GetEpochAt(number uint64) (*Epoch, error) {
	var e Epoch
	ok, err := s.getRLP(epochBucket.Key(be64(number)), &e)
	if err != nil || !ok {
		return nil, err
	}
	return normalizeEpoch(&e), nil
}

// SetEpoch stages e as the current epoch and keeps its snapshot.
func (s *State) SetEpoch(e *Epoch) error {
	cpy := *e
	cpy.ActiveSet = slices.Clone(e.ActiveSet)
	hs.SortAddresses(cpy.ActiveSet)
	if err := s.putRLP(epochKey, &cpy); err != nil {
		return err
	}
	return s.putRLP(epochBucket.Key(be64(e.Number)), &cpy)
}

func normalizeEpoch(e *Epoch) *Epoch {
	if len(e.ActiveSet) == 0 {
		e.ActiveSet = nil
	}
	return e
}

// GetHead returns the last committed block descriptor, or nil before the first block.
func (s *State) GetHead() (*Head, error) {
	var h Head
	ok, err := s.getRLP(headKey, &h)
	if err != nil || !ok {
		return nil, err
	}
	return &h, nil
}

// SetHead stages the head descriptor.
func (s *State) SetHead(h *Head) error {
	return s.putRLP(headKey, h)
}

// PutBlock stages the encoded block of slot.
func (s *State) PutBlock(slot uint64, raw []byte) {
	s.put(blockBucket.Key(be64(slot)), bytes.Clone(raw))
}

// GetBlock returns the encoded block of slot, or nil if the slot has none.
func (s *State) GetBlock(slot uint64) ([]byte, error) {
	return s.get(blockBucket.Key(be64(slot)))
}

// PutReceipt stages the encoded receipt of a transaction.
func (s *State) PutReceipt(txID hs.Bytes32, raw []byte) {
	s.put(receiptBucket.Key(txID[:]), bytes.Clone(raw))
}

// GetReceipt returns the encoded receipt of a transaction, or nil if the transaction is not committed.
func (s *State) GetReceipt(txID hs.Bytes32) ([]byte, error) {
	return s.get(receiptBucket.Key(txID[:]))
}

// GetGenesis returns the id of the genesis the store was initialized with.
func (s *State) GetGenesis() (hs.Bytes32, bool, error) {
	data, err := s.get(genesisKey)
	if err != nil || data == nil {
		return hs.Bytes32{}, false, err
	}
	return hs.BytesToBytes32(data), true, nil
}

// SetGenesis stages the genesis id.
func (s *State) SetGenesis(id hs.Bytes32) {
	s.put(genesisKey, bytes.Clone(id[:]))
}
