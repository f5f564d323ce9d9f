// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pos

import (
	"cmp"
	"encoding/binary"
	"errors"
	"slices"

	"github.com/holiman/uint256"

	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/reputation"
	"github.com/vexidus/hypersync/state"
)

// ErrNoEligibleValidators is returned when no candidate can be scheduled.
var ErrNoEligibleValidators = errors.New("no eligible validators")

// Proposer is a scheduling candidate.
type Proposer struct {
	Address hs.Address
	Weight  uint64
	Jailed  bool
}

// ProposersOf returns the candidates of the active set among validators, weighted by
// stake and performance score.
func ProposersOf(validators []*state.Validator) []Proposer {
	proposers := make([]Proposer, 0, len(validators))
	for _, v := range validators {
		if !v.Active {
			continue
		}
		proposers = append(proposers, Proposer{
			Address: v.ID,
			Weight:  reputation.WeightOf(v.Stake, v.Score()),
			Jailed:  v.Jailed,
		})
	}
	return proposers
}

type entry struct {
	address hs.Address
	weight  uint64
}

// Scheduler picks the proposer of each slot by weighted draw. It is a pure function of
// the seed and the weight table, so every node derives the same leader.
type Scheduler struct {
	seed     hs.Bytes32
	sequence []entry
	total    uint256.Int
}

// NewScheduler create a Scheduler object.
// Jailed and zero weight proposers are left out. If none remain, ErrNoEligibleValidators returned.
func NewScheduler(proposers []Proposer, seed hs.Bytes32) (*Scheduler, error) {
	s := &Scheduler{
		seed:     seed,
		sequence: make([]entry, 0, len(proposers)),
	}
	for _, p := range proposers {
		if p.Jailed || p.Weight == 0 {
			continue
		}
		s.sequence = append(s.sequence, entry{p.Address, p.Weight})
		s.total.AddUint64(&s.total, p.Weight)
	}
	if len(s.sequence) == 0 {
		return nil, ErrNoEligibleValidators
	}

	// weight descending, ties by the smallest key
	slices.SortFunc(s.sequence, func(a, b entry) int {
		if c := cmp.Compare(b.weight, a.weight); c != 0 {
			return c
		}
		return a.address.Compare(b.address)
	})
	return s, nil
}

// Proposer returns the proposer of slot.
func (s *Scheduler) Proposer(slot uint64) hs.Address {
	var num [8]byte
	binary.BigEndian.PutUint64(num[:], slot)
	h := hs.Blake2b(s.seed[:], num[:])

	var target uint256.Int
	target.SetBytes32(h[:])
	target.Mod(&target, &s.total)

	var acc uint256.Int
	for _, e := range s.sequence {
		acc.AddUint64(&acc, e.weight)
		if target.Lt(&acc) {
			return e.address
		}
	}

	// should never happen
	panic("something wrong with proposers list")
}

// Schedule lists the proposers of n consecutive slots starting at from.
func (s *Scheduler) Schedule(from uint64, n int) []hs.Address {
	list := make([]hs.Address, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, s.Proposer(from+uint64(i)))
	}
	return list
}

// IsScheduled returns if proposer is the one of slot.
func (s *Scheduler) IsScheduled(slot uint64, proposer hs.Address) bool {
	return s.Proposer(slot) == proposer
}

// TotalWeight returns the sum of the scheduled weights.
func (s *Scheduler) TotalWeight() *uint256.Int {
	return s.total.Clone()
}

// Len returns the number of scheduled proposers.
func (s *Scheduler) Len() int {
	return len(s.sequence)
}
