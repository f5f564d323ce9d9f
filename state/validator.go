// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math"
	"slices"

	"github.com/vexidus/hypersync/hs"
)

// Metadata is the self declared profile of a validator.
type Metadata struct {
	Name        string
	Description string
	URL         string
	AvatarURL   string
}

// UnbondingRequest is stake removed from a validator and waiting for release.
type UnbondingRequest struct {
	ID          uint64
	Amount      uint64
	ReleaseTime uint64 // unix seconds
	Claimable   bool   // set by the epoch transition once ReleaseTime passed
}

// Stats are the counters of the running epoch, reset on recalculation of the score.
type Stats struct {
	SlotsAssigned  uint64
	BlocksProduced uint64
	VotesExpected  uint64
	VotesCast      uint64
	TxsProcessed   uint64
	Peers          uint64 // last reported peer count, 0 if unreported
}

// Validator is the consensus record of a validator, keyed by its public key.
type Validator struct {
	ID            hs.Address // Ed25519 public key
	Staker        hs.Address // account providing the stake and receiving rewards
	Stake         uint64     // usable stake, excluding unbonding requests
	CommissionBPS uint64
	Metadata      Metadata

	Active  bool // member of the current epoch's active set
	Pending bool // stake crossed the minimum, active set membership changes at the next epoch

	Jailed          bool
	JailReleaseTime uint64
	MissedBlocks    uint64 // consecutive missed proposals

	ScoreBits   uint64 // IEEE-754 bits of the performance score
	BondedSince uint64 // epoch the validator was admitted

	Unbonding     []UnbondingRequest
	NextRequestID uint64

	Stats Stats
}

// NewValidator returns a fresh record with the initial score.
func NewValidator(id, staker hs.Address) *Validator {
	v := &Validator{ID: id, Staker: staker}
	v.SetScore(hs.InitialScore)
	return v
}

// Score returns the performance score.
func (v *Validator) Score() float64 {
	return math.Float64frombits(v.ScoreBits)
}

// SetScore sets the performance score.
func (v *Validator) SetScore(score float64) {
	v.ScoreBits = math.Float64bits(score)
}

// Eligible reports whether the validator may be scheduled to propose.
func (v *Validator) Eligible() bool {
	return v.Active && !v.Jailed && v.Stake > 0
}

// Unbonded returns the total amount held in unbonding requests.
func (v *Validator) Unbonded() uint64 {
	var total uint64
	for _, r := range v.Unbonding {
		total += r.Amount
	}
	return total
}

// Request returns the index of the unbonding request with the given id, or -1.
func (v *Validator) Request(id uint64) int {
	return slices.IndexFunc(v.Unbonding, func(r UnbondingRequest) bool { return r.ID == id })
}

// Copy returns a deep copy.
func (v *Validator) Copy() *Validator {
	cpy := *v
	cpy.Unbonding = slices.Clone(v.Unbonding)
	return &cpy
}
