// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reputation computes the performance score of validators from their epoch counters.
//
// Each factor is normalised to [-1, 1]; the weighted sum scaled by MaxEpochDelta moves the
// score, which stays within [hs.MinScore, hs.MaxScore]. All products are rounded to float64
// explicitly so every architecture computes identical scores.
package reputation

import (
	"math"
	"math/bits"

	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/state"
)

// MaxEpochDelta bounds the score change of one epoch.
const MaxEpochDelta = 0.05

// Factor weights, summing to 1.
const (
	WeightUptime     = 0.30
	WeightVotes      = 0.20
	WeightStake      = 0.15
	WeightCommission = 0.10
	WeightTxVolume   = 0.10
	WeightPeers      = 0.10
	WeightGovernance = 0.05
)

// Factors are the normalised inputs of one recalculation.
type Factors struct {
	Uptime     float64
	Votes      float64
	Stake      float64
	Commission float64
	TxVolume   float64
	Peers      float64
	Governance float64 // reserved, always 0
}

// Averages are the population figures factors are measured against.
type Averages struct {
	Stake float64
	Txs   float64
}

// AveragesOf computes the averages over validators.
func AveragesOf(validators []*state.Validator) Averages {
	if len(validators) == 0 {
		return Averages{}
	}
	var stake, txs float64
	for _, v := range validators {
		stake = float64(stake + float64(v.Stake))
		txs = float64(txs + float64(v.Stats.TxsProcessed))
	}
	n := float64(len(validators))
	return Averages{Stake: float64(stake / n), Txs: float64(txs / n)}
}

// Compute derives the factors of v at epoch from its counters of the ending epoch.
// An epoch ended in jail counts as zero uptime and zero votes, so the score cannot rise.
func Compute(v *state.Validator, avg Averages, epoch uint64) Factors {
	var f Factors

	// uptime and votes are neutral when nothing was expected
	if v.Stats.SlotsAssigned > 0 {
		f.Uptime = ratioFactor(v.Stats.BlocksProduced, v.Stats.SlotsAssigned)
	}
	if v.Stats.VotesExpected > 0 {
		f.Votes = ratioFactor(v.Stats.VotesCast, v.Stats.VotesExpected)
	}

	var stakeRatio float64
	if avg.Stake > 0 {
		stakeRatio = math.Min(1, float64(float64(v.Stake)/avg.Stake))
	}
	var bonded uint64
	if epoch > v.BondedSince {
		bonded = epoch - v.BondedSince
	}
	maturity := math.Min(1, float64(float64(bonded)/float64(hs.StakeMaturityEpochs())))
	f.Stake = float64(float64(stakeRatio*0.5) + float64(maturity*0.5))

	f.Commission = clamp(float64(1 - float64(2*float64(v.CommissionBPS)/float64(hs.MaxCommission()))))

	if avg.Txs > 0 {
		f.TxVolume = clamp(float64(float64(float64(v.Stats.TxsProcessed)/avg.Txs) - 1))
	}
	if v.Stats.Peers > 0 {
		f.Peers = clamp(float64(float64(2*float64(v.Stats.Peers)/float64(hs.TargetPeers())) - 1))
	}

	// a jailed validator serves nothing, whatever its counters say
	if v.Jailed {
		f.Uptime, f.Votes, f.Peers = -1, -1, 0
	}
	return f
}

// Delta returns the score change the factors produce.
func (f Factors) Delta() float64 {
	sum := float64(WeightUptime * f.Uptime)
	sum = float64(sum + float64(WeightVotes*f.Votes))
	sum = float64(sum + float64(WeightStake*f.Stake))
	sum = float64(sum + float64(WeightCommission*f.Commission))
	sum = float64(sum + float64(WeightTxVolume*f.TxVolume))
	sum = float64(sum + float64(WeightPeers*f.Peers))
	sum = float64(sum + float64(WeightGovernance*f.Governance))
	return float64(MaxEpochDelta * sum)
}

// Apply moves score by delta, clamped to the legal range.
func Apply(score, delta float64) float64 {
	return math.Max(hs.MinScore, math.Min(hs.MaxScore, float64(score+delta)))
}

// Recalculate updates the score of v and resets its epoch counters. The peer count
// is kept because it is a last reported value, not a counter.
func Recalculate(v *state.Validator, avg Averages, epoch uint64) Factors {
	f := Compute(v, avg, epoch)
	v.SetScore(Apply(v.Score(), f.Delta()))
	v.Stats = state.Stats{Peers: v.Stats.Peers}
	return f
}

// WeightOf returns the scheduling weight stake × round(score × 10000) / 10000.
func WeightOf(stake uint64, score float64) uint64 {
	scaled := ScaledScore(score)
	hi, lo := bits.Mul64(stake, scaled)
	// scaled <= ScorePrecision, so hi < ScorePrecision and the division cannot overflow
	q, _ := bits.Div64(hi, lo, hs.ScorePrecision)
	return q
}

// ScaledScore returns the score in fixed point with hs.ScorePrecision.
func ScaledScore(score float64) uint64 {
	s := math.Round(float64(score * float64(hs.ScorePrecision)))
	if s <= 0 {
		return 0
	}
	return min(uint64(s), hs.ScorePrecision)
}

func ratioFactor(n, d uint64) float64 {
	return clamp(float64(float64(2*float64(n)/float64(d)) - 1))
}

func clamp(f float64) float64 {
	return math.Max(-1, math.Min(1, f))
}
