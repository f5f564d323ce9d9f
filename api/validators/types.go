// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validators

import (
	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/state"
)

type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	AvatarURL   string `json:"avatarUrl"`
}

type Unbonding struct {
	ID          uint64 `json:"id"`
	Amount      uint64 `json:"amount"`
	ReleaseTime uint64 `json:"releaseTime"`
	Claimable   bool   `json:"claimable"`
}

// Validator is the detailed view of a validator.
type Validator struct {
	ID               hs.Address  `json:"id"`
	Staker           hs.Address  `json:"staker"`
	StakedAmount     uint64      `json:"stakedAmount"`
	CommissionBPS    uint64      `json:"commissionBps"`
	IsJailed         bool        `json:"isJailed"`
	JailReleaseTime  uint64      `json:"jailReleaseTime"`
	PerformanceScore float64     `json:"performanceScore"`
	MissedBlocks     uint64      `json:"missedBlocks"`
	Active           bool        `json:"active"`
	Pending          bool        `json:"pending"`
	BondedSince      uint64      `json:"bondedSince"`
	Metadata         Metadata    `json:"metadata"`
	Unbonding        []Unbonding `json:"unbonding"`
}

// Summary is the list entry of a validator.
type Summary struct {
	ID               hs.Address `json:"id"`
	Name             string     `json:"name"`
	StakedAmount     uint64     `json:"stakedAmount"`
	CommissionBPS    uint64     `json:"commissionBps"`
	PerformanceScore float64    `json:"performanceScore"`
	IsJailed         bool       `json:"isJailed"`
	Active           bool       `json:"active"`
}

func convertValidator(v *state.Validator) *Validator {
	unbonding := make([]Unbonding, 0, len(v.Unbonding))
	for _, r := range v.Unbonding {
		unbonding = append(unbonding, Unbonding{
			ID:          r.ID,
			Amount:      r.Amount,
			ReleaseTime: r.ReleaseTime,
			Claimable:   r.Claimable,
		})
	}
	return &Validator{
		ID:               v.ID,
		Staker:           v.Staker,
		StakedAmount:     v.Stake,
		CommissionBPS:    v.CommissionBPS,
		IsJailed:         v.Jailed,
		JailReleaseTime:  v.JailReleaseTime,
		PerformanceScore: v.Score(),
		MissedBlocks:     v.MissedBlocks,
		Active:           v.Active,
		Pending:          v.Pending,
		BondedSince:      v.BondedSince,
		Metadata: Metadata{
			Name:        v.Metadata.Name,
			Description: v.Metadata.Description,
			URL:         v.Metadata.URL,
			AvatarURL:   v.Metadata.AvatarURL,
		},
		Unbonding: unbonding,
	}
}

func convertSummary(v *state.Validator) *Summary {
	return &Summary{
		ID:               v.ID,
		Name:             v.Metadata.Name,
		StakedAmount:     v.Stake,
		CommissionBPS:    v.CommissionBPS,
		PerformanceScore: v.Score(),
		IsJailed:         v.Jailed,
		Active:           v.Active,
	}
}
