// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package hs

import (
	"github.com/pkg/errors"
)

// Config is the configurable parameters of the protocol. Every parameter has a default value and
// is 'locked' for production networks. For testing purposes or custom networks, the parameters can be updated.
//
// All durations are in seconds of block time.

var (
	blockInterval       uint64 = 12             // 12 seconds
	epochDuration       uint64 = 300            // 300 seconds, 25 slots
	minStake            uint64 = 1000           // minimum stake of an admitted validator
	unbondingPeriod     uint64 = 21 * 24 * 3600 // 21 days
	jailThreshold       uint64 = 5              // consecutive missed proposals
	jailCooldown        uint64 = 3600           // 1 hour
	maxCommission       uint64 = 5000           // basis points, 50%
	maxActiveValidators uint64 = 100
	blockReward         uint64 = 2
	targetPeers         uint64 = 8
	stakeMaturityEpochs uint64 = 288 // 1 day of 300s epochs

	locked bool
)

type Config struct {
	BlockInterval       uint64 `json:"blockInterval" yaml:"blockInterval"`             // time interval between two consecutive slots.
	EpochDuration       uint64 `json:"epochDuration" yaml:"epochDuration"`             // must be a multiple of the block interval.
	MinStake            uint64 `json:"minStake" yaml:"minStake"`                       // minimum stake to enter the active set.
	UnbondingPeriod     uint64 `json:"unbondingPeriod" yaml:"unbondingPeriod"`         // wait between unstake and claim.
	JailThreshold       uint64 `json:"jailThreshold" yaml:"jailThreshold"`             // consecutive misses that jail a validator.
	JailCooldown        uint64 `json:"jailCooldown" yaml:"jailCooldown"`               // wait between jailing and unjail.
	MaxCommission       uint64 `json:"maxCommission" yaml:"maxCommission"`             // in basis points.
	MaxActiveValidators uint64 `json:"maxActiveValidators" yaml:"maxActiveValidators"` // size cap of the active set.
	BlockReward         uint64 `json:"blockReward" yaml:"blockReward"`                 // fixed reward per produced block.
	TargetPeers         uint64 `json:"targetPeers" yaml:"targetPeers"`                 // peer count rated as fully connected.
	StakeMaturityEpochs uint64 `json:"stakeMaturityEpochs" yaml:"stakeMaturityEpochs"` // bonded epochs rated as mature stake.
}

// SetConfig sets the config.
// Zero fields keep their current values.
// If the config is locked, will panic.
func SetConfig(cfg Config) {
	if locked {
		panic("config is locked, cannot be set")
	}

	set := func(dst *uint64, v uint64) {
		if v != 0 {
			*dst = v
		}
	}
	set(&blockInterval, cfg.BlockInterval)
	set(&epochDuration, cfg.EpochDuration)
	set(&minStake, cfg.MinStake)
	set(&unbondingPeriod, cfg.UnbondingPeriod)
	set(&jailThreshold, cfg.JailThreshold)
	set(&jailCooldown, cfg.JailCooldown)
	set(&maxCommission, cfg.MaxCommission)
	set(&maxActiveValidators, cfg.MaxActiveValidators)
	set(&blockReward, cfg.BlockReward)
	set(&targetPeers, cfg.TargetPeers)
	set(&stakeMaturityEpochs, cfg.StakeMaturityEpochs)
}

// GetConfig returns the parameters in effect.
func GetConfig() Config {
	return Config{
		BlockInterval:       blockInterval,
		EpochDuration:       epochDuration,
		MinStake:            minStake,
		UnbondingPeriod:     unbondingPeriod,
		JailThreshold:       jailThreshold,
		JailCooldown:        jailCooldown,
		MaxCommission:       maxCommission,
		MaxActiveValidators: maxActiveValidators,
		BlockReward:         blockReward,
		TargetPeers:         targetPeers,
		StakeMaturityEpochs: stakeMaturityEpochs,
	}
}

// Validate checks the non-zero fields of cfg against the parameters they would be combined with.
func (cfg Config) Validate() error {
	interval, duration := blockInterval, epochDuration
	if cfg.BlockInterval != 0 {
		interval = cfg.BlockInterval
	}
	if cfg.EpochDuration != 0 {
		duration = cfg.EpochDuration
	}
	if duration < interval || duration%interval != 0 {
		return errors.Errorf("epoch duration %v is not a multiple of block interval %v", duration, interval)
	}
	if cfg.MaxCommission > 10000 {
		return errors.Errorf("max commission %v exceeds 10000 bps", cfg.MaxCommission)
	}
	return nil
}

// LockConfig locks the config, preventing any further changes.
// Required for production networks.
func LockConfig() {
	locked = true
}

func BlockInterval() uint64 {
	return blockInterval
}

func EpochDuration() uint64 {
	return epochDuration
}

// SlotsPerEpoch returns the number of slots in an epoch.
func SlotsPerEpoch() uint64 {
	return epochDuration / blockInterval
}

func MinStake() uint64 {
	return minStake
}

func UnbondingPeriod() uint64 {
	return unbondingPeriod
}

func JailThreshold() uint64 {
	return jailThreshold
}

func JailCooldown() uint64 {
	return jailCooldown
}

func MaxCommission() uint64 {
	return maxCommission
}

func MaxActiveValidators() uint64 {
	return maxActiveValidators
}

func BlockReward() uint64 {
	return blockReward
}

func TargetPeers() uint64 {
	return targetPeers
}

func StakeMaturityEpochs() uint64 {
	return stakeMaturityEpochs
}
