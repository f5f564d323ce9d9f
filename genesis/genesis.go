// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes the initial state of a network and writes it into a store.
package genesis

import (
	"os"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vexidus/hypersync/epoch"
	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/log"
	"github.com/vexidus/hypersync/state"
)

var logger = log.WithContext("pkg", "genesis")

// Genesis is the user defined genesis of a network.
type Genesis struct {
	LaunchTime uint64      `yaml:"launchTime"`
	Seed       hs.Bytes32  `yaml:"seed"`
	Config     *hs.Config  `yaml:"config"`
	Accounts   []Account   `yaml:"accounts"`
	Validators []Validator `yaml:"validators"`
}

// Account is the account will set to the genesis block
type Account struct {
	Address hs.Address `yaml:"address"`
	Balance uint64     `yaml:"balance"`
}

// Validator is a validator admitted from the first epoch.
type Validator struct {
	ID         hs.Address `yaml:"id"`
	Staker     hs.Address `yaml:"staker"` // defaults to the id
	Stake      uint64     `yaml:"stake"`
	Commission uint64     `yaml:"commission"`
	Name       string     `yaml:"name"`
}

// Load reads the genesis file at path.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return Parse(data)
}

// Parse decodes a YAML genesis and checks it.
func Parse(data []byte) (*Genesis, error) {
	var g Genesis
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// Validate checks the genesis for consistency.
func (g *Genesis) Validate() error {
	if g.Config != nil {
		if err := g.Config.Validate(); err != nil {
			return err
		}
	}
	minStake := hs.MinStake()
	if g.Config != nil && g.Config.MinStake != 0 {
		minStake = g.Config.MinStake
	}
	maxCommission := hs.MaxCommission()
	if g.Config != nil && g.Config.MaxCommission != 0 {
		maxCommission = g.Config.MaxCommission
	}

	if len(g.Validators) == 0 {
		return errors.New("genesis without validators")
	}
	ids := make(map[hs.Address]bool, len(g.Validators))
	stakers := make(map[hs.Address]bool, len(g.Validators))
	for _, v := range g.Validators {
		if v.ID.IsZero() {
			return errors.New("validator with zero id")
		}
		staker := v.staker()
		if ids[v.ID] || stakers[staker] {
			return errors.Errorf("validator %v listed twice", v.ID)
		}
		ids[v.ID], stakers[staker] = true, true
		if v.Stake < minStake {
			return errors.Errorf("validator %v: stake %d below minimum %d", v.ID, v.Stake, minStake)
		}
		if v.Commission > maxCommission {
			return errors.Errorf("validator %v: commission %d above maximum %d", v.ID, v.Commission, maxCommission)
		}
		if len(v.Name) > hs.MaxMetadataLength {
			return errors.Errorf("validator %v: name too long", v.ID)
		}
	}
	return nil
}

func (v *Validator) staker() hs.Address {
	if v.Staker.IsZero() {
		return v.ID
	}
	return v.Staker
}

// Apply installs the protocol parameters of the genesis. Must be called before hs.LockConfig.
func (g *Genesis) Apply() {
	if g.Config != nil {
		hs.SetConfig(*g.Config)
	}
}

// ID returns the genesis id, a hash over its whole content.
func (g *Genesis) ID() hs.Bytes32 {
	var cfg hs.Config
	if g.Config != nil {
		cfg = *g.Config
	}
	data, err := rlp.EncodeToBytes([]any{g.LaunchTime, g.Seed, cfg, g.Accounts, g.Validators})
	if err != nil {
		panic(err)
	}
	return hs.Blake2b(data)
}

// Build writes the genesis state into store. An already initialized store is left alone
// when it has the same genesis, and refused otherwise.
func (g *Genesis) Build(store *state.Store) error {
	id := g.ID()
	st := store.State()
	existing, ok, err := st.GetGenesis()
	if err != nil {
		return err
	}
	if ok {
		if existing != id {
			return errors.Errorf("genesis mismatch: store has %v, want %v", existing, id)
		}
		return nil
	}

	for _, acc := range g.Accounts {
		if err := st.AddBalance(acc.Address, acc.Balance); err != nil {
			return err
		}
	}
	for _, gv := range g.Validators {
		v := state.NewValidator(gv.ID, gv.staker())
		v.Stake = gv.Stake
		v.CommissionBPS = gv.Commission
		v.Metadata.Name = gv.Name
		if err := st.SetValidator(v); err != nil {
			return err
		}
		st.BindStaker(v.Staker, v.ID)
	}
	if _, err := epoch.Start(st, g.Seed, g.LaunchTime); err != nil {
		return err
	}
	st.SetGenesis(id)
	if _, err := st.Commit(); err != nil {
		return err
	}
	logger.Info("genesis built", "id", id, "validators", len(g.Validators), "accounts", len(g.Accounts))
	return nil
}
