// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"sync"

	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/keystore"
)

const devKeyCount = 10

// DevBalance is the genesis balance of each dev account.
const DevBalance uint64 = 1_000_000

var devKeys = sync.OnceValue(func() []*keystore.Key {
	keys := make([]*keystore.Key, 0, devKeyCount)
	for i := 0; i < devKeyCount; i++ {
		seed := hs.Blake2b([]byte(fmt.Sprintf("hypersync dev account %d", i)))
		key, err := keystore.FromSeed(seed[:])
		if err != nil {
			panic(err)
		}
		keys = append(keys, key)
	}
	return keys
})

// DevKeys returns the pre-funded keys of the dev network.
func DevKeys() []*keystore.Key {
	return devKeys()
}

// NewDevnet returns a dev network genesis where the first n dev keys validate with the minimum stake
// and every dev key is funded.
func NewDevnet(launchTime uint64, n int) *Genesis {
	keys := DevKeys()
	n = max(1, min(n, len(keys)))

	g := &Genesis{
		LaunchTime: launchTime,
		Seed:       hs.Blake2b([]byte("hypersync devnet")),
	}
	for i, key := range keys {
		g.Accounts = append(g.Accounts, Account{Address: key.PublicKey(), Balance: DevBalance})
		if i < n {
			g.Validators = append(g.Validators, Validator{
				ID:    key.PublicKey(),
				Stake: hs.MinStake(),
				Name:  fmt.Sprintf("dev-%d", i),
			})
		}
	}
	return g
}
