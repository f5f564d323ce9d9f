// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/keystore"
	"github.com/vexidus/hypersync/lvldb"
	"github.com/vexidus/hypersync/staker"
	"github.com/vexidus/hypersync/state"
	"github.com/vexidus/hypersync/tx"
)

func newRuntime(t *testing.T, key *keystore.Key, balance uint64) *Runtime {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store, err := state.NewStore(db)
	require.NoError(t, err)

	st := store.State()
	require.NoError(t, st.AddBalance(key.PublicKey(), balance))
	return New(st, 5, 1000)
}

func newKey(t *testing.T) *keystore.Key {
	key, err := keystore.Generate()
	require.NoError(t, err)
	return key
}

func account(t *testing.T, rt *Runtime, addr hs.Address) *state.Account {
	acc, err := rt.State().GetAccount(addr)
	require.NoError(t, err)
	return acc
}

func TestExecuteStake(t *testing.T) {
	key := newKey(t)
	rt := newRuntime(t, key, 1010)

	trx := tx.Sign(tx.NewBuilder(tx.KindStake).Fee(10).Amount(1000).Validator(key.PublicKey()).Build(), key)
	receipt, err := rt.ExecuteTransaction(trx)
	require.NoError(t, err)
	assert.Equal(t, &tx.Receipt{TxID: trx.ID(), Fee: 10, Slot: 5}, receipt)

	acc := account(t, rt, key.PublicKey())
	assert.Equal(t, &state.Account{Nonce: 1}, acc)

	v, err := rt.State().GetValidator(key.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), v.Stake)
	assert.True(t, v.Pending)
}

func TestExecuteReverted(t *testing.T) {
	key := newKey(t)
	rt := newRuntime(t, key, 5000)

	trx := tx.Sign(tx.NewBuilder(tx.KindStake).Fee(10).Amount(999).Validator(key.PublicKey()).Build(), key)
	receipt, err := rt.ExecuteTransaction(trx)
	require.NoError(t, err)
	assert.True(t, receipt.Reverted)
	assert.Contains(t, receipt.Error, staker.ErrInsufficientAmount.Error())
	assert.Zero(t, receipt.Fee)

	// only the nonce moved
	assert.Equal(t, &state.Account{Balance: 5000, Nonce: 1}, account(t, rt, key.PublicKey()))
}

func TestExecuteFeeNotPayable(t *testing.T) {
	key := newKey(t)
	rt := newRuntime(t, key, 1000)

	// the stake consumes the whole balance, leaving nothing for the fee
	trx := tx.Sign(tx.NewBuilder(tx.KindStake).Fee(1).Amount(1000).Validator(key.PublicKey()).Build(), key)
	receipt, err := rt.ExecuteTransaction(trx)
	require.NoError(t, err)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, ErrInsufficientFee.Error(), receipt.Error)

	v, err := rt.State().GetValidator(key.PublicKey())
	require.NoError(t, err)
	assert.Nil(t, v, "stake reverted too")
	assert.Equal(t, &state.Account{Balance: 1000, Nonce: 1}, account(t, rt, key.PublicKey()))
}

func TestExecuteBadNonce(t *testing.T) {
	key := newKey(t)
	rt := newRuntime(t, key, 1000)

	trx := tx.Sign(tx.NewBuilder(tx.KindUnjail).Nonce(1).Build(), key)
	_, err := rt.ExecuteTransaction(trx)
	var bad *ErrBadNonce
	require.True(t, errors.As(err, &bad))
	assert.Equal(t, &ErrBadNonce{Want: 0, Got: 1}, bad)
	assert.Equal(t, uint64(0), account(t, rt, key.PublicKey()).Nonce)
}

func TestExecuteUnstakeAndClaim(t *testing.T) {
	key := newKey(t)
	rt := newRuntime(t, key, 2000)
	exec := func(b *tx.Builder, nonce uint64) *tx.Receipt {
		r, err := rt.ExecuteTransaction(tx.Sign(b.Nonce(nonce).Build(), key))
		require.NoError(t, err)
		return r
	}

	assert.False(t, exec(tx.NewBuilder(tx.KindStake).Amount(1500).Validator(key.PublicKey()), 0).Reverted)
	assert.False(t, exec(tx.NewBuilder(tx.KindUnstake).Amount(500), 1).Reverted)
	r := exec(tx.NewBuilder(tx.KindClaimUnstake).RequestID(0), 2)
	assert.True(t, r.Reverted)
	assert.Contains(t, r.Error, staker.ErrNotYetReleasable.Error())
	assert.False(t, exec(tx.NewBuilder(tx.KindSetCommission).Commission(100), 3).Reverted)
	assert.False(t, exec(tx.NewBuilder(tx.KindSetMetadata).Metadata(tx.Metadata{Name: "node"}), 4).Reverted)

	v, err := rt.State().GetValidator(key.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), v.Stake)
	assert.Equal(t, uint64(500), v.Unbonded())
	assert.Equal(t, uint64(100), v.CommissionBPS)
	assert.Equal(t, "node", v.Metadata.Name)

	claimAt := New(rt.State(), 6, 1000+hs.UnbondingPeriod())
	r, err = claimAt.ExecuteTransaction(tx.Sign(tx.NewBuilder(tx.KindClaimUnstake).RequestID(0).Nonce(5).Build(), key))
	require.NoError(t, err)
	assert.False(t, r.Reverted)
	assert.Equal(t, uint64(1000), account(t, rt, key.PublicKey()).Balance)
}

func TestResolveTransaction(t *testing.T) {
	key := newKey(t)

	_, err := ResolveTransaction(tx.NewBuilder(tx.KindUnjail).Origin(key.PublicKey()).Build())
	assert.Error(t, err, "unsigned")

	_, err = ResolveTransaction(tx.Sign(tx.NewBuilder(tx.Kind(42)).Build(), key))
	assert.Error(t, err)

	_, err = ResolveTransaction(tx.Sign(tx.NewBuilder(tx.KindStake).Amount(1).Build(), key))
	assert.Error(t, err)

	r, err := ResolveTransaction(tx.Sign(tx.NewBuilder(tx.KindUnjail).Build(), key))
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), r.Origin)
	assert.Equal(t, tx.KindUnjail, r.Kind)
}
