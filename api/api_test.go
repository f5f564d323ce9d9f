// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexidus/hypersync/api"
	"github.com/vexidus/hypersync/api/accounts"
	"github.com/vexidus/hypersync/api/epoch"
	"github.com/vexidus/hypersync/api/staking"
	"github.com/vexidus/hypersync/api/transactions"
	"github.com/vexidus/hypersync/api/validators"
	"github.com/vexidus/hypersync/consensus"
	"github.com/vexidus/hypersync/genesis"
	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/keystore"
	"github.com/vexidus/hypersync/lvldb"
	"github.com/vexidus/hypersync/packer"
	"github.com/vexidus/hypersync/state"
	"github.com/vexidus/hypersync/tx"
	"github.com/vexidus/hypersync/txpool"
)

type testServer struct {
	*httptest.Server
	t     *testing.T
	store *state.Store
	gen   *genesis.Genesis
	cons  *consensus.Consensus
}

func newTestServer(t *testing.T) *testServer {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store, err := state.NewStore(db)
	require.NoError(t, err)

	g := genesis.NewDevnet(1000, 2)
	require.NoError(t, g.Build(store))

	pool := txpool.New(store, keystore.Ed25519, txpool.DefaultOptions())
	t.Cleanup(pool.Close)
	cons := consensus.New(store, keystore.Ed25519, g.LaunchTime, consensus.Options{LeaderCheck: true})

	ts := httptest.NewServer(api.New(store, cons, pool, api.Options{AllowedOrigins: "*", EnableMetrics: true}))
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, t: t, store: store, gen: g, cons: cons}
}

func (s *testServer) get(path string, v any) int {
	res, err := http.Get(s.URL + path)
	require.NoError(s.t, err)
	defer res.Body.Close()
	if v != nil && res.StatusCode == http.StatusOK {
		require.NoError(s.t, json.NewDecoder(res.Body).Decode(v))
	}
	return res.StatusCode
}

func (s *testServer) post(path string, body any) (int, []byte) {
	data, err := json.Marshal(body)
	require.NoError(s.t, err)
	res, err := http.Post(s.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(s.t, err)
	defer res.Body.Close()
	out, err := io.ReadAll(res.Body)
	require.NoError(s.t, err)
	return res.StatusCode, out
}

func TestAccounts(t *testing.T) {
	s := newTestServer(t)
	key := genesis.DevKeys()[3]

	var acc accounts.Account
	require.Equal(t, http.StatusOK, s.get("/accounts/"+key.PublicKey().String(), &acc))
	assert.Equal(t, uint64(genesis.DevBalance), acc.Balance)
	assert.Equal(t, uint64(0), acc.Nonce)

	var empty accounts.Account
	require.Equal(t, http.StatusOK, s.get("/accounts/"+hs.Address{1}.String(), &empty))
	assert.Equal(t, uint64(0), empty.Balance)

	assert.Equal(t, http.StatusBadRequest, s.get("/accounts/0x1234", nil))
}

func TestValidators(t *testing.T) {
	s := newTestServer(t)
	keys := genesis.DevKeys()

	var list []validators.Summary
	require.Equal(t, http.StatusOK, s.get("/validators", &list))
	require.Len(t, list, 2)
	// equal stakes are ordered by id
	assert.Equal(t, -1, list[0].ID.Compare(list[1].ID))
	for _, v := range list {
		assert.Equal(t, hs.MinStake(), v.StakedAmount)
		assert.True(t, v.Active)
		assert.InDelta(t, hs.InitialScore, v.PerformanceScore, 1e-9)
	}

	require.Equal(t, http.StatusOK, s.get("/validators?limit=1", &list))
	assert.Len(t, list, 1)
	assert.Equal(t, http.StatusBadRequest, s.get("/validators?limit=0", nil))

	var v validators.Validator
	require.Equal(t, http.StatusOK, s.get("/validators/"+keys[0].PublicKey().String(), &v))
	assert.Equal(t, keys[0].PublicKey(), v.ID)
	assert.Equal(t, keys[0].PublicKey(), v.Staker)
	assert.Equal(t, hs.MinStake(), v.StakedAmount)
	assert.False(t, v.IsJailed)
	assert.Equal(t, uint64(0), v.MissedBlocks)
	assert.Equal(t, "dev-0", v.Metadata.Name)
	assert.Empty(t, v.Unbonding)

	assert.Equal(t, http.StatusNotFound, s.get("/validators/"+keys[5].PublicKey().String(), nil))
	assert.Equal(t, http.StatusBadRequest, s.get("/validators/xyz", nil))
}

func TestStaking(t *testing.T) {
	s := newTestServer(t)

	var info staking.Info
	require.Equal(t, http.StatusOK, s.get("/staking", &info))
	assert.Equal(t, 2*hs.MinStake(), info.TotalStaked)
	assert.Equal(t, 2, info.ActiveCount)
	assert.Equal(t, 2, info.ValidatorCount)
	assert.Equal(t, hs.GetConfig(), info.Config)
}

func TestEpoch(t *testing.T) {
	s := newTestServer(t)

	var e epoch.Epoch
	require.Equal(t, http.StatusOK, s.get("/epoch?schedule=5", &e))
	assert.Equal(t, uint64(0), e.Number)
	assert.Equal(t, s.gen.LaunchTime, e.StartTime)
	assert.Len(t, e.ActiveSet, 2)
	assert.Nil(t, e.Current)
	require.Len(t, e.Schedule, 5)
	for i, slot := range e.Schedule {
		assert.Equal(t, uint64(i), slot.Slot)
		assert.Equal(t, hs.SlotTime(s.gen.LaunchTime, uint64(i)), slot.Time)
		assert.Contains(t, e.ActiveSet, slot.Proposer)
	}

	_, err := s.cons.BeginSlot(3)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, s.get("/epoch", &e))
	require.NotNil(t, e.Current)
	assert.Equal(t, uint64(3), e.Current.Slot)
	assert.Len(t, e.Schedule, int(hs.SlotsPerEpoch()))
	assert.Equal(t, uint64(3), e.Schedule[0].Slot)
}

func TestTransactions(t *testing.T) {
	s := newTestServer(t)
	keys := genesis.DevKeys()
	staker := keys[4]

	trx := tx.Sign(tx.NewBuilder(tx.KindStake).Fee(3).Amount(hs.MinStake()).Validator(staker.PublicKey()).Build(), staker)
	data, err := rlp.EncodeToBytes(trx)
	require.NoError(t, err)
	raw := transactions.RawTx{Raw: hexutil.Encode(data)}

	code, body := s.post("/transactions", raw)
	require.Equal(t, http.StatusOK, code, string(body))
	var res map[string]string
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, trx.ID().String(), res["id"])

	code, _ = s.post("/transactions", raw)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.post("/transactions", transactions.RawTx{Raw: "0xzz"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.post("/transactions", map[string]string{"unknown": "field"})
	assert.Equal(t, http.StatusBadRequest, code)

	unsigned, err := rlp.EncodeToBytes(tx.NewBuilder(tx.KindUnjail).Origin(staker.PublicKey()).Build())
	require.NoError(t, err)
	code, _ = s.post("/transactions", transactions.RawTx{Raw: hexutil.Encode(unsigned)})
	assert.Equal(t, http.StatusBadRequest, code)

	var pending transactions.Transaction
	require.Equal(t, http.StatusOK, s.get("/transactions/"+trx.ID().String(), &pending))
	assert.Equal(t, "stake", pending.Kind)
	assert.Equal(t, staker.PublicKey(), pending.Origin)
	require.NotNil(t, pending.Validator)
	assert.Equal(t, staker.PublicKey(), *pending.Validator)

	var receipt *transactions.Receipt
	require.Equal(t, http.StatusOK, s.get("/transactions/"+trx.ID().String()+"/receipt", &receipt))
	assert.Nil(t, receipt)

	// commit the tx in the block of slot 0
	info, err := s.cons.BeginSlot(0)
	require.NoError(t, err)
	var proposer *keystore.Key
	for _, k := range keys {
		if k.PublicKey() == info.Proposer {
			proposer = k
		}
	}
	require.NotNil(t, proposer)
	adopt, commit, err := packer.New(s.store, s.gen.LaunchTime, proposer).Prepare(0, packer.Reports{})
	require.NoError(t, err)
	require.NoError(t, adopt(trx))
	blk, _, err := commit()
	require.NoError(t, err)
	_, err = s.cons.ProcessBlock(blk)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, s.get("/transactions/"+trx.ID().String()+"/receipt", &receipt))
	require.NotNil(t, receipt)
	assert.False(t, receipt.Reverted)
	assert.Equal(t, uint64(3), receipt.Fee)
	assert.Equal(t, blk.Header().ID(), receipt.BlockID)

	assert.Equal(t, http.StatusBadRequest, s.get("/transactions/0x12/receipt", nil))
}
