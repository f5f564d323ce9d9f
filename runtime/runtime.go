// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes staking transactions against a state.
package runtime

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vexidus/hypersync/jail"
	"github.com/vexidus/hypersync/reverts"
	"github.com/vexidus/hypersync/staker"
	"github.com/vexidus/hypersync/state"
	"github.com/vexidus/hypersync/tx"
)

// ErrInsufficientFee reverts a transaction whose origin cannot pay the fee after execution.
var ErrInsufficientFee = reverts.New("insufficient balance for fee")

// ErrBadNonce is returned when the transaction nonce does not match the origin account.
// A block carrying such transaction is invalid.
type ErrBadNonce struct {
	Want, Got uint64
}

func (e *ErrBadNonce) Error() string {
	return fmt.Sprintf("bad nonce: want %d, got %d", e.Want, e.Got)
}

// Runtime is to support transaction execution.
type Runtime struct {
	state  *state.State
	staker *staker.Staker
	jail   *jail.Manager

	// block env
	blockSlot uint64
	blockTime uint64
}

// New create a Runtime object.
func New(st *state.State, blockSlot, blockTime uint64) *Runtime {
	return &Runtime{
		state:     st,
		staker:    staker.New(st),
		jail:      jail.New(st),
		blockSlot: blockSlot,
		blockTime: blockTime,
	}
}

func (rt *Runtime) State() *state.State { return rt.state }
func (rt *Runtime) BlockSlot() uint64   { return rt.blockSlot }
func (rt *Runtime) BlockTime() uint64   { return rt.blockTime }

// ExecuteTransaction executes a transaction.
// A rejected operation is reported by a reverted receipt, leaving only the nonce increment
// behind and charging no fee. A returned error means the transaction is invalid in this block.
func (rt *Runtime) ExecuteTransaction(t *tx.Transaction) (*tx.Receipt, error) {
	resolved, err := ResolveTransaction(t)
	if err != nil {
		return nil, err
	}
	acc, err := rt.state.GetAccount(resolved.Origin)
	if err != nil {
		return nil, err
	}
	if acc.Nonce != t.Nonce() {
		return nil, &ErrBadNonce{Want: acc.Nonce, Got: t.Nonce()}
	}
	if err := rt.state.IncNonce(resolved.Origin); err != nil {
		return nil, err
	}

	receipt := &tx.Receipt{TxID: t.ID(), Slot: rt.blockSlot}
	checkpoint := rt.state.NewCheckpoint()

	err = rt.apply(resolved)
	if err == nil {
		var paid bool
		if paid, err = rt.state.SubBalance(resolved.Origin, t.Fee()); err == nil && !paid {
			err = ErrInsufficientFee
		}
	}
	switch {
	case err == nil:
		receipt.Fee = t.Fee()
	case reverts.IsRevertErr(err):
		rt.state.RevertTo(checkpoint)
		receipt.Reverted = true
		receipt.Error = err.Error()
	default:
		return nil, err
	}
	return receipt, nil
}

func (rt *Runtime) apply(r *ResolvedTransaction) error {
	t := r.tx
	switch r.Kind {
	case tx.KindStake:
		return rt.staker.Stake(r.Origin, t.Amount(), t.Validator())
	case tx.KindUnstake:
		_, err := rt.staker.Unstake(r.Origin, t.Amount(), rt.blockTime)
		return err
	case tx.KindClaimUnstake:
		_, err := rt.staker.ClaimUnstake(r.Origin, t.RequestID(), rt.blockTime)
		return err
	case tx.KindSetCommission:
		return rt.staker.SetCommission(r.Origin, t.Commission())
	case tx.KindSetMetadata:
		md := t.Metadata()
		return rt.staker.SetMetadata(r.Origin, state.Metadata{
			Name:        md.Name,
			Description: md.Description,
			URL:         md.URL,
			AvatarURL:   md.AvatarURL,
		})
	case tx.KindUnjail:
		return rt.jail.Unjail(r.Origin, rt.blockTime)
	}
	return errors.Errorf("unknown transaction kind %v", r.Kind)
}
