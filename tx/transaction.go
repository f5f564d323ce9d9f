// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/keystore"
)

// Kind is the staking operation a transaction carries.
type Kind uint8

const (
	KindStake Kind = iota + 1
	KindUnstake
	KindClaimUnstake
	KindSetCommission
	KindSetMetadata
	KindUnjail
)

var kindNames = map[Kind]string{
	KindStake:         "stake",
	KindUnstake:       "unstake",
	KindClaimUnstake:  "claimUnstake",
	KindSetCommission: "setCommission",
	KindSetMetadata:   "setValidatorMetadata",
	KindUnjail:        "unjail",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind parses the name of a kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, errors.Errorf("unknown transaction kind %q", s)
}

// Metadata is the payload of KindSetMetadata.
type Metadata struct {
	Name        string
	Description string
	URL         string
	AvatarURL   string
}

// Transaction is an immutable signed staking operation.
type Transaction struct {
	body body

	cache struct {
		id atomic.Pointer[hs.Bytes32]
	}
}

// body describes details of a tx.
type body struct {
	Kind       Kind
	Origin     hs.Address // the signer, also the staker
	Nonce      uint64
	Fee        uint64
	Amount     uint64
	Validator  hs.Address // stake target
	RequestID  uint64
	Commission uint64 // basis points
	Metadata   Metadata
	Signature  []byte
}

// ID returns the hash of the signed tx.
func (t *Transaction) ID() hs.Bytes32 {
	if cached := t.cache.id.Load(); cached != nil {
		return *cached
	}
	id := hs.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, &t.body)
	})
	t.cache.id.Store(&id)
	return id
}

// SigningHash returns hash of tx excludes signature.
func (t *Transaction) SigningHash() hs.Bytes32 {
	return hs.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			t.body.Kind,
			t.body.Origin,
			t.body.Nonce,
			t.body.Fee,
			t.body.Amount,
			t.body.Validator,
			t.body.RequestID,
			t.body.Commission,
			t.body.Metadata,
		})
	})
}

func (t *Transaction) Kind() Kind            { return t.body.Kind }
func (t *Transaction) Origin() hs.Address    { return t.body.Origin }
func (t *Transaction) Nonce() uint64         { return t.body.Nonce }
func (t *Transaction) Fee() uint64           { return t.body.Fee }
func (t *Transaction) Amount() uint64        { return t.body.Amount }
func (t *Transaction) Validator() hs.Address { return t.body.Validator }
func (t *Transaction) RequestID() uint64     { return t.body.RequestID }
func (t *Transaction) Commission() uint64    { return t.body.Commission }
func (t *Transaction) Metadata() Metadata    { return t.body.Metadata }

// Signature returns signature.
func (t *Transaction) Signature() []byte {
	return append([]byte(nil), t.body.Signature...)
}

// WithSignature create a new tx with signature set.
func (t *Transaction) WithSignature(sig []byte) *Transaction {
	newTx := Transaction{body: t.body}
	newTx.body.Signature = append([]byte(nil), sig...)
	return &newTx
}

// Sign returns the tx signed by signer, whose key becomes the origin.
func Sign(t *Transaction, signer keystore.Signer) *Transaction {
	unsigned := Transaction{body: t.body}
	unsigned.body.Origin = signer.PublicKey()
	hash := unsigned.SigningHash()
	return unsigned.WithSignature(signer.Sign(hash[:]))
}

// Verify checks the signature against the origin.
func (t *Transaction) Verify(v keystore.Verifier) bool {
	hash := t.SigningHash()
	return v.Verify(t.body.Origin, hash[:], t.body.Signature)
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*t = Transaction{body: body}
	return nil
}

func (t *Transaction) String() string {
	return fmt.Sprintf(`Tx(%v, %v)
	Kind:       %v
	Origin:     %v
	Nonce:      %v
	Fee:        %v
	Amount:     %v
	Validator:  %v
	RequestID:  %v
	Commission: %v`, t.ID(), len(t.body.Signature) > 0,
		t.body.Kind, t.body.Origin, t.body.Nonce, t.body.Fee, t.body.Amount,
		t.body.Validator, t.body.RequestID, t.body.Commission)
}
