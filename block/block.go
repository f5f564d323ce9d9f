// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"fmt"
	"io"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vexidus/hypersync/keystore"
	"github.com/vexidus/hypersync/tx"
)

// Block is an immutable block type.
type Block struct {
	header *Header
	txs    tx.Transactions
	votes  Votes
}

// New create a block instance.
// Note: This method is usually to recover a block by its portions, and the roots are not verified.
// To build up a block, use a Builder.
func New(header *Header, txs tx.Transactions, votes Votes) *Block {
	return &Block{header, slices.Clone(txs), slices.Clone(votes)}
}

// Header returns the block header.
func (b *Block) Header() *Header {
	return b.header
}

// Transactions returns a copy of transactions.
func (b *Block) Transactions() tx.Transactions {
	return slices.Clone(b.txs)
}

// Votes returns a copy of the parent precommits carried by the block.
func (b *Block) Votes() Votes {
	return slices.Clone(b.votes)
}

// Sign returns the block signed by signer. The signer must be the proposer.
func (b *Block) Sign(signer keystore.Signer) *Block {
	hash := b.header.SigningHash()
	return &Block{b.header.withSignature(signer.Sign(hash[:])), b.txs, b.votes}
}

// EncodeRLP implements rlp.Encoder.
func (b *Block) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, []any{b.header, b.txs, b.votes})
}

// DecodeRLP implements rlp.Decoder.
func (b *Block) DecodeRLP(s *rlp.Stream) error {
	payload := struct {
		Header Header
		Txs    tx.Transactions
		Votes  Votes
	}{}
	if err := s.Decode(&payload); err != nil {
		return err
	}
	*b = Block{header: &payload.Header, txs: payload.Txs, votes: payload.Votes}
	return nil
}

// Encode returns the RLP encoding of the block.
func (b *Block) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(b)
}

// Decode decodes a block encoded by Encode.
func Decode(data []byte) (*Block, error) {
	var b Block
	if err := rlp.DecodeBytes(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (b *Block) String() string {
	return fmt.Sprintf(`Block(%v)
%v
Transactions: %v
Votes: %v`, b.header.ID(), b.header, len(b.txs), len(b.votes))
}
