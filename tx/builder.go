// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import "github.com/vexidus/hypersync/hs"

// Builder to make it easy to build transaction.
type Builder struct {
	body body
}

// NewBuilder starts a transaction of kind.
func NewBuilder(kind Kind) *Builder {
	return &Builder{body: body{Kind: kind}}
}

// Origin sets the sender. Sign overrides it with the signer's key.
func (b *Builder) Origin(addr hs.Address) *Builder {
	b.body.Origin = addr
	return b
}

func (b *Builder) Nonce(nonce uint64) *Builder {
	b.body.Nonce = nonce
	return b
}

func (b *Builder) Fee(fee uint64) *Builder {
	b.body.Fee = fee
	return b
}

func (b *Builder) Amount(amount uint64) *Builder {
	b.body.Amount = amount
	return b
}

func (b *Builder) Validator(id hs.Address) *Builder {
	b.body.Validator = id
	return b
}

func (b *Builder) RequestID(id uint64) *Builder {
	b.body.RequestID = id
	return b
}

func (b *Builder) Commission(bps uint64) *Builder {
	b.body.Commission = bps
	return b
}

func (b *Builder) Metadata(m Metadata) *Builder {
	b.body.Metadata = m
	return b
}

// Build build tx object.
func (b *Builder) Build() *Transaction {
	return &Transaction{body: b.body}
}
