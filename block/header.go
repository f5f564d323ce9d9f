// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/keystore"
)

// Header contains almost all information about a block, except block body.
// It's immutable.
type Header struct {
	body headerBody

	cache struct {
		id atomic.Pointer[hs.Bytes32]
	}
}

// headerBody body of header
type headerBody struct {
	ParentID     hs.Bytes32
	Slot         uint64
	Number       uint64
	Timestamp    uint64
	Proposer     hs.Address
	TxsRoot      hs.Bytes32
	ReceiptsRoot hs.Bytes32
	TotalFee     uint64
	VotesRoot    hs.Bytes32
	Peers        uint64

	Signature []byte
}

func (h *Header) ParentID() hs.Bytes32     { return h.body.ParentID }
func (h *Header) Slot() uint64             { return h.body.Slot }
func (h *Header) Number() uint64           { return h.body.Number }
func (h *Header) Timestamp() uint64        { return h.body.Timestamp }
func (h *Header) Proposer() hs.Address     { return h.body.Proposer }
func (h *Header) TxsRoot() hs.Bytes32      { return h.body.TxsRoot }
func (h *Header) ReceiptsRoot() hs.Bytes32 { return h.body.ReceiptsRoot }

// TotalFee returns the sum of fees charged by the block's transactions.
func (h *Header) TotalFee() uint64 { return h.body.TotalFee }

// VotesRoot returns the root of the parent precommits carried by the block.
func (h *Header) VotesRoot() hs.Bytes32 { return h.body.VotesRoot }

// Peers returns the peer count the proposer reported, 0 if unreported.
func (h *Header) Peers() uint64 { return h.body.Peers }

// Signature returns signature.
func (h *Header) Signature() []byte {
	return append([]byte(nil), h.body.Signature...)
}

// SigningHash computes hash of all header fields excluding signature.
func (h *Header) SigningHash() hs.Bytes32 {
	return hs.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			h.body.ParentID,
			h.body.Slot,
			h.body.Number,
			h.body.Timestamp,
			h.body.Proposer,
			h.body.TxsRoot,
			h.body.ReceiptsRoot,
			h.body.TotalFee,
			h.body.VotesRoot,
			h.body.Peers,
		})
	})
}

// ID computes id of block, which covers the signature.
func (h *Header) ID() hs.Bytes32 {
	if cached := h.cache.id.Load(); cached != nil {
		return *cached
	}
	signingHash := h.SigningHash()
	id := hs.Blake2b(signingHash[:], h.body.Signature)
	h.cache.id.Store(&id)
	return id
}

// Verify checks the signature against the proposer.
func (h *Header) Verify(v keystore.Verifier) bool {
	hash := h.SigningHash()
	return v.Verify(h.body.Proposer, hash[:], h.body.Signature)
}

// withSignature create a new Header object with signature set.
func (h *Header) withSignature(sig []byte) *Header {
	cpy := Header{body: h.body}
	cpy.body.Signature = append([]byte(nil), sig...)
	return &cpy
}

// EncodeRLP implements rlp.Encoder
func (h *Header) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &h.body)
}

// DecodeRLP implements rlp.Decoder.
func (h *Header) DecodeRLP(s *rlp.Stream) error {
	var body headerBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	*h = Header{body: body}
	return nil
}

func (h *Header) String() string {
	return fmt.Sprintf(`Header(%v):
	Slot:         %v
	Number:       %v
	ParentID:     %v
	Timestamp:    %v
	Proposer:     %v
	TxsRoot:      %v
	ReceiptsRoot: %v
	TotalFee:     %v
	VotesRoot:    %v
	Peers:        %v`, h.ID(), h.body.Slot, h.body.Number, h.body.ParentID, h.body.Timestamp,
		h.body.Proposer, h.body.TxsRoot, h.body.ReceiptsRoot, h.body.TotalFee, h.body.VotesRoot, h.body.Peers)
}
