// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vexidus/hypersync/hs"
	"github.com/vexidus/hypersync/keystore"
)

// VoteType distinguishes the rounds a validator votes in.
type VoteType uint8

const (
	VotePrevote   VoteType = 1
	VotePrecommit VoteType = 2
)

// Vote is a validator's signed attestation of a block.
type Vote struct {
	BlockID   hs.Bytes32
	Type      VoteType
	Epoch     uint64
	Voter     hs.Address
	Signature []byte
}

// VoteMessage returns the signed message: block id, vote type, little endian epoch.
func VoteMessage(blockID hs.Bytes32, typ VoteType, epoch uint64) []byte {
	msg := make([]byte, 0, 41)
	msg = append(msg, blockID[:]...)
	msg = append(msg, byte(typ))
	return binary.LittleEndian.AppendUint64(msg, epoch)
}

// NewVote builds a vote signed by signer.
func NewVote(signer keystore.Signer, blockID hs.Bytes32, typ VoteType, epoch uint64) *Vote {
	return &Vote{
		BlockID:   blockID,
		Type:      typ,
		Epoch:     epoch,
		Voter:     signer.PublicKey(),
		Signature: signer.Sign(VoteMessage(blockID, typ, epoch)),
	}
}

// Verify checks the signature against the voter.
func (v *Vote) Verify(verifier keystore.Verifier) bool {
	return verifier.Verify(v.Voter, VoteMessage(v.BlockID, v.Type, v.Epoch), v.Signature)
}

// Votes is a list of votes.
type Votes []*Vote

// RootHash computes the root hash of the votes, zero when empty.
func (vs Votes) RootHash() hs.Bytes32 {
	if len(vs) == 0 {
		return hs.Bytes32{}
	}
	data, _ := rlp.EncodeToBytes(vs)
	return hs.Blake2b(data)
}
