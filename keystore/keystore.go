// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package keystore holds the validator's Ed25519 signing key.
package keystore

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/vexidus/hypersync/hs"
)

// SignatureLength is the length of an Ed25519 signature.
const SignatureLength = ed25519.SignatureSize

// Signer signs messages with a validator key.
type Signer interface {
	Sign(msg []byte) []byte
	PublicKey() hs.Address
}

// Verifier checks a signature against a public key.
type Verifier interface {
	Verify(pub hs.Address, msg, sig []byte) bool
}

// Ed25519 is the default Verifier.
var Ed25519 Verifier = ed25519Verifier{}

type ed25519Verifier struct{}

func (ed25519Verifier) Verify(pub hs.Address, msg, sig []byte) bool {
	if len(sig) != SignatureLength {
		return false
	}
	return ed25519.Verify(pub.Bytes(), msg, sig)
}

// Key is an Ed25519 key pair. A Key's address is its public key.
type Key struct {
	priv ed25519.PrivateKey
	pub  hs.Address
}

var _ Signer = (*Key)(nil)

// Generate creates a random key.
func Generate() (*Key, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "generate key")
	}
	return newKey(priv), nil
}

// FromSeed derives the key from a 32 byte seed.
func FromSeed(seed []byte) (*Key, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Errorf("invalid seed length %d, want %d", len(seed), ed25519.SeedSize)
	}
	return newKey(ed25519.NewKeyFromSeed(seed)), nil
}

func newKey(priv ed25519.PrivateKey) *Key {
	k := &Key{priv: priv}
	copy(k.pub[:], priv.Public().(ed25519.PublicKey))
	return k
}

func (k *Key) Sign(msg []byte) []byte {
	return ed25519.Sign(k.priv, msg)
}

func (k *Key) PublicKey() hs.Address {
	return k.pub
}

// Seed returns the 32 byte seed the key derives from.
func (k *Key) Seed() []byte {
	return k.priv.Seed()
}

// Load reads a key file holding the hex encoded seed.
func Load(path string) (*Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	seed, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, errors.Wrap(err, "decode key file")
	}
	return FromSeed(seed)
}

// Save writes the hex encoded seed, readable by the owner only.
func (k *Key) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(k.Seed())), 0600); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file
	return os.Chmod(path, 0600)
}

// LoadOrGenerate loads the key file, or generates and saves a new key if the file does not exist.
func LoadOrGenerate(path string) (*Key, error) {
	key, err := Load(path)
	if err == nil {
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	if key, err = Generate(); err != nil {
		return nil, err
	}
	if err := key.Save(path); err != nil {
		return nil, err
	}
	return key, nil
}
