// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package hs

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// AddressLength length of address in bytes, equal to an Ed25519 public key.
	AddressLength = 32
	// shortAddressLength length of the EVM compatible form.
	shortAddressLength = 20
)

// Address identifies an account or a validator. It is the Ed25519 public key of the owner.
type Address [AddressLength]byte

// String implements the stringer interface
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// AbbrevString returns abbrev string presentation.
func (a Address) AbbrevString() string {
	return fmt.Sprintf("0x%x…%x", a[:4], a[28:])
}

// Bytes returns byte slice form of address.
func (a Address) Bytes() []byte {
	return a[:]
}

// IsZero returns if address has all zero bytes.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Compare returns an integer comparing two addresses lexicographically.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress convert string presented address into Address type.
// Both the 32 bytes form and the 20 bytes EVM form are accepted, the latter is right aligned.
func ParseAddress(s string) (Address, error) {
	if len(s) >= 2 && strings.ToLower(s[:2]) == "0x" {
		s = s[2:]
	}
	if len(s) != AddressLength*2 && len(s) != shortAddressLength*2 {
		return Address{}, errors.New("invalid length")
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, err
	}
	return BytesToAddress(b), nil
}

// MustParseAddress convert string presented address into Address type, panic on error.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// BytesToAddress converts bytes slice into address.
// If b is larger than address length, b will be cropped (from the left).
// If b is smaller than address length, b will be extended (from the left).
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// SortAddresses sorts addresses in ascending byte order in place.
func SortAddresses(addrs []Address) {
	slices.SortFunc(addrs, Address.Compare)
}
