// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package hs

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	full := "0x" + strings.Repeat("ab", 32)
	short := "0x" + strings.Repeat("cd", 20)

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{full, full, false},
		{strings.ToUpper(full[2:]), full, false},
		{short, "0x" + strings.Repeat("00", 12) + strings.Repeat("cd", 20), false},
		{"0x1234", "", true},
		{"0x" + strings.Repeat("zz", 32), "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		addr, err := ParseAddress(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, addr.String())
	}

	assert.Panics(t, func() { MustParseAddress("0x") })
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte{1, 2, 3})
	data, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"0x`+strings.Repeat("00", 29)+`010203"`, string(data))

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"0x01"`), &decoded))
}

func TestSortAddresses(t *testing.T) {
	a := BytesToAddress([]byte{1})
	b := BytesToAddress([]byte{2})
	c := BytesToAddress([]byte{1, 0})

	addrs := []Address{c, b, a}
	SortAddresses(addrs)
	assert.Equal(t, []Address{a, b, c}, addrs)
	assert.True(t, Address{}.IsZero())
	assert.False(t, a.IsZero())
}

func TestBlake2b(t *testing.T) {
	one := Blake2b([]byte("hello"), []byte("world"))
	two := Blake2b([]byte("helloworld"))
	assert.Equal(t, one, two)
	assert.NotEqual(t, one, Blake2b([]byte("hello")))

	parsed, err := ParseBytes32(one.String())
	require.NoError(t, err)
	assert.Equal(t, one, parsed)
}
