// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReverts(t *testing.T) {
	revert := New("test")
	assert.Equal(t, "test", revert.Error())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))

	detailed := revert.With("have %d", 3)
	assert.Equal(t, "test: have 3", detailed.Error())
	assert.True(t, IsRevertErr(detailed))
	assert.True(t, errors.Is(detailed, revert))
	assert.False(t, errors.Is(detailed, New("test")))
}
