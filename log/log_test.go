// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(verbosity int) (*bytes.Buffer, func()) {
	old := ethlog.Root()
	buf := new(bytes.Buffer)
	Setup(buf, verbosity, true, false)
	return buf, func() { ethlog.SetDefault(old) }
}

func TestWithContextResolvesRootLazily(t *testing.T) {
	// created before the handler is installed
	logger := WithContext("pkg", "test")

	buf, restore := captureLogs(LvlInfo)
	defer restore()

	logger.Info("hello", "k", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "test", rec["pkg"])
	assert.EqualValues(t, 1, rec["k"])
}

func TestWith(t *testing.T) {
	buf, restore := captureLogs(LvlInfo)
	defer restore()

	parent := WithContext("pkg", "a")
	child := parent.With("slot", 7)
	child.Warn("child")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "a", rec["pkg"])
	assert.EqualValues(t, 7, rec["slot"])

	buf.Reset()
	parent.Warn("parent")
	assert.NotContains(t, buf.String(), "slot")
}

func TestVerbosity(t *testing.T) {
	buf, restore := captureLogs(LvlWarn)
	defer restore()

	logger := WithContext("pkg", "v")
	logger.Debug("dropped")
	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Error("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestLevelChange(t *testing.T) {
	old := ethlog.Root()
	defer ethlog.SetDefault(old)

	for _, asJSON := range []bool{true, false} {
		buf := new(bytes.Buffer)
		level := Setup(buf, LvlInfo, asJSON, false)
		logger := WithContext("pkg", "lvl").With("json", asJSON)

		logger.Debug("dropped")
		assert.Empty(t, buf.String())

		level.Set(LevelDebug)
		logger.Debug("kept")
		assert.Contains(t, buf.String(), "kept")

		level.Set(LevelError)
		buf.Reset()
		logger.Warn("dropped again")
		assert.Empty(t, buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]any{
		"trace": LevelTrace,
		"debug": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
		"crit":  LevelCrit,
	} {
		lvl, err := ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, want, lvl, name)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
