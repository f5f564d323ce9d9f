// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package jail

import "github.com/vexidus/hypersync/reverts"

var (
	ErrNotJailed          = reverts.New("validator not jailed")
	ErrCooldownNotElapsed = reverts.New("jail cooldown not elapsed")
	ErrUnknownValidator   = reverts.New("unknown validator")
)
