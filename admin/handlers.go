// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/vexidus/hypersync/api/utils"
	"github.com/vexidus/hypersync/health"
	"github.com/vexidus/hypersync/log"
)

var logger = log.WithContext("pkg", "admin")

type logLevelRequest struct {
	Level string `json:"level"`
}

type logLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

func getLogLevelHandler(logLevel *slog.LevelVar) utils.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) error {
		return utils.WriteJSON(w, logLevelResponse{
			CurrentLevel: logLevel.Level().String(),
		})
	}
}

func postLogLevelHandler(logLevel *slog.LevelVar) utils.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		var req logLevelRequest
		if err := utils.ParseJSON(r.Body, &req); err != nil {
			return utils.BadRequest(err, "body")
		}

		level, err := log.ParseLevel(strings.ToLower(req.Level))
		if err != nil {
			return utils.BadRequest(err, "level")
		}
		logLevel.Set(level)
		logger.Info("log level changed", "level", level)

		return utils.WriteJSON(w, logLevelResponse{
			CurrentLevel: logLevel.Level().String(),
		})
	}
}

func healthHandler(h *health.Health) utils.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) error {
		status := h.Status()

		w.Header().Set("Content-Type", utils.JSONContentType)
		if status.Healthy {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		return utils.WriteJSON(w, status)
	}
}
