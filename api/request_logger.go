// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/vexidus/hypersync/log"
)

// bodies longer than this are logged truncated
const maxLoggedBody = 1024

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLoggerHandler returns a http handler logging every request, its body and the response status.
func RequestLoggerHandler(handler http.Handler, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil && r.Method != http.MethodGet {
			data, err := io.ReadAll(r.Body)
			if err != nil {
				logger.Warn("unexpected body read error", "err", err)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(data))
			body = data
			if len(body) > maxLoggedBody {
				body = body[:maxLoggedBody]
			}
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		handler.ServeHTTP(rec, r)

		logger.Info("API Request",
			"remote", r.RemoteAddr,
			"method", r.Method,
			"uri", r.URL.String(),
			"body", string(body),
			"status", rec.status,
			"elapsed", time.Since(start),
		)
	})
}
