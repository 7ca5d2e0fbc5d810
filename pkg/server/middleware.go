// Copyright (c) 2025, Red Hat, Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"

	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
)

type middleware func(http.HandlerFunc) http.HandlerFunc

// chain wraps h so that mws[0] runs first.
func chain(h http.HandlerFunc, mws ...middleware) http.HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// withMiddleware wraps the handler registered for route. Recovery sits
// inside the access log so a panic is logged with its 500.
func (s *Server) withMiddleware(route string, h http.HandlerFunc) http.HandlerFunc {
	return chain(h,
		s.requestIDMiddleware,
		s.observeMiddleware(route),
		s.versionMiddleware,
		s.recoverMiddleware(route),
		s.rateLimitMiddleware(route),
	)
}

// requestIDMiddleware keeps a valid X-Request-Id or assigns a new one.
func (s *Server) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next(w, r.WithContext(context.WithValue(r.Context(), contextKeyRequestID, id)))
	}
}

// observeMiddleware records route metrics and writes the access log.
func (s *Server) observeMiddleware(route string) middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestsInFlight.Inc()
			defer requestsInFlight.Dec()

			if r.ContentLength > 0 {
				requestBytes.WithLabelValues(route).Observe(float64(r.ContentLength))
			}

			rec := newStatusRecorder(w)
			next(rec, r)

			elapsed := time.Since(start)
			status := rec.Status()
			requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
			requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
			responseBytes.WithLabelValues(route).Observe(float64(rec.BytesWritten()))

			level := slog.LevelDebug
			if status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			slog.Log(r.Context(), level, "request",
				slog.String("requestID", RequestID(r.Context())),
				slog.String("method", r.Method),
				slog.String("route", route),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int64("bytesIn", r.ContentLength),
				slog.Int64("bytesOut", rec.BytesWritten()),
				slog.Duration("duration", elapsed),
			)
		}
	}
}

// versionMiddleware negotiates the API version from Accept.
func (s *Server) versionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := negotiateAPIVersion(r)
		SetAPIVersionHeader(w, version)
		next(w, r.WithContext(context.WithValue(r.Context(), contextKeyAPIVersion, version)))
	}
}

// recoverMiddleware turns a handler panic into a 500 error body.
func (s *Server) recoverMiddleware(route string) middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				panicRecoveries.WithLabelValues(route).Inc()
				slog.Error("handler panicked",
					slog.String("requestID", RequestID(r.Context())),
					slog.String("route", route),
					slog.String("panic", fmt.Sprint(v)),
					slog.String("stack", string(debug.Stack())),
				)
				WriteError(w, r, http.StatusInternalServerError, cerrors.ErrCodeInternal,
					"Internal server error", true, nil)
			}()
			next(w, r)
		}
	}
}

// rateLimitMiddleware rejects requests once the token bucket is empty.
// Retry-After is the wait the limiter would have imposed.
func (s *Server) rateLimitMiddleware(route string) middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()
			res := s.rateLimiter.ReserveN(now, 1)
			if !res.OK() || res.DelayFrom(now) > 0 {
				retry := 1
				if res.OK() {
					retry = max(1, int(math.Ceil(res.DelayFrom(now).Seconds())))
					res.CancelAt(now)
				}
				rateLimitRejects.WithLabelValues(route).Inc()
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				WriteError(w, r, http.StatusTooManyRequests, cerrors.ErrCodeRateLimitExceeded,
					"Rate limit exceeded", true, map[string]any{
						"route": route,
						"limit": float64(s.config.RateLimit),
						"burst": s.config.RateLimitBurst,
					})
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatFloat(float64(s.config.RateLimit), 'f', -1, 64))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(s.rateLimiter.TokensAt(now))))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(time.Second).Unix(), 10))
			next(w, r)
		}
	}
}
