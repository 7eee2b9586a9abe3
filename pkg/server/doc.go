// Copyright (c) 2025, the cellgate authors.
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

// Package server provides the reusable HTTP serving layer: middleware,
// probes, metrics, and lifecycle. It knows nothing about notebooks; the
// gateway registers its handlers through options.
//
// # Architecture
//
//   - Rate limiting using a token bucket (golang.org/x/time/rate)
//   - Request ID tracking via X-Request-Id (github.com/google/uuid)
//   - Optional token auth (?token= or "Authorization: token <value>")
//   - Configurable CORS header injection with OPTIONS preflight handling
//   - Panic recovery returning structured JSON errors
//   - Prometheus RED metrics per registered route
//   - Graceful shutdown on SIGINT/SIGTERM
//
// # Usage
//
//	handlers := map[string]http.HandlerFunc{
//	    "/": myDispatch,
//	}
//
//	s := server.New(
//	    server.WithName("my-service"),
//	    server.WithVersion("1.0.0"),
//	    server.WithHandler(handlers),
//	)
//
//	if err := s.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// # System Endpoints
//
// GET /health always returns 200 with {"status": "healthy"}. GET /ready
// returns 200 once the server accepts traffic and 503 during startup
// and shutdown. GET /metrics exposes Prometheus metrics. None of these
// run behind the middleware chain, so they stay reachable without a
// token and are never rate limited.
//
// # Error Handling
//
// All errors share one JSON envelope:
//
//	{
//	  "code": "NOT_FOUND",
//	  "message": "no route matches the request path",
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2025-06-01T12:00:00Z",
//	  "retryable": false
//	}
//
// WriteError and WriteErrorFromErr produce it; codes come from
// pkg/errors and map to HTTP statuses via HTTPStatusFromCode.
package server
