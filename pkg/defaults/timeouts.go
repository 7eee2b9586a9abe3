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

package defaults

import "time"

// Kernel timeouts for interpreter session operations.
const (
	// KernelStartTimeout is the maximum duration for launching an
	// interpreter session and running the notebook's seed cells on it.
	KernelStartTimeout = 30 * time.Second

	// KernelExecTimeout is the default per-request execution budget for
	// the cells behind a route. Exceeding it marks the session damaged.
	KernelExecTimeout = 30 * time.Second

	// KernelPingTimeout bounds a single liveness ping exchange.
	KernelPingTimeout = 5 * time.Second

	// KernelShutdownTimeout bounds teardown of a single session. Stuck
	// interpreters are killed once it elapses.
	KernelShutdownTimeout = 5 * time.Second
)

// Pool defaults for the kernel pool manager.
const (
	// PoolPrespawnCount is the number of seeded sessions started before
	// the server accepts traffic.
	PoolPrespawnCount = 1

	// PoolCheckoutTimeout is how long a request waits for an idle session
	// before failing with a pool-exhausted condition. Kept below
	// KernelExecTimeout so waiters give up before a healthy worker would.
	PoolCheckoutTimeout = 20 * time.Second

	// PoolPingInterval is the period between liveness pings on idle
	// sessions. Zero disables pinging.
	PoolPingInterval = 30 * time.Second

	// PoolReplaceBackoff is the initial delay between attempts to respawn
	// a replacement for a crashed session.
	PoolReplaceBackoff = 500 * time.Millisecond
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	// Must exceed KernelExecTimeout or slow cells lose their responses.
	ServerWriteTimeout = 60 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// HTTP client timeouts for outbound requests (remote notebook fetch).
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)
