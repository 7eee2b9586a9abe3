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

// Package defaults provides centralized configuration constants for cellgate.
//
// This package defines timeout values and pool sizing defaults used across
// the codebase. Centralizing these values ensures consistency and makes
// tuning easier.
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/cellgate/cellgate/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.KernelExecTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
// When choosing timeout values:
//
//   - Kernel startup: 30s covers interpreter launch plus seed execution
//   - Cell execution: 30s default, raise for long-running notebook code
//   - Pool checkout: shorter than execution so waiters fail before workers
//   - Server shutdown: 30s for graceful shutdown, including kernel teardown
package defaults
