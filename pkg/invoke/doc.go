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

// Package invoke turns a matched route into kernel executions and an HTTP
// response.
//
// For each request the coordinator encodes the request as a JSON bundle
// with body, args, path, and headers keys, borrows a kernel session from
// the pool, binds the bundle to the REQUEST variable, runs the route's
// cells in declaration order, and optionally runs the route's ResponseInfo
// cell to pick up status and header overrides.
//
// The response body is the captured stdout of the final cell. When that
// cell printed nothing but produced a result value, the JSON encoding of
// the result's mime bundle is used instead. stderr is never part of the
// body.
//
// Exceptions raised by notebook code leave the session healthy and map to
// an execution error. Transport failures and execution timeouts mark the
// session damaged so the pool replaces it.
package invoke
