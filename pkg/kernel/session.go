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

package kernel

import (
	"context"
	"fmt"
)

// Session is a long-lived interpreter that executes code snippets in a
// shared scope. Implementations are not safe for concurrent Submit calls.
type Session interface {
	// ID identifies the session in logs and activity records.
	ID() string

	// Submit executes one snippet and returns its captured output. An
	// exception raised by the snippet is reported in Result.Error, not as
	// a returned error; returned errors mean the session itself failed
	// and should be discarded.
	Submit(ctx context.Context, code string) (*Result, error)

	// Ping verifies the session is alive and responsive.
	Ping(ctx context.Context) error

	// Close shuts the session down, forcefully if the context expires
	// first. Close is idempotent.
	Close(ctx context.Context) error
}

// ExecError describes an exception raised by submitted code.
type ExecError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (e *ExecError) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Result is the outcome of one submitted snippet.
type Result struct {
	// Stdout and Stderr hold output captured while the snippet ran.
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`

	// Data carries rich result values keyed by mime type, when the
	// interpreter produced one. For the Python shim this is the repr of
	// the trailing expression under "text/plain".
	Data map[string]string `json:"data,omitempty"`

	// Error is set when the snippet raised an exception.
	Error *ExecError `json:"error,omitempty"`
}
