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

// Package kernel runs notebook code on long-lived interpreter sessions.
//
// A Session accepts code snippets one at a time and reports captured
// stdout, stderr, rich result data, and any exception raised by the code.
// State persists across submissions for the lifetime of the session, which
// is what lets seed cells define functions and variables that handler
// cells use later.
//
// The default implementation, Proc, launches a subprocess and exchanges
// newline-delimited JSON frames with it over stdin/stdout. The embedded
// Python shim speaks this protocol out of the box; any other interpreter
// can be plugged in with a custom launcher argv as long as it answers
// frames the same way:
//
//	> {"id":"1","op":"execute","code":"print('hi')"}
//	< {"id":"1","stdout":"hi\n","stderr":""}
//
// Sessions are not safe for concurrent Submit calls. The pool hands each
// session to one request at a time.
package kernel
