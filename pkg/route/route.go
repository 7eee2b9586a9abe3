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

// Package route maps annotated notebook cells to HTTP routes and matches
// request paths against them.
package route

import (
	"strings"
)

// segment is one compiled piece of a path template: either a literal that
// must compare equal or a named parameter that binds the request segment.
type segment struct {
	literal string
	name    string
}

func (s segment) named() bool {
	return s.name != ""
}

// Route is one endpoint extracted from a notebook: an HTTP verb, a path
// template, and the ordered list of notebook cell indices that implement it.
type Route struct {
	// Verb is the upper-case HTTP method.
	Verb string
	// Template is the annotated path, e.g. /hello/:name.
	Template string
	// CellIndices lists the implementing cells in notebook order.
	CellIndices []int
	// ResponseCell is the index of the ResponseInfo cell for this route, or
	// -1 when the route has none.
	ResponseCell int

	segments []segment
	literals int
}

// String renders the route as "VERB /path" for logs and CLI output.
func (r *Route) String() string {
	return r.Verb + " " + r.Template
}

// NumLiterals returns how many template segments are literal. Used for
// specificity tie-breaking: a route with more literal segments wins over one
// matching the same path with parameters.
func (r *Route) NumLiterals() int {
	return r.literals
}

// compile splits a template into matchable segments. The trailing slash is
// dropped except on the bare root.
func compile(template string) []segment {
	parts := splitPath(template)
	segs := make([]segment, 0, len(parts))
	for _, p := range parts {
		if strings.HasPrefix(p, ":") && len(p) > 1 {
			segs = append(segs, segment{name: p[1:]})
		} else {
			segs = append(segs, segment{literal: p})
		}
	}
	return segs
}

// splitPath normalizes a path and returns its segments. "/" and "" both
// normalize to zero segments.
func splitPath(p string) []string {
	p = strings.TrimSuffix(p, "/")
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// match binds the request path segments against the route template.
// Returns the bound parameters and true on a match. Literal comparison is
// case-sensitive.
func (r *Route) match(parts []string) (map[string]string, bool) {
	if len(parts) != len(r.segments) {
		return nil, false
	}
	var params map[string]string
	for i, seg := range r.segments {
		if seg.named() {
			if params == nil {
				params = make(map[string]string, len(r.segments))
			}
			params[seg.name] = parts[i]
			continue
		}
		if seg.literal != parts[i] {
			return nil, false
		}
	}
	if params == nil {
		params = map[string]string{}
	}
	return params, true
}
