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

package route

import (
	"log/slog"

	"github.com/cellgate/cellgate/pkg/errors"
	"github.com/cellgate/cellgate/pkg/notebook"
	"github.com/cellgate/cellgate/pkg/notebook/cell"
)

// Table is the immutable set of routes extracted from one notebook. It is
// built once at startup and safe for concurrent reads afterward.
type Table struct {
	// Routes in first-declaration order.
	Routes []*Route
	// Seeds lists unannotated code cells in notebook order. They run once on
	// every fresh kernel before it joins the pool.
	Seeds []int
}

// Build classifies every code cell of the notebook exactly once and
// assembles the route table. It fails with a LOAD_FAILED error when the
// notebook declares no routes, when a ResponseInfo annotation references an
// undeclared route, or when a route has more than one ResponseInfo cell.
func Build(nb *notebook.Notebook) (*Table, error) {
	parser := cell.NewParser(nb.KernelName())

	type responseRef struct {
		verb, path string
		cellIndex  int
	}

	t := &Table{}
	byKey := make(map[string]*Route)
	var responses []responseRef

	for _, i := range nb.CodeCells() {
		ann := parser.Classify(nb.Cells[i].Source.String())
		switch ann.Kind {
		case cell.KindRoute:
			key := ann.Verb + " " + ann.Path
			if r, ok := byKey[key]; ok {
				r.CellIndices = append(r.CellIndices, i)
				continue
			}
			r := &Route{
				Verb:         ann.Verb,
				Template:     ann.Path,
				CellIndices:  []int{i},
				ResponseCell: -1,
				segments:     compile(ann.Path),
			}
			for _, s := range r.segments {
				if !s.named() {
					r.literals++
				}
			}
			byKey[key] = r
			t.Routes = append(t.Routes, r)

		case cell.KindResponseInfo:
			responses = append(responses, responseRef{verb: ann.Verb, path: ann.Path, cellIndex: i})

		default:
			t.Seeds = append(t.Seeds, i)
		}
	}

	if len(t.Routes) == 0 {
		return nil, errors.New(errors.ErrCodeLoadFailed, "notebook declares no API cells")
	}

	for _, ref := range responses {
		r, ok := byKey[ref.verb+" "+ref.path]
		if !ok {
			return nil, errors.NewWithContext(errors.ErrCodeLoadFailed,
				"ResponseInfo annotation references an undeclared route",
				map[string]any{"verb": ref.verb, "path": ref.path, "cell": ref.cellIndex})
		}
		if r.ResponseCell != -1 {
			return nil, errors.NewWithContext(errors.ErrCodeLoadFailed,
				"route has more than one ResponseInfo cell",
				map[string]any{"verb": ref.verb, "path": ref.path, "cell": ref.cellIndex})
		}
		r.ResponseCell = ref.cellIndex
	}

	slog.Debug("route table built",
		"routes", len(t.Routes),
		"seeds", len(t.Seeds),
	)

	return t, nil
}

// Match finds the route for a verb and request path. Parameters bound from
// :name segments are returned alongside the route.
//
// When no template matches the path, the error carries NOT_FOUND. When a
// template matches but no route has the request verb, the error carries
// METHOD_NOT_ALLOWED; the two cases are distinct on the wire (404 vs 405).
//
// Among routes matching both verb and path, the one with more literal
// segments wins; ties fall to declaration order.
func (t *Table) Match(verb, path string) (*Route, map[string]string, error) {
	parts := splitPath(path)

	var (
		best       *Route
		bestParams map[string]string
		pathKnown  bool
	)

	for _, r := range t.Routes {
		params, ok := r.match(parts)
		if !ok {
			continue
		}
		pathKnown = true
		if r.Verb != verb {
			continue
		}
		if best == nil || r.literals > best.literals {
			best = r
			bestParams = params
		}
	}

	if best != nil {
		return best, bestParams, nil
	}

	if pathKnown {
		return nil, nil, errors.NewWithContext(errors.ErrCodeMethodNotAllowed,
			"method not allowed for path",
			map[string]any{"verb": verb, "path": path})
	}
	return nil, nil, errors.NewWithContext(errors.ErrCodeNotFound,
		"no route matches path",
		map[string]any{"verb": verb, "path": path})
}
