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

// RouteChange records how one surviving route differs between two tables.
type RouteChange struct {
	Route        string `json:"route" yaml:"route"`
	CellsFrom    int    `json:"cells_from" yaml:"cells_from"`
	CellsTo      int    `json:"cells_to" yaml:"cells_to"`
	ResponseFrom bool   `json:"response_info_from" yaml:"response_info_from"`
	ResponseTo   bool   `json:"response_info_to" yaml:"response_info_to"`
}

// Diff summarizes how the route surface changed between two notebooks.
// Removed routes break existing clients; added and changed ones do not.
type Diff struct {
	Added     []string      `json:"added,omitempty" yaml:"added,omitempty"`
	Removed   []string      `json:"removed,omitempty" yaml:"removed,omitempty"`
	Changed   []RouteChange `json:"changed,omitempty" yaml:"changed,omitempty"`
	SeedsFrom int           `json:"seeds_from" yaml:"seeds_from"`
	SeedsTo   int           `json:"seeds_to" yaml:"seeds_to"`
}

// Empty reports whether the route surface is identical.
func (d *Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Breaking reports whether existing clients could be affected: any route
// disappeared.
func (d *Diff) Breaking() bool {
	return len(d.Removed) > 0
}

// Compare diffs two route tables. Routes are keyed by verb and template;
// output order follows each table's declaration order so reports are
// stable.
func Compare(from, to *Table) *Diff {
	d := &Diff{
		SeedsFrom: len(from.Seeds),
		SeedsTo:   len(to.Seeds),
	}

	fromRoutes := make(map[string]*Route, len(from.Routes))
	for _, r := range from.Routes {
		fromRoutes[r.String()] = r
	}
	toRoutes := make(map[string]*Route, len(to.Routes))
	for _, r := range to.Routes {
		toRoutes[r.String()] = r
	}

	for _, r := range to.Routes {
		prev, ok := fromRoutes[r.String()]
		if !ok {
			d.Added = append(d.Added, r.String())
			continue
		}
		if len(prev.CellIndices) != len(r.CellIndices) || (prev.ResponseCell >= 0) != (r.ResponseCell >= 0) {
			d.Changed = append(d.Changed, RouteChange{
				Route:        r.String(),
				CellsFrom:    len(prev.CellIndices),
				CellsTo:      len(r.CellIndices),
				ResponseFrom: prev.ResponseCell >= 0,
				ResponseTo:   r.ResponseCell >= 0,
			})
		}
	}

	for _, r := range from.Routes {
		if _, ok := toRoutes[r.String()]; !ok {
			d.Removed = append(d.Removed, r.String())
		}
	}

	return d
}
