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
	"fmt"
	"strings"
)

// Severity classifies a lint finding. Warnings flag constructs that are
// almost certainly mistakes; info findings describe intentional-looking
// overlaps worth knowing about.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Lint rule names, stable for machine consumption of check reports.
const (
	RuleDuplicateParam  = "duplicate-param"
	RuleEmptySegment    = "empty-segment"
	RuleAmbiguousRoutes = "ambiguous-routes"
	RuleRouteOverlap    = "route-overlap"
)

// Finding is one lint observation about a route table.
type Finding struct {
	Rule     string   `json:"rule" yaml:"rule"`
	Severity Severity `json:"severity" yaml:"severity"`
	Route    string   `json:"route" yaml:"route"`
	Message  string   `json:"message" yaml:"message"`
}

// Lint inspects a built route table for legal but suspicious constructs.
// None of these block serving; they are surfaced by the check command so
// authors see them before deploying.
func Lint(t *Table) []Finding {
	var findings []Finding
	for _, r := range t.Routes {
		findings = append(findings, lintTemplate(r)...)
	}
	findings = append(findings, lintOverlaps(t.Routes)...)
	return findings
}

func lintTemplate(r *Route) []Finding {
	var findings []Finding

	if strings.Contains(r.Template, "//") {
		findings = append(findings, Finding{
			Rule:     RuleEmptySegment,
			Severity: SeverityWarning,
			Route:    r.String(),
			Message:  "template contains an empty segment, which only matches a doubled slash in the request path",
		})
	}

	seen := make(map[string]bool, len(r.segments))
	for _, seg := range r.segments {
		if !seg.named() {
			continue
		}
		if seen[seg.name] {
			findings = append(findings, Finding{
				Rule:     RuleDuplicateParam,
				Severity: SeverityWarning,
				Route:    r.String(),
				Message:  fmt.Sprintf("parameter :%s appears more than once, only the last occurrence binds", seg.name),
			})
		}
		seen[seg.name] = true
	}

	return findings
}

// lintOverlaps flags same-verb route pairs whose templates can match the
// same request path. Equal specificity means the matcher falls back to
// declaration order; unequal specificity is the intended carve-out
// behavior and only reported as info.
func lintOverlaps(routes []*Route) []Finding {
	var findings []Finding

	for i := 0; i < len(routes); i++ {
		for j := i + 1; j < len(routes); j++ {
			a, b := routes[i], routes[j]
			if a.Verb != b.Verb || len(a.segments) != len(b.segments) {
				continue
			}
			if !templatesOverlap(a, b) {
				continue
			}
			if a.literals == b.literals {
				findings = append(findings, Finding{
					Rule:     RuleAmbiguousRoutes,
					Severity: SeverityWarning,
					Route:    a.String(),
					Message:  fmt.Sprintf("matches the same paths as %q with equal specificity, declaration order decides", b.String()),
				})
				continue
			}
			general, specific := a, b
			if a.literals > b.literals {
				general, specific = b, a
			}
			findings = append(findings, Finding{
				Rule:     RuleRouteOverlap,
				Severity: SeverityInfo,
				Route:    general.String(),
				Message:  fmt.Sprintf("paths also matched by %q go to that route, it is more specific", specific.String()),
			})
		}
	}

	return findings
}

// templatesOverlap reports whether some request path matches both routes:
// at every position the segments are compatible, meaning equal literals or
// at least one parameter.
func templatesOverlap(a, b *Route) bool {
	for i := range a.segments {
		sa, sb := a.segments[i], b.segments[i]
		if !sa.named() && !sb.named() && sa.literal != sb.literal {
			return false
		}
	}
	return true
}
