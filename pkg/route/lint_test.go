package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findingsByRule(findings []Finding, rule string) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Rule == rule {
			out = append(out, f)
		}
	}
	return out
}

func TestLint_CleanTable(t *testing.T) {
	table := buildTable(t,
		"import json",
		"# GET /hello/:name\nprint('hi')",
		"# POST /hello\nprint('created')",
	)
	assert.Empty(t, Lint(table))
}

func TestLint_DuplicateParam(t *testing.T) {
	table := buildTable(t, "# GET /pairs/:id/:id\nprint('x')")

	findings := findingsByRule(Lint(table), RuleDuplicateParam)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.Equal(t, "GET /pairs/:id/:id", findings[0].Route)
	assert.Contains(t, findings[0].Message, ":id")
}

func TestLint_EmptySegment(t *testing.T) {
	table := buildTable(t, "# GET /a//b\nprint('x')")

	findings := findingsByRule(Lint(table), RuleEmptySegment)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
}

func TestLint_AmbiguousRoutes(t *testing.T) {
	table := buildTable(t,
		"# GET /items/:id\nprint('by id')",
		"# GET /items/:name\nprint('by name')",
	)

	findings := findingsByRule(Lint(table), RuleAmbiguousRoutes)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.Contains(t, findings[0].Message, `"GET /items/:name"`)
}

func TestLint_CrossShapeAmbiguity(t *testing.T) {
	table := buildTable(t,
		"# GET /a/:x\nprint(1)",
		"# GET /:y/b\nprint(2)",
	)

	findings := findingsByRule(Lint(table), RuleAmbiguousRoutes)
	require.Len(t, findings, 1)
}

func TestLint_CarveOutIsInfo(t *testing.T) {
	table := buildTable(t,
		"# GET /users/:id\nprint('any user')",
		"# GET /users/admin\nprint('admin')",
	)

	findings := Lint(table)
	overlaps := findingsByRule(findings, RuleRouteOverlap)
	require.Len(t, overlaps, 1)
	assert.Equal(t, SeverityInfo, overlaps[0].Severity)
	assert.Equal(t, "GET /users/:id", overlaps[0].Route)
	assert.Empty(t, findingsByRule(findings, RuleAmbiguousRoutes))
}

func TestLint_DifferentVerbsDoNotOverlap(t *testing.T) {
	table := buildTable(t,
		"# GET /items/:id\nprint(1)",
		"# DELETE /items/:key\nprint(2)",
	)
	assert.Empty(t, Lint(table))
}
