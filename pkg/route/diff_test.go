package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTable(t *testing.T, sources ...string) *Table {
	t.Helper()
	table, err := Build(codeNotebook(sources...))
	require.NoError(t, err)
	return table
}

func TestCompare_Identical(t *testing.T) {
	from := buildTable(t,
		"import json",
		"# GET /hello/:name\nprint('hi')",
	)
	to := buildTable(t,
		"import json",
		"# GET /hello/:name\nprint('hi')",
	)

	d := Compare(from, to)
	assert.True(t, d.Empty())
	assert.False(t, d.Breaking())
	assert.Equal(t, 1, d.SeedsFrom)
	assert.Equal(t, 1, d.SeedsTo)
}

func TestCompare_AddedAndRemoved(t *testing.T) {
	from := buildTable(t,
		"# GET /hello\nprint('hi')",
		"# DELETE /hello\nprint('gone')",
	)
	to := buildTable(t,
		"# GET /hello\nprint('hi')",
		"# POST /hello\nprint('created')",
	)

	d := Compare(from, to)
	assert.Equal(t, []string{"POST /hello"}, d.Added)
	assert.Equal(t, []string{"DELETE /hello"}, d.Removed)
	assert.Empty(t, d.Changed)
	assert.False(t, d.Empty())
	assert.True(t, d.Breaking())
}

func TestCompare_ChangedCellsAndResponseInfo(t *testing.T) {
	from := buildTable(t,
		"# GET /hello\nprint('hi')",
	)
	to := buildTable(t,
		"import json",
		"# GET /hello\nprint('hi')",
		"# GET /hello\nprint('more')",
		"# ResponseInfo GET /hello\nprint(json.dumps({'status': 201}))",
	)

	d := Compare(from, to)
	require.Len(t, d.Changed, 1)
	change := d.Changed[0]
	assert.Equal(t, "GET /hello", change.Route)
	assert.Equal(t, 1, change.CellsFrom)
	assert.Equal(t, 2, change.CellsTo)
	assert.False(t, change.ResponseFrom)
	assert.True(t, change.ResponseTo)
	assert.False(t, d.Breaking())
}

func TestCompare_OrderFollowsDeclaration(t *testing.T) {
	from := buildTable(t, "# GET /keep\nprint(1)")
	to := buildTable(t,
		"# GET /keep\nprint(1)",
		"# GET /b\nprint(2)",
		"# GET /a\nprint(3)",
	)

	d := Compare(from, to)
	assert.Equal(t, []string{"GET /b", "GET /a"}, d.Added)
}
