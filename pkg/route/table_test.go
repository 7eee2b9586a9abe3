package route

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cellgate/cellgate/pkg/errors"
	"github.com/cellgate/cellgate/pkg/notebook"
)

func codeNotebook(sources ...string) *notebook.Notebook {
	nb := &notebook.Notebook{
		Metadata: notebook.Metadata{
			KernelSpec: notebook.KernelSpec{Name: "python3", Language: "python"},
		},
		NBFormat: 4,
	}
	for _, src := range sources {
		nb.Cells = append(nb.Cells, notebook.Cell{Type: notebook.CellTypeCode, Source: notebook.Source(src)})
	}
	return nb
}

func codeOf(err error) errors.ErrorCode {
	var se *errors.StructuredError
	if !stderrors.As(err, &se) {
		return ""
	}
	return se.Code
}

func TestBuild_ClassifiesEveryCellOnce(t *testing.T) {
	nb := codeNotebook(
		"import json",
		"# GET /hello/:name\nprint('hello')",
		"helper = 1",
		"# GET /hello/:name\nprint('more')",
		"# ResponseInfo GET /hello/:name\nprint(json.dumps({'status': 201}))",
		"# POST /orders\nprint('ok')",
	)

	table, err := Build(nb)
	assert.NoError(t, err)

	assert.Len(t, table.Routes, 2)
	assert.Equal(t, []int{0, 2}, table.Seeds)

	hello := table.Routes[0]
	assert.Equal(t, "GET", hello.Verb)
	assert.Equal(t, "/hello/:name", hello.Template)
	assert.Equal(t, []int{1, 3}, hello.CellIndices)
	assert.Equal(t, 4, hello.ResponseCell)

	orders := table.Routes[1]
	assert.Equal(t, "POST /orders", orders.String())
	assert.Equal(t, -1, orders.ResponseCell)

	// Every code cell is accounted for exactly once
	seen := make(map[int]int)
	for _, i := range table.Seeds {
		seen[i]++
	}
	for _, r := range table.Routes {
		for _, i := range r.CellIndices {
			seen[i]++
		}
		if r.ResponseCell != -1 {
			seen[r.ResponseCell]++
		}
	}
	for _, i := range nb.CodeCells() {
		assert.Equal(t, 1, seen[i], "cell %d classified %d times", i, seen[i])
	}
}

func TestBuild_SkipsMarkdownCells(t *testing.T) {
	nb := &notebook.Notebook{
		Cells: []notebook.Cell{
			{Type: "markdown", Source: "# GET /not-a-route"},
			{Type: notebook.CellTypeCode, Source: "# GET /real"},
		},
	}

	table, err := Build(nb)
	assert.NoError(t, err)
	assert.Len(t, table.Routes, 1)
	assert.Equal(t, "/real", table.Routes[0].Template)
	assert.Empty(t, table.Seeds)
}

func TestBuild_NoRoutes(t *testing.T) {
	_, err := Build(codeNotebook("print('just code')"))
	assert.Error(t, err)
	assert.Equal(t, errors.ErrCodeLoadFailed, codeOf(err))
}

func TestBuild_ResponseInfoWithoutRoute(t *testing.T) {
	nb := codeNotebook(
		"# GET /a",
		"# ResponseInfo GET /b\nprint('{}')",
	)
	_, err := Build(nb)
	assert.Error(t, err)
	assert.Equal(t, errors.ErrCodeLoadFailed, codeOf(err))
}

func TestBuild_ResponseInfoVerbMustMatch(t *testing.T) {
	nb := codeNotebook(
		"# GET /a",
		"# ResponseInfo POST /a\nprint('{}')",
	)
	_, err := Build(nb)
	assert.Error(t, err)
}

func TestBuild_DuplicateResponseInfo(t *testing.T) {
	nb := codeNotebook(
		"# GET /a",
		"# ResponseInfo GET /a\nprint('{}')",
		"# ResponseInfo GET /a\nprint('{}')",
	)
	_, err := Build(nb)
	assert.Error(t, err)
	assert.Equal(t, errors.ErrCodeLoadFailed, codeOf(err))
}

func TestBuild_ScalaCommentMarker(t *testing.T) {
	nb := &notebook.Notebook{
		Metadata: notebook.Metadata{KernelSpec: notebook.KernelSpec{Name: "scala"}},
		Cells: []notebook.Cell{
			{Type: notebook.CellTypeCode, Source: "// GET /items\nprintln(\"ok\")"},
			{Type: notebook.CellTypeCode, Source: "# GET /not-scala"},
		},
	}

	table, err := Build(nb)
	assert.NoError(t, err)
	assert.Len(t, table.Routes, 1)
	assert.Equal(t, "/items", table.Routes[0].Template)
	// The hash-commented cell is a seed for a scala notebook
	assert.Equal(t, []int{1}, table.Seeds)
}

func TestTable_Match(t *testing.T) {
	table, err := Build(codeNotebook(
		"# GET /hello/world",
		"# GET /hello/:name",
		"# POST /hello/:name",
		"# GET /",
	))
	assert.NoError(t, err)

	t.Run("literal beats parameter", func(t *testing.T) {
		r, params, err := table.Match("GET", "/hello/world")
		assert.NoError(t, err)
		assert.Equal(t, "/hello/world", r.Template)
		assert.Empty(t, params)
	})

	t.Run("parameter binds", func(t *testing.T) {
		r, params, err := table.Match("GET", "/hello/Ada")
		assert.NoError(t, err)
		assert.Equal(t, "/hello/:name", r.Template)
		assert.Equal(t, map[string]string{"name": "Ada"}, params)
	})

	t.Run("verb selects route", func(t *testing.T) {
		r, _, err := table.Match("POST", "/hello/Ada")
		assert.NoError(t, err)
		assert.Equal(t, "POST", r.Verb)
	})

	t.Run("root", func(t *testing.T) {
		r, _, err := table.Match("GET", "/")
		assert.NoError(t, err)
		assert.Equal(t, "/", r.Template)
	})

	t.Run("trailing slash ignored", func(t *testing.T) {
		r, _, err := table.Match("GET", "/hello/world/")
		assert.NoError(t, err)
		assert.Equal(t, "/hello/world", r.Template)
	})

	t.Run("unknown path is NOT_FOUND", func(t *testing.T) {
		_, _, err := table.Match("GET", "/nope")
		assert.Error(t, err)
		assert.Equal(t, errors.ErrCodeNotFound, codeOf(err))
	})

	t.Run("known path wrong verb is METHOD_NOT_ALLOWED", func(t *testing.T) {
		_, _, err := table.Match("DELETE", "/hello/world")
		assert.Error(t, err)
		assert.Equal(t, errors.ErrCodeMethodNotAllowed, codeOf(err))
	})
}

func TestTable_MatchDeclarationOrderTieBreak(t *testing.T) {
	// Two parameterized routes match the same path; the first declared wins.
	table, err := Build(codeNotebook(
		"# GET /people/:id",
		"# GET /people/:name",
	))
	assert.NoError(t, err)

	r, params, err := table.Match("GET", "/people/7")
	assert.NoError(t, err)
	assert.Equal(t, "/people/:id", r.Template)
	assert.Equal(t, "7", params["id"])
}
