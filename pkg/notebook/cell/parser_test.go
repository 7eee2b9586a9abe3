package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkerFor(t *testing.T) {
	assert.Equal(t, "#", MarkerFor("python3"))
	assert.Equal(t, "#", MarkerFor(""))
	assert.Equal(t, "//", MarkerFor("scala"))
	assert.Equal(t, "//", MarkerFor("Scala"))
	assert.Equal(t, "#", MarkerFor("ir"))
}

func TestParser_IsAPICell(t *testing.T) {
	p := NewParser("python3")
	assert.True(t, p.IsAPICell("# GET /yes"))
	assert.False(t, p.IsAPICell("no"))
	assert.False(t, p.IsAPICell("print('# GET /no')"))
}

func TestParser_Classify(t *testing.T) {
	p := NewParser("python3")

	tests := []struct {
		name   string
		source string
		want   Annotation
	}{
		{
			name:   "simple get",
			source: "# GET /foo",
			want:   Annotation{Kind: KindRoute, Verb: "GET", Path: "/foo"},
		},
		{
			name:   "post with literal segments",
			source: "# POST /bar/quo",
			want:   Annotation{Kind: KindRoute, Verb: "POST", Path: "/bar/quo"},
		},
		{
			name:   "parameterized path",
			source: "# PUT /hello/:name\nprint(1)",
			want:   Annotation{Kind: KindRoute, Verb: "PUT", Path: "/hello/:name"},
		},
		{
			name:   "patch verb",
			source: "# PATCH /orders/:id",
			want:   Annotation{Kind: KindRoute, Verb: "PATCH", Path: "/orders/:id"},
		},
		{
			name:   "extra whitespace",
			source: "#   DELETE   /things",
			want:   Annotation{Kind: KindRoute, Verb: "DELETE", Path: "/things"},
		},
		{
			name:   "response info",
			source: "# ResponseInfo GET /foo",
			want:   Annotation{Kind: KindResponseInfo, Verb: "GET", Path: "/foo"},
		},
		{
			name:   "plain code is seed",
			source: "some regular code",
			want:   Annotation{Kind: KindSeed},
		},
		{
			name:   "lowercase verb is not an annotation",
			source: "# get /foo",
			want:   Annotation{Kind: KindSeed},
		},
		{
			name:   "annotation must open the cell",
			source: "x = 1\n# GET /foo",
			want:   Annotation{Kind: KindSeed},
		},
		{
			name:   "path must start with slash",
			source: "# GET foo",
			want:   Annotation{Kind: KindSeed},
		},
		{
			name:   "bare root",
			source: "# GET /",
			want:   Annotation{Kind: KindRoute, Verb: "GET", Path: "/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Classify(tt.source))
		})
	}
}

func TestParser_ScalaMarker(t *testing.T) {
	p := NewParser("scala")

	got := p.Classify("// GET /items/:id")
	assert.Equal(t, Annotation{Kind: KindRoute, Verb: "GET", Path: "/items/:id"}, got)

	// Hash comments are not annotations for scala notebooks
	assert.Equal(t, KindSeed, p.Classify("# GET /items").Kind)
}

func TestParser_ResponseInfoBeforeRoute(t *testing.T) {
	// ResponseInfo must not be mistaken for a route cell
	p := NewParser("python3")
	got := p.Classify("# ResponseInfo POST /foo/:bar\nprint(json.dumps({'status': 201}))")
	assert.Equal(t, KindResponseInfo, got.Kind)
	assert.Equal(t, "POST", got.Verb)
	assert.Equal(t, "/foo/:bar", got.Path)
}
