// Package cell parses notebook cell annotations of the form
//
//	<comment> <VERB> <path>
//	<comment> ResponseInfo <VERB> <path>
//
// where <comment> is the single-line comment marker of the notebook
// language, <VERB> is an upper-case HTTP verb, and <path> is a URL path with
// optional :name parameter segments. The annotation must open the cell.
package cell

import (
	"regexp"
	"strings"
)

// Kind classifies a notebook code cell.
type Kind int

const (
	// KindSeed is an unannotated cell, executed once on every fresh kernel.
	KindSeed Kind = iota
	// KindRoute is a cell annotated with a verb and path.
	KindRoute
	// KindResponseInfo is a cell that emits response metadata for a route.
	KindResponseInfo
)

func (k Kind) String() string {
	switch k {
	case KindRoute:
		return "route"
	case KindResponseInfo:
		return "response-info"
	default:
		return "seed"
	}
}

const verbAlternation = `(GET|POST|PUT|DELETE|PATCH)`

// Comment markers by kernelspec name. Any kernelspec not listed uses the
// default marker.
var markerByKernelspec = map[string]string{
	"scala": "//",
}

const defaultMarker = "#"

// MarkerFor returns the single-line comment marker for a kernelspec name.
func MarkerFor(kernelspec string) string {
	if m, ok := markerByKernelspec[strings.ToLower(kernelspec)]; ok {
		return m
	}
	return defaultMarker
}

// Annotation is the parsed classification of one cell.
type Annotation struct {
	Kind Kind
	Verb string
	Path string
}

// Parser recognizes API annotations for one notebook language.
type Parser struct {
	marker   string
	route    *regexp.Regexp
	response *regexp.Regexp
}

// NewParser creates a Parser using the comment marker for the given
// kernelspec name.
func NewParser(kernelspec string) *Parser {
	marker := regexp.QuoteMeta(MarkerFor(kernelspec))
	return &Parser{
		marker:   MarkerFor(kernelspec),
		route:    regexp.MustCompile(`^` + marker + `\s+` + verbAlternation + `\s+(/\S*)`),
		response: regexp.MustCompile(`^` + marker + `\s+ResponseInfo\s+` + verbAlternation + `\s+(/\S*)`),
	}
}

// Marker returns the comment marker the parser was built with.
func (p *Parser) Marker() string {
	return p.marker
}

// Classify parses the cell source and reports what the cell is. Unannotated
// source classifies as a seed cell.
func (p *Parser) Classify(source string) Annotation {
	if m := p.response.FindStringSubmatch(source); m != nil {
		return Annotation{Kind: KindResponseInfo, Verb: m[1], Path: m[2]}
	}
	if m := p.route.FindStringSubmatch(source); m != nil {
		return Annotation{Kind: KindRoute, Verb: m[1], Path: m[2]}
	}
	return Annotation{Kind: KindSeed}
}

// IsAPICell reports whether the source carries a route annotation.
func (p *Parser) IsAPICell(source string) bool {
	return p.route.MatchString(source)
}

// IsResponseCell reports whether the source carries a ResponseInfo annotation.
func (p *Parser) IsResponseCell(source string) bool {
	return p.response.MatchString(source)
}
