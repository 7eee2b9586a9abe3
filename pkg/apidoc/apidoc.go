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

// Package apidoc builds the swagger-shaped API descriptor for a route table.
//
// The descriptor is assembled and marshaled once at startup; requests for it
// are served from the cached bytes. Path parameters are listed as part of
// the template string and are otherwise undeclared, matching the minimal
// document the gateway has always produced.
package apidoc

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cellgate/cellgate/pkg/route"
)

// DefaultVersion is the info.version value. The notebook carries no version
// metadata of its own.
const DefaultVersion = "0.0.0"

// Response describes one documented response of an operation.
type Response struct {
	Description string `json:"description" yaml:"description"`
}

// Operation is the per-verb entry of a path.
type Operation struct {
	Responses map[string]Response `json:"responses" yaml:"responses"`
}

// PathItem maps lower-case HTTP verbs to operations.
type PathItem map[string]Operation

// Info is the descriptor metadata block.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Document is the API descriptor with its pre-rendered JSON form.
type Document struct {
	Swagger string              `json:"swagger" yaml:"swagger"`
	Info    Info                `json:"info" yaml:"info"`
	Paths   map[string]PathItem `json:"paths" yaml:"paths"`

	raw []byte
}

// Build assembles the descriptor for a route table. Every route contributes
// one operation under its template path with a single documented 200
// response. The document is marshaled eagerly so serving it later cannot
// fail.
func Build(t *route.Table, title string) (*Document, error) {
	doc := &Document{
		Swagger: "2.0",
		Info:    Info{Version: DefaultVersion, Title: title},
		Paths:   make(map[string]PathItem, len(t.Routes)),
	}

	for _, r := range t.Routes {
		item, ok := doc.Paths[r.Template]
		if !ok {
			item = PathItem{}
			doc.Paths[r.Template] = item
		}
		item[strings.ToLower(r.Verb)] = Operation{
			Responses: map[string]Response{
				"200": {Description: "Success"},
			},
		}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal API descriptor: %w", err)
	}
	doc.raw = raw

	return doc, nil
}

// JSON returns the cached JSON encoding of the document.
func (d *Document) JSON() []byte {
	return d.raw
}
