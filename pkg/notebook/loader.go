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

package notebook

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cellgate/cellgate/pkg/oci"
	"github.com/cellgate/cellgate/pkg/serializer"
)

// Loader fetches notebook documents from local paths, http(s) URLs, or
// oci:// registry references.
type Loader struct {
	http *serializer.HttpReader
	oci  func(ctx context.Context, uri string) ([]byte, error)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPReader overrides the HTTP fetcher used for remote notebook URIs.
func WithHTTPReader(r *serializer.HttpReader) LoaderOption {
	return func(l *Loader) {
		l.http = r
	}
}

// WithOCIFetcher overrides the registry fetcher used for oci:// URIs.
func WithOCIFetcher(f func(ctx context.Context, uri string) ([]byte, error)) LoaderOption {
	return func(l *Loader) {
		l.oci = f
	}
}

// NewLoader creates a notebook Loader.
func NewLoader(options ...LoaderOption) *Loader {
	l := &Loader{
		http: serializer.NewHttpReader(),
		oci:  fetchOCI,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// fetchOCI pulls a notebook artifact from a registry. Loopback registries
// get plain HTTP, which is how local registry:2 instances run.
func fetchOCI(ctx context.Context, uri string) ([]byte, error) {
	ref, err := oci.ParseReference(uri)
	if err != nil {
		return nil, err
	}
	return oci.Pull(ctx, oci.PullOptions{
		Reference: ref,
		PlainHTTP: oci.IsLocalRegistry(ref.Registry),
	})
}

// Load reads and parses the notebook at uri, which may be a local file
// path, an http(s) URL, or an oci:// registry reference. It returns the
// parsed document along with the raw bytes so callers can serve the
// original source unchanged.
func (l *Loader) Load(ctx context.Context, uri string) (*Notebook, []byte, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, nil, fmt.Errorf("notebook uri is empty")
	}

	var (
		raw []byte
		err error
	)
	switch {
	case strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://"):
		raw, err = l.http.ReadWithContext(ctx, uri)
	case oci.IsRef(uri):
		raw, err = l.oci(ctx, uri)
	default:
		raw, err = os.ReadFile(strings.TrimPrefix(uri, "file://"))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read notebook %s: %w", uri, err)
	}

	nb, err := Parse(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse notebook %s: %w", uri, err)
	}

	slog.Debug("notebook loaded",
		"uri", uri,
		"cells", len(nb.Cells),
		"language", nb.Language(),
	)

	return nb, raw, nil
}
