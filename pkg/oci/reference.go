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

package oci

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/cellgate/cellgate/pkg/errors"
)

// URIScheme marks a notebook reference stored in an OCI registry
// (e.g., "oci://ghcr.io/acme/orders-api:v3").
const URIScheme = "oci://"

// DefaultTag is applied when a reference carries no tag.
const DefaultTag = "latest"

// Reference is a parsed oci:// notebook reference.
type Reference struct {
	// Registry is the registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the repository path (e.g., "acme/orders-api").
	Repository string
	// Tag is the artifact tag. Empty means the caller should apply
	// DefaultTag unless Digest pins the artifact.
	Tag string
	// Digest pins the artifact content (e.g., "sha256:..."). Takes
	// precedence over Tag when resolving.
	Digest string
}

// IsRef reports whether uri uses the oci:// scheme.
func IsRef(uri string) bool {
	return strings.HasPrefix(uri, URIScheme)
}

// ParseReference parses an oci:// URI into its registry, repository and tag
// components using docker reference normalization rules.
func ParseReference(uri string) (*Reference, error) {
	if !IsRef(uri) {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"notebook reference must use the oci:// scheme",
			map[string]any{"reference": uri})
	}

	named, err := reference.ParseNormalizedNamed(strings.TrimPrefix(uri, URIScheme))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}

	r := &Reference{
		Registry:   reference.Domain(named),
		Repository: reference.Path(named),
	}
	if tagged, ok := named.(reference.Tagged); ok {
		r.Tag = tagged.Tag()
	}
	if digested, ok := named.(reference.Digested); ok {
		r.Digest = digested.Digest().String()
	}
	return r, nil
}

// String returns the reference in oci:// form.
func (r *Reference) String() string {
	return URIScheme + r.ImageReference()
}

// ImageReference returns the docker-style reference without the scheme.
func (r *Reference) ImageReference() string {
	switch {
	case r.Digest != "":
		return fmt.Sprintf("%s/%s@%s", r.Registry, r.Repository, r.Digest)
	case r.Tag != "":
		return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
	default:
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
}

// TagOrDefault returns what the artifact resolves by: the pinning digest
// when present, else the tag, else DefaultTag.
func (r *Reference) TagOrDefault() string {
	if r.Digest != "" {
		return r.Digest
	}
	if r.Tag == "" {
		return DefaultTag
	}
	return r.Tag
}

// IsLocalRegistry reports whether the registry host is a loopback address.
// Local registries conventionally run without TLS, so callers use this to
// default the plain-HTTP transport.
func IsLocalRegistry(registry string) bool {
	host := registry
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	host = strings.Trim(host, "[]")
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
