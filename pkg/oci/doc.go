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

// Package oci distributes notebooks through OCI registries.
//
// A notebook is pushed as a single-layer OCI 1.1 artifact: the .ipynb file
// becomes one layer with the application/x-ipynb+json media type under a
// cellgate artifact manifest. Any registry that accepts OCI artifacts
// (ghcr.io, Harbor, zot, a local registry:2) can then version and serve
// notebooks the same way it serves images.
//
// References use the oci:// scheme:
//
//	oci://ghcr.io/acme/orders-api:v3
//	oci://localhost:5000/notebooks/hello:latest
//
// Push publishes a notebook file; Pull fetches the notebook layer back as
// raw bytes, which is how the notebook loader resolves oci:// URIs at
// gateway startup. Docker credential helpers supply registry auth.
package oci
