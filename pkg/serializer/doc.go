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

// Package serializer provides encoding and decoding of gateway data in multiple formats.
//
// # Overview
//
// The serializer package handles conversion between gateway data structures
// (route tables, API descriptors, configuration) and various output formats
// including JSON, YAML, and human-readable tables. It supports both encoding
// (writing data) and decoding (reading data) operations with automatic format
// detection.
//
// # Supported Formats
//
// JSON:
//   - Machine-parseable, compact representation
//   - Suitable for API responses and programmatic consumption
//   - Standard encoding/json package
//
// YAML:
//   - Human-readable with preserved structure
//   - Suitable for configuration files and version control
//   - gopkg.in/yaml.v3 package
//
// Table:
//   - Flattened key/value text representation
//   - Suitable for terminal/console viewing
//   - Read-only (no deserialization support)
//
// # Usage - Encoding
//
//	writer := serializer.NewWriter(serializer.FormatJSON, os.Stdout)
//	defer writer.Close()
//	if err := writer.Serialize(ctx, routes); err != nil {
//	    log.Fatal(err)
//	}
//
// # Usage - Decoding
//
//	cfg, err := serializer.FromFile[gateway.Config]("cellgate.yaml")
//
// Notebook files (.ipynb) decode as JSON. Remote http(s) sources are
// downloaded to a temporary file first.
//
// # HTTP Responses
//
//	serializer.RespondJSON(w, http.StatusOK, data)
//
// RespondJSON buffers the encoded payload before writing headers so encoding
// failures never produce a half-written response.
package serializer
