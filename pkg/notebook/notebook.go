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
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CellTypeCode is the cell_type value for executable cells. All other cell
// types (markdown, raw) are ignored by the gateway.
const CellTypeCode = "code"

// Source holds a cell's source text. Notebook files store source either as a
// single string or as a list of line strings; both decode into the joined
// text.
type Source string

// UnmarshalJSON accepts both the string and []string encodings of cell
// source used by notebook files.
func (s *Source) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = Source(single)
		return nil
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("cell source must be a string or a list of strings: %w", err)
	}
	*s = Source(strings.Join(lines, ""))
	return nil
}

// MarshalJSON always encodes source in the single-string form.
func (s Source) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s Source) String() string {
	return string(s)
}

// Cell is a single notebook cell.
type Cell struct {
	Type   string `json:"cell_type"`
	Source Source `json:"source"`
}

// IsCode reports whether the cell contains executable code.
func (c Cell) IsCode() bool {
	return c.Type == CellTypeCode
}

// KernelSpec identifies the interpreter a notebook was authored against.
type KernelSpec struct {
	Name        string `json:"name"`
	Language    string `json:"language"`
	DisplayName string `json:"display_name"`
}

// LanguageInfo carries the language metadata block of a notebook.
type LanguageInfo struct {
	Name string `json:"name"`
}

// Metadata is the notebook-level metadata block.
type Metadata struct {
	KernelSpec   KernelSpec   `json:"kernelspec"`
	LanguageInfo LanguageInfo `json:"language_info"`
}

// Notebook is a parsed notebook document (nbformat 4).
type Notebook struct {
	Cells    []Cell   `json:"cells"`
	Metadata Metadata `json:"metadata"`
	NBFormat int      `json:"nbformat"`
}

// KernelName returns the kernelspec name, or empty if the notebook carries
// no kernelspec metadata.
func (n *Notebook) KernelName() string {
	return n.Metadata.KernelSpec.Name
}

// Language returns the notebook language in lower case. The language_info
// block wins over the kernelspec language when both are present.
func (n *Notebook) Language() string {
	if lang := n.Metadata.LanguageInfo.Name; lang != "" {
		return strings.ToLower(lang)
	}
	return strings.ToLower(n.Metadata.KernelSpec.Language)
}

// CodeCells returns the indices of executable cells in document order.
func (n *Notebook) CodeCells() []int {
	idx := make([]int, 0, len(n.Cells))
	for i, c := range n.Cells {
		if c.IsCode() {
			idx = append(idx, i)
		}
	}
	return idx
}

// Parse decodes a notebook document from raw bytes.
func Parse(data []byte) (*Notebook, error) {
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("failed to decode notebook: %w", err)
	}
	if nb.NBFormat != 0 && nb.NBFormat < 4 {
		return nil, fmt.Errorf("unsupported notebook format version %d (need 4)", nb.NBFormat)
	}
	return &nb, nil
}

// TitleFromPath derives a display title from a notebook path or URL: the
// file basename without its extension, separators turned into spaces,
// title-cased for the API descriptor.
func TitleFromPath(p string) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	if dot := strings.Index(base, "."); dot > 0 {
		base = base[:dot]
	}
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return cases.Title(language.English).String(base)
}
