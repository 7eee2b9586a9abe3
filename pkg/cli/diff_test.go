/*
Copyright (c) 2025, the cellgate authors.
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cellgate/cellgate/pkg/route"
)

func TestDiffCommand(t *testing.T) {
	fromPath := writeTestNotebook(t,
		"# GET /hello\nprint('hi')",
		"# DELETE /hello\nprint('gone')",
	)
	toPath := writeTestNotebook(t,
		"# GET /hello\nprint('hi')",
		"# POST /hello\nprint('created')",
	)
	outPath := filepath.Join(t.TempDir(), "diff.json")

	err := Run(context.Background(), []string{"cellgate", "diff",
		"--from", fromPath,
		"--to", toPath,
		"--format", "json",
		"--output", outPath,
	})
	if err != nil {
		t.Fatalf("diff command failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	var d route.Diff
	if err := json.Unmarshal(data, &d); err != nil {
		t.Fatalf("failed to decode diff: %v", err)
	}

	if len(d.Added) != 1 || d.Added[0] != "POST /hello" {
		t.Errorf("Added = %v, want [POST /hello]", d.Added)
	}
	if len(d.Removed) != 1 || d.Removed[0] != "DELETE /hello" {
		t.Errorf("Removed = %v, want [DELETE /hello]", d.Removed)
	}
}

func TestDiffCommandFailOnChange(t *testing.T) {
	fromPath := writeTestNotebook(t, "# GET /hello\nprint('hi')")
	toPath := writeTestNotebook(t,
		"# GET /hello\nprint('hi')",
		"# POST /hello\nprint('created')",
	)

	err := Run(context.Background(), []string{"cellgate", "diff",
		"--from", fromPath,
		"--to", toPath,
		"--fail-on-change",
		"--format", "json",
		"--output", filepath.Join(t.TempDir(), "diff.json"),
	})
	if err == nil {
		t.Fatal("expected non-zero result when routes changed")
	}
}

func TestDiffCommandIdenticalNotebooks(t *testing.T) {
	path := writeTestNotebook(t, "# GET /hello\nprint('hi')")
	outPath := filepath.Join(t.TempDir(), "diff.json")

	err := Run(context.Background(), []string{"cellgate", "diff",
		"--from", path,
		"--to", path,
		"--fail-on-change",
		"--format", "json",
		"--output", outPath,
	})
	if err != nil {
		t.Fatalf("identical notebooks should not fail: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	var d route.Diff
	if err := json.Unmarshal(data, &d); err != nil {
		t.Fatalf("failed to decode diff: %v", err)
	}
	if !d.Empty() {
		t.Errorf("diff of identical notebooks should be empty, got %+v", d)
	}
}
