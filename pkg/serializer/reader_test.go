package serializer

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testConfig struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

type testRoute struct {
	Verb string `json:"verb" yaml:"verb"`
	Path string `json:"path" yaml:"path"`
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"config.json", FormatJSON},
		{"CONFIG.JSON", FormatJSON},
		{"api.ipynb", FormatJSON},
		{"notebooks/hello.IPYNB", FormatJSON},
		{"config.yaml", FormatYAML},
		{"config.yml", FormatYAML},
		{"output.table", FormatTable},
		{"output.txt", FormatTable},
		{"no-extension", FormatJSON},
		{"weird.xml", FormatJSON},
		{"", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatFromPath(tt.path); got != tt.want {
				t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestNewReader(t *testing.T) {
	t.Run("valid JSON format", func(t *testing.T) {
		r, err := NewReader(FormatJSON, strings.NewReader("{}"))
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}
		if r == nil {
			t.Fatal("expected non-nil reader")
		}
	})

	t.Run("valid YAML format", func(t *testing.T) {
		r, err := NewReader(FormatYAML, strings.NewReader("name: test"))
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}
		if r == nil {
			t.Fatal("expected non-nil reader")
		}
	})

	t.Run("table format rejected", func(t *testing.T) {
		_, err := NewReader(FormatTable, strings.NewReader("data"))
		if err == nil {
			t.Fatal("expected error for table format")
		}
	})

	t.Run("unknown format rejected", func(t *testing.T) {
		_, err := NewReader(Format("xml"), strings.NewReader("data"))
		if err == nil {
			t.Fatal("expected error for unknown format")
		}
	})
}

func TestReader_DeserializeJSON(t *testing.T) {
	input := `{"name": "pool", "value": 3}`
	r, err := NewReader(FormatJSON, strings.NewReader(input))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	var got testConfig
	if err := r.Deserialize(&got); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	if got.Name != "pool" || got.Value != 3 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestReader_DeserializeJSON_Invalid(t *testing.T) {
	r, err := NewReader(FormatJSON, strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	var got testConfig
	if err := r.Deserialize(&got); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestReader_DeserializeYAML(t *testing.T) {
	input := "name: pool\nvalue: 3\n"
	r, err := NewReader(FormatYAML, strings.NewReader(input))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	var got testConfig
	if err := r.Deserialize(&got); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	if got.Name != "pool" || got.Value != 3 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestReader_DeserializeNilChecks(t *testing.T) {
	var r *Reader
	if err := r.Deserialize(&testConfig{}); err == nil {
		t.Error("expected error for nil reader")
	}

	r2 := &Reader{format: FormatJSON}
	if err := r2.Deserialize(&testConfig{}); err == nil {
		t.Error("expected error for nil input")
	}
}

func TestNewFileReader(t *testing.T) {
	t.Run("local JSON file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "routes.json")
		content := `[{"verb":"GET","path":"/hello/:name"}]`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		r, err := NewFileReader(FormatJSON, path)
		if err != nil {
			t.Fatalf("NewFileReader failed: %v", err)
		}
		defer r.Close()

		var routes []testRoute
		if err := r.Deserialize(&routes); err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}
		if len(routes) != 1 || routes[0].Verb != "GET" {
			t.Errorf("unexpected routes: %+v", routes)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileReader(FormatJSON, "/nonexistent/file.json")
		if err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("remote URL", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			fmt.Fprint(w, `{"name":"remote","value":7}`)
		}))
		defer srv.Close()

		r, err := NewFileReader(FormatJSON, srv.URL)
		if err != nil {
			t.Fatalf("NewFileReader from URL failed: %v", err)
		}
		defer r.Close()

		var got testConfig
		if err := r.Deserialize(&got); err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}
		if got.Name != "remote" || got.Value != 7 {
			t.Errorf("unexpected result: %+v", got)
		}
	})

	t.Run("remote URL failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewFileReader(FormatJSON, srv.URL)
		if err == nil {
			t.Fatal("expected error for 404 URL")
		}
	})
}

func TestNewFileReaderAuto(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("name: auto\nvalue: 9\n"), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	r, err := NewFileReaderAuto(path)
	if err != nil {
		t.Fatalf("NewFileReaderAuto failed: %v", err)
	}
	defer r.Close()

	var got testConfig
	if err := r.Deserialize(&got); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if got.Name != "auto" || got.Value != 9 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestReader_Close(t *testing.T) {
	t.Run("nil reader", func(t *testing.T) {
		var r *Reader
		if err := r.Close(); err != nil {
			t.Errorf("Close on nil reader should not error: %v", err)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.json")
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		r, err := NewFileReader(FormatJSON, path)
		if err != nil {
			t.Fatalf("NewFileReader failed: %v", err)
		}

		if err := r.Close(); err != nil {
			t.Errorf("first Close failed: %v", err)
		}
		if err := r.Close(); err != nil {
			t.Errorf("second Close should be a no-op: %v", err)
		}
	})

	t.Run("non-closeable source", func(t *testing.T) {
		r, err := NewReader(FormatJSON, strings.NewReader("{}"))
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}
		if err := r.Close(); err != nil {
			t.Errorf("Close should be no-op for strings.Reader: %v", err)
		}
	})
}

func TestFromFile_Success(t *testing.T) {
	t.Run("yaml config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.yaml")
		if err := os.WriteFile(path, []byte("name: gateway\nvalue: 8888\n"), 0600); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		got, err := FromFile[testConfig](path)
		if err != nil {
			t.Fatalf("FromFile failed: %v", err)
		}
		if got.Name != "gateway" || got.Value != 8888 {
			t.Errorf("unexpected result: %+v", got)
		}
	})

	t.Run("ipynb is decoded as JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "api.ipynb")
		if err := os.WriteFile(path, []byte(`{"name":"nb","value":4}`), 0600); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		got, err := FromFile[testConfig](path)
		if err != nil {
			t.Fatalf("FromFile failed: %v", err)
		}
		if got.Name != "nb" {
			t.Errorf("unexpected result: %+v", got)
		}
	})
}

func TestFromFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := FromFile[testConfig]("/nonexistent/cfg.yaml"); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("malformed content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(path, []byte("{{{{"), 0600); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}
		if _, err := FromFile[testConfig](path); err == nil {
			t.Fatal("expected error for malformed content")
		}
	})
}

func TestReader_MultipleDeserialize(t *testing.T) {
	// JSON decoder supports streaming multiple documents
	input := `{"name":"a","value":1}{"name":"b","value":2}`
	r, err := NewReader(FormatJSON, strings.NewReader(input))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	var first, second testConfig
	if err := r.Deserialize(&first); err != nil {
		t.Fatalf("first Deserialize failed: %v", err)
	}
	if err := r.Deserialize(&second); err != nil {
		t.Fatalf("second Deserialize failed: %v", err)
	}

	if first.Name != "a" || second.Name != "b" {
		t.Errorf("unexpected results: %+v, %+v", first, second)
	}
}

func TestReader_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte(""), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	r, err := NewFileReader(FormatJSON, path)
	if err != nil {
		t.Fatalf("NewFileReader failed: %v", err)
	}
	defer r.Close()

	var got testConfig
	if err := r.Deserialize(&got); err == nil {
		t.Fatal("expected error for empty JSON input")
	}
}
