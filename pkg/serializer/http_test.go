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

package serializer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testPayload struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func TestRespondJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	data := testPayload{
		Message: "hello Ada",
		Code:    200,
	}

	RespondJSON(w, http.StatusOK, data)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	contentType := w.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var result testPayload
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if result.Message != data.Message {
		t.Errorf("expected message %s, got %s", data.Message, result.Message)
	}

	if result.Code != data.Code {
		t.Errorf("expected code %d, got %d", data.Code, result.Code)
	}
}

func TestRespondJSON_DifferentStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"OK", http.StatusOK},
		{"Created", http.StatusCreated},
		{"NotFound", http.StatusNotFound},
		{"MethodNotAllowed", http.StatusMethodNotAllowed},
		{"TooManyRequests", http.StatusTooManyRequests},
		{"InternalServerError", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RespondJSON(w, tt.statusCode, map[string]string{"status": tt.name})

			if w.Code != tt.statusCode {
				t.Errorf("expected status %d, got %d", tt.statusCode, w.Code)
			}
		})
	}
}

func TestRespondJSON_EncodingError(t *testing.T) {
	w := httptest.NewRecorder()

	// Channels cannot be JSON-encoded
	RespondJSON(w, http.StatusOK, make(chan int))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d on encoding error, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestRespondJSON_BuffersBeforeWritingHeaders(t *testing.T) {
	// When encoding fails, no partial body should be written with 200
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusOK, map[string]any{"bad": make(chan int)})

	if w.Code == http.StatusOK {
		t.Error("expected non-200 status when encoding fails")
	}
}

func TestRespondJSON_EmptyData(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusOK, nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	body := w.Body.String()
	if body != "null\n" {
		t.Errorf("expected 'null' body for nil data, got %q", body)
	}
}

func TestNewHttpReader_Defaults(t *testing.T) {
	r := NewHttpReader()

	if r.UserAgent != HttpReaderUserAgent {
		t.Errorf("expected user agent %q, got %q", HttpReaderUserAgent, r.UserAgent)
	}
	if r.Client == nil {
		t.Fatal("expected non-nil client")
	}
	if r.Client.Timeout != HttpReaderDefaultTimeout {
		t.Errorf("expected timeout %v, got %v", HttpReaderDefaultTimeout, r.Client.Timeout)
	}
}

func TestNewHttpReader_WithOptions(t *testing.T) {
	r := NewHttpReader(
		WithUserAgent("test-agent"),
		WithTotalTimeout(5*time.Second),
		WithMaxIdleConns(50),
	)

	if r.UserAgent != "test-agent" {
		t.Errorf("expected user agent test-agent, got %s", r.UserAgent)
	}
	if r.Client.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", r.Client.Timeout)
	}

	tr, ok := r.Client.Transport.(*http.Transport)
	if !ok {
		t.Fatal("expected *http.Transport")
	}
	if tr.MaxIdleConns != 50 {
		t.Errorf("expected MaxIdleConns 50, got %d", tr.MaxIdleConns)
	}
}

func TestNewHttpReader_WithCustomClient(t *testing.T) {
	custom := &http.Client{Timeout: 3 * time.Second}
	r := NewHttpReader(WithClient(custom))

	if r.Client != custom {
		t.Error("expected custom client to be used")
	}
	if r.Client.Timeout != 3*time.Second {
		t.Errorf("expected custom timeout preserved, got %v", r.Client.Timeout)
	}
}

func TestHttpReader_Read_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("notebook content"))
	}))
	defer srv.Close()

	r := NewHttpReader()
	data, err := r.Read(srv.URL)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if string(data) != "notebook content" {
		t.Errorf("unexpected data: %s", data)
	}
}

func TestHttpReader_Read_EmptyURL(t *testing.T) {
	r := NewHttpReader()
	if _, err := r.Read(""); err == nil {
		t.Fatal("expected error for empty URL")
	}
}

func TestHttpReader_Read_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	r := NewHttpReader()
	if _, err := r.Read(srv.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestHttpReader_Read_SetsUserAgent(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotAgent = req.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	r := NewHttpReader()
	if _, err := r.Read(srv.URL); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if gotAgent != HttpReaderUserAgent {
		t.Errorf("expected user agent %q, got %q", HttpReaderUserAgent, gotAgent)
	}
}

func TestHttpReader_ReadWithContext_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(time.Second)
		w.Write([]byte("too late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewHttpReader()
	if _, err := r.ReadWithContext(ctx, srv.URL); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestHttpReader_Download_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"cells":[]}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "remote.ipynb")
	r := NewHttpReader()
	if err := r.Download(srv.URL, path); err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read downloaded file: %v", err)
	}
	if string(content) != `{"cells":[]}` {
		t.Errorf("unexpected file content: %s", content)
	}
}

func TestHttpReader_Download_ReadError(t *testing.T) {
	r := NewHttpReader()
	if err := r.Download("", filepath.Join(t.TempDir(), "out.json")); err == nil {
		t.Fatal("expected error for empty URL")
	}
}
