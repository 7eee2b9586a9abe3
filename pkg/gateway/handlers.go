package gateway

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/cellgate/cellgate/pkg/errors"
	"github.com/cellgate/cellgate/pkg/serializer"
	"github.com/cellgate/cellgate/pkg/server"
)

// HandleNotebook dispatches a request to the notebook route matching
// its verb and path and writes the execution outcome.
func (g *Gateway) HandleNotebook(w http.ResponseWriter, r *http.Request) {
	rt, params, err := g.table.Match(r.Method, r.URL.Path)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "request failed", nil)
		return
	}

	resp, err := g.exec.Do(r.Context(), r, rt, params)
	if err != nil {
		g.writeExecError(w, r, err, rt.String())
		return
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.Status)
	if len(resp.Body) > 0 && bodyAllowed(resp.Status) {
		writeBody(w, resp.Body)
	}
}

// writeExecError maps coordinator failures onto the wire. Pool
// exhaustion uses the configured status, and metadata decode failures
// are reported as execution failures: to the caller both mean "the
// route did not produce a response".
func (g *Gateway) writeExecError(w http.ResponseWriter, r *http.Request, err error, routeName string) {
	var se *errors.StructuredError
	if stderrors.As(err, &se) {
		switch se.Code {
		case errors.ErrCodePoolExhausted:
			server.WriteError(w, r, g.exhaustedStatus, se.Code, se.Message, true,
				map[string]any{"route": routeName})
			return
		case errors.ErrCodeBadMetadata:
			server.WriteError(w, r, http.StatusInternalServerError,
				errors.ErrCodeExecutionFailed, se.Message, false, se.Context)
			return
		}
	}
	server.WriteErrorFromErr(w, r, err, "route execution failed",
		map[string]any{"route": routeName})
}

// bodyAllowed reports whether the HTTP status permits a response body.
func bodyAllowed(status int) bool {
	if status >= 100 && status < 200 {
		return false
	}
	return status != http.StatusNoContent && status != http.StatusNotModified
}

func writeBody(w http.ResponseWriter, b []byte) {
	if _, err := w.Write(b); err != nil {
		slog.Warn("response write failed", "error", err)
	}
}

// HandleSpec serves the swagger descriptor built from the route table.
func (g *Gateway) HandleSpec(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeBody(w, g.doc.JSON())
}

// HandleSource serves the notebook exactly as it was loaded.
func (g *Gateway) HandleSource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeBody(w, g.source)
}

// HandleActivity serves per-kernel execution counters.
func (g *Gateway) HandleActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}

	snapshot, err := g.activity.Snapshot(r.Context())
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "activity snapshot failed", nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, snapshot)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodGet)
	server.WriteError(w, r, http.StatusMethodNotAllowed,
		errors.ErrCodeMethodNotAllowed, "method not allowed", false, nil)
}
