package invoke

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/cellgate/cellgate/pkg/errors"
)

const (
	contentTypeForm      = "application/x-www-form-urlencoded"
	contentTypeMultipart = "multipart/form-data"
	contentTypeJSON      = "application/json"
)

// bundle is the request value handed to notebook code via the REQUEST
// variable.
type bundle struct {
	Body    any               `json:"body"`
	Args    url.Values        `json:"args"`
	Path    map[string]string `json:"path"`
	Headers map[string]any    `json:"headers"`
}

// BuildBundle encodes an HTTP request as the JSON bundle notebook cells
// decode from REQUEST. Path params come from the route match.
func BuildBundle(r *http.Request, params map[string]string) (string, error) {
	body, err := parseBody(r)
	if err != nil {
		return "", err
	}
	if params == nil {
		params = map[string]string{}
	}

	b := bundle{
		Body:    body,
		Args:    r.URL.Query(),
		Path:    params,
		Headers: headersToValue(r),
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(b); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to encode request bundle", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// parseBody interprets the request body by Content-Type: form and
// multipart bodies become an argument map, JSON bodies are decoded with a
// raw-text fallback, and everything else stays raw text.
func parseBody(r *http.Request) (any, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to read request body", err)
	}

	contentType := r.Header.Get("Content-Type")
	switch {
	case contentType == contentTypeForm:
		vals, _ := url.ParseQuery(string(raw))
		return vals, nil
	case strings.HasPrefix(contentType, contentTypeMultipart):
		return parseMultipart(contentType, raw), nil
	case contentType == contentTypeJSON:
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		return string(raw), nil
	default:
		return string(raw), nil
	}
}

// parseMultipart collects form fields from a multipart body. File parts
// are skipped; malformed bodies yield whatever fields parsed cleanly.
func parseMultipart(contentType string, raw []byte) url.Values {
	vals := url.Values{}

	_, mparams, err := mime.ParseMediaType(contentType)
	if err != nil {
		return vals
	}
	boundary := mparams["boundary"]
	if boundary == "" {
		return vals
	}

	mr := multipart.NewReader(bytes.NewReader(raw), boundary)
	for {
		part, err := mr.NextPart()
		if err != nil {
			return vals
		}
		if part.FileName() != "" || part.FormName() == "" {
			continue
		}
		data, err := io.ReadAll(part)
		if err != nil {
			continue
		}
		vals.Add(part.FormName(), string(data))
	}
}

// headersToValue flattens request headers for the bundle. Single-valued
// headers stay scalar strings; repeated headers become lists.
func headersToValue(r *http.Request) map[string]any {
	out := make(map[string]any, len(r.Header)+1)
	for name, vals := range r.Header {
		if len(vals) == 1 {
			out[name] = vals[0]
			continue
		}
		list := make([]string, len(vals))
		copy(list, vals)
		out[name] = list
	}
	// the Host header lives on the request struct, not in Header
	if r.Host != "" {
		if _, ok := out["Host"]; !ok {
			out["Host"] = r.Host
		}
	}
	return out
}
