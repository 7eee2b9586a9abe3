package kernel

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FormatRequest returns the assignment statement that binds an encoded
// request bundle to the REQUEST variable of the session language. The
// bundle JSON is embedded as a string literal, so handler cells decode it
// with their language's own JSON parser.
func FormatRequest(language, bundleJSON string) string {
	lit := quoteJSON(bundleJSON)
	switch strings.ToLower(language) {
	case "perl":
		return "my $REQUEST = " + lit
	case "bash":
		return "REQUEST=" + lit
	default:
		return "REQUEST = " + lit
	}
}

// quoteJSON encodes s as a JSON string literal. HTML escaping is disabled
// so the literal stays byte-for-byte readable in kernel logs.
func quoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimRight(buf.String(), "\n")
}
