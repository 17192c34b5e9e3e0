package headers

import (
	"fmt"
	"net/http"
	"strings"
)

// Parse converts "Key: Value" lines into an http.Header. Blank lines are
// skipped; a line without a colon or with an empty key is an error.
func Parse(lines []string) (http.Header, error) {
	h := make(http.Header)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			return nil, fmt.Errorf("invalid header %q: want \"Key: Value\"", line)
		}
		h.Add(key, strings.TrimSpace(value))
	}
	return h, nil
}

// Apply sets every header in extra on dst, replacing existing values
func Apply(dst, extra http.Header) {
	for key, values := range extra {
		dst.Del(key)
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}
