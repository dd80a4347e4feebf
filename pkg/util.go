package pkg

import (
	"net"
	"net/http"
	"strconv"
	"strings"
)

// ReadUserIP returns the client IP, preferring proxy headers over the remote address.
func ReadUserIP(r *http.Request) string {
	if ipAddr := r.Header.Get("X-Real-Ip"); ipAddr != "" {
		return ipAddr
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// first entry is the original client
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ParsePositiveInt parses s as an int > 0, returning def when s is empty.
func ParsePositiveInt(s string, def int) (int, bool) {
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
