package clientip

import (
	"net"
	"net/http"
	"strings"
)

// proxyHeaders are consulted, in order, when the immediate peer is a trusted
// proxy.
var proxyHeaders = []string{"CF-Connecting-IP", "X-Real-IP"}

// FromRequest returns the client address of r. Forwarding headers are only
// honoured when trustProxy is set; otherwise anyone could pick the address
// that is rate limited or logged. Returns "" when nothing parses.
func FromRequest(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, h := range proxyHeaders {
			if ip := parseIP(r.Header.Get(h)); ip != "" {
				return ip
			}
		}
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if ip := parseIP(first); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
