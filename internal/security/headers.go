// Package security provides the response headers the search API sets on
// every response: a Content Security Policy, content sniffing and referrer
// protection, and CORS for a single trusted site origin.
package security

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// CSPPolicy holds the directives for a Content-Security-Policy header.
type CSPPolicy struct {
	DefaultSrc []string
	ConnectSrc []string
	BaseURI    []string
	FormAction []string
	FrameAnc   []string
}

// String serializes the policy to a CSP header value.
func (p *CSPPolicy) String() string {
	var directives []string
	add := func(name string, values []string) {
		if len(values) > 0 {
			directives = append(directives, name+" "+strings.Join(values, " "))
		}
	}
	add("default-src", p.DefaultSrc)
	add("connect-src", p.ConnectSrc)
	add("base-uri", p.BaseURI)
	add("form-action", p.FormAction)
	add("frame-ancestors", p.FrameAnc)
	return strings.Join(directives, "; ")
}

// APIPolicy returns the CSP for JSON API responses. Nothing may load from a
// response except WebSocket connections back to the server on port.
func APIPolicy(port int) *CSPPolicy {
	p := &CSPPolicy{
		DefaultSrc: []string{"'none'"},
		ConnectSrc: []string{"'self'"},
		BaseURI:    []string{"'none'"},
		FormAction: []string{"'none'"},
		FrameAnc:   []string{"'none'"},
	}
	if port > 0 {
		p.ConnectSrc = append(p.ConnectSrc, fmt.Sprintf("ws://localhost:%d", port))
	}
	return p
}

// Headers decorates responses with security headers.
type Headers struct {
	Policy *CSPPolicy
	// AllowOrigin is the origin allowed to call the API from a browser,
	// e.g. "https://example.com". "*" allows any origin; empty disables CORS.
	AllowOrigin string
}

// Wrap returns next with the headers applied. CORS preflight requests from
// the allowed origin are answered directly with 204.
func (h Headers) Wrap(next http.Handler) http.Handler {
	csp := ""
	if h.Policy != nil {
		csp = h.Policy.String()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		if csp != "" {
			hdr.Set("Content-Security-Policy", csp)
		}
		hdr.Set("X-Content-Type-Options", "nosniff")
		hdr.Set("Referrer-Policy", "no-referrer")

		origin := r.Header.Get("Origin")
		allowed := origin != "" && h.allows(origin)
		if allowed {
			hdr.Set("Access-Control-Allow-Origin", origin)
			hdr.Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if !allowed {
				http.Error(w, "origin not allowed", http.StatusForbidden)
				return
			}
			hdr.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			hdr.Set("Access-Control-Allow-Headers", "Content-Type")
			hdr.Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CheckOrigin reports whether a WebSocket upgrade from r may proceed. A
// request without an Origin header does not come from a browser and is
// accepted; otherwise the origin must be the server's own or the one CORS
// allows.
func (h Headers) CheckOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.allows(origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func (h Headers) allows(origin string) bool {
	if h.AllowOrigin == "*" {
		return true
	}
	return h.AllowOrigin != "" && strings.EqualFold(strings.TrimSuffix(h.AllowOrigin, "/"), origin)
}
