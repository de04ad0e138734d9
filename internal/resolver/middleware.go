package resolver

import (
	"errors"
	"net"
	"net/http"
	"strings"
)

// HostConfig classifies request hostnames.
type HostConfig struct {
	// PlatformDomain is the SaaS's own base domain (and all its
	// subdomains).
	PlatformDomain string
	// PreviewSuffix optionally marks staging/preview deployments,
	// e.g. ".guestwall-preview.app".
	PreviewSuffix string
}

// passPrefixes are internal/static paths that bypass the resolver entirely,
// on any hostname.
var passPrefixes = []string{
	"/api/",
	"/static/",
	"/assets/",
	"/healthz",
	"/metrics",
	"/favicon.ico",
}

// Handler wraps the application router with edge hostname resolution.
//
// Platform hostnames pass through untouched. For custom hostnames the
// root path is rewritten to the guestbook's wall page and /collect to its
// collection page; everything else is a 404.
func Handler(next http.Handler, r *Resolver, cfg HostConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hostname := normalizeHost(req.Host)
		if isPlatformHost(hostname, cfg) {
			next.ServeHTTP(w, req)
			return
		}

		for _, prefix := range passPrefixes {
			if strings.HasPrefix(req.URL.Path, prefix) {
				next.ServeHTTP(w, req)
				return
			}
		}

		mapping, _, err := r.Resolve(req.Context(), hostname)
		if err != nil {
			if errors.Is(err, ErrNotConfigured) {
				writeJSONError(w, http.StatusNotFound, "Domain not configured")
				return
			}
			// Store unreachable: the hostname's state is unknown, so
			// neither 404 is honest.
			writeJSONError(w, http.StatusServiceUnavailable, "Temporarily unavailable")
			return
		}

		switch req.URL.Path {
		case "/":
			req.URL.Path = "/wall/" + mapping.Slug
		case "/collect":
			req.URL.Path = "/collect/" + mapping.Slug
		default:
			writeJSONError(w, http.StatusNotFound, "Not found")
			return
		}
		next.ServeHTTP(w, req)
	})
}

// normalizeHost lowercases the Host header and strips any port.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(host, ".")
}

// isPlatformHost reports whether the hostname is served by the platform
// itself: the base domain and its subdomains, preview deployments, local
// development and bare IPs.
func isPlatformHost(hostname string, cfg HostConfig) bool {
	if hostname == "" || hostname == "localhost" {
		return true
	}
	if net.ParseIP(hostname) != nil {
		return true
	}
	base := strings.ToLower(cfg.PlatformDomain)
	if base != "" && (hostname == base || strings.HasSuffix(hostname, "."+base)) {
		return true
	}
	if cfg.PreviewSuffix != "" && strings.HasSuffix(hostname, strings.ToLower(cfg.PreviewSuffix)) {
		return true
	}
	return false
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
