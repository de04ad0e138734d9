package domainutil

import (
	"fmt"
	"net"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/publicsuffix"
)

// maxHostnameLen is the RFC 1035 limit for a full domain name.
const maxHostnameLen = 253

// ValidationError is a user-correctable problem with a submitted domain.
// Its message is surfaced verbatim to the dashboard.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Validation is the result of validating a raw user-supplied domain.
type Validation struct {
	Hostname string // normalized hostname
	IsApex   bool   // true when the hostname is a registrable root (eTLD+1)
}

// Normalize canonicalizes a user-supplied domain string.
//
// Rules:
//   - lowercase, trim whitespace
//   - strip an http:// or https:// scheme and anything after the first /
//   - strip a trailing dot and a :port suffix
//   - reject IP literals (IPv4/IPv6)
//   - reject empty strings and invalid characters
func Normalize(host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", invalid("domain must not be empty")
	}

	host = strings.ToLower(host)

	// Strip scheme and path; users paste full URLs more often than not.
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	if idx := strings.IndexByte(host, '/'); idx >= 0 {
		host = host[:idx]
	}

	host = strings.TrimSuffix(host, ".")

	// Strip port (example.com:443)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	if host == "" {
		return "", invalid("domain must not be empty after normalization")
	}

	// Reject IPv4/IPv6 literals
	if net.ParseIP(host) != nil {
		return "", invalid("IP address is not allowed as domain: %s", host)
	}
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		inner := host[1 : len(host)-1]
		if net.ParseIP(inner) != nil {
			return "", invalid("IP address is not allowed as domain: %s", host)
		}
	}

	if len(host) > maxHostnameLen {
		return "", invalid("domain exceeds %d characters", maxHostnameLen)
	}

	// Only a-z 0-9 . - are allowed
	for i := 0; i < len(host); {
		r, size := utf8.DecodeRuneInString(host[i:])
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '-') {
			return "", invalid("domain contains invalid character: %c in %s", r, host)
		}
		i += size
	}

	if strings.HasPrefix(host, ".") || strings.HasPrefix(host, "-") {
		return "", invalid("domain must not start with '.' or '-': %s", host)
	}

	if !strings.Contains(host, ".") {
		return "", invalid("domain must contain at least one dot: %s", host)
	}

	for _, label := range strings.Split(host, ".") {
		if label == "" {
			return "", invalid("domain contains an empty label: %s", host)
		}
	}

	return host, nil
}

// EffectiveApex computes the eTLD+1 (registrable root) of a domain using
// the public suffix list.
//
// Examples:
//   - www.example.com    -> example.com
//   - a.b.example.co.uk  -> example.co.uk
//   - example.com        -> example.com
//
// Apex math must always go through this function; splitting on dots is wrong
// for multi-label public suffixes.
func EffectiveApex(domain string) (string, error) {
	normalized, err := Normalize(domain)
	if err != nil {
		return "", err
	}

	apex, err := publicsuffix.EffectiveTLDPlusOne(normalized)
	if err != nil {
		return "", invalid("not a registrable domain: %s", domain)
	}
	return apex, nil
}

// IsApex reports whether a normalized hostname is itself a registrable root
// (i.e. stripping the public suffix leaves exactly one label).
func IsApex(hostname string) (bool, error) {
	apex, err := EffectiveApex(hostname)
	if err != nil {
		return false, err
	}
	return apex == hostname, nil
}

// Validate normalizes and classifies a raw user-supplied domain, rejecting
// hostnames under the platform's own base domain.
func Validate(raw, platformDomain string) (*Validation, error) {
	hostname, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	if platformDomain != "" {
		base := strings.ToLower(strings.TrimSuffix(platformDomain, "."))
		if hostname == base || strings.HasSuffix(hostname, "."+base) {
			return nil, invalid("%s is reserved; choose a domain you own outside %s", hostname, base)
		}
	}

	isApex, err := IsApex(hostname)
	if err != nil {
		return nil, err
	}

	return &Validation{Hostname: hostname, IsApex: isApex}, nil
}
