// Package dnsverify checks live DNS against a planned record set. It never
// mutates state; a failed check is a normal outcome carrying the reasons,
// not an error.
package dnsverify

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"guestwall/internal/dnstypes"
)

const defaultTimeout = 5 * time.Second

// lookuper is the subset of net.Resolver the verifier needs. Tests inject a
// fake; production uses net.DefaultResolver.
type lookuper interface {
	LookupTXT(ctx context.Context, name string) ([]string, error)
	LookupCNAME(ctx context.Context, host string) (string, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Result is the outcome of a DNS check. Errors is a human-readable reason
// list shown to the domain owner verbatim.
type Result struct {
	Verified bool     `json:"verified"`
	Errors   []string `json:"errors"`
}

// Verifier performs live DNS lookups. Lookups are slow, unreliable I/O: the
// whole check runs under a single timeout and only the explicit verify
// operation calls it, never the request-path resolver.
type Verifier struct {
	resolver lookuper
	timeout  time.Duration
	logger   *logrus.Entry
}

// New creates a Verifier backed by the system resolver.
func New(logger *logrus.Entry) *Verifier {
	return &Verifier{
		resolver: net.DefaultResolver,
		timeout:  defaultTimeout,
		logger:   logger.WithField("component", "dns-verifier"),
	}
}

// CheckDNS compares each planned record against live DNS.
func (v *Verifier) CheckDNS(ctx context.Context, hostname string, plan []dnstypes.DNSRecord) Result {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	var errs []string
	for _, record := range plan {
		switch record.Type {
		case dnstypes.RecordTypeTXT:
			errs = append(errs, v.checkTXT(ctx, record)...)
		case dnstypes.RecordTypeA:
			errs = append(errs, v.checkA(ctx, record)...)
		case dnstypes.RecordTypeCNAME:
			errs = append(errs, v.checkCNAME(ctx, record)...)
		default:
			errs = append(errs, fmt.Sprintf("Unsupported record type %s for %s", record.Type, record.Name))
		}
	}

	result := Result{Verified: len(errs) == 0, Errors: errs}
	v.logger.WithFields(logrus.Fields{
		"hostname": hostname,
		"verified": result.Verified,
		"problems": len(errs),
	}).Info("dns check completed")
	return result
}

func (v *Verifier) checkTXT(ctx context.Context, record dnstypes.DNSRecord) []string {
	values, err := v.resolver.LookupTXT(ctx, record.Name)
	if err != nil {
		return []string{fmt.Sprintf("Missing TXT record for ownership verification on %s", record.Name)}
	}
	for _, val := range values {
		if strings.TrimSpace(val) == record.Value {
			return nil
		}
	}
	return []string{fmt.Sprintf("TXT record on %s does not contain the verification value", record.Name)}
}

func (v *Verifier) checkA(ctx context.Context, record dnstypes.DNSRecord) []string {
	addrs, err := v.resolver.LookupHost(ctx, record.Name)
	if err != nil {
		return []string{fmt.Sprintf("%s does not resolve; add an A record pointing to %s", record.Name, record.Value)}
	}
	for _, addr := range addrs {
		if addr == record.Value {
			return nil
		}
	}
	return []string{fmt.Sprintf("A record for %s does not point to the expected address %s", record.Name, record.Value)}
}

func (v *Verifier) checkCNAME(ctx context.Context, record dnstypes.DNSRecord) []string {
	cname, err := v.resolver.LookupCNAME(ctx, record.Name)
	if err != nil || cname == "" {
		return []string{fmt.Sprintf("Missing CNAME record for %s; point it at %s", record.Name, record.Value)}
	}
	if !strings.EqualFold(strings.TrimSuffix(cname, "."), strings.TrimSuffix(record.Value, ".")) {
		return []string{fmt.Sprintf("CNAME record for %s points to %s instead of %s",
			record.Name, strings.TrimSuffix(cname, "."), record.Value)}
	}
	return nil
}
