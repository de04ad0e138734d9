package dnsverify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"guestwall/internal/dnstypes"
)

type fakeResolver struct {
	txt    map[string][]string
	cname  map[string]string
	hosts  map[string][]string
	txtErr error
}

func (f *fakeResolver) LookupTXT(_ context.Context, name string) ([]string, error) {
	if f.txtErr != nil {
		return nil, f.txtErr
	}
	values, ok := f.txt[name]
	if !ok {
		return nil, errors.New("no such host")
	}
	return values, nil
}

func (f *fakeResolver) LookupCNAME(_ context.Context, host string) (string, error) {
	cname, ok := f.cname[host]
	if !ok {
		return "", errors.New("no such host")
	}
	return cname, nil
}

func (f *fakeResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	addrs, ok := f.hosts[host]
	if !ok {
		return nil, errors.New("no such host")
	}
	return addrs, nil
}

func newTestVerifier(r lookuper) *Verifier {
	return &Verifier{
		resolver: r,
		timeout:  time.Second,
		logger:   logrus.NewEntry(logrus.New()).WithField("component", "test"),
	}
}

func subdomainPlan() []dnstypes.DNSRecord {
	return []dnstypes.DNSRecord{
		{Type: "TXT", Name: "_guestwall.example.com", Value: "vc-domain-verify=tok"},
		{Type: "CNAME", Name: "love.example.com", Value: "edge.guestwall.io"},
	}
}

func TestCheckDNSAllRecordsPresent(t *testing.T) {
	v := newTestVerifier(&fakeResolver{
		txt:   map[string][]string{"_guestwall.example.com": {"vc-domain-verify=tok"}},
		cname: map[string]string{"love.example.com": "edge.guestwall.io."},
	})

	res := v.CheckDNS(context.Background(), "love.example.com", subdomainPlan())
	if !res.Verified {
		t.Fatalf("expected verified, got errors: %v", res.Errors)
	}
	if len(res.Errors) != 0 {
		t.Errorf("expected no errors, got %v", res.Errors)
	}
}

func TestCheckDNSMissingCNAME(t *testing.T) {
	v := newTestVerifier(&fakeResolver{
		txt: map[string][]string{"_guestwall.example.com": {"vc-domain-verify=tok"}},
	})

	res := v.CheckDNS(context.Background(), "love.example.com", subdomainPlan())
	if res.Verified {
		t.Fatal("expected verification failure")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", res.Errors)
	}
}

func TestCheckDNSWrongCNAMETarget(t *testing.T) {
	v := newTestVerifier(&fakeResolver{
		txt:   map[string][]string{"_guestwall.example.com": {"vc-domain-verify=tok"}},
		cname: map[string]string{"love.example.com": "elsewhere.example.net."},
	})

	res := v.CheckDNS(context.Background(), "love.example.com", subdomainPlan())
	if res.Verified {
		t.Fatal("expected verification failure")
	}
}

func TestCheckDNSApex(t *testing.T) {
	plan := []dnstypes.DNSRecord{
		{Type: "TXT", Name: "_guestwall.example.com", Value: "vc-domain-verify=tok"},
		{Type: "A", Name: "example.com", Value: "76.76.21.21"},
	}

	v := newTestVerifier(&fakeResolver{
		txt:   map[string][]string{"_guestwall.example.com": {"other", "vc-domain-verify=tok"}},
		hosts: map[string][]string{"example.com": {"10.0.0.1", "76.76.21.21"}},
	})

	res := v.CheckDNS(context.Background(), "example.com", plan)
	if !res.Verified {
		t.Fatalf("expected verified, got errors: %v", res.Errors)
	}
}

func TestCheckDNSWrongARecord(t *testing.T) {
	plan := []dnstypes.DNSRecord{
		{Type: "A", Name: "example.com", Value: "76.76.21.21"},
	}

	v := newTestVerifier(&fakeResolver{
		hosts: map[string][]string{"example.com": {"10.0.0.1"}},
	})

	res := v.CheckDNS(context.Background(), "example.com", plan)
	if res.Verified {
		t.Fatal("expected verification failure")
	}
}

func TestCheckDNSCollectsAllProblems(t *testing.T) {
	v := newTestVerifier(&fakeResolver{})

	res := v.CheckDNS(context.Background(), "love.example.com", subdomainPlan())
	if res.Verified {
		t.Fatal("expected verification failure")
	}
	if len(res.Errors) != 2 {
		t.Fatalf("expected one error per missing record, got %v", res.Errors)
	}
}
