// Package dnsplan turns a verified-at-add-time snapshot into the exact list
// of DNS records a domain owner must publish.
package dnsplan

import "guestwall/internal/dnstypes"

// Targets holds the platform-side endpoints routing records point at.
type Targets struct {
	AnycastIP  string // A record value for apex domains
	EdgeTarget string // CNAME value for subdomains, e.g. edge.guestwall.io
}

// Records produces the ordered record list for a hostname.
//
// Ownership TXT records come first, the routing record (A for apex, CNAME
// for subdomains) last. The order is stable so the dashboard and tests can
// assert on the exact sequence.
func Records(hostname string, data dnstypes.VerificationData, targets Targets) []dnstypes.DNSRecord {
	records := make([]dnstypes.DNSRecord, 0, len(data.Verification)+1)

	for _, token := range data.Verification {
		records = append(records, dnstypes.DNSRecord{
			Type:  token.Type,
			Name:  token.Domain,
			Value: token.Value,
		})
	}

	if data.IsApex {
		records = append(records, dnstypes.DNSRecord{
			Type:  dnstypes.RecordTypeA,
			Name:  hostname,
			Value: targets.AnycastIP,
		})
	} else {
		records = append(records, dnstypes.DNSRecord{
			Type:  dnstypes.RecordTypeCNAME,
			Name:  hostname,
			Value: targets.EdgeTarget,
		})
	}

	return records
}
