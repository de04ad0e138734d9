package dnstypes

// Record type constants
const (
	RecordTypeA     = "A"
	RecordTypeCNAME = "CNAME"
	RecordTypeTXT   = "TXT"
)

// DNSRecord is one DNS record an owner must publish for their custom domain.
// Records are derived, never persisted; they are recomputed from the stored
// VerificationData whenever the dashboard asks for setup instructions.
type DNSRecord struct {
	Type  string `json:"type"`  // A, CNAME, TXT
	Name  string `json:"name"`  // FQDN the record is set on
	Value string `json:"value"` // IP address, alias target or TXT payload
}

// VerificationToken is an opaque ownership-verification triple handed back
// by the registrar when a hostname is added.
type VerificationToken struct {
	Type   string `json:"type"`
	Domain string `json:"domain"`
	Value  string `json:"value"`
}

// VerificationData is frozen at add-time and persisted with the guestbook so
// DNS instructions can be regenerated later without calling the registrar.
type VerificationData struct {
	IsApex       bool                `json:"isApex"`
	Verification []VerificationToken `json:"verification"`
}
