package model

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"guestwall/internal/dnstypes"
)

// DomainStatus is the registrar-observed status of a custom domain. It is
// distinct from DomainVerified: our own DNS check may lead or lag the
// registrar's eventually-consistent view.
type DomainStatus string

const (
	DomainStatusNone       DomainStatus = "none"
	DomainStatusPendingAdd DomainStatus = "pending_add"
	DomainStatusPendingDNS DomainStatus = "pending_dns"
	DomainStatusVerified   DomainStatus = "verified"
	DomainStatusError      DomainStatus = "error"
)

// Guestbook is a tenant. Its public page lives at /wall/<slug> on the
// platform domain and optionally on one custom domain.
type Guestbook struct {
	BaseModel
	Slug    string `gorm:"type:varchar(64);uniqueIndex;not null" json:"slug"`
	OwnerID int    `gorm:"not null;index" json:"owner_id"`
	Title   string `gorm:"type:varchar(255)" json:"title"`

	// CustomDomain is the normalized hostname, unique across all tenants.
	// The unique index is the authoritative guard; pre-checks in the
	// lifecycle service are advisory only.
	CustomDomain           *string        `gorm:"type:varchar(255);uniqueIndex" json:"custom_domain"`
	DomainVerified         bool           `gorm:"not null;default:false" json:"domain_verified"`
	DomainVercelStatus     DomainStatus   `gorm:"type:varchar(32);not null;default:'none'" json:"domain_vercel_status"`
	DomainVerificationData datatypes.JSON `gorm:"type:json" json:"-"`
}

// TableName specifies the table name for Guestbook model
func (Guestbook) TableName() string {
	return "guestbooks"
}

// Verification decodes the frozen add-time snapshot. The raw JSON never
// travels past this boundary.
func (g *Guestbook) Verification() (*dnstypes.VerificationData, error) {
	if len(g.DomainVerificationData) == 0 {
		return nil, nil
	}
	var data dnstypes.VerificationData
	if err := json.Unmarshal(g.DomainVerificationData, &data); err != nil {
		return nil, fmt.Errorf("corrupt domain verification data for guestbook %d: %w", g.ID, err)
	}
	return &data, nil
}

// EncodeVerification serializes a snapshot for persistence.
func EncodeVerification(data *dnstypes.VerificationData) (datatypes.JSON, error) {
	if data == nil {
		return nil, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode domain verification data: %w", err)
	}
	return datatypes.JSON(raw), nil
}
