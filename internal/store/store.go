// Package store is the source-of-truth persistence layer for guestbooks and
// their custom-domain state.
package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"guestwall/internal/dnstypes"
	"guestwall/internal/model"
)

var (
	// ErrNotFound is returned when no guestbook matches the lookup.
	ErrNotFound = errors.New("guestbook not found")

	// ErrDomainTaken is returned when the custom_domain unique index
	// rejects a write. The index is the final arbiter of uniqueness;
	// callers translate this into a user-facing conflict.
	ErrDomainTaken = errors.New("domain already attached to another guestbook")
)

// GuestbookStore wraps gorm access to the guestbooks table.
type GuestbookStore struct {
	db *gorm.DB
}

// New creates a GuestbookStore.
func New(db *gorm.DB) *GuestbookStore {
	return &GuestbookStore{db: db}
}

// GetByID loads a guestbook by primary key.
func (s *GuestbookStore) GetByID(ctx context.Context, id int) (*model.Guestbook, error) {
	var gb model.Guestbook
	if err := s.db.WithContext(ctx).First(&gb, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &gb, nil
}

// GetBySlug loads a guestbook by slug.
func (s *GuestbookStore) GetBySlug(ctx context.Context, slug string) (*model.Guestbook, error) {
	var gb model.Guestbook
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&gb).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &gb, nil
}

// FindByDomain resolves a normalized hostname to its owning guestbook.
// This is the single read behind the resolver's cache-miss path.
func (s *GuestbookStore) FindByDomain(ctx context.Context, hostname string) (*model.Guestbook, error) {
	var gb model.Guestbook
	if err := s.db.WithContext(ctx).Where("custom_domain = ?", hostname).First(&gb).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &gb, nil
}

// SetDomain persists a freshly added domain in one write: hostname,
// unverified flags, pending_dns status and the frozen verification snapshot.
func (s *GuestbookStore) SetDomain(ctx context.Context, id int, hostname string, data *dnstypes.VerificationData) error {
	encoded, err := model.EncodeVerification(data)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Model(&model.Guestbook{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"custom_domain":            hostname,
			"domain_verified":          false,
			"domain_vercel_status":     model.DomainStatusPendingDNS,
			"domain_verification_data": encoded,
		}).Error
	if isDuplicateErr(err) {
		return ErrDomainTaken
	}
	return err
}

// SetVercelStatus updates only the registrar-observed status.
func (s *GuestbookStore) SetVercelStatus(ctx context.Context, id int, status model.DomainStatus) error {
	return s.db.WithContext(ctx).Model(&model.Guestbook{}).Where("id = ?", id).
		Update("domain_vercel_status", status).Error
}

// MarkVerified flips the domain to verified. DNS is ground truth here; the
// registrar status is set to verified as well even if its own view lags.
func (s *GuestbookStore) MarkVerified(ctx context.Context, id int) error {
	return s.db.WithContext(ctx).Model(&model.Guestbook{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"domain_verified":      true,
			"domain_vercel_status": model.DomainStatusVerified,
		}).Error
}

// ClearDomain resets all custom-domain state.
func (s *GuestbookStore) ClearDomain(ctx context.Context, id int) error {
	return s.db.WithContext(ctx).Model(&model.Guestbook{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"custom_domain":            nil,
			"domain_verified":          false,
			"domain_vercel_status":     model.DomainStatusNone,
			"domain_verification_data": nil,
		}).Error
}

// isDuplicateErr detects a unique-index violation across drivers. gorm
// translates MySQL 1062 into ErrDuplicatedKey; the string checks cover
// drivers opened without error translation.
func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
