package store

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"guestwall/internal/dnstypes"
	"guestwall/internal/model"
)

func newTestStore(t *testing.T) *GuestbookStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// In-memory sqlite is per-connection; keep the pool at one.
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&model.Guestbook{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return New(db)
}

func seedGuestbook(t *testing.T, s *GuestbookStore, slug string, ownerID int) *model.Guestbook {
	t.Helper()
	gb := &model.Guestbook{Slug: slug, OwnerID: ownerID, Title: slug + " wall"}
	if err := s.db.Create(gb).Error; err != nil {
		t.Fatalf("failed to seed guestbook: %v", err)
	}
	return gb
}

func testData() *dnstypes.VerificationData {
	return &dnstypes.VerificationData{
		IsApex: false,
		Verification: []dnstypes.VerificationToken{
			{Type: "TXT", Domain: "_guestwall.example.com", Value: "vc-domain-verify=tok"},
		},
	}
}

func TestSetDomainAndFindByDomain(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	gb := seedGuestbook(t, s, "love", 1)

	if err := s.SetDomain(ctx, gb.ID, "love.example.com", testData()); err != nil {
		t.Fatalf("SetDomain failed: %v", err)
	}

	found, err := s.FindByDomain(ctx, "love.example.com")
	if err != nil {
		t.Fatalf("FindByDomain failed: %v", err)
	}
	if found.ID != gb.ID {
		t.Errorf("resolved wrong guestbook: %d", found.ID)
	}
	if found.DomainVerified {
		t.Error("fresh domain must not be verified")
	}
	if found.DomainVercelStatus != model.DomainStatusPendingDNS {
		t.Errorf("expected pending_dns, got %s", found.DomainVercelStatus)
	}

	data, err := found.Verification()
	if err != nil {
		t.Fatalf("Verification decode failed: %v", err)
	}
	if data == nil || len(data.Verification) != 1 || data.Verification[0].Value != "vc-domain-verify=tok" {
		t.Errorf("verification snapshot did not round-trip: %+v", data)
	}
}

func TestSetDomainUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := seedGuestbook(t, s, "alpha", 1)
	b := seedGuestbook(t, s, "beta", 2)

	if err := s.SetDomain(ctx, a.ID, "love.example.com", testData()); err != nil {
		t.Fatalf("first SetDomain failed: %v", err)
	}

	err := s.SetDomain(ctx, b.ID, "love.example.com", testData())
	if !errors.Is(err, ErrDomainTaken) {
		t.Fatalf("expected ErrDomainTaken, got %v", err)
	}

	// Tenant B's state must be untouched.
	fresh, err := s.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fresh.CustomDomain != nil {
		t.Errorf("loser of the race must keep a nil domain, got %q", *fresh.CustomDomain)
	}
}

func TestMarkVerified(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	gb := seedGuestbook(t, s, "love", 1)

	if err := s.SetDomain(ctx, gb.ID, "love.example.com", testData()); err != nil {
		t.Fatalf("SetDomain failed: %v", err)
	}
	if err := s.MarkVerified(ctx, gb.ID); err != nil {
		t.Fatalf("MarkVerified failed: %v", err)
	}

	fresh, _ := s.GetByID(ctx, gb.ID)
	if !fresh.DomainVerified {
		t.Error("expected domain_verified=true")
	}
	if fresh.DomainVercelStatus != model.DomainStatusVerified {
		t.Errorf("expected verified status, got %s", fresh.DomainVercelStatus)
	}
}

func TestClearDomain(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	gb := seedGuestbook(t, s, "love", 1)

	if err := s.SetDomain(ctx, gb.ID, "love.example.com", testData()); err != nil {
		t.Fatalf("SetDomain failed: %v", err)
	}
	if err := s.ClearDomain(ctx, gb.ID); err != nil {
		t.Fatalf("ClearDomain failed: %v", err)
	}

	fresh, _ := s.GetByID(ctx, gb.ID)
	if fresh.CustomDomain != nil {
		t.Errorf("expected nil custom_domain, got %q", *fresh.CustomDomain)
	}
	if fresh.DomainVerified || fresh.DomainVercelStatus != model.DomainStatusNone {
		t.Errorf("expected cleared state, got verified=%v status=%s", fresh.DomainVerified, fresh.DomainVercelStatus)
	}
	if len(fresh.DomainVerificationData) != 0 {
		t.Error("expected verification data to be cleared")
	}

	if _, err := s.FindByDomain(ctx, "love.example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after clear, got %v", err)
	}

	// A freed domain can be claimed by another guestbook.
	other := seedGuestbook(t, s, "other", 2)
	if err := s.SetDomain(ctx, other.ID, "love.example.com", testData()); err != nil {
		t.Errorf("re-claiming a freed domain failed: %v", err)
	}
}

func TestFindByDomainNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.FindByDomain(context.Background(), "nobody.example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetBySlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedGuestbook(t, s, "love", 1)

	gb, err := s.GetBySlug(ctx, "love")
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if gb.Slug != "love" {
		t.Errorf("got wrong guestbook %q", gb.Slug)
	}

	if _, err := s.GetBySlug(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
