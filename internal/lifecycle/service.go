// Package lifecycle is the mutation-side state machine for custom domains:
// add, verify, remove and status. It coordinates the registrar, live DNS
// checks and the guestbook store, and invalidates the domain cache on every
// state change before reporting success.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"guestwall/internal/dnsplan"
	"guestwall/internal/dnstypes"
	"guestwall/internal/dnsverify"
	"guestwall/internal/domainutil"
	"guestwall/internal/model"
	"guestwall/internal/registrar"
	"guestwall/internal/store"
)

var (
	// ErrRateLimited is returned before any external I/O when the acting
	// user exhausted their operation budget.
	ErrRateLimited = errors.New("too many domain operations; try again in a minute")

	// ErrDomainTaken is returned when another guestbook owns the domain,
	// whether caught by the advisory pre-check, the store's unique index
	// or the registrar.
	ErrDomainTaken = errors.New("this domain is already connected to another guestbook")

	// ErrNoDomain is returned by verify/remove when no domain is set.
	ErrNoDomain = errors.New("no custom domain is configured")

	// ErrNotFound covers both a missing guestbook and an ownership
	// mismatch; callers cannot distinguish the two.
	ErrNotFound = errors.New("guestbook not found")

	// ErrRegistrar wraps fatal registrar failures during add.
	ErrRegistrar = errors.New("domain provider error")
)

// Store is the slice of the guestbook store the lifecycle needs.
type Store interface {
	GetByID(ctx context.Context, id int) (*model.Guestbook, error)
	FindByDomain(ctx context.Context, hostname string) (*model.Guestbook, error)
	SetDomain(ctx context.Context, id int, hostname string, data *dnstypes.VerificationData) error
	SetVercelStatus(ctx context.Context, id int, status model.DomainStatus) error
	MarkVerified(ctx context.Context, id int) error
	ClearDomain(ctx context.Context, id int) error
}

// Cache is the invalidation-side view of the domain cache.
type Cache interface {
	Invalidate(ctx context.Context, hostname string)
}

// Registrar is the external domain-hosting platform.
type Registrar interface {
	AddHost(ctx context.Context, hostname string, isApex bool) (*dnstypes.VerificationData, error)
	RemoveHost(ctx context.Context, hostname string) error
}

// Verifier checks live DNS against a planned record set.
type Verifier interface {
	CheckDNS(ctx context.Context, hostname string, plan []dnstypes.DNSRecord) dnsverify.Result
}

// Limiter bounds lifecycle operations per acting user.
type Limiter interface {
	Allow(userID int) bool
}

// AddResult carries the DNS instructions returned by a successful add.
type AddResult struct {
	DNSRecords []dnstypes.DNSRecord
}

// VerifyResult is the outcome of a DNS verification attempt. A failed check
// is a normal result, not an error; Errors lists the reasons for display.
type VerifyResult struct {
	Verified bool
	Errors   []string
}

// StatusResult is the read-only snapshot for the dashboard. DNSRecords are
// recomputed from the persisted snapshot without any network calls.
type StatusResult struct {
	Domain       *string
	Verified     bool
	VercelStatus model.DomainStatus
	DNSRecords   []dnstypes.DNSRecord
}

// Service is the domain lifecycle orchestrator.
type Service struct {
	store          Store
	cache          Cache
	registrar      Registrar
	verifier       Verifier
	limiter        Limiter
	platformDomain string
	targets        dnsplan.Targets
	logger         *logrus.Entry
}

// Config wires the orchestrator's collaborators.
type Config struct {
	Store          Store
	Cache          Cache
	Registrar      Registrar
	Verifier       Verifier
	Limiter        Limiter
	PlatformDomain string
	Targets        dnsplan.Targets
	Logger         *logrus.Entry
}

// NewService creates a lifecycle Service.
func NewService(cfg Config) *Service {
	return &Service{
		store:          cfg.Store,
		cache:          cfg.Cache,
		registrar:      cfg.Registrar,
		verifier:       cfg.Verifier,
		limiter:        cfg.Limiter,
		platformDomain: cfg.PlatformDomain,
		targets:        cfg.Targets,
		logger:         cfg.Logger.WithField("component", "domain-lifecycle"),
	}
}

// Add validates and attaches a custom domain to a guestbook.
//
// Order matters: validation and the advisory uniqueness pre-check run before
// any external call; a previous domain is torn down best-effort; the
// registrar call is fatal; the store write is all-or-nothing; the cache is
// invalidated before success is reported.
func (s *Service) Add(ctx context.Context, userID, guestbookID int, rawDomain string) (*AddResult, error) {
	if !s.limiter.Allow(userID) {
		return nil, ErrRateLimited
	}

	v, err := domainutil.Validate(rawDomain, s.platformDomain)
	if err != nil {
		return nil, err
	}

	gb, err := s.ownedGuestbook(ctx, userID, guestbookID)
	if err != nil {
		return nil, err
	}

	// Advisory pre-check; the store's unique index is the real guard.
	if owner, err := s.store.FindByDomain(ctx, v.Hostname); err == nil && owner.ID != gb.ID {
		return nil, ErrDomainTaken
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	// Swapping domains: tear the old one down first. An orphaned
	// registrar-side hostname is a low-severity cleanup issue; blocking
	// the user's change on a third party's removal endpoint is not
	// acceptable.
	hadPrevious := false
	if gb.CustomDomain != nil && *gb.CustomDomain != v.Hostname {
		old := *gb.CustomDomain
		hadPrevious = true
		s.bestEffort("remove previous hostname", func() error {
			return s.registrar.RemoveHost(ctx, old)
		})
		s.cache.Invalidate(ctx, old)
	}

	data, err := s.registrar.AddHost(ctx, v.Hostname, v.IsApex)
	if err != nil {
		if hadPrevious {
			// The old hostname is gone registrar-side but still set
			// locally; record the divergence.
			if serr := s.store.SetVercelStatus(ctx, gb.ID, model.DomainStatusError); serr != nil {
				s.logger.WithError(serr).Warn("failed to record error status")
			}
		}
		if errors.Is(err, registrar.ErrHostConflict) {
			return nil, ErrDomainTaken
		}
		return nil, fmt.Errorf("%w: %v", ErrRegistrar, err)
	}

	if err := s.store.SetDomain(ctx, gb.ID, v.Hostname, data); err != nil {
		if errors.Is(err, store.ErrDomainTaken) {
			return nil, ErrDomainTaken
		}
		return nil, err
	}

	// Clears any stale negative entry left from pre-configuration visits.
	s.cache.Invalidate(ctx, v.Hostname)

	s.logger.WithFields(logrus.Fields{
		"guestbook": gb.ID,
		"hostname":  v.Hostname,
		"is_apex":   v.IsApex,
	}).Info("custom domain added")

	return &AddResult{DNSRecords: dnsplan.Records(v.Hostname, *data, s.targets)}, nil
}

// Verify runs a live DNS check and, on success, flips the domain to
// verified. A failed check returns the reason list with no state change.
func (s *Service) Verify(ctx context.Context, userID, guestbookID int) (*VerifyResult, error) {
	if !s.limiter.Allow(userID) {
		return nil, ErrRateLimited
	}

	gb, err := s.ownedGuestbook(ctx, userID, guestbookID)
	if err != nil {
		return nil, err
	}
	if gb.CustomDomain == nil {
		return nil, ErrNoDomain
	}
	hostname := *gb.CustomDomain

	plan, err := s.planFor(gb, hostname)
	if err != nil {
		return nil, err
	}

	result := s.verifier.CheckDNS(ctx, hostname, plan)
	if !result.Verified {
		return &VerifyResult{Verified: false, Errors: result.Errors}, nil
	}

	if err := s.store.MarkVerified(ctx, gb.ID); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, hostname)

	s.logger.WithFields(logrus.Fields{
		"guestbook": gb.ID,
		"hostname":  hostname,
	}).Info("custom domain verified")

	return &VerifyResult{Verified: true}, nil
}

// Remove detaches the custom domain. The registrar call is best-effort; the
// local state transition proceeds regardless of its outcome.
func (s *Service) Remove(ctx context.Context, userID, guestbookID int) error {
	if !s.limiter.Allow(userID) {
		return ErrRateLimited
	}

	gb, err := s.ownedGuestbook(ctx, userID, guestbookID)
	if err != nil {
		return err
	}
	if gb.CustomDomain == nil {
		return ErrNoDomain
	}
	hostname := *gb.CustomDomain

	s.bestEffort("remove hostname", func() error {
		return s.registrar.RemoveHost(ctx, hostname)
	})

	if err := s.store.ClearDomain(ctx, gb.ID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, hostname)

	s.logger.WithFields(logrus.Fields{
		"guestbook": gb.ID,
		"hostname":  hostname,
	}).Info("custom domain removed")

	return nil
}

// Status is read-only: it rebuilds the DNS instructions from the persisted
// snapshot without touching the registrar or DNS.
func (s *Service) Status(ctx context.Context, userID, guestbookID int) (*StatusResult, error) {
	if !s.limiter.Allow(userID) {
		return nil, ErrRateLimited
	}

	gb, err := s.ownedGuestbook(ctx, userID, guestbookID)
	if err != nil {
		return nil, err
	}

	res := &StatusResult{
		Domain:       gb.CustomDomain,
		Verified:     gb.DomainVerified,
		VercelStatus: gb.DomainVercelStatus,
	}
	if gb.CustomDomain == nil {
		res.VercelStatus = model.DomainStatusNone
		return res, nil
	}

	plan, err := s.planFor(gb, *gb.CustomDomain)
	if err != nil {
		return nil, err
	}
	res.DNSRecords = plan
	return res, nil
}

// ownedGuestbook loads the guestbook and enforces ownership. A mismatch is
// indistinguishable from a missing guestbook on purpose.
func (s *Service) ownedGuestbook(ctx context.Context, userID, guestbookID int) (*model.Guestbook, error) {
	gb, err := s.store.GetByID(ctx, guestbookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if gb.OwnerID != userID {
		return nil, ErrNotFound
	}
	return gb, nil
}

// planFor rebuilds the record plan from the persisted snapshot. A guestbook
// with a domain but no snapshot (legacy rows) falls back to classifying the
// hostname again.
func (s *Service) planFor(gb *model.Guestbook, hostname string) ([]dnstypes.DNSRecord, error) {
	data, err := gb.Verification()
	if err != nil {
		return nil, err
	}
	if data == nil {
		isApex, err := domainutil.IsApex(hostname)
		if err != nil {
			return nil, err
		}
		data = &dnstypes.VerificationData{IsApex: isApex}
	}
	return dnsplan.Records(hostname, *data, s.targets), nil
}

// bestEffort runs fn, logging failure without propagating it. Keeping this
// explicit makes the contrast with fatal registrar calls visible at the
// call site.
func (s *Service) bestEffort(op string, fn func() error) {
	if err := fn(); err != nil && !errors.Is(err, registrar.ErrHostNotFound) {
		s.logger.WithError(err).WithField("op", op).Warn("best-effort operation failed")
	}
}
