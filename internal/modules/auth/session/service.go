// Package session manages the lifecycle of server-tracked login sessions:
// creation, lazy expiry, idle refresh, deactivation, and periodic sweeping.
package session

import (
	"strings"
	"time"

	"github.com/tiendita/pos-core/internal/models"
)

const (
	// DefaultTTL is how long a session lives without a refresh.
	DefaultTTL = time.Hour
	// DefaultRefreshWindow is the tail of the TTL during which a request
	// triggers an extension; refresh_before = expires_at - window.
	DefaultRefreshWindow = 12 * time.Minute
)

// Service implements the session lifecycle. The clock is injected so tests
// control time; persistence failures propagate to the caller, who must
// treat the session as unconfirmed (fail closed).
type Service struct {
	store         Store
	now           func() time.Time
	ttl           time.Duration
	refreshWindow time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithWindow overrides the TTL and refresh window. The refresh window is
// clamped below the TTL so refresh_before stays strictly before expires_at.
func WithWindow(ttl, refreshWindow time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
		if refreshWindow > 0 {
			s.refreshWindow = refreshWindow
		}
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:         store,
		now:           time.Now,
		ttl:           DefaultTTL,
		refreshWindow: DefaultRefreshWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.refreshWindow >= s.ttl {
		s.refreshWindow = s.ttl / 5
	}
	return s
}

// TTL returns the configured session lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// Create opens a new session for the user.
func (s *Service) Create(userID, ua, ip string) (*models.LoginSession, error) {
	now := s.now()
	row := &models.LoginSession{
		UserID:        userID,
		UA:            strings.TrimSpace(ua),
		IP:            strings.TrimSpace(ip),
		ExpiresAt:     now.Add(s.ttl),
		RefreshBefore: now.Add(s.ttl - s.refreshWindow),
		IsActive:      true,
	}
	if err := s.store.Create(row); err != nil {
		return nil, err
	}
	return row, nil
}

// GetValid returns the session when it is active and unexpired, or nil.
// An expired-but-active row is deactivated as a side effect, so expiry is
// detected lazily on the read path. Missing and expired sessions are a nil
// result, never an error.
func (s *Service) GetValid(id string) (*models.LoginSession, error) {
	row, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	if !row.IsActive {
		return nil, nil
	}
	if !row.ExpiresAt.After(s.now()) {
		if err := s.store.Deactivate(row.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return row, nil
}

// NeedsRefresh reports whether the session has entered its refresh window.
func (s *Service) NeedsRefresh(row *models.LoginSession) bool {
	return !s.now().Before(row.RefreshBefore)
}

// Extend pushes the session's expiry forward by a full TTL. Returns false
// without mutating anything when the session is no longer valid; concurrent
// extends are last-write-wins, which is harmless since both write
// now-relative windows.
func (s *Service) Extend(id string) (bool, error) {
	row, err := s.GetValid(id)
	if err != nil || row == nil {
		return false, err
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)
	refreshBefore := now.Add(s.ttl - s.refreshWindow)
	if err := s.store.UpdateWindow(row.ID, expiresAt, refreshBefore); err != nil {
		return false, err
	}
	return true, nil
}

// Deactivate marks the session inactive. Idempotent: missing or already
// inactive sessions are not an error.
func (s *Service) Deactivate(id string) error {
	return s.store.Deactivate(id)
}

// DeactivateAllForUser deactivates every active session of a user, used on
// password change and forced logout-everywhere.
func (s *Service) DeactivateAllForUser(userID string) (int64, error) {
	return s.store.DeactivateAllForUser(userID)
}

// SweepExpired hard-deletes rows that are expired or inactive. Run it from
// the scheduler; other operations never trigger it.
func (s *Service) SweepExpired() (int64, error) {
	return s.store.DeleteExpired(s.now())
}

// ListActive returns the user's currently valid sessions.
func (s *Service) ListActive(userID string) ([]models.LoginSession, error) {
	return s.store.ListActiveForUser(userID, s.now())
}
