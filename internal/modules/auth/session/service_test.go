package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tiendita/pos-core/internal/models"
)

// memStore implements Store for tests.
type memStore struct {
	mu   sync.Mutex
	rows map[string]*models.LoginSession
	next int
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]*models.LoginSession)}
}

func (m *memStore) Get(id string) (*models.LoginSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (m *memStore) Create(row *models.LoginSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row.ID == "" {
		m.next++
		row.ID = fmt.Sprintf("sess-%d", m.next)
	}
	cp := *row
	m.rows[row.ID] = &cp
	return nil
}

func (m *memStore) UpdateWindow(id string, expiresAt, refreshBefore time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[id]; ok {
		row.ExpiresAt = expiresAt
		row.RefreshBefore = refreshBefore
	}
	return nil
}

func (m *memStore) Deactivate(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[id]; ok {
		row.IsActive = false
	}
	return nil
}

func (m *memStore) DeactivateAllForUser(userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, row := range m.rows {
		if row.UserID == userID && row.IsActive {
			row.IsActive = false
			n++
		}
	}
	return n, nil
}

func (m *memStore) DeleteExpired(now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, row := range m.rows {
		if row.ExpiresAt.Before(now) || !row.IsActive {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) ListActiveForUser(userID string, now time.Time) ([]models.LoginSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.LoginSession
	for _, row := range m.rows {
		if row.UserID == userID && row.IsActive && row.ExpiresAt.After(now) {
			out = append(out, *row)
		}
	}
	return out, nil
}

// clock is a settable time source for tests.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *clock { return &clock{t: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

var t0 = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestService(store Store, clk *clock) *Service {
	return NewService(store,
		WithClock(clk.Now),
		WithWindow(time.Hour, 12*time.Minute),
	)
}

func TestCreateWindowInvariant(t *testing.T) {
	store := newMemStore()
	clk := newClock(t0)
	svc := newTestService(store, clk)

	row, err := svc.Create("user-1", "test-agent", "10.0.0.1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !row.RefreshBefore.Before(row.ExpiresAt) {
		t.Errorf("refresh_before %v must be strictly before expires_at %v", row.RefreshBefore, row.ExpiresAt)
	}
	if want := t0.Add(time.Hour); !row.ExpiresAt.Equal(want) {
		t.Errorf("expires_at = %v, want %v", row.ExpiresAt, want)
	}
	if want := t0.Add(48 * time.Minute); !row.RefreshBefore.Equal(want) {
		t.Errorf("refresh_before = %v, want %v", row.RefreshBefore, want)
	}

	got, err := svc.GetValid(row.ID)
	if err != nil {
		t.Fatalf("GetValid: %v", err)
	}
	if got == nil || got.ID != row.ID {
		t.Fatalf("GetValid should return the fresh session")
	}
}

func TestGetValidLazyExpiry(t *testing.T) {
	store := newMemStore()
	clk := newClock(t0)
	svc := newTestService(store, clk)

	row, _ := svc.Create("user-1", "", "")

	clk.Advance(time.Hour + time.Second)
	got, err := svc.GetValid(row.ID)
	if err != nil {
		t.Fatalf("GetValid: %v", err)
	}
	if got != nil {
		t.Fatal("expired session should read as nil")
	}

	// lazy expiry deactivates the row as a side effect
	stored, _ := store.Get(row.ID)
	if stored == nil || stored.IsActive {
		t.Error("expired session should have been deactivated")
	}
}

func TestGetValidMissing(t *testing.T) {
	svc := newTestService(newMemStore(), newClock(t0))
	got, err := svc.GetValid("nope")
	if err != nil || got != nil {
		t.Fatalf("missing session should be (nil, nil), got (%v, %v)", got, err)
	}
}

func TestExtendValidSession(t *testing.T) {
	store := newMemStore()
	clk := newClock(t0)
	svc := newTestService(store, clk)

	row, _ := svc.Create("user-1", "", "")
	before := row.ExpiresAt

	clk.Advance(30 * time.Minute)
	ok, err := svc.Extend(row.ID)
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if !ok {
		t.Fatal("Extend on a valid session should succeed")
	}

	after, _ := store.Get(row.ID)
	if !after.ExpiresAt.After(before) {
		t.Errorf("extend must push expires_at forward: %v -> %v", before, after.ExpiresAt)
	}
	if want := t0.Add(30 * time.Minute).Add(time.Hour); !after.ExpiresAt.Equal(want) {
		t.Errorf("expires_at = %v, want %v", after.ExpiresAt, want)
	}
	if !after.RefreshBefore.Before(after.ExpiresAt) {
		t.Error("window invariant must survive extension")
	}
}

func TestExtendExpiredSessionIsNoop(t *testing.T) {
	store := newMemStore()
	clk := newClock(t0)
	svc := newTestService(store, clk)

	row, _ := svc.Create("user-1", "", "")
	clk.Advance(2 * time.Hour)

	ok, err := svc.Extend(row.ID)
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if ok {
		t.Fatal("Extend on an expired session must return false")
	}
	stored, _ := store.Get(row.ID)
	if !stored.ExpiresAt.Equal(t0.Add(time.Hour)) {
		t.Error("timestamps must not change on a failed extend")
	}
}

func TestExtendDeactivatedSessionIsNoop(t *testing.T) {
	store := newMemStore()
	clk := newClock(t0)
	svc := newTestService(store, clk)

	row, _ := svc.Create("user-1", "", "")
	if err := svc.Deactivate(row.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	ok, err := svc.Extend(row.ID)
	if err != nil || ok {
		t.Fatalf("Extend on a deactivated session = (%v, %v), want (false, nil)", ok, err)
	}
}

// Refresh scenario: TTL 3600s, refresh window opens at t0+2880s. A request
// at t0+2900s still sees a valid session and an extend there resets the
// expiry to t0+2900s+3600s.
func TestRefreshScenario(t *testing.T) {
	store := newMemStore()
	clk := newClock(t0)
	svc := newTestService(store, clk)

	row, _ := svc.Create("user-1", "", "")

	clk.Advance(2900 * time.Second)
	got, err := svc.GetValid(row.ID)
	if err != nil {
		t.Fatalf("GetValid: %v", err)
	}
	if got == nil {
		t.Fatal("session should still be valid at t0+2900s")
	}
	if !svc.NeedsRefresh(got) {
		t.Error("session should be inside the refresh window at t0+2900s")
	}

	ok, err := svc.Extend(row.ID)
	if err != nil || !ok {
		t.Fatalf("Extend = (%v, %v), want (true, nil)", ok, err)
	}
	after, _ := store.Get(row.ID)
	if want := t0.Add(2900 * time.Second).Add(3600 * time.Second); !after.ExpiresAt.Equal(want) {
		t.Errorf("expires_at = %v, want %v", after.ExpiresAt, want)
	}
}

func TestDeactivateIsIdempotent(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, newClock(t0))

	row, _ := svc.Create("user-1", "", "")
	for i := 0; i < 2; i++ {
		if err := svc.Deactivate(row.ID); err != nil {
			t.Fatalf("Deactivate #%d: %v", i+1, err)
		}
	}
	if err := svc.Deactivate("never-existed"); err != nil {
		t.Fatalf("Deactivate on a missing session must not error: %v", err)
	}
}

func TestDeactivateAllForUser(t *testing.T) {
	store := newMemStore()
	clk := newClock(t0)
	svc := newTestService(store, clk)

	a, _ := svc.Create("user-1", "", "")
	b, _ := svc.Create("user-1", "", "")
	other, _ := svc.Create("user-2", "", "")

	n, err := svc.DeactivateAllForUser("user-1")
	if err != nil {
		t.Fatalf("DeactivateAllForUser: %v", err)
	}
	if n != 2 {
		t.Errorf("deactivated %d sessions, want 2", n)
	}
	for _, id := range []string{a.ID, b.ID} {
		if got, _ := svc.GetValid(id); got != nil {
			t.Errorf("session %s should no longer be valid", id)
		}
	}
	if got, _ := svc.GetValid(other.ID); got == nil {
		t.Error("other user's session must be untouched")
	}
}

// Sweep scenario: an expired-but-active row and an inactive-but-unexpired
// row are both removed; a live session survives.
func TestSweepExpired(t *testing.T) {
	store := newMemStore()
	clk := newClock(t0)
	svc := newTestService(store, clk)

	expired, _ := svc.Create("user-1", "", "")
	inactive, _ := svc.Create("user-1", "", "")

	clk.Advance(2 * time.Hour)
	live, _ := svc.Create("user-1", "", "")
	_ = svc.Deactivate(inactive.ID)

	n, err := svc.SweepExpired()
	if err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if n != 2 {
		t.Errorf("swept %d rows, want 2", n)
	}
	if row, _ := store.Get(expired.ID); row != nil {
		t.Error("expired session should be deleted")
	}
	if row, _ := store.Get(inactive.ID); row != nil {
		t.Error("inactive session should be deleted")
	}
	if row, _ := store.Get(live.ID); row == nil {
		t.Error("live session must survive the sweep")
	}
}
