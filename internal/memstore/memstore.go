// Package memstore holds map-backed implementations of the market
// store interfaces. They back the unit tests and the no-database demo
// mode: when persisted state cannot be loaded the service starts here
// instead of crashing.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/you/dockside-market/internal/domain"
)

type Reservations struct {
	mu sync.Mutex
	m  map[string]domain.Reservation
}

func NewReservations() *Reservations {
	return &Reservations{m: map[string]domain.Reservation{}}
}

func (s *Reservations) ByID(ctx context.Context, id string) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.m[id]
	if !ok {
		return nil, nil
	}
	cp := r
	return &cp, nil
}

func (s *Reservations) Save(ctx context.Context, r *domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[r.ID] = *r
	return nil
}

func (s *Reservations) ListForUser(ctx context.Context, role domain.Role, userID string) ([]domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Reservation
	for _, r := range s.m {
		switch role {
		case domain.RoleBuyer:
			if r.BuyerID != userID {
				continue
			}
		case domain.RoleFisher:
			if r.FisherID != userID {
				continue
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Reservations) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = map[string]domain.Reservation{}
	return nil
}

type Listings struct {
	mu sync.Mutex
	m  map[string]domain.Listing
}

func NewListings() *Listings {
	return &Listings{m: map[string]domain.Listing{}}
}

func (s *Listings) ByID(ctx context.Context, id string) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.m[id]
	if !ok {
		return nil, nil
	}
	cp := l
	return &cp, nil
}

func (s *Listings) Save(ctx context.Context, l *domain.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[l.ID] = *l
	return nil
}

func (s *Listings) ListByPort(ctx context.Context, port string) ([]domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Listing
	for _, l := range s.m {
		if port == "" || l.Port == port {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// SeedDemo loads a few listings so a fresh install has something to
// browse.
func (s *Listings) SeedDemo(now time.Time) {
	demo := []domain.Listing{
		{ID: "demo-bar", FisherID: "demo-fisher", Species: "Bar de ligne", Port: "Le Guilvinec", PricePerKg: 18, QtyKg: 25, CaughtAt: now, CreatedAt: now, UpdatedAt: now},
		{ID: "demo-sole", FisherID: "demo-fisher", Species: "Sole", Port: "Saint-Jean-de-Luz", PricePerKg: 27, QtyKg: 12, CaughtAt: now, CreatedAt: now, UpdatedAt: now},
		{ID: "demo-merlu", FisherID: "demo-fisher", Species: "Merlu", Port: "Le Guilvinec", PricePerKg: 11, QtyKg: 40, CaughtAt: now, CreatedAt: now, UpdatedAt: now},
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range demo {
		s.m[l.ID] = l
	}
}

type Applicants struct {
	mu      sync.Mutex
	m       map[string]domain.Applicant
	reports map[string][]domain.VerificationReport
}

func NewApplicants() *Applicants {
	return &Applicants{m: map[string]domain.Applicant{}, reports: map[string][]domain.VerificationReport{}}
}

func (s *Applicants) ByUserID(ctx context.Context, userID string) (*domain.Applicant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.m[userID]
	if !ok {
		return nil, nil
	}
	cp := a
	return &cp, nil
}

func (s *Applicants) Upsert(ctx context.Context, a *domain.Applicant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[a.UserID] = *a
	return nil
}

func (s *Applicants) AppendReport(ctx context.Context, rep *domain.VerificationReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[rep.UserID] = append([]domain.VerificationReport{*rep}, s.reports[rep.UserID]...)
	return nil
}

func (s *Applicants) Reports(ctx context.Context, userID string) ([]domain.VerificationReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.VerificationReport(nil), s.reports[userID]...), nil
}

type Actions struct {
	mu      sync.Mutex
	pending []domain.PendingAction
	synced  []domain.SyncedAction
}

func NewActions() *Actions {
	return &Actions{}
}

func (s *Actions) Append(ctx context.Context, a domain.PendingAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, a)
	return nil
}

func (s *Actions) Pending(ctx context.Context) ([]domain.PendingAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.PendingAction(nil), s.pending...), nil
}

func (s *Actions) MarkSynced(ctx context.Context, at time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.pending)
	for _, p := range s.pending {
		s.synced = append(s.synced, domain.SyncedAction{
			ID:       p.ID,
			Type:     p.Type,
			Summary:  p.Summary,
			QueuedAt: p.CreatedAt,
			SyncedAt: at,
		})
	}
	s.pending = nil
	return n, nil
}

func (s *Actions) History(ctx context.Context) ([]domain.SyncedAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SyncedAction(nil), s.synced...), nil
}

func (s *Actions) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	s.synced = nil
	return nil
}
