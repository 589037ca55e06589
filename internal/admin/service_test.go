package admin

import (
	"testing"

	"github.com/tiendaviva/storefront-backend/internal/user"
)

type stubRepo struct {
	lastLimit int
}

func (s *stubRepo) Stats() (Stats, error) { return Stats{TotalOrders: 1}, nil }

func (s *stubRepo) RecentOrders(limit int) ([]RecentOrder, error) {
	s.lastLimit = limit
	return []RecentOrder{}, nil
}

type stubUsers struct {
	lastLimit int
}

func (s *stubUsers) ListRecent(limit int) ([]user.User, error) {
	s.lastLimit = limit
	return []user.User{}, nil
}

func TestRecentOrders_DefaultsLimit(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, &stubUsers{})

	if _, err := svc.RecentOrders(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastLimit != 10 {
		t.Errorf("limit = %d, want default 10", repo.lastLimit)
	}

	if _, err := svc.RecentOrders(5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastLimit != 5 {
		t.Errorf("limit = %d, want 5", repo.lastLimit)
	}
}

func TestRecentUsers_DefaultsLimit(t *testing.T) {
	users := &stubUsers{}
	svc := NewService(&stubRepo{}, users)

	if _, err := svc.RecentUsers(-3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users.lastLimit != 10 {
		t.Errorf("limit = %d, want default 10", users.lastLimit)
	}
}
