package admin

import (
	"github.com/tiendaviva/storefront-backend/internal/user"
)

// UserLister is the slice of the user service the dashboard consumes.
type UserLister interface {
	ListRecent(limit int) ([]user.User, error)
}

type Service struct {
	repo  Repository
	users UserLister
}

func NewService(repo Repository, users UserLister) *Service {
	return &Service{repo: repo, users: users}
}

func (s *Service) Stats() (Stats, error) {
	return s.repo.Stats()
}

func (s *Service) RecentOrders(limit int) ([]RecentOrder, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.RecentOrders(limit)
}

func (s *Service) RecentUsers(limit int) ([]user.User, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.users.ListRecent(limit)
}
