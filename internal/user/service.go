package user

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrAdminProtected guards administrator accounts against deactivation.
var ErrAdminProtected = errors.New("administrator accounts cannot be deactivated")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(id int) (User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Register(u User) (User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" || u.Password == "" {
		return User{}, errors.New("email and password are required")
	}

	if _, err := s.repo.GetByEmail(u.Email); err == nil {
		return User{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u.Password = string(hashed)
	if u.Role == "" {
		u.Role = RoleUser
	}
	u.IsActive = true
	return s.repo.Create(u)
}

func (s *Service) Authenticate(email, password string) (User, error) {
	u, err := s.repo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) ListRecent(limit int) ([]User, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.ListRecent(limit)
}

func (s *Service) List() ([]User, error) {
	return s.repo.List()
}

// Update merges the non-empty fields of changes into the stored account.
// Email and DNI must stay unique across other accounts; the password is
// never touched here, ChangePassword owns that.
func (s *Service) Update(id int, changes User) (User, error) {
	current, err := s.repo.GetByID(id)
	if err != nil {
		return User{}, err
	}

	email := strings.ToLower(strings.TrimSpace(changes.Email))
	if email != "" && email != current.Email {
		if other, err := s.repo.GetByEmail(email); err == nil && other.ID != id {
			return User{}, ErrEmailExists
		} else if err != nil && !errors.Is(err, ErrNotFound) {
			return User{}, err
		}
		current.Email = email
	}
	if changes.DNI != "" && changes.DNI != current.DNI {
		if other, err := s.repo.GetByDNI(changes.DNI); err == nil && other.ID != id {
			return User{}, ErrDNIExists
		} else if err != nil && !errors.Is(err, ErrNotFound) {
			return User{}, err
		}
		current.DNI = changes.DNI
	}
	if changes.FirstName != "" {
		current.FirstName = changes.FirstName
	}
	if changes.LastName != "" {
		current.LastName = changes.LastName
	}
	if changes.Role != "" {
		current.Role = changes.Role
	}

	return s.repo.Update(current)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(id int, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return errors.New("current and new password are required")
	}
	if len(newPassword) < 6 {
		return errors.New("new password must be at least 6 characters")
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(currentPassword)) != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	_, err = s.repo.Update(u)
	return err
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

// Deactivate soft-deletes an account so it can no longer log in. Admin
// accounts are protected; reactivation restores access.
func (s *Service) Deactivate(id int) (User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return User{}, err
	}
	if !u.IsActive {
		return User{}, errors.New("user is already deactivated")
	}
	if u.Role == RoleAdmin {
		return User{}, ErrAdminProtected
	}
	u.IsActive = false
	return s.repo.Update(u)
}

func (s *Service) Activate(id int) (User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return User{}, err
	}
	if u.IsActive {
		return User{}, errors.New("user is already active")
	}
	u.IsActive = true
	return s.repo.Update(u)
}
