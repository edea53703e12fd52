package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/portfolio-cms/portfolio-api/internal/models"
	"github.com/portfolio-cms/portfolio-api/internal/security"
	"github.com/portfolio-cms/portfolio-api/pkg/logger"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenIssuer signs a session for an authenticated admin.
type TokenIssuer interface {
	Issue(a *models.Admin) (string, error)
}

// Service encapsulates administrator authentication and bootstrap
type Service struct {
	repo   Repository
	issuer TokenIssuer
}

func NewService(r Repository, issuer TokenIssuer) *Service {
	return &Service{repo: r, issuer: issuer}
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// dummyPasswordHash is compared against when the email is unknown so both
// failure paths spend the same bcrypt time.
func dummyPasswordHash() string {
	dummyOnce.Do(func() {
		dummyHash, _ = security.HashPassword("portfolio-admin-placeholder")
	})
	return dummyHash
}

// Authenticate returns the admin whose email and password match.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.Admin, error) {
	a, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("lookup admin: %w", err)
	}
	if a == nil {
		_ = security.CheckPassword(dummyPasswordHash(), password)
		return nil, ErrInvalidCredentials
	}
	if !security.CheckPassword(a.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

// IssueSession authenticates and returns a signed session token.
func (s *Service) IssueSession(ctx context.Context, email, password string) (string, error) {
	a, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	token, err := s.issuer.Issue(a)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// EnsureAdmin creates the administrator when none exists. The password is
// hashed before it reaches the repository.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		logger.Debugf("bootstrap: %d admin(s) present, nothing to do", n)
		return false, nil
	}
	if email == "" || password == "" {
		return false, errors.New("admin email and password are required")
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	a := &models.Admin{Email: strings.TrimSpace(email), Password: hash}
	if err := s.repo.Create(ctx, a); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	logger.Infof("bootstrap: created admin %s", a.Email)
	return true, nil
}
