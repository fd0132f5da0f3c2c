package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ebd-admin/ebd-api/internal/models"
)

type baselineUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// BaselineAccount describes the administrator that must exist on a fresh store.
type BaselineAccount struct {
	Email    string
	Password string
	FullName string
}

// BaselineAccountService seeds the default administrator on startup.
type BaselineAccountService struct {
	repo    baselineUserRepository
	account BaselineAccount
	logger  *zap.Logger
}

// NewBaselineAccountService constructs the seeding service.
func NewBaselineAccountService(repo baselineUserRepository, account BaselineAccount, logger *zap.Logger) *BaselineAccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaselineAccountService{repo: repo, account: account, logger: logger}
}

// Ensure creates the administrator when no user owns the configured email.
// It reports whether an account was created. Running it again is a no-op.
func (s *BaselineAccountService) Ensure(ctx context.Context) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(s.account.Email))
	if email == "" || s.account.Password == "" {
		s.logger.Debug("baseline administrator not configured")
		return false, nil
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.account.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	name := strings.TrimSpace(s.account.FullName)
	if name == "" {
		name = "Administrador"
	}
	user := &models.User{
		Email:        email,
		FullName:     name,
		Role:         models.RoleAdmin,
		Active:       true,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return false, err
	}
	s.logger.Info("baseline administrator created", zap.String("email", email))
	return true, nil
}
