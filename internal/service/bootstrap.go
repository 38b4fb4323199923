package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/green-campus/internal/config"
	"github.com/spec-kit/green-campus/internal/domain"
	"github.com/spec-kit/green-campus/internal/repository"
)

// Bootstrap seeds the accounts every fresh installation needs.
type Bootstrap struct {
	users  repository.UserRepository
	cfg    config.BootstrapConfig
	logger *zap.Logger
}

// NewBootstrap constructs the seeder.
func NewBootstrap(users repository.UserRepository, cfg config.BootstrapConfig, logger *zap.Logger) *Bootstrap {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bootstrap{users: users, cfg: cfg, logger: logger}
}

// EnsureDefaultUsers creates the admin and sample accounts when they are missing.
// It is safe to call repeatedly. Failures are logged and returned joined so the
// caller can decide whether they matter; startup continues either way.
func (b *Bootstrap) EnsureDefaultUsers(ctx context.Context) error {
	if !b.cfg.CreateDefaultUsers {
		return nil
	}
	accounts := []domain.User{
		{Email: b.cfg.AdminEmail, Password: b.cfg.AdminPassword, Role: domain.RoleAdmin},
		{Email: b.cfg.SampleUserEmail, Password: b.cfg.SampleUserPassword, Role: domain.RoleUser},
	}

	var errs []error
	for i := range accounts {
		account := accounts[i]
		if account.Email == "" {
			continue
		}
		err := b.ensure(ctx, &account)
		if err != nil {
			b.logger.Error("bootstrap user failed", zap.String("email", account.Email), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Bootstrap) ensure(ctx context.Context, user *domain.User) error {
	_, err := b.users.GetByEmail(ctx, user.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err := b.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil
		}
		return err
	}
	b.logger.Info("bootstrap user created", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return nil
}
