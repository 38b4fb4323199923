package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/green-campus/internal/auth"
	"github.com/spec-kit/green-campus/internal/domain"
	"github.com/spec-kit/green-campus/internal/events"
	"github.com/spec-kit/green-campus/internal/repository"
	apperrors "github.com/spec-kit/green-campus/pkg/util"
)

// AuthResult is returned by successful register and login calls.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	TokenManager *auth.TokenManager
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   deps.TokenManager,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Register creates a new account with the user role.
func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("Email and password required", nil)
	}

	user := &domain.User{Email: email, Password: password, Role: domain.RoleUser}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, apperrors.NewConflict("User already exists", map[string]any{"email": email})
		}
		return nil, apperrors.NewInternalError(err)
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewEvent(events.EventUserRegistered, user.ID, user.Email,
		events.UserRegisteredPayload{Role: user.Role}))
	return result, nil
}

// Login verifies the stored credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("Email and password required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("Invalid email or password")
		}
		return nil, apperrors.NewInternalError(err)
	}
	if user.Password != password {
		return nil, apperrors.NewUnauthorized("Invalid email or password")
	}
	return s.issue(user)
}

// TokenManager exposes the signer so the HTTP layer can verify bearer tokens.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokenMgr.GenerateToken(domain.Identity{Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
