package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/spec-kit/volunteer-service/internal/auth"
	"github.com/spec-kit/volunteer-service/internal/config"
	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/events"
	"github.com/spec-kit/volunteer-service/internal/observability"
	"github.com/spec-kit/volunteer-service/internal/repository"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

const invalidCredentials = "Invalid email or password"

var errInvalidResetToken = apperrors.NewBadRequest("invalid or expired reset token")

// LoginAttemptLimiter tracks failed logins per email.
type LoginAttemptLimiter interface {
	Allowed(ctx context.Context, email string) bool
	RecordFailure(ctx context.Context, email string)
	Reset(ctx context.Context, email string)
}

type noopLimiter struct{}

func (noopLimiter) Allowed(context.Context, string) bool { return true }
func (noopLimiter) RecordFailure(context.Context, string) {}
func (noopLimiter) Reset(context.Context, string)         {}

// AuthService coordinates admin login and password flows.
type AuthService struct {
	admins     repository.AdminRepository
	resets     repository.PasswordResetRepository
	tokenMgr   *auth.TokenManager
	limiter    LoginAttemptLimiter
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	clock      clockwork.Clock
	logger     *zap.Logger
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	AdminRepo         repository.AdminRepository
	PasswordResetRepo repository.PasswordResetRepository
	TokenManager      *auth.TokenManager
	Limiter           LoginAttemptLimiter
	Dispatcher        events.Dispatcher
	Metrics           *observability.Metrics
	Clock             clockwork.Clock
	Logger            *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	tokenMgr := deps.TokenManager
	if tokenMgr == nil {
		tokenMgr = auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes, clock)
	}
	limiter := deps.Limiter
	if limiter == nil {
		limiter = noopLimiter{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	resetTTL := time.Duration(cfg.PasswordResetTTLMinutes) * time.Minute
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &AuthService{
		admins:     deps.AdminRepo,
		resets:     deps.PasswordResetRepo,
		tokenMgr:   tokenMgr,
		limiter:    limiter,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		clock:      clock,
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
		resetTTL:   resetTTL,
	}
}

// Login authenticates an active admin and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AdminUser, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !s.limiter.Allowed(ctx, email) {
		s.metrics.RecordLogin("locked")
		return nil, "", time.Time{}, apperrors.NewTooManyRequests("Too many failed login attempts. Try again later.")
	}

	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err != nil || !admin.IsActive {
		auth.BurnCompare(password)
		return nil, "", time.Time{}, s.loginFailed(ctx, email)
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, s.loginFailed(ctx, email)
	}

	token, exp, err := s.tokenMgr.GenerateToken(admin)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	s.limiter.Reset(ctx, email)
	s.metrics.RecordLogin("success")
	return admin, token, exp, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email string) error {
	s.limiter.RecordFailure(ctx, email)
	s.metrics.RecordLogin("failure")
	return apperrors.NewUnauthorized(invalidCredentials)
}

// ChangePassword verifies the current password before storing the new one.
func (s *AuthService) ChangePassword(ctx context.Context, admin *domain.AdminUser, currentPassword, newPassword string) error {
	if err := auth.ComparePassword(admin.PasswordHash, currentPassword); err != nil {
		return apperrors.NewBadRequest("current password is incorrect")
	}
	if err := domain.ValidatePassword(newPassword); err != nil {
		return apperrors.NewValidationError("invalid password", map[string]any{"new_password": err.Error()})
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	return apperrors.MapError(s.admins.UpdatePassword(ctx, admin.ID, hash))
}

// RequestPasswordReset stores a reset token for an active admin and announces it.
// Unknown or inactive emails succeed silently so callers cannot probe for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	admin, err := s.admins.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		return apperrors.MapError(err)
	}
	if !admin.IsActive {
		return nil
	}

	token := &domain.PasswordResetToken{
		AdminID:   admin.ID,
		Token:     uuid.NewString(),
		ExpiresAt: s.clock.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.New(events.EventPasswordResetRequested, s.clock.Now(), events.PasswordResetRequestedPayload{
		AdminID:   admin.ID,
		Email:     admin.Email,
		Name:      admin.DisplayName(),
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	}))
	return nil
}

// ConfirmPasswordReset consumes a reset token and sets the new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	if err := domain.ValidatePassword(newPassword); err != nil {
		return apperrors.NewValidationError("invalid password", map[string]any{"new_password": err.Error()})
	}

	token, err := s.resets.GetByToken(ctx, strings.TrimSpace(tokenStr))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return errInvalidResetToken
		}
		return apperrors.MapError(err)
	}
	if !token.Usable(s.clock.Now()) {
		return errInvalidResetToken
	}

	admin, err := s.admins.GetByID(ctx, token.AdminID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return errInvalidResetToken
		}
		return apperrors.MapError(err)
	}
	if !admin.IsActive {
		return errInvalidResetToken
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.resets.MarkUsed(ctx, token.ID); err != nil {
		if apperrors.IsNotFound(err) {
			return errInvalidResetToken
		}
		return apperrors.MapError(err)
	}

	if err := s.admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
		return apperrors.MapError(err)
	}
	s.limiter.Reset(ctx, admin.Email)
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("publish failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
