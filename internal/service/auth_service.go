package service

import (
	"context"
	"fmt"
	"time"

	"lenormand-api/internal/core/domain"
	"lenormand-api/internal/core/ports"
	"lenormand-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuthServiceImpl implements ports.AuthService: SMS-OTP login with opaque
// store-backed sessions.
type AuthServiceImpl struct {
	userRepo ports.UserRepository
	codes    ports.CodeStore
	sessions ports.SessionStore
	sender   ports.SMSSender // nil when the SMS vendor is not configured
	log      zerolog.Logger

	// exposeDemoCodes lets SendCode return the issued code to the caller
	// when no vendor is configured. Must be false in production.
	exposeDemoCodes bool
}

// NewAuthService creates a new AuthServiceImpl. sender may be nil, which
// switches code delivery to demo mode (log only).
func NewAuthService(
	userRepo ports.UserRepository,
	codes ports.CodeStore,
	sessions ports.SessionStore,
	sender ports.SMSSender,
	exposeDemoCodes bool,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:        userRepo,
		codes:           codes,
		sessions:        sessions,
		sender:          sender,
		log:             log,
		exposeDemoCodes: exposeDemoCodes,
	}
}

// SendCode issues a fresh verification code for the phone and dispatches it
// through the SMS vendor, or falls back to demo mode when none is configured.
func (s *AuthServiceImpl) SendCode(ctx context.Context, phone string) (*ports.SendCodeResult, error) {
	code, err := s.codes.Issue(ctx, phone)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("issue code: %w", err))
	}

	if s.sender != nil {
		if err := s.sender.Send(ctx, phone, code); err != nil {
			return nil, err
		}
		return &ports.SendCodeResult{Delivered: true}, nil
	}

	s.log.Info().Str("phone", phone).Str("code", code).Msg("sms vendor not configured, code logged only")
	result := &ports.SendCodeResult{}
	if s.exposeDemoCodes {
		result.DemoCode = code
	}
	return result, nil
}

// Login exchanges a phone+code pair for a session token, creating the user
// account on first login.
func (s *AuthServiceImpl) Login(ctx context.Context, phone, code string) (*ports.LoginResult, error) {
	ok, err := s.codes.Consume(ctx, phone, code)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("consume code: %w", err))
	}
	if !ok {
		return nil, apperror.ErrInvalidCode()
	}

	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if user == nil {
		user = domain.NewUser(phone)
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, apperror.ErrDatabaseError(err)
		}
		s.log.Info().Str("user_id", user.ID.String()).Msg("user created on first login")
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create session: %w", err))
	}

	return &ports.LoginResult{User: user, Token: token}, nil
}

// Logout destroys the session. Unknown tokens are ignored.
func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return apperror.InternalError(fmt.Errorf("destroy session: %w", err))
	}
	return nil
}

// UpdateProfile applies the non-nil fields of update to the user.
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, update ports.ProfileUpdate) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if user == nil {
		return nil, apperror.ErrNotFound("User")
	}

	if update.Username != nil {
		user.Username = *update.Username
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return user, nil
}
