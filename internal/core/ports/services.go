package ports

import (
	"context"

	"lenormand-api/internal/core/domain"

	"github.com/google/uuid"
)

// SignatureService builds the vendor's RPC-style request signature: a
// canonical query string over sorted, strictly percent-encoded parameters,
// signed with HMAC-SHA1. Pure and deterministic.
type SignatureService interface {
	// CanonicalQueryString sorts and percent-encodes params into the exact
	// byte sequence the vendor verifies against.
	CanonicalQueryString(params map[string]string) string
	// Sign produces the base64 HMAC-SHA1 signature for the given HTTP method
	// and parameter mapping.
	Sign(method string, params map[string]string, secret string) string
}

// SMSSender delivers a one-time verification code to a phone number.
type SMSSender interface {
	Send(ctx context.Context, phone, code string) error
}

// CodeStore issues and consumes short-lived verification codes, one active
// code per phone number.
type CodeStore interface {
	// Issue generates a fresh 6-digit code for the phone, replacing any
	// previous one, and returns it.
	Issue(ctx context.Context, phone string) (string, error)
	// Consume atomically validates and deletes the stored code. A mismatch
	// leaves the stored code in place so the user may retry within the
	// validity window.
	Consume(ctx context.Context, phone, code string) (bool, error)
}

// SessionStore maps opaque bearer tokens to authenticated users.
type SessionStore interface {
	// Create mints a cryptographically random token for the user.
	Create(ctx context.Context, userID uuid.UUID) (string, error)
	// Resolve returns the user ID for a live token. ok is false for unknown
	// or expired tokens.
	Resolve(ctx context.Context, token string) (userID uuid.UUID, ok bool, err error)
	// Destroy removes a session. Destroying an unknown token is a no-op.
	Destroy(ctx context.Context, token string) error
}

// --- Service Ports (Business Logic) ---

// SendCodeResult reports how a verification code was handled.
type SendCodeResult struct {
	// Delivered is true when the code went out through the SMS vendor.
	Delivered bool
	// DemoCode carries the issued code when the vendor is not configured
	// and the service runs in a non-production mode. Empty otherwise.
	DemoCode string
}

// LoginResult is a successful phone+code exchange.
type LoginResult struct {
	User  *domain.User
	Token string
}

// ProfileUpdate holds the mutable profile fields. Nil means "leave as is".
type ProfileUpdate struct {
	Username *string
	Avatar   *string
}

// AuthService defines the OTP login flow.
type AuthService interface {
	SendCode(ctx context.Context, phone string) (*SendCodeResult, error)
	Login(ctx context.Context, phone, code string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*domain.User, error)
}

// ReadingService defines the reading journal business logic, always scoped
// to the authenticated caller.
type ReadingService interface {
	List(ctx context.Context, userID uuid.UUID) ([]domain.Reading, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*domain.Reading, error)
	Create(ctx context.Context, userID uuid.UUID, draft *domain.Reading) (*domain.Reading, error)
	UpdateReflection(ctx context.Context, userID, id uuid.UUID, reflection string) (*domain.Reading, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
