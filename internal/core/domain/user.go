package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultAvatar is assigned to accounts created on first login.
const DefaultAvatar = "moon"

// User is an account identified by a verified phone number. Accounts are
// created implicitly on the first successful OTP login.
type User struct {
	ID        uuid.UUID `json:"id"`
	Phone     string    `json:"phone"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a user for a freshly verified phone number. The username
// defaults to a masked form of the phone so the profile is presentable
// before the user customises it.
func NewUser(phone string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Phone:     phone,
		Username:  maskPhone(phone),
		Avatar:    DefaultAvatar,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// maskPhone keeps the leading country/prefix digits and the last four,
// hiding the middle. Short values are returned unchanged.
func maskPhone(phone string) string {
	if len(phone) < 8 {
		return phone
	}
	return phone[:len(phone)-8] + "****" + phone[len(phone)-4:]
}
