package dto

import (
	"lenormand-api/internal/core/domain"
)

// SendCodeRequest is the request body for requesting a verification code.
type SendCodeRequest struct {
	Phone string `json:"phone" binding:"required,phone"`
}

// SendCodeResponse is the response body for a successful code request.
// DemoCode is only populated when the server runs without an SMS vendor
// and is explicitly configured to expose codes.
type SendCodeResponse struct {
	Message  string `json:"message"`
	DemoCode string `json:"demoCode,omitempty"`
}

// LoginRequest is the request body for exchanging a code for a session.
type LoginRequest struct {
	Phone string `json:"phone" binding:"required,phone"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// LoginResponse is the response body for a successful login.
type LoginResponse struct {
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
	Message string       `json:"message"`
}

// UpdateProfileRequest is the request body for profile updates. Absent
// fields are left untouched.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" binding:"omitempty,min=1,max=50"`
	Avatar   *string `json:"avatar,omitempty" binding:"omitempty,min=1,max=50"`
}

// UpdateProfileResponse is the response body for a successful profile update.
type UpdateProfileResponse struct {
	User    *domain.User `json:"user"`
	Message string       `json:"message"`
}

// CardPayload is one drawn card inside a reading request.
type CardPayload struct {
	ID      int    `json:"id" binding:"required,min=1,max=36"`
	Name    string `json:"name" binding:"required"`
	NameCn  string `json:"nameCn,omitempty"`
	Keyword string `json:"keyword,omitempty"`
}

// CreateReadingRequest is the request body for saving a reading. The
// interpretation is produced client-side and stored verbatim.
type CreateReadingRequest struct {
	Date           string        `json:"date" binding:"required"`
	Title          string        `json:"title" binding:"required,max=200"`
	Cards          []CardPayload `json:"cards" binding:"required,min=1,dive"`
	Interpretation string        `json:"interpretation" binding:"required"`
	SpreadType     int           `json:"spreadType" binding:"required,gt=0"`
	LayoutType     string        `json:"layoutType,omitempty"`
	Question       *string       `json:"question,omitempty"`
}

// ToDomain converts the request into a reading draft. Server-assigned
// fields (id, owner, created_at) are filled in by the service.
func (r *CreateReadingRequest) ToDomain() *domain.Reading {
	cards := make([]domain.Card, 0, len(r.Cards))
	for _, c := range r.Cards {
		cards = append(cards, domain.Card{
			ID:      c.ID,
			Name:    c.Name,
			NameCn:  c.NameCn,
			Keyword: c.Keyword,
		})
	}
	return &domain.Reading{
		Date:           r.Date,
		Title:          r.Title,
		Cards:          cards,
		Interpretation: r.Interpretation,
		SpreadType:     r.SpreadType,
		LayoutType:     r.LayoutType,
		Question:       r.Question,
	}
}

// UpdateReflectionRequest is the request body for attaching a reflection
// to a stored reading.
type UpdateReflectionRequest struct {
	Reflection string `json:"reflection" binding:"required"`
}
