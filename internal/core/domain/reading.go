package domain

import (
	"time"

	"github.com/google/uuid"
)

// Card is one drawn Lenormand card as stored inside a reading. The full
// 36-card dictionary (meanings, icons, translations) lives in the client;
// the server persists only what the draw produced.
type Card struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	NameCn  string `json:"nameCn,omitempty"`
	Keyword string `json:"keyword,omitempty"`
}

// Reading is a persisted divination session: the drawn cards, the generated
// interpretation, and the user's optional afterthoughts. A reading belongs
// to exactly one user.
type Reading struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	Date           string    `json:"date"`
	Title          string    `json:"title"`
	Cards          []Card    `json:"cards"`
	Interpretation string    `json:"interpretation"`
	SpreadType     int       `json:"spreadType"`
	LayoutType     string    `json:"layoutType,omitempty"`
	Question       *string   `json:"question,omitempty"`
	Reflection     *string   `json:"reflection,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
