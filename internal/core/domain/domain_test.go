package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewUser_Defaults(t *testing.T) {
	u := NewUser("+8613800001111")

	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, "+8613800001111", u.Phone)
	assert.Equal(t, DefaultAvatar, u.Avatar)
	assert.False(t, u.CreatedAt.IsZero())
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)
}

func TestNewUser_UsernameMasksPhone(t *testing.T) {
	u := NewUser("+8613800001111")

	assert.NotEqual(t, u.Phone, u.Username)
	assert.Contains(t, u.Username, "****")
	assert.Contains(t, u.Username, "1111", "last four digits stay visible")
	assert.NotContains(t, u.Username, "0000")
}

func TestMaskPhone_ShortValueUnchanged(t *testing.T) {
	assert.Equal(t, "12345", maskPhone("12345"))
}
