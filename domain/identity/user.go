package identity

import (
	"strings"
	"time"
)

// User is a registered account. Email is the natural key and is
// always stored lowercased.
type User struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NormalizeEmail lowercases and trims an email address so lookups are
// case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
