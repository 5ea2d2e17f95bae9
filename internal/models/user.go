package models

import (
	"errors"
	"strings"
	"time"
)

var ErrEmailRequired = errors.New("email address is required")

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `gorm:"size:255" json:"name"`
	IsStaff      bool      `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser  bool      `gorm:"not null;default:false" json:"is_superuser"`
}

// NormalizeEmail lower-cases the domain portion of an address. The local
// part is case-sensitive and is left untouched.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmailRequired
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email, nil
	}
	return email[:at+1] + strings.ToLower(email[at+1:]), nil
}
