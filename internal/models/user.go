package models

import (
	"time"

	"github.com/google/uuid"
)

// UserSettings is a free-form settings blob persisted with the profile.
// "notifications" and "preferences" are the two well-known sections.
type UserSettings map[string]interface{}

// DefaultUserSettings returns the settings blob assigned at signup.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		"notifications": map[string]bool{
			"bookings":       true,
			"marketing":      false,
			"system_updates": true,
		},
		"preferences": map[string]string{
			"currency": "AED",
			"timezone": "Asia/Dubai",
			"language": "English",
		},
	}
}

// DefaultNotificationSettings is returned when a profile has never stored
// notification preferences.
func DefaultNotificationSettings() map[string]bool {
	return map[string]bool{
		"bookings":       true,
		"marketing":      false,
		"system_updates": true,
	}
}

type User struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"password_hash,omitempty"`
	Phone        *string      `json:"phone,omitempty"`
	AvatarURL    *string      `json:"avatar_url,omitempty"`
	Settings     UserSettings `json:"settings"`
	TotalRevenue float64      `json:"total_revenue"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Public returns a copy safe for API responses, with the password hash
// stripped.
func (u *User) Public() *User {
	out := *u
	out.PasswordHash = ""
	return &out
}

// TokenResponse is the token envelope returned by auth endpoints.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
}
