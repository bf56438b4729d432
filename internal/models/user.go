package models

import "time"

// Roles a user account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Availability states for a user's profile.
const (
	AvailabilityAvailable          = "available"
	AvailabilityUnavailable        = "unavailable"
	AvailabilityPartiallyAvailable = "partially-available"
)

// User represents a user account in the system. Email is stored
// lowercased and trimmed; uniqueness is enforced by the database.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Role         string    `json:"role"`
	Skills       []string  `json:"skills"`
	Availability string    `json:"availability"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ValidRole reports whether s is a known role.
func ValidRole(s string) bool {
	return s == RoleUser || s == RoleAdmin
}

// ValidAvailability reports whether s is a known availability state.
func ValidAvailability(s string) bool {
	return s == AvailabilityAvailable || s == AvailabilityUnavailable || s == AvailabilityPartiallyAvailable
}
