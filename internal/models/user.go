package models

import "time"

const (
	RoleClient = "client"
	RoleCoach  = "coach"
)

func ValidRole(role string) bool {
	return role == RoleClient || role == RoleCoach
}

type Profile struct {
	Picture       string  `json:"picture"`
	WeightKG      float64 `json:"weight_kg"`
	Notifications bool    `json:"notifications"`
}

// User.Role is empty until the user picks client or coach after first login.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role,omitempty"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
