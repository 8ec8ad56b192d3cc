package models

import "time"

// User is a users/{id} record. Role is already resolved.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Nickname  string    `json:"nickname,omitempty"`
	FCMToken  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayName prefers the nickname and falls back to the email.
func (u User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Email
}

// UserRegistration is the sign-up request body.
type UserRegistration struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     Role   `json:"role"`
}

// Credentials is the sign-in request body.
type Credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
