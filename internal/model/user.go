package model

import (
	"time"
)

type User struct {
	ID                 string     `db:"id" json:"id"`
	Email              string     `db:"email" json:"email"`
	PasswordHash       string     `db:"password" json:"-"`
	LastLoginAt        *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CurrentTokenExpiry *time.Time `db:"current_token_expiry" json:"currentTokenExpiry,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updatedAt"`
}

// PublicUser is the part of a user that may leave the server.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}
