package domain

import (
	"time"
)

// User is a registered account. Accounts are created once via signup and
// never updated or deleted.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email" gorm:"uniqueIndex"`

	// Password only ever holds the plaintext in memory while a signup or
	// login request is being processed. It is never stored or serialized.
	Password     string `json:"-" gorm:"-"`
	PasswordHash string `json:"-"`

	// AccessToken is the opaque secret clients send as the raw
	// Authorization header value. It is static for the account's lifetime,
	// with no expiry or rotation.
	AccessToken string `json:"-" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
}

// UserService is a set of methods to manipulate and work with the User model.
type UserService interface {
	ByAccessToken(token string) (*User, error)
	ByEmail(email string) (*User, error)
	Create(user *User) error
	Authenticate(email, password string) (*User, error)
}
