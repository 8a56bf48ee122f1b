package user

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrNotVerified        = errors.New("email not verified")
)

// User maps to the `users` table. VerificationCode holds the emailed
// 6-digit code until the address is confirmed, then it is cleared.
type User struct {
	ID               int     `json:"userId"`
	Username         string  `json:"username"`
	Email            string  `json:"email"`
	Password         string  `json:"password,omitempty"`
	IsVerified       bool    `json:"isVerified"`
	VerificationCode *string `json:"-"`
	CreatedAt        string  `json:"createdAt,omitempty"`
}
