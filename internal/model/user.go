package model

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

// Password and name constraints
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72 // bcrypt ignores anything longer
	MaxNameLength     = 100
)

// User represents a user account
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Hash      string    `json:"-"` // Never expose password hash
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserSummary is the slice of a user embedded in other resources.
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Summary returns the embeddable view of u.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Name: u.Name}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Normalize trims the name and lower-cases the email.
func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
}

// Validate returns every problem with the request.
func (r *RegisterRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "Please provide your email"})
	} else if !IsValidEmail(r.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Please provide a valid email"})
	}
	if utf8.RuneCountInString(r.Password) < MinPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	} else if len(r.Password) > MaxPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: "Password must be at most 72 bytes"})
	}
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "Please tell us your name"})
	} else if utf8.RuneCountInString(r.Name) > MaxNameLength {
		errs = append(errs, FieldError{Field: "name", Message: "Name must be at most 100 characters"})
	}
	return errs
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate returns every problem with the request.
func (r *LoginRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "Please provide email"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "Please provide password"})
	}
	return errs
}

// TokenPair is an issued access token.
type TokenPair struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

// AuthResponse is returned by login.
type AuthResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
	User      *User  `json:"user"`
}

// IsValidEmail reports whether email is a bare address (no display name).
func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@"):], ".")
}
