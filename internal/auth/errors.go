package auth

import "errors"

var (
	ErrMissingFields         = errors.New("All fields are required")
	ErrPasswordTooShort      = errors.New("Password must be at least 6 characters long")
	ErrUserExists            = errors.New("User with this email already exists")
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidCredentials    = errors.New("Invalid email or password")
	ErrPasswordsRequired     = errors.New("Old and new passwords are required")
	ErrInvalidPassword       = errors.New("Invalid password")
	ErrUserNotFound          = errors.New("User not found")
	ErrInvalidToken          = errors.New("invalid token")
	ErrSessionNotActive      = errors.New("session not active")
	ErrSecretNotSet          = errors.New("jwt secret not set")
)
