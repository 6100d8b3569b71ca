package model

import "errors"

var (
	// Credential related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrInvalidToken = errors.New("invalid token")

	// Permission related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Collection related errors
	ErrRecordNotFound    = errors.New("record not found")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidCollection = errors.New("invalid collection name")
	ErrInvalidRecordID   = errors.New("invalid record id")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
