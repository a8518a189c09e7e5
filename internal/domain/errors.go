package domain

import "errors"

var (
	// Party errors
	ErrPartyNotFound    = errors.New("party not found")
	ErrInvalidPartyType = errors.New("party type must be customer or supplier")

	// Entry errors
	ErrEntryNotFound      = errors.New("entry not found")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidDirection   = errors.New("direction must be credit or debit")
	ErrEntryPartyMismatch = errors.New("entry does not belong to the given party")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)
