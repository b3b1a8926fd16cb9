package core

import (
	"errors"
)

var (
	// ErrSessionNotFound is returned when a session id has no registry entry
	ErrSessionNotFound = errors.New("session not found")

	// ErrToolNotFound is returned when a generation tool name is unknown
	ErrToolNotFound = errors.New("tool not found")

	// ErrEmptyResponse is returned when the generator produced no usable text
	ErrEmptyResponse = errors.New("empty response from generator")
)
