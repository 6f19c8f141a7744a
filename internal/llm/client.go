// Package llm wraps the chat backends used for resume analysis and
// provides tolerant JSON decoding for their output.
package llm

import (
	"context"
	"errors"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type Message struct {
	Role    string
	Content string
}

// ErrEmptyResponse is returned when the backend answered but produced
// no text content.
var ErrEmptyResponse = errors.New("empty response from model")

// ChatClient is a single chat completion call against whichever
// backend is configured.
type ChatClient interface {
	Complete(ctx context.Context, messages []Message, temperature float64) (string, error)
	Model() string
}
