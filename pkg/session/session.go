// Package session stores per-session conversation history for multi-turn
// question answering. Two implementations are provided: an in-memory store
// for single-process use and a BadgerDB store for persistence across runs.
package session

import (
	"context"
	"time"

	"github.com/ragline-ai/go-ragline/pkg/retrieval"
)

// Turn is one question/answer exchange, with the context block and source
// citations the answer was produced from.
type Turn struct {
	Question  string                `json:"question"`
	Answer    string                `json:"answer"`
	Context   string                `json:"context,omitempty"`
	Sources   []retrieval.SourceRef `json:"sources,omitempty"`
	Timestamp time.Time             `json:"timestamp"`
}

// Store keeps conversation turns keyed by session ID.
type Store interface {
	// Append adds a turn to the session's history.
	Append(ctx context.Context, sessionID string, turn Turn) error

	// History returns the session's turns oldest first. An unknown
	// session returns an empty slice, not an error.
	History(ctx context.Context, sessionID string) ([]Turn, error)

	// Clear removes the session's history.
	Clear(ctx context.Context, sessionID string) error

	// Close releases store resources.
	Close() error
}
