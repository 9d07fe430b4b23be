package turnlog

import (
	"context"
	"time"
)

// Turn stores one (user message, assistant response) exchange.
type Turn struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Assistant string    `json:"ai"`
	CreatedAt time.Time `json:"created_at"`
}

// Log durably persists conversation turns per session.
type Log interface {
	Append(ctx context.Context, sessionID, user, assistant string) error
	ReadAll(ctx context.Context, sessionID string) ([]Turn, error)
	Clear(ctx context.Context, sessionID string) error
	Delete(ctx context.Context, sessionID string) error
	Sessions(ctx context.Context) ([]string, error)
	Close() error
}
