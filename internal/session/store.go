package session

import (
	"context"

	"github.com/polkiloo/secondfamilies/internal/domain/model"
)

// Store keeps per-visitor state between requests. Take operations consume
// the value: a second Take for the same session finds nothing.
type Store interface {
	SaveHandoff(ctx context.Context, sessionID string, h model.Handoff) error
	// TakeHandoff returns nil without error when no state is stored.
	TakeHandoff(ctx context.Context, sessionID string) (*model.Handoff, error)
}

func handoffKey(sessionID string) string {
	return "handoff:" + sessionID
}
