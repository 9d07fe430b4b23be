// Package chat composes the session store, prompt rendering, invocation
// chain and turn log into the message-handling flow.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/glynne/glyai/internal/observability"
	"github.com/glynne/glyai/internal/prompt"
	"github.com/glynne/glyai/internal/provider"
	"github.com/glynne/glyai/internal/session"
	"github.com/glynne/glyai/internal/turnlog"
)

// Orchestrator runs one conversation turn end to end.
type Orchestrator struct {
	sessions *session.Store
	log      turnlog.Log
	chain    *provider.Chain
	metrics  *observability.Metrics
	now      func() time.Time
}

func NewOrchestrator(sessions *session.Store, log turnlog.Log, chain *provider.Chain, metrics *observability.Metrics) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		log:      log,
		chain:    chain,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Turn is the outcome of one handled message.
type Turn struct {
	SessionID string
	Response  string
	Source    provider.Source
	Window    []turnlog.Turn
}

// HandleMessage loads the session window, renders the persona prompt, invokes
// the provider chain and records the exchange in both window and durable log.
// The response returned is exactly the text persisted.
func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID, role, message string) (Turn, error) {
	started := o.now()

	sess := o.sessions.GetOrCreate(sessionID)
	persona := prompt.ParsePersona(role)
	rendered := prompt.Chat(persona, sess.Window, message, o.now())

	result := o.chain.Generate(ctx, rendered)
	if o.metrics != nil {
		o.metrics.ProviderCalls.WithLabelValues("chat", string(result.Source)).Inc()
	}

	o.sessions.RecordTurn(sessionID, message, result.Text)
	if err := o.log.Append(ctx, sessionID, message, result.Text); err != nil {
		// The window already holds the turn; a lost durable append must not
		// pass silently as success.
		return Turn{}, fmt.Errorf("append turn log: %w", err)
	}

	if o.metrics != nil {
		o.metrics.ActiveSessions.Set(float64(o.sessions.ActiveCount()))
		o.metrics.ObserveTurnLatency(o.now().Sub(started))
	}

	return Turn{
		SessionID: sessionID,
		Response:  result.Text,
		Source:    result.Source,
		Window:    o.sessions.Window(sessionID),
	}, nil
}

// History returns the session's current window, refreshing its activity so an
// actively inspected conversation is not reaped.
func (o *Orchestrator) History(sessionID string) []turnlog.Turn {
	o.sessions.Touch(sessionID)
	return o.sessions.Window(sessionID)
}

// Reset clears one session's window and durable log. Resetting an unknown or
// already-empty session is a no-op, so the operation is idempotent.
func (o *Orchestrator) Reset(ctx context.Context, sessionID string) error {
	o.sessions.Reset(sessionID)
	if err := o.log.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear turn log: %w", err)
	}
	if o.metrics != nil {
		o.metrics.SessionEvents.WithLabelValues("reset").Inc()
	}
	return nil
}

// ResetAll clears every live session and every known durable log.
func (o *Orchestrator) ResetAll(ctx context.Context) error {
	seen := make(map[string]bool)
	for _, id := range o.sessions.IDs() {
		seen[id] = true
		if err := o.Reset(ctx, id); err != nil {
			return err
		}
	}

	// Durable logs can outlive their in-memory session (process restarts).
	ids, err := o.log.Sessions(ctx)
	if err != nil {
		return fmt.Errorf("list turn logs: %w", err)
	}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		if err := o.log.Clear(ctx, id); err != nil {
			return fmt.Errorf("clear turn log: %w", err)
		}
	}
	return nil
}
