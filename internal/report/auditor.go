// Package report synthesizes audit documents and ecosystem graphs from the
// accumulated conversation log.
package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/glynne/glyai/internal/observability"
	"github.com/glynne/glyai/internal/prompt"
	"github.com/glynne/glyai/internal/provider"
	"github.com/glynne/glyai/internal/turnlog"
)

// ErrNoConversation signals that there is nothing to report on. An empty
// report is not useful, so this surfaces to the caller as not-found.
var ErrNoConversation = errors.New("no conversation recorded for session")

// Auditor generates reports from a session's turn log using a dedicated
// provider chain (its own credentials and a larger model than the chat flow).
type Auditor struct {
	log     turnlog.Log
	chain   *provider.Chain
	metrics *observability.Metrics
	now     func() time.Time
}

func NewAuditor(logStore turnlog.Log, chain *provider.Chain, metrics *observability.Metrics) *Auditor {
	return &Auditor{
		log:     logStore,
		chain:   chain,
		metrics: metrics,
		now:     time.Now,
	}
}

// GenerateAudit produces the audit document for a session and consumes the
// log: generating a report resets the recorded conversation.
func (a *Auditor) GenerateAudit(ctx context.Context, sessionID string) (string, error) {
	turns, err := a.log.ReadAll(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("read turn log: %w", err)
	}
	if len(turns) == 0 {
		return "", ErrNoConversation
	}

	rendered := prompt.Audit(turns, a.now())
	result := a.chain.Generate(ctx, rendered)
	if a.metrics != nil {
		a.metrics.ProviderCalls.WithLabelValues("report", string(result.Source)).Inc()
		a.metrics.Reports.WithLabelValues("audit").Inc()
	}

	// The report is already produced; a failed cleanup should not lose it.
	if err := a.log.Clear(ctx, sessionID); err != nil {
		log.Printf("clear turn log after audit for %q: %v", sessionID, err)
	}

	return result.Text, nil
}

// GenerateEcosystem derives the process graph from the session's conversation
// without consuming the log.
func (a *Auditor) GenerateEcosystem(ctx context.Context, sessionID string) (*Ecosystem, error) {
	turns, err := a.log.ReadAll(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read turn log: %w", err)
	}
	if len(turns) == 0 {
		return nil, ErrNoConversation
	}

	rendered := prompt.Ecosystem(turns)
	result := a.chain.Generate(ctx, rendered)
	if a.metrics != nil {
		a.metrics.ProviderCalls.WithLabelValues("report", string(result.Source)).Inc()
		a.metrics.Reports.WithLabelValues("ecosystem").Inc()
	}

	return ParseEcosystem(result.Text), nil
}
