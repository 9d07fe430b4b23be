package provider

import (
	"context"
	"errors"
	"log"
)

// Chain implements the at-most-two-attempts invocation policy: primary first,
// fallback on any primary failure, fixed apology when both fail.
type Chain struct {
	primary  Generator
	fallback Generator
	apology  string
}

func NewChain(primary, fallback Generator, apology string) *Chain {
	return &Chain{
		primary:  primary,
		fallback: fallback,
		apology:  apology,
	}
}

// Apology returns the chain's fixed failure text.
func (c *Chain) Apology() string { return c.apology }

// Generate runs the chain synchronously. The caller always gets usable text;
// provider errors are logged, never propagated.
func (c *Chain) Generate(ctx context.Context, prompt string) Result {
	if c.primary != nil {
		text, err := c.primary.Generate(ctx, prompt)
		if err == nil {
			return Result{Text: text, Source: SourcePrimary}
		}
		log.Printf("provider %s failed: %v", c.primary.Name(), err)
		// A dead request context fails the fallback the same way; skip the hop.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Result{Text: c.apology, Source: SourceApology}
		}
	}

	if c.fallback != nil {
		text, err := c.fallback.Generate(ctx, prompt)
		if err == nil {
			return Result{Text: text, Source: SourceFallback}
		}
		log.Printf("fallback provider %s failed: %v", c.fallback.Name(), err)
	}

	return Result{Text: c.apology, Source: SourceApology}
}
