package provider

import "context"

// Generator produces text for a rendered prompt. Implementations may fail;
// recovery is the Chain's job.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Source identifies which stage of the invocation chain produced a result.
type Source string

const (
	SourcePrimary  Source = "primary"
	SourceFallback Source = "fallback"
	SourceApology  Source = "apology"
)

// Result is the outcome of one chain invocation. There is no error branch:
// total provider exhaustion degrades to the chain's fixed apology text.
type Result struct {
	Text   string
	Source Source
}
