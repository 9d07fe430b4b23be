package provider

import (
	"context"
	"errors"
	"testing"
)

type fakeGenerator struct {
	name  string
	text  string
	err   error
	calls int
}

func (f *fakeGenerator) Name() string { return f.name }

func (f *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestChainPrimarySuccess(t *testing.T) {
	primary := &fakeGenerator{name: "p", text: "A"}
	fallback := &fakeGenerator{name: "f", text: "B"}
	c := NewChain(primary, fallback, "sorry")

	res := c.Generate(context.Background(), "hola")
	if res.Text != "A" || res.Source != SourcePrimary {
		t.Fatalf("result = %+v, want primary A", res)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback called %d times on primary success", fallback.calls)
	}
}

func TestChainFallsBackOnPrimaryFailure(t *testing.T) {
	primary := &fakeGenerator{name: "p", err: errors.New("boom")}
	fallback := &fakeGenerator{name: "f", text: "B"}
	c := NewChain(primary, fallback, "sorry")

	res := c.Generate(context.Background(), "hola")
	if res.Text != "B" || res.Source != SourceFallback {
		t.Fatalf("result = %+v, want fallback B", res)
	}
}

func TestChainApologyWhenBothFail(t *testing.T) {
	primary := &fakeGenerator{name: "p", err: errors.New("boom")}
	fallback := &fakeGenerator{name: "f", err: errors.New("also boom")}
	c := NewChain(primary, fallback, "sorry")

	res := c.Generate(context.Background(), "hola")
	if res.Text != "sorry" || res.Source != SourceApology {
		t.Fatalf("result = %+v, want apology", res)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Fatalf("attempts = (%d, %d), want exactly one each", primary.calls, fallback.calls)
	}
}

func TestChainSkipsFallbackOnContextError(t *testing.T) {
	primary := &fakeGenerator{name: "p", err: context.Canceled}
	fallback := &fakeGenerator{name: "f", text: "B"}
	c := NewChain(primary, fallback, "sorry")

	res := c.Generate(context.Background(), "hola")
	if res.Source != SourceApology {
		t.Fatalf("result = %+v, want apology on cancelled context", res)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback should not run after context cancellation")
	}
}

func TestChainWithoutFallback(t *testing.T) {
	primary := &fakeGenerator{name: "p", err: errors.New("boom")}
	c := NewChain(primary, nil, "sorry")

	res := c.Generate(context.Background(), "hola")
	if res.Text != "sorry" || res.Source != SourceApology {
		t.Fatalf("result = %+v, want apology", res)
	}
}
