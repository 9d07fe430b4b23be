package provider

import (
	"context"
	"fmt"
	"strings"
)

// Mock provides deterministic local replies for keyless development.
type Mock struct {
	name string
}

func NewMock(name string) *Mock { return &Mock{name: name} }

func (m *Mock) Name() string { return m.name }

func (m *Mock) Generate(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	lines := strings.Split(strings.TrimSpace(prompt), "\n")
	last := ""
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			last = l
			break
		}
	}
	if last == "" {
		return "Soy GLY-AI en modo local. Te escucho.", nil
	}
	return fmt.Sprintf("Soy GLY-AI en modo local. Recibí: %s", last), nil
}
