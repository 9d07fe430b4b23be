package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/glynne/glyai/internal/provider"
	"github.com/glynne/glyai/internal/turnlog"
)

type fakeGenerator struct {
	name    string
	text    string
	err     error
	prompts []string
}

func (f *fakeGenerator) Name() string { return f.name }

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func newTestAuditor(t *testing.T, gen *fakeGenerator) (*Auditor, turnlog.Log) {
	t.Helper()
	logStore, err := turnlog.NewFileLog(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileLog() error = %v", err)
	}
	chain := provider.NewChain(gen, nil, "sorry")
	return NewAuditor(logStore, chain, nil), logStore
}

func TestGenerateAuditEmptyLogIsNotFound(t *testing.T) {
	a, _ := newTestAuditor(t, &fakeGenerator{name: "p", text: "doc"})

	_, err := a.GenerateAudit(context.Background(), "42")
	if !errors.Is(err, ErrNoConversation) {
		t.Fatalf("error = %v, want ErrNoConversation", err)
	}
}

func TestGenerateAuditConsumesLog(t *testing.T) {
	gen := &fakeGenerator{name: "p", text: "documento de auditoría"}
	a, logStore := newTestAuditor(t, gen)

	ctx := context.Background()
	if err := logStore.Append(ctx, "42", "Hola", "R1"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	text, err := a.GenerateAudit(ctx, "42")
	if err != nil {
		t.Fatalf("GenerateAudit() error = %v", err)
	}
	if text != "documento de auditoría" {
		t.Fatalf("report = %q, want generator output", text)
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "Usuario: Hola") {
		t.Fatalf("prompt should contain the transcript, got %q", gen.prompts)
	}

	// Report generation resets the conversation.
	turns, _ := logStore.ReadAll(ctx, "42")
	if len(turns) != 0 {
		t.Fatalf("log after audit = %+v, want empty", turns)
	}
	if _, err := a.GenerateAudit(ctx, "42"); !errors.Is(err, ErrNoConversation) {
		t.Fatalf("second audit error = %v, want ErrNoConversation", err)
	}
}

func TestGenerateEcosystemKeepsLog(t *testing.T) {
	gen := &fakeGenerator{
		name: "p",
		text: `{"ecosistema": {"nodos": [{"id": "1", "nombre": "Ventas"}], "relaciones": []}}`,
	}
	a, logStore := newTestAuditor(t, gen)

	ctx := context.Background()
	if err := logStore.Append(ctx, "42", "Hola", "R1"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	eco, err := a.GenerateEcosystem(ctx, "42")
	if err != nil {
		t.Fatalf("GenerateEcosystem() error = %v", err)
	}
	if eco.Graph == nil || len(eco.Graph.Nodes) != 1 || eco.Graph.Nodes[0].Name != "Ventas" {
		t.Fatalf("ecosystem = %+v, want one parsed node", eco)
	}

	turns, _ := logStore.ReadAll(ctx, "42")
	if len(turns) != 1 {
		t.Fatalf("ecosystem generation should not consume the log, got %+v", turns)
	}
}

func TestGenerateEcosystemEmptyLogIsNotFound(t *testing.T) {
	a, _ := newTestAuditor(t, &fakeGenerator{name: "p", text: "{}"})
	if _, err := a.GenerateEcosystem(context.Background(), "42"); !errors.Is(err, ErrNoConversation) {
		t.Fatalf("error = %v, want ErrNoConversation", err)
	}
}

func TestParseEcosystemCodeFence(t *testing.T) {
	text := "```json\n{\"ecosistema\": {\"nodos\": [{\"id\": \"1\"}], \"relaciones\": []}}\n```"
	eco := ParseEcosystem(text)
	if eco.Graph == nil || len(eco.Graph.Nodes) != 1 {
		t.Fatalf("fenced JSON not parsed: %+v", eco)
	}
}

func TestParseEcosystemUnwrappedGraph(t *testing.T) {
	eco := ParseEcosystem(`{"nodos": [{"id": "1"}], "relaciones": []}`)
	if eco.Graph == nil || len(eco.Graph.Nodes) != 1 {
		t.Fatalf("unwrapped graph not parsed: %+v", eco)
	}
}

func TestParseEcosystemUnparsableKeepsRaw(t *testing.T) {
	eco := ParseEcosystem("esto no es JSON")
	if eco.Graph != nil {
		t.Fatalf("graph = %+v, want nil", eco.Graph)
	}
	if eco.Raw != "esto no es JSON" || eco.Error == "" {
		t.Fatalf("unparsable response should keep raw text and an error, got %+v", eco)
	}
}
