package turnlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileLogAppendReadAll(t *testing.T) {
	l, err := NewFileLog(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileLog() error = %v", err)
	}

	ctx := context.Background()
	if err := l.Append(ctx, "42", "Hola", "R1"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := l.Append(ctx, "42", "Adiós", "R2"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	turns, err := l.ReadAll(ctx, "42")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("len(turns) = %d, want 2", len(turns))
	}
	if turns[0].User != "Hola" || turns[0].Assistant != "R1" {
		t.Fatalf("unexpected first turn: %+v", turns[0])
	}
	if turns[1].User != "Adiós" || turns[1].Assistant != "R2" {
		t.Fatalf("unexpected second turn: %+v", turns[1])
	}
	if turns[0].ID == "" || turns[0].ID == turns[1].ID {
		t.Fatalf("turn ids should be unique and non-empty: %q %q", turns[0].ID, turns[1].ID)
	}
}

func TestFileLogMissingSessionReadsEmpty(t *testing.T) {
	l, err := NewFileLog(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileLog() error = %v", err)
	}
	turns, err := l.ReadAll(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("turns = %+v, want empty", turns)
	}
}

func TestFileLogCorruptFileReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	l, err := NewFileLog(dir)
	if err != nil {
		t.Fatalf("NewFileLog() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	turns, err := l.ReadAll(context.Background(), "bad")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("corrupt log should read as empty, got %+v", turns)
	}

	// Appending over a corrupt log starts a fresh history.
	if err := l.Append(context.Background(), "bad", "Hola", "R1"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	turns, _ = l.ReadAll(context.Background(), "bad")
	if len(turns) != 1 {
		t.Fatalf("len(turns) = %d, want 1", len(turns))
	}
}

func TestFileLogClearAndDelete(t *testing.T) {
	l, err := NewFileLog(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileLog() error = %v", err)
	}
	ctx := context.Background()

	if err := l.Append(ctx, "42", "Hola", "R1"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := l.Clear(ctx, "42"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	turns, _ := l.ReadAll(ctx, "42")
	if len(turns) != 0 {
		t.Fatalf("log after clear = %+v, want empty", turns)
	}
	// Clear is idempotent.
	if err := l.Clear(ctx, "42"); err != nil {
		t.Fatalf("second Clear() error = %v", err)
	}

	if err := l.Delete(ctx, "42"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := l.Delete(ctx, "42"); err != nil {
		t.Fatalf("Delete() of a missing log should not fail, got %v", err)
	}
}

func TestFileLogSessionsRoundTripsEscapedIDs(t *testing.T) {
	l, err := NewFileLog(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileLog() error = %v", err)
	}
	ctx := context.Background()

	ids := []string{"42", "user/../etc", "con espacios"}
	for _, id := range ids {
		if err := l.Append(ctx, id, "Hola", "R1"); err != nil {
			t.Fatalf("Append(%q) error = %v", id, err)
		}
	}

	got, err := l.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions() error = %v", err)
	}
	found := make(map[string]bool, len(got))
	for _, id := range got {
		found[id] = true
	}
	for _, id := range ids {
		if !found[id] {
			t.Fatalf("Sessions() missing %q, got %v", id, got)
		}
	}
}
