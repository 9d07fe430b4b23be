package turnlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileLog keeps one JSON file per session under a data directory.
type FileLog struct {
	dir   string
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFileLog(dir string) (*FileLog, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("turn log directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create turn log directory: %w", err)
	}
	return &FileLog{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// lockFor serializes append/clear per session id; different sessions
// write different files and never contend.
func (l *FileLog) lockFor(sessionID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk, ok := l.locks[sessionID]
	if !ok {
		lk = &sync.Mutex{}
		l.locks[sessionID] = lk
	}
	return lk
}

func (l *FileLog) path(sessionID string) string {
	// Session ids are caller supplied and opaque; escape them so an id
	// cannot point outside the data directory.
	return filepath.Join(l.dir, url.QueryEscape(sessionID)+".json")
}

func (l *FileLog) Append(ctx context.Context, sessionID, user, assistant string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lk := l.lockFor(sessionID)
	lk.Lock()
	defer lk.Unlock()

	turns := l.readLocked(sessionID)
	turns = append(turns, Turn{
		ID:        uuid.NewString(),
		User:      user,
		Assistant: assistant,
		CreatedAt: time.Now().UTC(),
	})

	return l.writeLocked(sessionID, turns)
}

func (l *FileLog) ReadAll(ctx context.Context, sessionID string) ([]Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lk := l.lockFor(sessionID)
	lk.Lock()
	defer lk.Unlock()
	return l.readLocked(sessionID), nil
}

func (l *FileLog) Clear(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lk := l.lockFor(sessionID)
	lk.Lock()
	defer lk.Unlock()
	return l.writeLocked(sessionID, []Turn{})
}

func (l *FileLog) Delete(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lk := l.lockFor(sessionID)
	lk.Lock()
	defer lk.Unlock()

	if err := os.Remove(l.path(sessionID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete turn log: %w", err)
	}

	l.mu.Lock()
	delete(l.locks, sessionID)
	l.mu.Unlock()
	return nil
}

func (l *FileLog) Sessions(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list turn logs: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id, err := url.QueryUnescape(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (l *FileLog) Close() error { return nil }

// readLocked returns the stored turns, treating a missing, unreadable or
// malformed file as an empty log rather than failing the caller.
func (l *FileLog) readLocked(sessionID string) []Turn {
	data, err := os.ReadFile(l.path(sessionID))
	if err != nil {
		return nil
	}
	var turns []Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil
	}
	return turns
}

func (l *FileLog) writeLocked(sessionID string, turns []Turn) error {
	data, err := json.MarshalIndent(turns, "", "  ")
	if err != nil {
		return fmt.Errorf("encode turn log: %w", err)
	}
	if err := os.WriteFile(l.path(sessionID), data, 0o644); err != nil {
		return fmt.Errorf("write turn log: %w", err)
	}
	return nil
}
