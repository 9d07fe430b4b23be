package turnlog

import (
	"context"
	"strings"
)

// New creates a postgres-backed log when configured, otherwise a file log.
func New(ctx context.Context, dataDir, databaseURL string) (Log, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewFileLog(dataDir)
	}
	return NewPostgresLog(ctx, databaseURL)
}
