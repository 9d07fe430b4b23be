package turnlog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLog persists conversation turns in PostgreSQL.
type PostgresLog struct {
	pool *pgxpool.Pool
}

func NewPostgresLog(ctx context.Context, databaseURL string) (*PostgresLog, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresLog{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS conversation_turns (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			user_text TEXT NOT NULL,
			assistant_text TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_conversation_turns_session_seq ON conversation_turns (session_id, seq);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (l *PostgresLog) Append(ctx context.Context, sessionID, user, assistant string) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO conversation_turns (id, session_id, user_text, assistant_text, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.NewString(),
		sessionID,
		user,
		assistant,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

func (l *PostgresLog) ReadAll(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT id, user_text, assistant_text, created_at
		 FROM conversation_turns WHERE session_id=$1 ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.User, &t.Assistant, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn row: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turn rows: %w", err)
	}
	return turns, nil
}

func (l *PostgresLog) Clear(ctx context.Context, sessionID string) error {
	if _, err := l.pool.Exec(ctx,
		`DELETE FROM conversation_turns WHERE session_id=$1`, sessionID); err != nil {
		return fmt.Errorf("clear turns: %w", err)
	}
	return nil
}

func (l *PostgresLog) Delete(ctx context.Context, sessionID string) error {
	return l.Clear(ctx, sessionID)
}

func (l *PostgresLog) Sessions(ctx context.Context) ([]string, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT DISTINCT session_id FROM conversation_turns`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session rows: %w", err)
	}
	return ids, nil
}

func (l *PostgresLog) Close() error {
	l.pool.Close()
	return nil
}
