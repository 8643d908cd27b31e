package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver
)

const sessionsSchema = `CREATE TABLE IF NOT EXISTS sessions (
	id UUID PRIMARY KEY,
	document JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres persists session documents as single JSONB rows.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Migrate creates the sessions table when it does not exist yet.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, sessionsSchema); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (p *Postgres) Save(ctx context.Context, doc Document) (string, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal session document: %w", err)
	}

	id := uuid.NewString()
	query := `INSERT INTO sessions (id, document) VALUES ($1, $2)`
	if _, err := p.db.ExecContext(ctx, query, id, payload); err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}

	return id, nil
}

func (p *Postgres) Update(ctx context.Context, id string, doc Document) (bool, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("marshal session document: %w", err)
	}

	query := `UPDATE sessions SET document = $2, updated_at = now() WHERE id = $1`
	result, err := p.db.ExecContext(ctx, query, id, payload)
	if err != nil {
		return false, fmt.Errorf("update session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (p *Postgres) Latest(ctx context.Context) (Document, error) {
	query := `SELECT id, document FROM sessions ORDER BY created_at DESC LIMIT 1`

	var (
		id      string
		payload []byte
	)
	if err := p.db.QueryRowContext(ctx, query).Scan(&id, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query latest session: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal session document: %w", err)
	}
	doc["session_id"] = id

	return doc, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
