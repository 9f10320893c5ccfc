// Package store provides storage backends for onboarding conversations.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/leadpilot/outreachwizard/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants.
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("PostgresStore.NewPostgresStore: creating Postgres store", "DSN_set", cfg.PostgresDSN != "")

	dsn := cfg.PostgresDSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running Postgres migrations")
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) SaveConversation(conv models.Conversation) error {
	touchTimestamps(&conv)

	answersJSON, err := json.Marshal(conv.Answers)
	if err != nil {
		slog.Error("PostgresStore SaveConversation JSON marshal failed", "error", err, "id", conv.ID)
		return fmt.Errorf("failed to marshal answers for %s: %w", conv.ID, err)
	}

	query := `
		INSERT INTO conversations (id, answers, current_step, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			answers = EXCLUDED.answers,
			current_step = EXCLUDED.current_step,
			completed = EXCLUDED.completed,
			updated_at = EXCLUDED.updated_at`

	_, err = s.db.Exec(query, conv.ID, string(answersJSON), conv.CurrentStep, conv.Completed, conv.CreatedAt, conv.UpdatedAt)
	if err != nil {
		slog.Error("PostgresStore SaveConversation failed", "error", err, "id", conv.ID)
		return fmt.Errorf("failed to save conversation %s: %w", conv.ID, err)
	}
	slog.Debug("PostgresStore SaveConversation succeeded", "id", conv.ID, "step", conv.CurrentStep, "completed", conv.Completed)
	return nil
}

func (s *PostgresStore) GetConversation(id string) (*models.Conversation, error) {
	query := `SELECT id, answers, current_step, completed, created_at, updated_at
			  FROM conversations WHERE id = $1`

	var conv models.Conversation
	var answersJSON string
	err := s.db.QueryRow(query, id).Scan(
		&conv.ID, &answersJSON, &conv.CurrentStep, &conv.Completed, &conv.CreatedAt, &conv.UpdatedAt)
	if err == sql.ErrNoRows {
		slog.Debug("PostgresStore GetConversation not found", "id", id)
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetConversation failed", "error", err, "id", id)
		return nil, fmt.Errorf("failed to load conversation %s: %w", id, err)
	}

	conv.Answers = decodeAnswers(answersJSON, id)
	return &conv, nil
}

func (s *PostgresStore) ListConversations() ([]models.Conversation, error) {
	rows, err := s.db.Query(`SELECT id, answers, current_step, completed, created_at, updated_at
							 FROM conversations ORDER BY created_at, id`)
	if err != nil {
		slog.Error("PostgresStore ListConversations query failed", "error", err)
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			slog.Error("PostgresStore ListConversations scan failed", "error", err)
			return nil, err
		}
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		slog.Error("PostgresStore ListConversations rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate conversation rows: %w", err)
	}
	slog.Debug("PostgresStore ListConversations succeeded", "count", len(conversations))
	return conversations, nil
}

// Close closes the Postgres connection pool.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close Postgres database", "error", err)
	}
	return err
}
