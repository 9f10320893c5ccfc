// Package store provides storage backends for onboarding conversations.
//
// This file implements the SQLite-backed store.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	"github.com/leadpilot/outreachwizard/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store. The DSN is a file path to the
// database file; its directory is created when missing.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.SQLiteDSN != "")

	dsn := cfg.SQLiteDSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running SQLite migrations")
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveConversation(conv models.Conversation) error {
	touchTimestamps(&conv)

	answersJSON, err := json.Marshal(conv.Answers)
	if err != nil {
		slog.Error("SQLiteStore SaveConversation JSON marshal failed", "error", err, "id", conv.ID)
		return fmt.Errorf("failed to marshal answers for %s: %w", conv.ID, err)
	}

	query := `
		INSERT INTO conversations (id, answers, current_step, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			answers = excluded.answers,
			current_step = excluded.current_step,
			completed = excluded.completed,
			updated_at = excluded.updated_at`

	_, err = s.db.Exec(query, conv.ID, string(answersJSON), conv.CurrentStep, conv.Completed, conv.CreatedAt, conv.UpdatedAt)
	if err != nil {
		slog.Error("SQLiteStore SaveConversation failed", "error", err, "id", conv.ID)
		return fmt.Errorf("failed to save conversation %s: %w", conv.ID, err)
	}
	slog.Debug("SQLiteStore SaveConversation succeeded", "id", conv.ID, "step", conv.CurrentStep, "completed", conv.Completed)
	return nil
}

func (s *SQLiteStore) GetConversation(id string) (*models.Conversation, error) {
	query := `SELECT id, answers, current_step, completed, created_at, updated_at
			  FROM conversations WHERE id = ?`

	var conv models.Conversation
	var answersJSON string
	err := s.db.QueryRow(query, id).Scan(
		&conv.ID, &answersJSON, &conv.CurrentStep, &conv.Completed, &conv.CreatedAt, &conv.UpdatedAt)
	if err == sql.ErrNoRows {
		slog.Debug("SQLiteStore GetConversation not found", "id", id)
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetConversation failed", "error", err, "id", id)
		return nil, fmt.Errorf("failed to load conversation %s: %w", id, err)
	}

	conv.Answers = decodeAnswers(answersJSON, id)
	return &conv, nil
}

func (s *SQLiteStore) ListConversations() ([]models.Conversation, error) {
	rows, err := s.db.Query(`SELECT id, answers, current_step, completed, created_at, updated_at
							 FROM conversations ORDER BY created_at, id`)
	if err != nil {
		slog.Error("SQLiteStore ListConversations query failed", "error", err)
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			slog.Error("SQLiteStore ListConversations scan failed", "error", err)
			return nil, err
		}
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		slog.Error("SQLiteStore ListConversations rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate conversation rows: %w", err)
	}
	slog.Debug("SQLiteStore ListConversations succeeded", "count", len(conversations))
	return conversations, nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close SQLite database", "error", err)
	}
	return err
}
