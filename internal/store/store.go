// Package store provides storage backends for onboarding conversations.
//
// It includes an in-memory store for tests and development plus persistent
// SQLite and PostgreSQL backends selected by DSN.
package store

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/leadpilot/outreachwizard/internal/models"
)

// Store persists onboarding conversations.
type Store interface {
	// SaveConversation inserts or replaces a conversation by ID.
	SaveConversation(conv models.Conversation) error
	// GetConversation returns the conversation, or nil if not found.
	GetConversation(id string) (*models.Conversation, error)
	// ListConversations returns all conversations ordered by creation time.
	ListConversations() ([]models.Conversation, error)
	// Close releases backend resources.
	Close() error
}

// Opts holds configuration for store backends.
type Opts struct {
	PostgresDSN string
	SQLiteDSN   string
}

// Option configures store creation.
type Option func(*Opts)

// WithPostgresDSN selects the PostgreSQL backend with the given DSN.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) { o.PostgresDSN = dsn }
}

// WithSQLiteDSN selects the SQLite backend with the given database path.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) { o.SQLiteDSN = dsn }
}

// DetectDSNType reports the database driver a DSN implies: "postgres" for
// URL-style or key=value connection strings, "sqlite3" for file paths.
func DetectDSNType(dsn string) string {
	if strings.Contains(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite3"
}

// New creates a store from the provided options: PostgreSQL if a Postgres DSN
// is set, SQLite if a SQLite DSN is set, in-memory otherwise.
func New(opts ...Option) (Store, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	switch {
	case cfg.PostgresDSN != "":
		slog.Debug("store.New: selecting PostgreSQL backend")
		return NewPostgresStore(opts...)
	case cfg.SQLiteDSN != "":
		slog.Debug("store.New: selecting SQLite backend")
		return NewSQLiteStore(opts...)
	default:
		slog.Debug("store.New: no DSN configured, selecting in-memory backend")
		return NewInMemoryStore(), nil
	}
}

// InMemoryStore keeps conversations in a map. Safe for concurrent use.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]models.Conversation
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{conversations: make(map[string]models.Conversation)}
}

func (s *InMemoryStore) SaveConversation(conv models.Conversation) error {
	touchTimestamps(&conv)
	s.mu.Lock()
	defer s.mu.Unlock()
	// Copy the answer map so later caller mutations don't leak in.
	answers := make(map[string]string, len(conv.Answers))
	for k, v := range conv.Answers {
		answers[k] = v
	}
	conv.Answers = answers
	s.conversations[conv.ID] = conv
	slog.Debug("InMemoryStore.SaveConversation succeeded", "id", conv.ID, "step", conv.CurrentStep)
	return nil
}

func (s *InMemoryStore) GetConversation(id string) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		slog.Debug("InMemoryStore.GetConversation not found", "id", id)
		return nil, nil
	}
	answers := make(map[string]string, len(conv.Answers))
	for k, v := range conv.Answers {
		answers[k] = v
	}
	conv.Answers = answers
	return &conv, nil
}

func (s *InMemoryStore) ListConversations() ([]models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		out = append(out, conv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	slog.Debug("InMemoryStore.ListConversations succeeded", "count", len(out))
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}

// touchTimestamps fills CreatedAt/UpdatedAt so every saved row carries both.
func touchTimestamps(conv *models.Conversation) {
	now := time.Now().UTC()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	conv.UpdatedAt = now
}
