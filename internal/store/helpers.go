package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/leadpilot/outreachwizard/internal/models"
)

// scanConversation scans a Conversation from sql.Rows.
func scanConversation(rows *sql.Rows) (models.Conversation, error) {
	var conv models.Conversation
	var answersJSON string
	err := rows.Scan(&conv.ID, &answersJSON, &conv.CurrentStep, &conv.Completed, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return conv, fmt.Errorf("scan conversation failed: %w", err)
	}
	conv.Answers = decodeAnswers(answersJSON, conv.ID)
	return conv, nil
}

// decodeAnswers unmarshals the stored answer map. A corrupt column yields an
// empty map rather than a load failure.
func decodeAnswers(answersJSON, id string) map[string]string {
	answers := make(map[string]string)
	if answersJSON == "" {
		return answers
	}
	if err := json.Unmarshal([]byte(answersJSON), &answers); err != nil {
		slog.Error("store.decodeAnswers: JSON unmarshal failed", "error", err, "id", id)
		return make(map[string]string)
	}
	return answers
}
