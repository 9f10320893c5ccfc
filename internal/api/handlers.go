// Package api provides HTTP handlers for onboarding wizard endpoints.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leadpilot/outreachwizard/internal/models"
	"github.com/leadpilot/outreachwizard/internal/wizard"
)

// conversationsHandler handles the collection routes:
// POST /onboarding/conversations and GET /onboarding/conversations.
func (s *Server) conversationsHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.conversationsHandler: processing request", "method", r.Method, "path", r.URL.Path)
	switch r.Method {
	case http.MethodPost:
		s.createConversationHandler(w, r)
	case http.MethodGet:
		s.listConversationsHandler(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		slog.Warn("Server.conversationsHandler: method not allowed", "method", r.Method)
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
	}
}

// conversationHandler routes the per-conversation endpoints:
// GET /onboarding/conversations/{id} and POST /onboarding/conversations/{id}/turn.
func (s *Server) conversationHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.conversationHandler: processing request", "method", r.Method, "path", r.URL.Path)

	path := strings.TrimPrefix(r.URL.Path, "/onboarding/conversations/")
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Missing conversation ID"))
		return
	}
	id := segments[0]

	if len(segments) == 1 {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
			return
		}
		s.getConversationHandler(w, r, id)
		return
	}

	if len(segments) == 2 && segments[1] == "turn" {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
			return
		}
		s.turnHandler(w, r, id)
		return
	}

	writeJSONResponse(w, http.StatusNotFound, models.Error("Unknown conversation endpoint"))
}

// createConversationHandler starts a new onboarding conversation and returns
// its ID along with the first question.
func (s *Server) createConversationHandler(w http.ResponseWriter, r *http.Request) {
	conv := models.Conversation{
		ID:          uuid.NewString(),
		Answers:     make(map[string]string),
		CurrentStep: models.MinStepIndex,
	}
	if err := s.st.SaveConversation(conv); err != nil {
		slog.Error("Server.createConversationHandler: failed to save conversation", "error", err, "id", conv.ID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to create conversation"))
		return
	}

	question := wizard.QuestionForStep(models.MinStepIndex, conv.Answers)
	slog.Info("Server.createConversationHandler: conversation created", "id", conv.ID)
	writeJSONResponse(w, http.StatusCreated, models.SuccessWithMessage("Conversation created", map[string]interface{}{
		"id":       conv.ID,
		"question": question,
	}))
}

// listConversationsHandler returns all conversations (GET /onboarding/conversations).
func (s *Server) listConversationsHandler(w http.ResponseWriter, r *http.Request) {
	conversations, err := s.st.ListConversations()
	if err != nil {
		slog.Error("Server.listConversationsHandler: failed to fetch conversations", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch conversations"))
		return
	}
	slog.Debug("Server.listConversationsHandler: conversations fetched", "count", len(conversations))
	writeJSONResponse(w, http.StatusOK, models.Success(conversations))
}

// getConversationHandler returns a single conversation's persisted state.
func (s *Server) getConversationHandler(w http.ResponseWriter, r *http.Request, id string) {
	conv, err := s.st.GetConversation(id)
	if err != nil {
		slog.Error("Server.getConversationHandler: failed to fetch conversation", "error", err, "id", id)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch conversation"))
		return
	}
	if conv == nil {
		slog.Warn("Server.getConversationHandler: conversation not found", "id", id)
		writeJSONResponse(w, http.StatusNotFound, models.Error("Conversation not found"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(conv))
}

// turnHandler submits one answer to the step engine and persists the merged
// result.
func (s *Server) turnHandler(w http.ResponseWriter, r *http.Request, id string) {
	if r.Body != nil {
		defer r.Body.Close()
	}

	var req models.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.turnHandler: failed to decode JSON", "error", err, "id", id)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := req.Validate(); err != nil {
		slog.Warn("Server.turnHandler: validation failed", "error", err, "id", id)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	conv, err := s.st.GetConversation(id)
	if err != nil {
		slog.Error("Server.turnHandler: failed to fetch conversation", "error", err, "id", id)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch conversation"))
		return
	}
	if conv == nil {
		slog.Warn("Server.turnHandler: conversation not found", "id", id)
		writeJSONResponse(w, http.StatusNotFound, models.Error("Conversation not found"))
		return
	}
	if conv.Completed {
		slog.Warn("Server.turnHandler: conversation already completed", "id", id)
		writeJSONResponse(w, http.StatusConflict, models.Error("Conversation already completed"))
		return
	}

	// Clients may omit the collected answers and rely on the stored state.
	if req.Answers == nil {
		req.Answers = conv.Answers
	}

	resp := s.engine.ProcessTurn(r.Context(), req)

	conv.Answers = resp.Answers
	conv.Completed = resp.Completed
	if resp.NextStepIndex != 0 {
		conv.CurrentStep = resp.NextStepIndex
	}
	if err := s.st.SaveConversation(*conv); err != nil {
		slog.Error("Server.turnHandler: failed to save conversation", "error", err, "id", id)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to save conversation"))
		return
	}

	slog.Info("Server.turnHandler: turn processed", "id", id,
		"step", req.StepIndex, "intent", req.IntentKey,
		"clarification", resp.ClarificationNeeded, "completed", resp.Completed)
	writeJSONResponse(w, http.StatusOK, models.Success(resp))
}

// healthHandler provides a health check endpoint for monitoring and load
// balancing.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	healthData := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if conversations, err := s.st.ListConversations(); err != nil {
		slog.Warn("Server.healthHandler: failed to count conversations", "error", err)
		healthData["status"] = "degraded"
		healthData["error"] = "Failed to fetch conversation metrics"
	} else {
		healthData["conversations"] = len(conversations)
	}

	statusCode := http.StatusOK
	if healthData["status"] == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSONResponse(w, statusCode, healthData)
}
