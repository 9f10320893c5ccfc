// Package testutil provides common test utilities and helpers for onboarding
// wizard tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leadpilot/outreachwizard/internal/api"
	"github.com/leadpilot/outreachwizard/internal/classify"
	"github.com/leadpilot/outreachwizard/internal/models"
	"github.com/leadpilot/outreachwizard/internal/store"
	"github.com/leadpilot/outreachwizard/internal/wizard"
)

// NewTestServer creates a test API server with in-memory dependencies.
// This centralizes the test server creation logic used across test files.
func NewTestServer() *api.Server {
	st := store.NewInMemoryStore()
	engine := wizard.NewEngine(classify.NewLocalClassifier())
	return api.NewServer(st, engine)
}

// NewTestServerWithStore creates a test API server over the given store.
func NewTestServerWithStore(st store.Store) *api.Server {
	engine := wizard.NewEngine(classify.NewLocalClassifier())
	return api.NewServer(st, engine)
}

// AssertHTTPStatus checks the HTTP status code and fails the test if it doesn't match.
func AssertHTTPStatus(t *testing.T, expected, actual int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected status %d, got %d", context, expected, actual)
	}
}

// AssertJSONResponse decodes a JSON response and validates the status field.
func AssertJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus string) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}

	if status, ok := response["status"].(string); ok {
		if status != expectedStatus {
			t.Errorf("expected status '%s', got '%s'", expectedStatus, status)
		}
	} else {
		t.Error("response missing or invalid 'status' field")
	}

	return response
}

// CreateHTTPRequest creates an HTTP request with optional JSON body for testing.
func CreateHTTPRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to create HTTP request: %v", err)
	}
	return req
}

// SeedConversation stores a conversation snapshot for handler tests.
func SeedConversation(t *testing.T, st store.Store, conv models.Conversation) {
	t.Helper()
	if conv.Answers == nil {
		conv.Answers = make(map[string]string)
	}
	if conv.CurrentStep == 0 {
		conv.CurrentStep = models.MinStepIndex
	}
	if err := st.SaveConversation(conv); err != nil {
		t.Fatalf("failed to seed conversation %s: %v", conv.ID, err)
	}
}
