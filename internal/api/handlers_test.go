package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leadpilot/outreachwizard/internal/models"
	"github.com/leadpilot/outreachwizard/internal/store"
	"github.com/leadpilot/outreachwizard/internal/testutil"
	"github.com/leadpilot/outreachwizard/internal/wizard"
)

func TestCreateConversation(t *testing.T) {
	srv := testutil.NewTestServer()

	req := testutil.CreateHTTPRequest(t, http.MethodPost, "/onboarding/conversations", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	testutil.AssertHTTPStatus(t, http.StatusCreated, rr.Code, "create conversation")
	response := testutil.AssertJSONResponse(t, rr, "ok")

	result, ok := response["result"].(map[string]interface{})
	if !ok {
		t.Fatalf("result missing from response: %v", response)
	}
	if id, ok := result["id"].(string); !ok || id == "" {
		t.Error("created conversation should carry an ID")
	}
	question, ok := result["question"].(map[string]interface{})
	if !ok {
		t.Fatalf("question missing from response: %v", result)
	}
	if question["stepIndex"] != float64(models.MinStepIndex) {
		t.Errorf("first question step = %v, want %d", question["stepIndex"], models.MinStepIndex)
	}
	if question["intentKey"] != wizard.KeyIndustries {
		t.Errorf("first question intent = %v, want %s", question["intentKey"], wizard.KeyIndustries)
	}
}

func TestGetConversation(t *testing.T) {
	st := store.NewInMemoryStore()
	srv := testutil.NewTestServerWithStore(st)
	testutil.SeedConversation(t, st, models.Conversation{
		ID:          "conv-1",
		Answers:     map[string]string{wizard.KeyIndustries: "Healthcare"},
		CurrentStep: 2,
	})

	req := testutil.CreateHTTPRequest(t, http.MethodGet, "/onboarding/conversations/conv-1", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "get conversation")
	response := testutil.AssertJSONResponse(t, rr, "ok")
	result := response["result"].(map[string]interface{})
	if result["id"] != "conv-1" {
		t.Errorf("id = %v", result["id"])
	}
}

func TestGetConversationNotFound(t *testing.T) {
	srv := testutil.NewTestServer()

	req := testutil.CreateHTTPRequest(t, http.MethodGet, "/onboarding/conversations/missing", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	testutil.AssertHTTPStatus(t, http.StatusNotFound, rr.Code, "get missing conversation")
	testutil.AssertJSONResponse(t, rr, "error")
}

func TestTurnAdvancesAndPersists(t *testing.T) {
	st := store.NewInMemoryStore()
	srv := testutil.NewTestServerWithStore(st)
	testutil.SeedConversation(t, st, models.Conversation{ID: "conv-1", CurrentStep: 1})

	body := models.TurnRequest{
		StepIndex:  1,
		IntentKey:  wizard.KeyIndustries,
		UserAnswer: "saas",
		Answers:    map[string]string{},
	}
	req := testutil.CreateHTTPRequest(t, http.MethodPost, "/onboarding/conversations/conv-1/turn", body)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "turn")
	response := testutil.AssertJSONResponse(t, rr, "ok")
	result := response["result"].(map[string]interface{})
	if result["nextStepIndex"] != float64(2) {
		t.Errorf("nextStepIndex = %v, want 2", result["nextStepIndex"])
	}

	conv, err := st.GetConversation("conv-1")
	if err != nil || conv == nil {
		t.Fatalf("conversation not persisted: %v", err)
	}
	if conv.Answers[wizard.KeyIndustries] != "Software & SaaS" {
		t.Errorf("persisted answers = %v", conv.Answers)
	}
	if conv.CurrentStep != 2 {
		t.Errorf("persisted step = %d, want 2", conv.CurrentStep)
	}
}

func TestTurnUsesStoredAnswersWhenOmitted(t *testing.T) {
	st := store.NewInMemoryStore()
	srv := testutil.NewTestServerWithStore(st)
	testutil.SeedConversation(t, st, models.Conversation{
		ID:          "conv-1",
		Answers:     map[string]string{wizard.KeySelectedPlatforms: "email"},
		CurrentStep: 5,
	})

	// No collectedAnswers in the body: the handler falls back to the store.
	req := testutil.CreateHTTPRequest(t, http.MethodPost, "/onboarding/conversations/conv-1/turn", map[string]interface{}{
		"stepIndex":  5,
		"intentKey":  "email_actions",
		"userAnswer": "Send email",
	})
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "turn without answers")
	conv, _ := st.GetConversation("conv-1")
	if conv.Answers["email_actions"] != "Send email" {
		t.Errorf("persisted answers = %v", conv.Answers)
	}
	if !wizard.SetContains(conv.Answers, wizard.KeyCompletedPlatformActions, "email") {
		t.Error("email should be recorded as configured")
	}
}

func TestTurnValidation(t *testing.T) {
	st := store.NewInMemoryStore()
	srv := testutil.NewTestServerWithStore(st)
	testutil.SeedConversation(t, st, models.Conversation{ID: "conv-1"})

	tests := []struct {
		name string
		body interface{}
		want int
	}{
		{
			name: "step index out of range",
			body: models.TurnRequest{StepIndex: 99, IntentKey: "icp_industries", UserAnswer: "x"},
			want: http.StatusBadRequest,
		},
		{
			name: "blank intent key",
			body: models.TurnRequest{StepIndex: 1, IntentKey: "  ", UserAnswer: "x"},
			want: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.CreateHTTPRequest(t, http.MethodPost, "/onboarding/conversations/conv-1/turn", tt.body)
			rr := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rr, req)
			testutil.AssertHTTPStatus(t, tt.want, rr.Code, tt.name)
			testutil.AssertJSONResponse(t, rr, "error")
		})
	}
}

func TestTurnInvalidJSON(t *testing.T) {
	st := store.NewInMemoryStore()
	srv := testutil.NewTestServerWithStore(st)
	testutil.SeedConversation(t, st, models.Conversation{ID: "conv-1"})

	req, err := http.NewRequest(http.MethodPost, "/onboarding/conversations/conv-1/turn", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	testutil.AssertHTTPStatus(t, http.StatusBadRequest, rr.Code, "invalid JSON")
}

func TestTurnOnCompletedConversation(t *testing.T) {
	st := store.NewInMemoryStore()
	srv := testutil.NewTestServerWithStore(st)
	testutil.SeedConversation(t, st, models.Conversation{ID: "conv-1", CurrentStep: 11, Completed: true})

	body := models.TurnRequest{StepIndex: 11, IntentKey: wizard.KeyConfirmation, UserAnswer: "again"}
	req := testutil.CreateHTTPRequest(t, http.MethodPost, "/onboarding/conversations/conv-1/turn", body)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	testutil.AssertHTTPStatus(t, http.StatusConflict, rr.Code, "turn on completed conversation")
}

func TestClarificationDoesNotAdvancePersistedStep(t *testing.T) {
	st := store.NewInMemoryStore()
	srv := testutil.NewTestServerWithStore(st)
	testutil.SeedConversation(t, st, models.Conversation{
		ID:          "conv-1",
		Answers:     map[string]string{wizard.KeySelectedPlatforms: "linkedin"},
		CurrentStep: 5,
	})

	body := models.TurnRequest{
		StepIndex:  5,
		IntentKey:  "linkedin_actions",
		UserAnswer: "carrier pigeon",
	}
	req := testutil.CreateHTTPRequest(t, http.MethodPost, "/onboarding/conversations/conv-1/turn", body)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "clarification turn")
	response := testutil.AssertJSONResponse(t, rr, "ok")
	result := response["result"].(map[string]interface{})
	if result["clarificationNeeded"] != true {
		t.Errorf("expected clarification, got %v", result)
	}

	conv, _ := st.GetConversation("conv-1")
	if conv.CurrentStep != 5 {
		t.Errorf("clarification must not advance the persisted step, got %d", conv.CurrentStep)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := testutil.NewTestServer()

	tests := []struct {
		method string
		url    string
	}{
		{http.MethodDelete, "/onboarding/conversations"},
		{http.MethodPost, "/onboarding/conversations/conv-1"},
		{http.MethodGet, "/onboarding/conversations/conv-1/turn"},
	}
	for _, tt := range tests {
		req := testutil.CreateHTTPRequest(t, tt.method, tt.url, nil)
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)
		testutil.AssertHTTPStatus(t, http.StatusMethodNotAllowed, rr.Code, tt.method+" "+tt.url)
	}
}

func TestListConversations(t *testing.T) {
	st := store.NewInMemoryStore()
	srv := testutil.NewTestServerWithStore(st)
	testutil.SeedConversation(t, st, models.Conversation{ID: "conv-1"})
	testutil.SeedConversation(t, st, models.Conversation{ID: "conv-2"})

	req := testutil.CreateHTTPRequest(t, http.MethodGet, "/onboarding/conversations", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "list conversations")
	response := testutil.AssertJSONResponse(t, rr, "ok")
	result, ok := response["result"].([]interface{})
	if !ok {
		t.Fatalf("result should be an array: %v", response)
	}
	if len(result) != 2 {
		t.Errorf("expected 2 conversations, got %d", len(result))
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := testutil.NewTestServer()

	req := testutil.CreateHTTPRequest(t, http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "health")
	var response map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", response["status"])
	}
}
