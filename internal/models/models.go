// Package models defines the shared value objects exchanged between the
// onboarding wizard engine, the HTTP API, and the store.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Step index bounds for the onboarding flow. Indexes outside this range are
// rejected at the API layer and never reach the engine.
const (
	MinStepIndex = 1
	MaxStepIndex = 11
)

// QuestionType identifies how a question should be rendered and answered.
type QuestionType string

const (
	// QuestionTypeText expects a free-text answer.
	QuestionTypeText QuestionType = "text"
	// QuestionTypeSelect expects exactly one of the listed options.
	QuestionTypeSelect QuestionType = "select"
	// QuestionTypeMultiSelect expects one or more of the listed options.
	QuestionTypeMultiSelect QuestionType = "multi-select"
	// QuestionTypeConfirmation is the terminal review question.
	QuestionTypeConfirmation QuestionType = "confirmation"
)

// Question is the engine's output value object. It is produced fresh each
// turn and never mutated after creation.
type Question struct {
	StepIndex    int          `json:"stepIndex"`
	IntentKey    string       `json:"intentKey"`
	Title        string       `json:"title"`
	Question     string       `json:"question"`
	QuestionType QuestionType `json:"questionType"`
	Options      []string     `json:"options,omitempty"`
	// Selected carries the pre-applied selection for multi-select
	// questions: previously stored choices, or every option when the
	// user has not answered yet.
	Selected   []string `json:"selected,omitempty"`
	HelperText string   `json:"helperText,omitempty"`
	AllowSkip  bool     `json:"allowSkip"`
}

// TurnRequest is a single submitted answer plus the full collected answer
// map. The engine holds no session state; callers re-submit the map every
// turn.
type TurnRequest struct {
	StepIndex  int               `json:"stepIndex"`
	IntentKey  string            `json:"intentKey"`
	UserAnswer string            `json:"userAnswer"`
	Answers    map[string]string `json:"collectedAnswers"`
}

// Validate checks the request shape. Step-index range errors are caller
// errors, not engine concerns.
func (r TurnRequest) Validate() error {
	if r.StepIndex < MinStepIndex || r.StepIndex > MaxStepIndex {
		return fmt.Errorf("step index %d out of range [%d, %d]", r.StepIndex, MinStepIndex, MaxStepIndex)
	}
	if strings.TrimSpace(r.IntentKey) == "" {
		return errors.New("intent key is required")
	}
	return nil
}

// TurnResponse is the engine's answer to a turn: either the next question,
// a clarification re-ask, or completion. Answers always carries the merged
// (monotonic) answer map.
type TurnResponse struct {
	ClarificationNeeded bool              `json:"clarificationNeeded"`
	Message             string            `json:"message,omitempty"`
	NextStepIndex       int               `json:"nextStepIndex,omitempty"`
	NextQuestion        *Question         `json:"nextQuestion,omitempty"`
	Completed           bool              `json:"completed"`
	Answers             map[string]string `json:"updatedCollectedAnswers"`
}

// Conversation is the persisted record for one onboarding session. The
// answer map is the only flow state; everything else is bookkeeping.
type Conversation struct {
	ID          string            `json:"id"`
	Answers     map[string]string `json:"answers"`
	CurrentStep int               `json:"currentStep"`
	Completed   bool              `json:"completed"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}
