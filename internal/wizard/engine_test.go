package wizard

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/leadpilot/outreachwizard/internal/models"
)

func newTestEngine() *Engine {
	return NewEngine(nil) // local classifier
}

func turn(t *testing.T, e *Engine, step int, intent, answer string, answers map[string]string) models.TurnResponse {
	t.Helper()
	resp := e.ProcessTurn(context.Background(), models.TurnRequest{
		StepIndex:  step,
		IntentKey:  intent,
		UserAnswer: answer,
		Answers:    answers,
	})
	if resp.Answers == nil {
		t.Fatal("turn response must always carry the merged answer map")
	}
	return resp
}

// Scenario A: selecting a post-connection message action must force a
// LinkedIn template before LinkedIn can complete.
func TestLinkedInTemplateRequestedBeforeCompletion(t *testing.T) {
	e := newTestEngine()
	answers := map[string]string{KeySelectedPlatforms: "linkedin, email"}

	resp := turn(t, e, StepPlatformActions, "linkedin_actions",
		"Send connection request, Send message (after accepted)", answers)

	if resp.ClarificationNeeded {
		t.Fatalf("unexpected clarification: %s", resp.Message)
	}
	if resp.NextQuestion == nil || resp.NextQuestion.IntentKey != "linkedin_template" {
		t.Fatalf("expected linkedin_template question, got %+v", resp.NextQuestion)
	}
	if SetContains(resp.Answers, KeyCompletedPlatformActions, "linkedin") {
		t.Error("linkedin must not be complete before its template is stored")
	}
	want := "Send connection request, Send message (after connection accepted)"
	if resp.Answers["linkedin_actions"] != want {
		t.Errorf("stored actions = %q, want %q", resp.Answers["linkedin_actions"], want)
	}
}

// Scenario B: a correction turn that drops the connection request must
// silently drop the dependent message action and skip the template step.
func TestDependentActionDroppedOnCorrection(t *testing.T) {
	e := newTestEngine()
	answers := map[string]string{
		KeySelectedPlatforms: "linkedin, email",
		"linkedin_actions":   "Send connection request, Send message (after connection accepted)",
	}

	resp := turn(t, e, StepPlatformActions, "linkedin_actions", "Visit profile", answers)

	if resp.ClarificationNeeded {
		t.Fatalf("unexpected clarification: %s", resp.Message)
	}
	if resp.Answers["linkedin_actions"] != "Visit profile" {
		t.Errorf("stored actions = %q, want Visit profile", resp.Answers["linkedin_actions"])
	}
	if resp.NextQuestion != nil && resp.NextQuestion.IntentKey == "linkedin_template" {
		t.Error("template step must be skipped when no template-requiring action remains")
	}
	if !SetContains(resp.Answers, KeyCompletedPlatformActions, "linkedin") {
		t.Error("linkedin should be complete without a template")
	}
}

// Scenario C: after the first platform is fully configured, the delay
// between the two platforms is asked before the second platform's actions.
func TestDelayAskedBetweenConsecutivePlatforms(t *testing.T) {
	e := newTestEngine()
	answers := map[string]string{
		KeySelectedPlatforms: "linkedin, email",
		"linkedin_actions":   "Send connection request, Send message (after connection accepted)",
	}

	resp := turn(t, e, StepPlatformActions, "linkedin_template", "Hi {{firstName}}, great to connect!", answers)

	if resp.NextQuestion == nil || resp.NextQuestion.IntentKey != "delay_linkedin_email" {
		t.Fatalf("expected delay question, got %+v", resp.NextQuestion)
	}
	if !reflect.DeepEqual(resp.NextQuestion.Options, DelayOptions) {
		t.Errorf("delay options = %v", resp.NextQuestion.Options)
	}
	if !SetContains(resp.Answers, KeyCompletedPlatformActions, "linkedin") {
		t.Error("linkedin should be complete once its template is stored")
	}

	// Answering the delay moves on to the second platform's actions.
	resp = turn(t, e, StepPlatformActions, "delay_linkedin_email", "1 day", resp.Answers)
	if resp.NextQuestion == nil || resp.NextQuestion.IntentKey != "email_actions" {
		t.Fatalf("expected email_actions question, got %+v", resp.NextQuestion)
	}
	if !SetContains(resp.Answers, KeyCompletedDelayPlatforms, "linkedin") {
		t.Error("linkedin should be in the completed-delay set")
	}
}

// Scenario D: with only working_days missing, the working-days sub-question
// must be asked regardless of extraneous keys.
func TestSettingsAskExactMissingField(t *testing.T) {
	e := newTestEngine()
	answers := map[string]string{
		KeyCampaignDays:      "30",
		KeyLeadsPerDay:       "25",
		KeySelectedPlatforms: "email",
		"random_noise":       "ignored",
	}

	resp := turn(t, e, StepCampaignSettings, KeyCampaignDays, "45", answers)

	if resp.NextQuestion == nil || resp.NextQuestion.IntentKey != KeyWorkingDays {
		t.Fatalf("expected working_days question, got %+v", resp.NextQuestion)
	}
	if resp.Answers[KeyCampaignDays] != "45" {
		t.Errorf("campaign_days = %q, want updated value", resp.Answers[KeyCampaignDays])
	}
}

// Scenario E: any answer on the confirmation step terminates the flow.
func TestConfirmationCompletes(t *testing.T) {
	e := newTestEngine()

	resp := turn(t, e, StepConfirmation, KeyConfirmation, "Launch campaign", map[string]string{})

	if !resp.Completed {
		t.Error("confirmation answer must complete the conversation")
	}
	if resp.NextQuestion != nil {
		t.Errorf("completed response must carry no question, got %+v", resp.NextQuestion)
	}
	if resp.ClarificationNeeded {
		t.Error("completion is not a clarification")
	}
}

func TestEmptyActionMatchAsksClarification(t *testing.T) {
	e := newTestEngine()
	answers := map[string]string{KeySelectedPlatforms: "linkedin"}

	resp := turn(t, e, StepPlatformActions, "linkedin_actions", "carrier pigeon", answers)

	if !resp.ClarificationNeeded {
		t.Fatal("unmatched actions must trigger a clarification")
	}
	if !strings.Contains(resp.Message, "Visit profile") {
		t.Errorf("clarification should list the allowed vocabulary, got %q", resp.Message)
	}
	if resp.NextStepIndex != StepPlatformActions {
		t.Errorf("clarification must not advance the step, got %d", resp.NextStepIndex)
	}
	if resp.Answers[KeyCompletedPlatformActions] != "" {
		t.Error("clarification must not mutate the completed set")
	}
}

func TestActionsForUnselectedPlatformRejected(t *testing.T) {
	e := newTestEngine()
	answers := map[string]string{KeySelectedPlatforms: "email"}

	resp := turn(t, e, StepPlatformActions, "voice_actions", "Make call", answers)

	if !resp.ClarificationNeeded {
		t.Fatal("actions for an unselected platform must be rejected")
	}
	if resp.Answers["voice_actions"] != "" {
		t.Error("rejected answer must not be stored")
	}
}

func TestEmptyTemplateRejected(t *testing.T) {
	e := newTestEngine()
	answers := map[string]string{
		KeySelectedPlatforms: "voice",
		"voice_actions":      "Make call",
	}

	resp := turn(t, e, StepPlatformActions, "voice_template", "   ", answers)

	if !resp.ClarificationNeeded {
		t.Fatal("an empty required template is not a valid answer")
	}
	if resp.Answers["voice_template"] != "" {
		t.Error("whitespace template must not be stored")
	}
	if SetContains(resp.Answers, KeyCompletedPlatformActions, "voice") {
		t.Error("voice must not complete without a template")
	}
}

func TestLastPlatformSkipsDelayAndStampsLegacyKeys(t *testing.T) {
	e := newTestEngine()
	answers := map[string]string{KeySelectedPlatforms: "email"}

	resp := turn(t, e, StepPlatformActions, "email_actions", "Send email", answers)

	if resp.NextQuestion == nil || resp.NextQuestion.IntentKey != KeyCampaignGoal {
		t.Fatalf("expected campaign goal after last platform, got %+v", resp.NextQuestion)
	}
	if resp.NextStepIndex != StepCampaignGoal {
		t.Errorf("next step = %d, want %d", resp.NextStepIndex, StepCampaignGoal)
	}
	if resp.Answers[KeyWorkflowDelays] != WorkflowDelaysDefault {
		t.Errorf("workflow_delays = %q, want sentinel", resp.Answers[KeyWorkflowDelays])
	}
	if resp.Answers[KeyWorkflowConditions] != WorkflowConditionsDefault {
		t.Errorf("workflow_conditions = %q, want sentinel", resp.Answers[KeyWorkflowConditions])
	}
}

func TestPlatformSelectionValidatesAndAdvances(t *testing.T) {
	e := newTestEngine()

	// Answering step 4 with no recognizable platform re-asks step 4.
	resp := turn(t, e, StepPlatformSelection, KeySelectedPlatforms, "smoke signals", map[string]string{})
	if !resp.ClarificationNeeded {
		t.Fatal("unrecognized platforms must trigger a clarification")
	}

	// A valid selection advances into step 5.
	resp = turn(t, e, StepPlatformSelection, KeySelectedPlatforms, "email", map[string]string{})
	if resp.NextStepIndex != StepPlatformActions {
		t.Errorf("next step = %d, want %d", resp.NextStepIndex, StepPlatformActions)
	}
	if resp.NextQuestion == nil || resp.NextQuestion.IntentKey != "email_actions" {
		t.Errorf("expected email_actions question, got %+v", resp.NextQuestion)
	}
}

func TestSkippableStepStoresSentinel(t *testing.T) {
	e := newTestEngine()

	resp := turn(t, e, StepLocations, KeyLocations, "skip", map[string]string{KeyIndustries: "Software & SaaS"})

	if resp.Answers[KeyLocations] != AnswerSkipped {
		t.Errorf("skipped answer = %q, want %q", resp.Answers[KeyLocations], AnswerSkipped)
	}
	if resp.NextStepIndex != StepRoles {
		t.Errorf("next step = %d, want %d", resp.NextStepIndex, StepRoles)
	}
}

func TestClassifierStandardizesFreeTextSteps(t *testing.T) {
	e := newTestEngine()

	resp := turn(t, e, StepIndustries, KeyIndustries, "saas companies", map[string]string{})

	if resp.Answers[KeyIndustries] != "Software & SaaS" {
		t.Errorf("industries = %q, want standardized value", resp.Answers[KeyIndustries])
	}
}

// Re-derivability: the engine's next question is a pure function of the
// answer map, so processing identical snapshots yields identical questions.
func TestNextQuestionRederivableFromSnapshot(t *testing.T) {
	snapshot := map[string]string{
		KeySelectedPlatforms:        "linkedin, email",
		"linkedin_actions":          "Send connection request",
		KeyCompletedPlatformActions: "linkedin",
	}

	first := QuestionForStep(StepPlatformActions, snapshot)
	second := QuestionForStep(StepPlatformActions, snapshot)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("question not re-derivable: %+v vs %+v", first, second)
	}
	if first.IntentKey != "email_actions" {
		t.Errorf("intent = %q, want email_actions", first.IntentKey)
	}
}

// Full happy path: industries through confirmation, checking that the answer
// map only ever grows (monotonic answers).
func TestFullOnboardingWalkthrough(t *testing.T) {
	e := newTestEngine()
	answers := map[string]string{}

	steps := []struct {
		step       int
		intent     string
		answer     string
		wantIntent string // next question's intent key
	}{
		{StepIndustries, KeyIndustries, "fintech", KeyLocations},
		{StepLocations, KeyLocations, "United States", KeyRoles},
		{StepRoles, KeyRoles, "founders", KeySelectedPlatforms},
		{StepPlatformSelection, KeySelectedPlatforms, "LinkedIn and Email", "linkedin_actions"},
		{StepPlatformActions, "linkedin_actions", "Send connection request, Send message (after accepted)", "linkedin_template"},
		{StepPlatformActions, "linkedin_template", "Hi {{firstName}}!", "delay_linkedin_email"},
		{StepPlatformActions, "delay_linkedin_email", "2 days", "email_actions"},
		{StepPlatformActions, "email_actions", "send email", KeyCampaignGoal},
		{StepCampaignGoal, KeyCampaignGoal, "Book meetings", KeyCampaignName},
		{StepCampaignName, KeyCampaignName, "Q4 outbound", KeyCampaignDays},
		{StepCampaignSettings, KeyCampaignDays, "30", KeyWorkingDays},
		{StepCampaignSettings, KeyWorkingDays, "Monday to Friday", KeyLeadsPerDay},
	}

	seen := map[string]bool{}
	for _, s := range steps {
		resp := turn(t, e, s.step, s.intent, s.answer, answers)
		if resp.ClarificationNeeded {
			t.Fatalf("unexpected clarification at %s: %s", s.intent, resp.Message)
		}
		if resp.NextQuestion == nil || resp.NextQuestion.IntentKey != s.wantIntent {
			t.Fatalf("after %s expected next intent %q, got %+v", s.intent, s.wantIntent, resp.NextQuestion)
		}
		// Monotonic: every key ever seen stays present.
		for k := range seen {
			if _, ok := resp.Answers[k]; !ok {
				t.Fatalf("key %q disappeared after %s", k, s.intent)
			}
		}
		for k := range resp.Answers {
			seen[k] = true
		}
		answers = resp.Answers
	}

	// Final settings answer renders the confirmation summary.
	resp := turn(t, e, StepCampaignSettings, KeyLeadsPerDay, "25", answers)
	if resp.NextQuestion == nil || resp.NextQuestion.StepIndex != StepConfirmation {
		t.Fatalf("expected confirmation summary, got %+v", resp.NextQuestion)
	}
	if !strings.Contains(resp.NextQuestion.Question, "Q4 Outbound") && !strings.Contains(resp.NextQuestion.Question, "Q4 outbound") {
		t.Errorf("summary should include the campaign name:\n%s", resp.NextQuestion.Question)
	}

	// Confirming terminates.
	resp = turn(t, e, StepConfirmation, KeyConfirmation, "Launch campaign", resp.Answers)
	if !resp.Completed || resp.NextQuestion != nil {
		t.Fatalf("expected completion, got %+v", resp)
	}

	// Template gating held throughout: every completed platform either
	// needs no template or has one stored.
	for _, p := range SplitList(resp.Answers[KeyCompletedPlatformActions]) {
		actions := resp.Answers[p+actionsKeySuffix]
		if NeedsTemplate(p, actions) && strings.TrimSpace(resp.Answers[p+templateKeySuffix]) == "" {
			t.Errorf("platform %q completed without required template", p)
		}
	}
}
