package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leadpilot/outreachwizard/internal/classify"
	"github.com/leadpilot/outreachwizard/internal/models"
)

// Engine is the onboarding step engine. It holds only static configuration
// and the text-classifier collaborator; all flow state lives in the answer
// map the caller supplies each turn.
type Engine struct {
	classifier classify.Classifier
}

// NewEngine creates a step engine. A nil classifier falls back to the local
// keyword classifier so the flow always progresses.
func NewEngine(classifier classify.Classifier) *Engine {
	if classifier == nil {
		classifier = classify.NewLocalClassifier()
	}
	return &Engine{classifier: classifier}
}

// classifierFields maps the free-text steps consulted with the text
// classifier to their field tag.
var classifierFields = map[int]classify.Field{
	StepIndustries: classify.FieldIndustry,
	StepLocations:  classify.FieldLocation,
	StepRoles:      classify.FieldRole,
}

// ProcessTurn consumes one submitted answer plus the full collected-answers
// map and returns the next question, a clarification re-ask, or completion.
// Transitions are evaluated in strict priority order: template answer, delay
// answer, platform actions, campaign settings, confirmation, default.
//
// Nothing in here is fatal: every branch either advances the flow or re-asks
// the current question.
func (e *Engine) ProcessTurn(ctx context.Context, req models.TurnRequest) models.TurnResponse {
	answers := MergeAnswers(req.Answers)
	intent := strings.TrimSpace(req.IntentKey)
	slog.Debug("Engine.ProcessTurn: turn received", "step", req.StepIndex, "intent", intent, "answers", len(answers))

	switch {
	case strings.HasSuffix(intent, templateKeySuffix):
		return e.handleTemplateTurn(intent, req.UserAnswer, answers)
	case strings.HasPrefix(intent, delayKeyPrefix):
		return e.handleDelayTurn(intent, req.UserAnswer, answers)
	case strings.HasSuffix(intent, actionsKeySuffix) || req.StepIndex == StepPlatformActions:
		return e.handleActionsTurn(intent, req.UserAnswer, answers)
	case req.StepIndex == StepCampaignSettings:
		return e.handleSettingsTurn(intent, req.UserAnswer, answers)
	case req.StepIndex == StepConfirmation:
		return e.handleConfirmationTurn(req.UserAnswer, answers)
	default:
		return e.handleDefaultTurn(ctx, req.StepIndex, req.UserAnswer, answers)
	}
}

// clarify re-asks a question without advancing the step or touching the
// completion sets. The (possibly classifier-corrected) answer map still
// rides along.
func clarify(message string, question models.Question, answers map[string]string) models.TurnResponse {
	return models.TurnResponse{
		ClarificationNeeded: true,
		Message:             message,
		NextStepIndex:       question.StepIndex,
		NextQuestion:        &question,
		Answers:             answers,
	}
}

// ask returns the next question as a normal (non-clarification) transition.
func ask(question models.Question, answers map[string]string) models.TurnResponse {
	return models.TurnResponse{
		NextStepIndex: question.StepIndex,
		NextQuestion:  &question,
		Answers:       answers,
	}
}

// handleTemplateTurn stores a platform's message template and moves to the
// inter-platform delay, the next platform, or the campaign goal.
func (e *Engine) handleTemplateTurn(intent, userAnswer string, answers map[string]string) models.TurnResponse {
	platformKey := strings.TrimSuffix(intent, templateKeySuffix)
	selected := SelectedPlatforms(answers)

	if _, ok := PlatformByKey(platformKey); !ok || !containsKey(selected, platformKey) {
		slog.Warn("Engine.handleTemplateTurn: template for unselected platform", "platform", platformKey)
		return clarify("Let's pick up where we left off.", QuestionForStep(StepPlatformActions, answers), answers)
	}

	template := strings.TrimSpace(userAnswer)
	if template == "" {
		actionsText := answers[platformKey+actionsKeySuffix]
		return clarify(
			fmt.Sprintf("A message template is required for %s. Please write one.", PlatformDisplayName(platformKey)),
			TemplateQuestion(platformKey, actionsText),
			answers)
	}

	answers[intent] = template
	AppendToSet(answers, KeyCompletedPlatformActions, platformKey)
	slog.Debug("Engine.handleTemplateTurn: template stored", "platform", platformKey)
	return e.advanceAfterPlatform(platformKey, answers)
}

// handleDelayTurn stores the delay between two consecutive platforms and
// moves to the next unconfigured platform or the campaign goal.
func (e *Engine) handleDelayTurn(intent, userAnswer string, answers map[string]string) models.TurnResponse {
	pair := strings.SplitN(strings.TrimPrefix(intent, delayKeyPrefix), "_", 2)
	if len(pair) != 2 {
		return clarify("Let's pick up where we left off.", QuestionForStep(StepPlatformActions, answers), answers)
	}
	current, next := pair[0], pair[1]

	delay := strings.TrimSpace(userAnswer)
	if delay == "" {
		return clarify(
			fmt.Sprintf("Please choose a delay: %s.", strings.Join(DelayOptions, ", ")),
			DelayQuestion(current, next),
			answers)
	}

	answers[intent] = delay
	AppendToSet(answers, KeyCompletedDelayPlatforms, current)
	slog.Debug("Engine.handleDelayTurn: delay stored", "from", current, "to", next, "delay", delay)

	if p := FindNextPlatform(SelectedPlatforms(answers), completedPlatforms(answers)); p != "" {
		return ask(ActionQuestion(p, answers), answers)
	}
	return e.finishPlatformLoop(answers)
}

// handleActionsTurn matches the submitted action selection for a platform,
// removes actions with missing prerequisites, and either asks for a
// template or completes the platform.
func (e *Engine) handleActionsTurn(intent, userAnswer string, answers map[string]string) models.TurnResponse {
	selected := SelectedPlatforms(answers)

	// The supplied intent key is authoritative; fall back to the platform
	// the engine would currently ask about.
	platformKey := strings.TrimSuffix(intent, actionsKeySuffix)
	if _, ok := PlatformByKey(platformKey); !ok {
		platformKey = FindNextPlatform(selected, completedPlatforms(answers))
	}

	platform, known := PlatformByKey(platformKey)
	if !known || !containsKey(selected, platformKey) {
		slog.Warn("Engine.handleActionsTurn: actions for unselected platform", "platform", platformKey)
		return clarify("That platform isn't part of this campaign.", QuestionForStep(StepPlatformActions, answers), answers)
	}

	matched := MatchActions(platformKey, userAnswer)
	if len(matched) == 0 {
		return clarify(
			fmt.Sprintf("I didn't recognize any %s actions. You can choose from: %s.",
				platform.DisplayName, JoinList(platform.Actions)),
			ActionQuestion(platformKey, answers),
			answers)
	}

	cleaned := AutoRemoveDependentActions(platformKey, matched)
	if len(cleaned) == 0 {
		return clarify(
			fmt.Sprintf("Those %s actions need their prerequisite selected too. You can choose from: %s.",
				platform.DisplayName, JoinList(platform.Actions)),
			ActionQuestion(platformKey, answers),
			answers)
	}

	actionsText := JoinList(cleaned)
	answers[platformKey+actionsKeySuffix] = actionsText
	slog.Debug("Engine.handleActionsTurn: actions stored", "platform", platformKey, "actions", actionsText, "dropped", len(matched)-len(cleaned))

	if NeedsTemplate(platformKey, actionsText) {
		return ask(TemplateQuestion(platformKey, actionsText), answers)
	}

	AppendToSet(answers, KeyCompletedPlatformActions, platformKey)
	return e.advanceAfterPlatform(platformKey, answers)
}

// advanceAfterPlatform runs the "what's next" logic once a platform is fully
// configured: the delay to the immediately following platform (if not yet
// recorded), then the next unconfigured platform, then the campaign goal.
func (e *Engine) advanceAfterPlatform(current string, answers map[string]string) models.TurnResponse {
	selected := SelectedPlatforms(answers)

	if next := followingPlatform(selected, current); next != "" && answers[delayKey(current, next)] == "" {
		return ask(DelayQuestion(current, next), answers)
	}
	if p := FindNextPlatform(selected, completedPlatforms(answers)); p != "" {
		return ask(ActionQuestion(p, answers), answers)
	}
	return e.finishPlatformLoop(answers)
}

// finishPlatformLoop stamps the legacy workflow keys and advances directly
// to the campaign goal. The standalone workflow-conditions step is never
// surfaced.
func (e *Engine) finishPlatformLoop(answers map[string]string) models.TurnResponse {
	stampLegacyDefaults(answers)
	slog.Debug("Engine.finishPlatformLoop: all platforms configured")
	return ask(QuestionForStep(StepCampaignGoal, answers), answers)
}

// handleSettingsTurn stores one campaign-settings sub-field and recomputes
// which field is still missing, in fixed order.
func (e *Engine) handleSettingsTurn(intent, userAnswer string, answers map[string]string) models.TurnResponse {
	key := intent
	if key != KeyCampaignDays && key != KeyWorkingDays && key != KeyLeadsPerDay {
		key = NextMissingSetting(answers)
		if key == "" {
			return ask(SummaryQuestion(answers), answers)
		}
	}

	value := strings.TrimSpace(userAnswer)
	if value == "" {
		return clarify("Please provide a value.", QuestionForStep(StepCampaignSettings, answers), answers)
	}

	answers[key] = value
	slog.Debug("Engine.handleSettingsTurn: setting stored", "key", key)

	if NextMissingSetting(answers) != "" {
		return ask(QuestionForStep(StepCampaignSettings, answers), answers)
	}
	return ask(SummaryQuestion(answers), answers)
}

// handleConfirmationTurn is the only terminal transition: any answer marks
// the conversation complete and returns no further question.
func (e *Engine) handleConfirmationTurn(userAnswer string, answers map[string]string) models.TurnResponse {
	answer := strings.TrimSpace(userAnswer)
	if answer == "" {
		answer = "confirmed"
	}
	answers[KeyConfirmation] = answer
	slog.Info("Engine.handleConfirmationTurn: onboarding complete")
	return models.TurnResponse{
		Completed: true,
		Answers:   answers,
	}
}

// handleDefaultTurn stores the answer for a static step and advances the
// step index by one, intercepting the legacy workflow steps.
func (e *Engine) handleDefaultTurn(ctx context.Context, stepIndex int, userAnswer string, answers map[string]string) models.TurnResponse {
	step, ok := StepByIndex(stepIndex)
	if !ok {
		return clarify("Let's start from the beginning.", QuestionForStep(StepIndustries, answers), answers)
	}

	answer := strings.TrimSpace(userAnswer)
	skipped := step.AllowSkip && (answer == "" || strings.EqualFold(answer, "skip"))

	switch {
	case skipped:
		answers[step.IntentKey] = AnswerSkipped
	case answer == "":
		return clarify("Please provide an answer.", QuestionForStep(stepIndex, answers), answers)
	case stepIndex == StepPlatformSelection:
		keys := NormalizePlatforms(answer)
		if len(keys) == 0 {
			return clarify(
				fmt.Sprintf("I didn't recognize any platforms. Supported platforms are: %s.",
					JoinList(PlatformDisplayNames())),
				QuestionForStep(StepPlatformSelection, answers),
				answers)
		}
		answers[KeySelectedPlatforms] = JoinList(keys)
	default:
		value := answer
		if field, classified := classifierFields[stepIndex]; classified {
			value = e.classifyAnswer(ctx, field, answer)
		}
		answers[step.IntentKey] = value
	}

	next := stepIndex + 1
	if next == StepWorkflowDelays || next == StepWorkflowConditions {
		stampLegacyDefaults(answers)
		next = StepCampaignGoal
	}
	return ask(QuestionForStep(next, answers), answers)
}

// classifyAnswer consults the text classifier and falls back to the raw
// answer; classification failure is never fatal.
func (e *Engine) classifyAnswer(ctx context.Context, field classify.Field, answer string) string {
	result, err := e.classifier.Classify(ctx, field, answer)
	if err != nil {
		slog.Warn("Engine.classifyAnswer: classification failed, keeping raw answer", "field", field, "error", err)
		return answer
	}
	if strings.TrimSpace(result.Value) == "" {
		return answer
	}
	slog.Debug("Engine.classifyAnswer: answer standardized", "field", field, "value", result.Value, "confidence", result.Confidence)
	return result.Value
}

// stampLegacyDefaults records sentinel values for the legacy workflow steps
// so they are derivable as "done" without ever being asked.
func stampLegacyDefaults(answers map[string]string) {
	setIfAbsent(answers, KeyWorkflowDelays, WorkflowDelaysDefault)
	setIfAbsent(answers, KeyWorkflowConditions, WorkflowConditionsDefault)
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
