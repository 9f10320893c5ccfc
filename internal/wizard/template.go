package wizard

import (
	"fmt"

	"github.com/leadpilot/outreachwizard/internal/models"
)

// NeedsTemplate reports whether the platform's selected actions require a
// message template before the platform counts as configured. Delegates to
// the platform's configured rule; unknown platforms never need one.
func NeedsTemplate(platformKey, actionsText string) bool {
	platform, ok := PlatformByKey(platformKey)
	if !ok {
		return false
	}
	rule, ok := templateRules[platform.TemplateRule]
	if !ok {
		return false
	}
	return rule(actionsText)
}

// TemplateQuestion renders the free-text template request for a platform.
// There is no skip option: a required template must be non-empty.
func TemplateQuestion(platformKey, actionsText string) models.Question {
	display := PlatformDisplayName(platformKey)
	return models.Question{
		StepIndex: StepPlatformActions,
		IntentKey: platformKey + templateKeySuffix,
		Title:     fmt.Sprintf("%s message template", display),
		Question: fmt.Sprintf(
			"Your %s actions (%s) need a message template. What should the message say?",
			display, actionsText),
		QuestionType: models.QuestionTypeText,
		HelperText:   "You can use {{firstName}} and {{company}} as placeholders.",
		AllowSkip:    false,
	}
}
