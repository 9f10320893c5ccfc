package wizard

import (
	"fmt"
	"strings"

	"github.com/leadpilot/outreachwizard/internal/models"
)

// QuestionForStep renders the question for a step given the current answer
// map. It is a pure function: dynamic steps resolve their sub-state from the
// answers on every call.
func QuestionForStep(stepIndex int, answers map[string]string) models.Question {
	step, ok := StepByIndex(stepIndex)
	if !ok || step.Legacy {
		// Legacy and unknown positions are never asked; fall through to
		// the campaign goal, which is where the flow resumes.
		return QuestionForStep(StepCampaignGoal, answers)
	}

	switch stepIndex {
	case StepPlatformActions:
		return platformActionsQuestion(answers)
	case StepCampaignSettings:
		return settingsQuestion(answers)
	case StepConfirmation:
		return SummaryQuestion(answers)
	default:
		return staticQuestion(step, answers)
	}
}

// staticQuestion renders a catalog step with light string substitution.
func staticQuestion(step Step, answers map[string]string) models.Question {
	q := models.Question{
		StepIndex:    step.Index,
		IntentKey:    step.IntentKey,
		Title:        step.Title,
		Question:     step.Prompt,
		QuestionType: step.QuestionType,
		HelperText:   step.HelperText,
		AllowSkip:    step.AllowSkip,
	}
	if len(step.Options) > 0 {
		q.Options = append([]string(nil), step.Options...)
	}
	if step.Index == StepPlatformSelection {
		q.Options = PlatformDisplayNames()
	}
	if q.HelperText == "" {
		q.HelperText = fmt.Sprintf("Step %d of %d", step.Index, models.MaxStepIndex)
	}
	return q
}

// platformActionsQuestion renders the action question for the next platform
// that still needs configuration. If nothing is selected yet the platform
// selection step is re-asked; if every platform is configured the flow has
// moved past step 5 and the campaign goal renders instead.
func platformActionsQuestion(answers map[string]string) models.Question {
	selected := SelectedPlatforms(answers)
	if len(selected) == 0 {
		return QuestionForStep(StepPlatformSelection, answers)
	}
	key := FindNextPlatform(selected, completedPlatforms(answers))
	if key == "" {
		return QuestionForStep(StepCampaignGoal, answers)
	}
	return ActionQuestion(key, answers)
}

// ActionQuestion renders the multi-select action question for one platform.
// Previously stored selections are pre-applied; with no stored answer every
// allowed action starts selected and the user deselects.
func ActionQuestion(platformKey string, answers map[string]string) models.Question {
	platform, _ := PlatformByKey(platformKey)
	selected := SplitList(answers[platformKey+actionsKeySuffix])
	if len(selected) == 0 {
		selected = append([]string(nil), platform.Actions...)
	}
	return models.Question{
		StepIndex:    StepPlatformActions,
		IntentKey:    platformKey + actionsKeySuffix,
		Title:        fmt.Sprintf("%s actions", platform.DisplayName),
		Question:     fmt.Sprintf("Which actions should we run on %s?", platform.DisplayName),
		QuestionType: models.QuestionTypeMultiSelect,
		Options:      append([]string(nil), platform.Actions...),
		Selected:     selected,
		HelperText:   "All actions are pre-selected. Deselect any you don't want.",
		AllowSkip:    false,
	}
}

// DelayQuestion renders the fixed-choice delay question between two
// consecutive platforms.
func DelayQuestion(current, next string) models.Question {
	return models.Question{
		StepIndex: StepPlatformActions,
		IntentKey: delayKey(current, next),
		Title:     "Timing between platforms",
		Question: fmt.Sprintf(
			"How long should we wait after finishing %s before starting %s?",
			PlatformDisplayName(current), PlatformDisplayName(next)),
		QuestionType: models.QuestionTypeSelect,
		Options:      append([]string(nil), DelayOptions...),
		AllowSkip:    false,
	}
}

// settingsQuestion renders exactly the sub-question for the first missing
// campaign-settings field. When all three are present the confirmation step
// renders directly.
func settingsQuestion(answers map[string]string) models.Question {
	switch NextMissingSetting(answers) {
	case KeyCampaignDays:
		return models.Question{
			StepIndex:    StepCampaignSettings,
			IntentKey:    KeyCampaignDays,
			Title:        "Campaign length",
			Question:     "How many days should the campaign run?",
			QuestionType: models.QuestionTypeText,
			HelperText:   "A number of days, for example 30.",
		}
	case KeyWorkingDays:
		return models.Question{
			StepIndex:    StepCampaignSettings,
			IntentKey:    KeyWorkingDays,
			Title:        "Working days",
			Question:     "On which days should outreach go out?",
			QuestionType: models.QuestionTypeSelect,
			Options: []string{
				"Monday to Friday",
				"Every day",
				"Weekends only",
				"Custom",
			},
		}
	case KeyLeadsPerDay:
		return models.Question{
			StepIndex:    StepCampaignSettings,
			IntentKey:    KeyLeadsPerDay,
			Title:        "Daily volume",
			Question:     "How many new leads should we contact per day?",
			QuestionType: models.QuestionTypeText,
			HelperText:   "A number like 25 works well to start.",
		}
	default:
		return SummaryQuestion(answers)
	}
}

// SummaryQuestion assembles the human-readable confirmation summary. Every
// answer key is read defensively: absent keys render as "Not specified" or
// "Any" instead of failing.
func SummaryQuestion(answers map[string]string) models.Question {
	var b strings.Builder
	b.WriteString("Here is your campaign setup:\n\n")

	fmt.Fprintf(&b, "Industries: %s\n", answerOr(answers, KeyIndustries, "Not specified"))
	fmt.Fprintf(&b, "Locations: %s\n", answerOr(answers, KeyLocations, "Any"))
	fmt.Fprintf(&b, "Roles: %s\n", answerOr(answers, KeyRoles, "Any"))

	selected := SelectedPlatforms(answers)
	if len(selected) == 0 {
		b.WriteString("Platforms: Not specified\n")
	} else {
		names := make([]string, 0, len(selected))
		for _, key := range selected {
			names = append(names, PlatformDisplayName(key))
		}
		fmt.Fprintf(&b, "Platforms: %s\n", strings.Join(names, ", "))
		for _, key := range selected {
			actions := answerOr(answers, key+actionsKeySuffix, "Not configured")
			fmt.Fprintf(&b, "  %s: %s", PlatformDisplayName(key), actions)
			if strings.TrimSpace(answers[key+templateKeySuffix]) != "" {
				b.WriteString(" (template ready)")
			}
			b.WriteString("\n")
		}
		for i := 0; i+1 < len(selected); i++ {
			if delay := strings.TrimSpace(answers[delayKey(selected[i], selected[i+1])]); delay != "" {
				fmt.Fprintf(&b, "  Delay from %s to %s: %s\n",
					PlatformDisplayName(selected[i]), PlatformDisplayName(selected[i+1]), delay)
			}
		}
	}

	fmt.Fprintf(&b, "Goal: %s\n", answerOr(answers, KeyCampaignGoal, "Not specified"))
	fmt.Fprintf(&b, "Name: %s\n", answerOr(answers, KeyCampaignName, "Untitled campaign"))
	if days := strings.TrimSpace(answers[KeyCampaignDays]); days != "" {
		fmt.Fprintf(&b, "Run length: %s days\n", days)
	} else {
		b.WriteString("Run length: Not specified\n")
	}
	fmt.Fprintf(&b, "Working days: %s\n", answerOr(answers, KeyWorkingDays, "Any"))
	fmt.Fprintf(&b, "Leads per day: %s\n", answerOr(answers, KeyLeadsPerDay, "Not specified"))

	b.WriteString("\nReady to launch?")

	return models.Question{
		StepIndex:    StepConfirmation,
		IntentKey:    KeyConfirmation,
		Title:        "Review your campaign",
		Question:     b.String(),
		QuestionType: models.QuestionTypeConfirmation,
		Options:      []string{"Launch campaign"},
		AllowSkip:    false,
	}
}
