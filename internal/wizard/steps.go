package wizard

import "github.com/leadpilot/outreachwizard/internal/models"

// Step indexes for the top-level onboarding sequence.
const (
	StepIndustries         = 1
	StepLocations          = 2
	StepRoles              = 3
	StepPlatformSelection  = 4
	StepPlatformActions    = 5
	StepWorkflowDelays     = 6 // legacy, never surfaced
	StepWorkflowConditions = 7 // legacy, never surfaced
	StepCampaignGoal       = 8
	StepCampaignName       = 9
	StepCampaignSettings   = 10
	StepConfirmation       = 11
)

// Step is one entry of the canonical step catalog.
type Step struct {
	Index        int
	IntentKey    string
	Title        string
	Prompt       string
	QuestionType models.QuestionType
	Options      []string
	HelperText   string
	AllowSkip    bool
	// Dynamic steps fan out into sub-questions computed from the answer
	// map and render through their own generators.
	Dynamic bool
	// Legacy steps are defaulted and skipped, never asked.
	Legacy bool
}

// stepCatalog is the canonical ordering of the onboarding steps.
var stepCatalog = []Step{
	{
		Index:        StepIndustries,
		IntentKey:    KeyIndustries,
		Title:        "Target industries",
		Prompt:       "Which industries should this campaign target?",
		QuestionType: models.QuestionTypeText,
		HelperText:   "For example: SaaS, fintech, healthcare. Separate multiple industries with commas.",
	},
	{
		Index:        StepLocations,
		IntentKey:    KeyLocations,
		Title:        "Target locations",
		Prompt:       "Where are your ideal customers located?",
		QuestionType: models.QuestionTypeText,
		HelperText:   "Countries, regions, or cities. Say \"skip\" to target everywhere.",
		AllowSkip:    true,
	},
	{
		Index:        StepRoles,
		IntentKey:    KeyRoles,
		Title:        "Target roles",
		Prompt:       "Which job titles or roles should we reach out to?",
		QuestionType: models.QuestionTypeText,
		HelperText:   "For example: founders, heads of sales. Say \"skip\" to target any role.",
		AllowSkip:    true,
	},
	{
		Index:        StepPlatformSelection,
		IntentKey:    KeySelectedPlatforms,
		Title:        "Outreach platforms",
		Prompt:       "Which platforms should this campaign use?",
		QuestionType: models.QuestionTypeMultiSelect,
	},
	{
		Index:     StepPlatformActions,
		IntentKey: "platform_actions",
		Title:     "Platform actions",
		Dynamic:   true,
	},
	{
		Index:     StepWorkflowDelays,
		IntentKey: KeyWorkflowDelays,
		Legacy:    true,
	},
	{
		Index:     StepWorkflowConditions,
		IntentKey: KeyWorkflowConditions,
		Legacy:    true,
	},
	{
		Index:        StepCampaignGoal,
		IntentKey:    KeyCampaignGoal,
		Title:        "Campaign goal",
		Prompt:       "What is the main goal of this campaign?",
		QuestionType: models.QuestionTypeSelect,
		Options: []string{
			"Book meetings",
			"Start conversations",
			"Drive signups",
			"Promote an event",
		},
	},
	{
		Index:        StepCampaignName,
		IntentKey:    KeyCampaignName,
		Title:        "Campaign name",
		Prompt:       "What should we call this campaign?",
		QuestionType: models.QuestionTypeText,
	},
	{
		Index:     StepCampaignSettings,
		IntentKey: "campaign_settings",
		Title:     "Campaign settings",
		Dynamic:   true,
	},
	{
		Index:     StepConfirmation,
		IntentKey: KeyConfirmation,
		Title:     "Review your campaign",
		Dynamic:   true,
	},
}

// StepByIndex returns the catalog entry for a step index.
func StepByIndex(index int) (Step, bool) {
	for _, s := range stepCatalog {
		if s.Index == index {
			return s, true
		}
	}
	return Step{}, false
}

// settingsOrder is the fixed resolution order of the campaign-settings
// sub-fields.
var settingsOrder = []string{KeyCampaignDays, KeyWorkingDays, KeyLeadsPerDay}

// NextMissingSetting returns the first campaign-settings key without an
// answer, or "" when all three are present. Recomputed from the answer map
// every turn; the sub-step is never stored.
func NextMissingSetting(answers map[string]string) string {
	for _, key := range settingsOrder {
		if answers[key] == "" {
			return key
		}
	}
	return ""
}

// DelayOptions is the fixed choice list for inter-platform delay questions.
var DelayOptions = []string{
	"No delay",
	"1 day",
	"2 days",
	"3 days",
	"1 week",
	"Custom",
}
