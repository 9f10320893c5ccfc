// Package wizard implements the onboarding step engine: the state-transition
// logic that walks a user through the 11-step campaign setup conversation.
//
// The engine is stateless between invocations. Every turn is a pure function
// of the submitted answer, the step/intent identifiers, and the full
// collected-answers map; all state needed for the next turn is returned as
// part of the merged answer map. Dynamic positions inside the platform-actions
// and campaign-settings steps are recomputed from the answer map on every
// turn and are never carried as separate mutable state.
package wizard

// Intent keys for the fixed steps and the bookkeeping sets. Per-platform keys
// ("{platform}_actions", "{platform}_template") and inter-platform delay keys
// ("delay_{a}_{b}") are derived at runtime.
const (
	KeyIndustries         = "icp_industries"
	KeyLocations          = "icp_locations"
	KeyRoles              = "icp_roles"
	KeySelectedPlatforms  = "selected_platforms"
	KeyWorkflowDelays     = "workflow_delays"
	KeyWorkflowConditions = "workflow_conditions"
	KeyCampaignGoal       = "campaign_goal"
	KeyCampaignName       = "campaign_name"
	KeyCampaignDays       = "campaign_days"
	KeyWorkingDays        = "working_days"
	KeyLeadsPerDay        = "leads_per_day"
	KeyConfirmation       = "confirmation"

	// KeyCompletedPlatformActions is the set of platforms whose actions
	// (and template, when required) are fully configured.
	KeyCompletedPlatformActions = "completed_platform_actions"
	// KeyCompletedDelayPlatforms is the set of platforms whose outgoing
	// inter-platform delay has been answered.
	KeyCompletedDelayPlatforms = "completed_delay_platforms"
)

// Sentinel values stamped into the legacy workflow keys when the platform
// configuration loop finishes. The standalone workflow steps are never
// surfaced to the user.
const (
	WorkflowDelaysDefault     = "platform_sequence"
	WorkflowConditionsDefault = "none"
)

// AnswerSkipped is stored when the user skips a skippable step, keeping the
// answer map monotonic.
const AnswerSkipped = "Any"

const (
	actionsKeySuffix  = "_actions"
	templateKeySuffix = "_template"
	delayKeyPrefix    = "delay_"
)
