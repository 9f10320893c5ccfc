package wizard

import "strings"

// Platform describes one outreach channel: its display name, the ordered
// action vocabulary, the tag of the template-requirement rule, and the
// prerequisite rules between actions.
type Platform struct {
	Key          string
	DisplayName  string
	Actions      []string
	TemplateRule string
	Dependencies []ActionDependency
}

// ActionDependency declares that Action is only valid while Requires stays
// selected. Evaluated on every action-set mutation.
type ActionDependency struct {
	Action   string
	Requires string
}

// Template rule tags. Rules are named implementations keyed by tag so the
// catalog stays pure data.
const (
	templateRuleCallActions    = "call_actions"
	templateRulePostConnection = "post_connection_message"
	templateRuleFollowUp       = "follow_up"
	templateRuleAnyMessage     = "any_message"
	templateRuleNever          = "never"
)

// templateRules maps a rule tag to its predicate over the comma-joined
// selected-actions text.
var templateRules = map[string]func(actionsText string) bool{
	templateRuleCallActions: func(actionsText string) bool {
		return strings.Contains(strings.ToLower(actionsText), "call")
	},
	templateRulePostConnection: func(actionsText string) bool {
		return strings.Contains(strings.ToLower(actionsText), "message (after")
	},
	templateRuleFollowUp: func(actionsText string) bool {
		return strings.Contains(strings.ToLower(actionsText), "follow-up")
	},
	templateRuleAnyMessage: func(actionsText string) bool {
		return strings.Contains(strings.ToLower(actionsText), "message")
	},
	templateRuleNever: func(string) bool {
		return false
	},
}

// platformCatalog is the static table of supported outreach channels, in
// canonical order.
var platformCatalog = []Platform{
	{
		Key:         "linkedin",
		DisplayName: "LinkedIn",
		Actions: []string{
			"Visit profile",
			"Follow profile",
			"Send connection request",
			"Send message (after connection accepted)",
		},
		TemplateRule: templateRulePostConnection,
		Dependencies: []ActionDependency{
			{Action: "Send message (after connection accepted)", Requires: "Send connection request"},
		},
	},
	{
		Key:         "email",
		DisplayName: "Email",
		Actions: []string{
			"Send email",
			"Send follow-up email",
		},
		TemplateRule: templateRuleFollowUp,
		Dependencies: []ActionDependency{
			{Action: "Send follow-up email", Requires: "Send email"},
		},
	},
	{
		Key:         "whatsapp",
		DisplayName: "WhatsApp",
		Actions: []string{
			"Send message",
			"Send follow-up message",
		},
		TemplateRule: templateRuleAnyMessage,
		Dependencies: []ActionDependency{
			{Action: "Send follow-up message", Requires: "Send message"},
		},
	},
	{
		Key:         "voice",
		DisplayName: "Voice",
		Actions: []string{
			"Make call",
			"Retry call (if no answer)",
			"Leave voicemail",
		},
		TemplateRule: templateRuleCallActions,
		Dependencies: []ActionDependency{
			{Action: "Retry call (if no answer)", Requires: "Make call"},
			{Action: "Leave voicemail", Requires: "Make call"},
		},
	},
}

// platformPatterns maps canonical platform keys to the substring patterns
// used to recognize them in free text. Any string containing "mail" maps to
// email, and so on.
var platformPatterns = map[string][]string{
	"linkedin": {"linked"},
	"email":    {"mail"},
	"whatsapp": {"whats"},
	"voice":    {"voice", "call", "phone"},
}

// PlatformByKey looks up a platform in the catalog.
func PlatformByKey(key string) (Platform, bool) {
	for _, p := range platformCatalog {
		if p.Key == key {
			return p, true
		}
	}
	return Platform{}, false
}

// PlatformDisplayName returns the display name for a canonical key, falling
// back to the key itself for unknown platforms.
func PlatformDisplayName(key string) string {
	if p, ok := PlatformByKey(key); ok {
		return p.DisplayName
	}
	return key
}

// PlatformDisplayNames returns the display names of all supported platforms
// in canonical order.
func PlatformDisplayNames() []string {
	names := make([]string, 0, len(platformCatalog))
	for _, p := range platformCatalog {
		names = append(names, p.DisplayName)
	}
	return names
}
