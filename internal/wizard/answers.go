package wizard

import "strings"

// listSeparator joins multi-value answers into a single stored string.
const listSeparator = ", "

// SplitList parses a comma-joined answer value into its elements, dropping
// empty entries.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList encodes a list answer as a comma-joined string.
func JoinList(values []string) string {
	return strings.Join(values, listSeparator)
}

// MergeAnswers copies the incoming answer map so the caller's map is never
// mutated. Keys are only ever added or updated, never removed.
func MergeAnswers(answers map[string]string) map[string]string {
	merged := make(map[string]string, len(answers)+4)
	for k, v := range answers {
		merged[k] = v
	}
	return merged
}

// AppendToSet adds member to the de-duplicated sequence stored under key.
// Re-adding an existing member is a no-op.
func AppendToSet(answers map[string]string, key, member string) {
	members := SplitList(answers[key])
	for _, m := range members {
		if m == member {
			return
		}
	}
	answers[key] = JoinList(append(members, member))
}

// SetContains reports whether member is present in the set stored under key.
func SetContains(answers map[string]string, key, member string) bool {
	for _, m := range SplitList(answers[key]) {
		if m == member {
			return true
		}
	}
	return false
}

// setIfAbsent stores value under key only when the key has no answer yet.
func setIfAbsent(answers map[string]string, key, value string) {
	if answers[key] == "" {
		answers[key] = value
	}
}

// answerOr returns the stored answer for key, or fallback when the key is
// absent or blank.
func answerOr(answers map[string]string, key, fallback string) string {
	if v := strings.TrimSpace(answers[key]); v != "" {
		return v
	}
	return fallback
}
