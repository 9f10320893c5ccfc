package wizard

import "strings"

// stopWords are ignored when extracting the significant words of an action
// label. Single-character tokens are always ignored.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"to": true, "of": true, "and": true, "or": true,
	"if": true, "no": true, "after": true,
}

// MatchActions fuzzy-matches free-text or choice input against a platform's
// allowed-action vocabulary. An action matches if its normalized label is a
// substring of the normalized input, or if every significant word of the
// label appears as a substring or superstring of some input word. Returns
// nil when nothing matches; callers must treat that as "need clarification".
func MatchActions(platformKey, freeText string) []string {
	platform, ok := PlatformByKey(platformKey)
	if !ok {
		return nil
	}

	input := normalizeText(freeText)
	if input == "" {
		return nil
	}
	inputWords := strings.Fields(input)

	var matched []string
	for _, label := range platform.Actions {
		normalized := normalizeText(label)
		if strings.Contains(input, normalized) {
			matched = append(matched, label)
			continue
		}
		if wordsCovered(significantWords(normalized), inputWords) {
			matched = append(matched, label)
		}
	}
	return matched
}

// AutoRemoveDependentActions drops actions whose declared prerequisite is
// not also selected. Removal runs to a fixpoint so chained prerequisites
// collapse, which also makes the operation idempotent: re-applying to an
// already-cleaned list is a no-op.
func AutoRemoveDependentActions(platformKey string, actions []string) []string {
	platform, ok := PlatformByKey(platformKey)
	if !ok {
		return actions
	}

	cleaned := append([]string(nil), actions...)
	for {
		present := make(map[string]bool, len(cleaned))
		for _, a := range cleaned {
			present[a] = true
		}

		removed := false
		kept := cleaned[:0]
		for _, a := range cleaned {
			drop := false
			for _, dep := range platform.Dependencies {
				if dep.Action == a && !present[dep.Requires] {
					drop = true
					break
				}
			}
			if drop {
				removed = true
				continue
			}
			kept = append(kept, a)
		}
		cleaned = kept
		if !removed {
			return cleaned
		}
	}
}

// normalizeText lowercases the input, strips punctuation, and collapses
// whitespace so labels and free text compare on words alone.
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// significantWords filters a normalized label down to the words that carry
// meaning: longer than one character and not on the stop list.
func significantWords(normalized string) []string {
	var words []string
	for _, w := range strings.Fields(normalized) {
		if len(w) > 1 && !stopWords[w] {
			words = append(words, w)
		}
	}
	return words
}

// wordsCovered reports whether every label word appears as a substring or
// superstring of some input word. Labels with no significant words never
// match.
func wordsCovered(labelWords, inputWords []string) bool {
	if len(labelWords) == 0 {
		return false
	}
	for _, lw := range labelWords {
		found := false
		for _, iw := range inputWords {
			if strings.Contains(iw, lw) || (len(iw) > 1 && strings.Contains(lw, iw)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
