package wizard

import "strings"

// NormalizePlatforms maps free-text or display-name platform mentions to an
// ordered set of canonical platform keys. Order follows first appearance in
// the input, which is the user's selected order for the rest of the flow.
// Unmatched tokens are dropped.
func NormalizePlatforms(text string) []string {
	lowered := strings.ToLower(text)

	type hit struct {
		key string
		pos int
	}
	var hits []hit
	for _, p := range platformCatalog {
		pos := -1
		for _, pattern := range platformPatterns[p.Key] {
			if i := strings.Index(lowered, pattern); i >= 0 && (pos < 0 || i < pos) {
				pos = i
			}
		}
		if pos >= 0 {
			hits = append(hits, hit{key: p.Key, pos: pos})
		}
	}

	// Insertion sort by first appearance; the catalog is tiny.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}

	keys := make([]string, 0, len(hits))
	for _, h := range hits {
		keys = append(keys, h.key)
	}
	return keys
}

// SelectedPlatforms returns the user's selected platforms from the answer
// map, filtered to known canonical keys.
func SelectedPlatforms(answers map[string]string) []string {
	var keys []string
	for _, k := range SplitList(answers[KeySelectedPlatforms]) {
		if _, ok := PlatformByKey(k); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// FindNextPlatform returns the first platform in selected order that is not
// yet completed, or "" when every selected platform is configured. An empty
// selection also yields "": callers must treat that as "re-ask for platform
// selection", not as completion.
func FindNextPlatform(selected, completed []string) string {
	done := make(map[string]bool, len(completed))
	for _, c := range completed {
		done[c] = true
	}
	for _, s := range selected {
		if !done[s] {
			return s
		}
	}
	return ""
}

// AllPlatformsComplete reports whether selected is non-empty and every member
// is completed.
func AllPlatformsComplete(selected, completed []string) bool {
	return len(selected) > 0 && FindNextPlatform(selected, completed) == ""
}

// followingPlatform returns the platform immediately after current in the
// user's selected order, or "" when current is last or not selected.
func followingPlatform(selected []string, current string) string {
	for i, s := range selected {
		if s == current && i+1 < len(selected) {
			return selected[i+1]
		}
	}
	return ""
}

// completedPlatforms reads the completed-platform set from the answer map.
func completedPlatforms(answers map[string]string) []string {
	return SplitList(answers[KeyCompletedPlatformActions])
}

// delayKey builds the answer key for the delay between two consecutive
// platforms.
func delayKey(current, next string) string {
	return delayKeyPrefix + current + "_" + next
}
