package classify

import (
	"context"
	"strings"
)

// canonicalEntry pairs a standardized value with the keywords that map
// free text onto it.
type canonicalEntry struct {
	Value    string
	Keywords []string
}

// Canonical vocabularies per field. Keyword matching is substring-based and
// case-insensitive.
var canonicalTables = map[Field][]canonicalEntry{
	FieldIndustry: {
		{Value: "Software & SaaS", Keywords: []string{"software", "saas", "tech startup", "it services"}},
		{Value: "Financial Services", Keywords: []string{"finance", "fintech", "bank", "insurance", "investment"}},
		{Value: "Healthcare", Keywords: []string{"health", "medical", "pharma", "biotech", "clinic"}},
		{Value: "E-commerce & Retail", Keywords: []string{"ecommerce", "e commerce", "retail", "shop", "marketplace"}},
		{Value: "Real Estate", Keywords: []string{"real estate", "property", "realty"}},
		{Value: "Marketing & Advertising", Keywords: []string{"marketing", "advertis", "agency", "media"}},
		{Value: "Education", Keywords: []string{"educat", "school", "university", "edtech", "training"}},
		{Value: "Manufacturing", Keywords: []string{"manufactur", "industrial", "factory", "logistics"}},
	},
	FieldLocation: {
		{Value: "United States", Keywords: []string{"united states", "usa", "u.s", "america", "us "}},
		{Value: "United Kingdom", Keywords: []string{"united kingdom", "uk", "britain", "england", "london"}},
		{Value: "Europe", Keywords: []string{"europe", "germany", "france", "netherlands", "spain", "nordics"}},
		{Value: "Canada", Keywords: []string{"canada", "toronto", "vancouver"}},
		{Value: "Australia & New Zealand", Keywords: []string{"australia", "new zealand", "sydney"}},
		{Value: "Asia-Pacific", Keywords: []string{"asia", "apac", "india", "singapore", "japan"}},
	},
	FieldRole: {
		{Value: "Founder / CEO", Keywords: []string{"founder", "ceo", "owner", "entrepreneur"}},
		{Value: "Sales", Keywords: []string{"sales", "sdr", "account executive", "business development"}},
		{Value: "Marketing", Keywords: []string{"marketing", "cmo", "growth", "demand gen"}},
		{Value: "Engineering", Keywords: []string{"engineer", "cto", "developer", "technical"}},
		{Value: "Human Resources", Keywords: []string{"human resources", "hr ", "recruit", "people ops", "talent"}},
		{Value: "Operations", Keywords: []string{"operations", "coo", "ops ", "supply chain"}},
	},
}

// Confidence levels assigned by the local classifier.
const (
	confidenceExact   = 1.0
	confidenceKeyword = 0.6
	confidenceCleaned = 0.25
)

// LocalClassifier standardizes answers against the canonical vocabulary
// without any remote call. It doubles as the remote client's fast path and
// failure fallback.
type LocalClassifier struct{}

// NewLocalClassifier creates a local keyword classifier.
func NewLocalClassifier() *LocalClassifier {
	return &LocalClassifier{}
}

var _ Classifier = (*LocalClassifier)(nil)

// Classify standardizes the input. Comma-separated inputs are classified
// segment by segment; the reported confidence is the weakest segment's.
func (lc *LocalClassifier) Classify(ctx context.Context, field Field, text string) (Result, error) {
	segments := splitSegments(text)
	if len(segments) == 0 {
		return Result{Value: "", Confidence: 0}, nil
	}

	var values []string
	var alternatives []string
	confidence := confidenceExact
	seen := make(map[string]bool)

	for _, segment := range segments {
		r := lc.classifySegment(field, segment)
		if r.Value == "" {
			continue
		}
		if !seen[r.Value] {
			values = append(values, r.Value)
			seen[r.Value] = true
		}
		if r.Confidence < confidence {
			confidence = r.Confidence
		}
		alternatives = append(alternatives, r.Alternatives...)
	}

	if len(values) == 0 {
		return Result{Value: cleanFreeText(text), Confidence: confidenceCleaned}, nil
	}
	return Result{
		Value:        strings.Join(values, ", "),
		Confidence:   confidence,
		Alternatives: alternatives,
	}, nil
}

// FastPath reports whether the input is unambiguous enough to skip the
// remote call: an exact canonical value, or text hitting exactly one
// canonical entry's keywords.
func (lc *LocalClassifier) FastPath(field Field, text string) (Result, bool) {
	segments := splitSegments(text)
	if len(segments) == 0 {
		return Result{}, false
	}
	var values []string
	seen := make(map[string]bool)
	for _, segment := range segments {
		normalized := strings.ToLower(strings.TrimSpace(segment))
		matched := keywordMatches(field, normalized)
		if exact := exactMatch(field, normalized); exact != "" {
			matched = []string{exact}
		}
		if len(matched) != 1 {
			return Result{}, false
		}
		if !seen[matched[0]] {
			values = append(values, matched[0])
			seen[matched[0]] = true
		}
	}
	return Result{Value: strings.Join(values, ", "), Confidence: confidenceExact}, true
}

func (lc *LocalClassifier) classifySegment(field Field, segment string) Result {
	normalized := strings.ToLower(strings.TrimSpace(segment))
	if normalized == "" {
		return Result{}
	}
	if exact := exactMatch(field, normalized); exact != "" {
		return Result{Value: exact, Confidence: confidenceExact}
	}
	matched := keywordMatches(field, normalized)
	if len(matched) > 0 {
		return Result{
			Value:        matched[0],
			Confidence:   confidenceKeyword,
			Alternatives: matched[1:],
		}
	}
	return Result{Value: cleanFreeText(segment), Confidence: confidenceCleaned}
}

// exactMatch returns the canonical value whose name equals the input
// (case-insensitive), or "".
func exactMatch(field Field, normalized string) string {
	for _, entry := range canonicalTables[field] {
		if strings.ToLower(entry.Value) == normalized {
			return entry.Value
		}
	}
	return ""
}

// keywordMatches returns every canonical value with a keyword hit in the
// input, in table order.
func keywordMatches(field Field, normalized string) []string {
	padded := " " + normalized + " "
	var matched []string
	for _, entry := range canonicalTables[field] {
		for _, kw := range entry.Keywords {
			if strings.Contains(padded, kw) {
				matched = append(matched, entry.Value)
				break
			}
		}
	}
	return matched
}

// splitSegments breaks a possibly comma-joined answer into non-empty parts.
func splitSegments(text string) []string {
	var out []string
	for _, s := range strings.Split(text, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// cleanFreeText tidies unrecognized input: trims, collapses whitespace, and
// title-cases words so the stored value at least looks standardized.
func cleanFreeText(text string) string {
	words := strings.Fields(strings.TrimSpace(text))
	for i, w := range words {
		if len(w) > 1 {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		} else {
			words[i] = strings.ToUpper(w)
		}
	}
	return strings.Join(words, " ")
}
