package analysis

import (
	"encoding/json"
	"strings"

	"skillsync-backend/pkg/llm"
)

// Fallback names the default path a parse took. The zero value means the
// reply decoded cleanly.
type Fallback string

const (
	FallbackNone          Fallback = ""
	FallbackEmptyReply    Fallback = "empty_reply"
	FallbackInvalidJSON   Fallback = "invalid_json"
	FallbackNoItems       Fallback = "no_items"
	FallbackUpstreamError Fallback = "upstream_error"
	FallbackLocalKeywords Fallback = "local_keywords"
)

const (
	DefaultSuggestion      = "No suggestion provided."
	DefaultTopic           = "General"
	NoSuggestionsAvailable = "No suggestions available."
	NoAnalysisAvailable    = "No analysis available."
)

// Result carries a decoded value, or the default that replaced it and why.
type Result[T any] struct {
	Value    T
	Fallback Fallback
}

// Degraded reports whether Value is a default rather than decoded output.
func (r Result[T]) Degraded() bool {
	return r.Fallback != FallbackNone
}

// Comparison is the decoded skill comparison.
type Comparison struct {
	Matching []string
	Missing  []string
	JobTitle string
}

// Suggestion is one decoded improvement item before resource links are attached.
type Suggestion struct {
	Suggestion string
	Topic      string
}

// ParseSkillList decodes a JSON array of skill names. Anything else yields an
// empty list.
func ParseSkillList(text string) Result[[]string] {
	if isEmptyReply(text) {
		return SkillListFallback(FallbackEmptyReply)
	}
	var skills []string
	if err := decodeLenient(text, '[', ']', &skills); err != nil {
		return SkillListFallback(FallbackInvalidJSON)
	}
	return Result[[]string]{Value: NormalizeSkills(skills)}
}

// SkillListFallback is the empty skill list.
func SkillListFallback(reason Fallback) Result[[]string] {
	return Result[[]string]{Value: []string{}, Fallback: reason}
}

// ParseComparison decodes {"matching","missing","jobTitle"}. Each field is
// defaulted on its own; if the object itself cannot be decoded nothing is
// assumed to match and every job skill is reported missing.
func ParseComparison(text string, jobSkills []string) Result[Comparison] {
	if isEmptyReply(text) {
		return ComparisonFallback(jobSkills, FallbackEmptyReply)
	}
	var fields map[string]json.RawMessage
	if err := decodeLenient(text, '{', '}', &fields); err != nil || fields == nil {
		return ComparisonFallback(jobSkills, FallbackInvalidJSON)
	}

	cmp := Comparison{Matching: []string{}, Missing: []string{}}
	var list []string
	if raw, ok := fields["matching"]; ok && json.Unmarshal(raw, &list) == nil {
		cmp.Matching = NormalizeSkills(list)
	}
	list = nil
	if raw, ok := fields["missing"]; ok && json.Unmarshal(raw, &list) == nil {
		cmp.Missing = NormalizeSkills(list)
	}
	var title string
	if raw, ok := fields["jobTitle"]; ok && json.Unmarshal(raw, &title) == nil {
		cmp.JobTitle = strings.TrimSpace(title)
	}
	return Result[Comparison]{Value: cmp}
}

// ComparisonFallback assumes nothing matched.
func ComparisonFallback(jobSkills []string, reason Fallback) Result[Comparison] {
	missing := make([]string, len(jobSkills))
	copy(missing, jobSkills)
	return Result[Comparison]{
		Value:    Comparison{Matching: []string{}, Missing: missing},
		Fallback: reason,
	}
}

// ParseImprovements decodes a JSON array of {"suggestion","topic"} objects,
// keeping at most ImprovementCount items. It never returns an empty list.
func ParseImprovements(text string) Result[[]Suggestion] {
	if isEmptyReply(text) {
		return ImprovementsFallback(FallbackEmptyReply)
	}
	var items []json.RawMessage
	if err := decodeLenient(text, '[', ']', &items); err != nil {
		return ImprovementsFallback(FallbackInvalidJSON)
	}
	if len(items) == 0 {
		return ImprovementsFallback(FallbackNoItems)
	}
	if len(items) > ImprovementCount {
		items = items[:ImprovementCount]
	}

	out := make([]Suggestion, 0, len(items))
	for _, raw := range items {
		out = append(out, decodeSuggestion(raw))
	}
	return Result[[]Suggestion]{Value: out}
}

// ImprovementsFallback is the single placeholder item.
func ImprovementsFallback(reason Fallback) Result[[]Suggestion] {
	return Result[[]Suggestion]{
		Value:    []Suggestion{{Suggestion: NoSuggestionsAvailable, Topic: DefaultTopic}},
		Fallback: reason,
	}
}

// ParseFeedback trims the free-text assessment.
func ParseFeedback(text string) Result[string] {
	if isEmptyReply(text) {
		return FeedbackFallback(FallbackEmptyReply)
	}
	return Result[string]{Value: strings.TrimSpace(stripFences(text))}
}

// FeedbackFallback is the placeholder assessment.
func FeedbackFallback(reason Fallback) Result[string] {
	return Result[string]{Value: NoAnalysisAvailable, Fallback: reason}
}

// NormalizeSkills trims names, drops blanks and removes case-insensitive
// duplicates, keeping the first spelling seen.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func decodeSuggestion(raw json.RawMessage) Suggestion {
	s := Suggestion{Suggestion: DefaultSuggestion, Topic: DefaultTopic}

	var plain string
	if json.Unmarshal(raw, &plain) == nil {
		if plain = strings.TrimSpace(plain); plain != "" {
			s.Suggestion = plain
		}
		return s
	}

	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) != nil {
		return s
	}
	if v := stringField(fields, "suggestion"); v != "" {
		s.Suggestion = v
	}
	if v := stringField(fields, "topic"); v != "" {
		s.Topic = v
	}
	return s
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var v string
	if json.Unmarshal(raw, &v) != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

func isEmptyReply(text string) bool {
	t := strings.TrimSpace(text)
	return t == "" || t == llm.NoResponse
}

// stripFences removes markdown code fences from model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// drop the info string, e.g. ```json
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "[{") {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "json")
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// decodeLenient decodes text into v, retrying on the outermost open..close
// span when the model wrapped its JSON in prose.
func decodeLenient(text string, open, close byte, v any) error {
	cleaned := stripFences(text)
	err := json.Unmarshal([]byte(cleaned), v)
	if err == nil {
		return nil
	}
	start := strings.IndexByte(cleaned, open)
	end := strings.LastIndexByte(cleaned, close)
	if start < 0 || end <= start {
		return err
	}
	return json.Unmarshal([]byte(cleaned[start:end+1]), v)
}
