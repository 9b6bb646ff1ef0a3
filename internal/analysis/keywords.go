package analysis

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultKeywordLimit is how many keywords ExtractKeywords returns by default.
const DefaultKeywordLimit = 8

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "a": {}, "an": {}, "to": {}, "of": {}, "in": {}, "on": {},
	"for": {}, "with": {}, "is": {}, "are": {}, "was": {}, "were": {}, "by": {}, "as": {},
	"that": {}, "this": {}, "it": {}, "be": {}, "or": {}, "from": {}, "at": {}, "which": {},
	"you": {}, "your": {}, "our": {}, "will": {}, "have": {}, "has": {}, "who": {}, "all": {},
}

// ExtractKeywords ranks the words of text by frequency, ties broken by first
// appearance. Stop words and tokens of two characters or fewer are skipped.
// It stands in for model skill extraction when the completion call fails.
func ExtractKeywords(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultKeywordLimit
	}

	tokens := strings.FieldsFunc(text, isSeparator)

	type entry struct {
		word  string
		count int
		first int
	}
	index := make(map[string]*entry)
	for i, tok := range tokens {
		w := strings.ToLower(tok)
		if len([]rune(w)) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if e, ok := index[w]; ok {
			e.count++
			continue
		}
		index[w] = &entry{word: w, count: 1, first: i}
	}

	entries := make([]*entry, 0, len(index))
	for _, e := range index {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].first < entries[j].first
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.word
	}
	return out
}

// isSeparator splits on whitespace, punctuation and symbols but keeps the
// characters of names like "C++" and "C#" together.
func isSeparator(r rune) bool {
	if r == '+' || r == '#' {
		return false
	}
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}
