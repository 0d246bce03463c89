package domain

import "strings"

// TagSet matches free-form actor names or titles against a fixed keyword
// list. Resolved once at config load; matching is pure and case-insensitive.
type TagSet struct {
	keywords []string
}

// NewTagSet builds a TagSet from keywords. Empty keywords are dropped.
func NewTagSet(keywords []string) TagSet {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return TagSet{keywords: out}
}

// Match reports whether s contains any keyword as a substring.
func (t TagSet) Match(s string) bool {
	s = strings.ToLower(s)
	for _, k := range t.keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// MatchWord reports whether any whitespace/punctuation-delimited word of s
// equals a keyword. Used for entity names, where substring matching would
// turn "Vincent" into "inc".
func (t TagSet) MatchWord(s string) bool {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == ',' || r == '(' || r == ')'
	})
	for _, w := range words {
		w = strings.TrimSuffix(w, ".")
		for _, k := range t.keywords {
			if w == strings.TrimSuffix(k, ".") {
				return true
			}
		}
	}
	return false
}

// Seniority tiers derived from an insider's disclosed title.
type Seniority int

const (
	SeniorityOther Seniority = iota
	SeniorityVPDirector
	SeniorityCSuite
)

// Default role tag sets, mirroring the title spellings seen in Form 4 feeds.
var (
	// CSuiteTags matches C-suite-equivalent roles.
	CSuiteTags = NewTagSet([]string{
		"ceo", "chief executive officer", "chief exec officer",
		"cfo", "chief financial officer", "chief fin officer",
		"coo", "chief operating officer",
		"cto", "chief technology officer",
		"president", "chairman", "chair",
	})

	// VPDirectorTags matches VP/Director-equivalent roles.
	VPDirectorTags = NewTagSet([]string{
		"vp", "vice president", "director", "dir", "board member",
	})

	// CorporateEntityTags matches buyer names that are corporations rather
	// than individuals (strategic investor pattern).
	CorporateEntityTags = NewTagSet([]string{
		"corp", "corporation", "inc", "incorporated", "llc", "ltd",
		"limited", "lp", "llp", "company", "co.", "group", "holdings",
		"partners", "capital", "ventures", "fund", "trust", "management",
		"investments", "technologies",
	})
)

// NormalizeTitle lowercases a disclosed title and strips "vice president"
// so it cannot satisfy the "president" keyword.
func NormalizeTitle(title string) string {
	s := strings.ToLower(title)
	s = strings.ReplaceAll(s, "vice president", "")
	s = strings.ReplaceAll(s, "vice-president", "")
	return s
}

// RoleSeniority classifies a disclosed title into a seniority tier.
// C-suite wins over VP/Director when a title matches both ("VP & CFO").
func RoleSeniority(title string) Seniority {
	switch {
	case CSuiteTags.Match(NormalizeTitle(title)):
		return SeniorityCSuite
	case VPDirectorTags.Match(title):
		return SeniorityVPDirector
	default:
		return SeniorityOther
	}
}
