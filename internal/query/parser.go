package query

import (
	"regexp"
	"strings"
	"unicode"
)

// Parse analyzes a raw query and produces its enhanced form.
//
// Pattern assignment is first-match-wins in a fixed priority order: author
// beats genre, genre beats the descriptive patterns, and so on down to
// general. Filter extraction is cumulative: a genre query mentioning
// "recent" still picks up the min-year filter even though its pattern
// stays genre. Similar-to is the one exception that overrides an already
// assigned descriptive pattern, since "books like X" dominates whatever
// adjectives surround it.
func Parse(raw string) Enhanced {
	lower := strings.ToLower(raw)
	pattern := PatternGeneral
	var extracted, expanded []string
	var filters Filters
	hints := DefaultHints()

	// Author queries carry the strongest signal. Matched on the original
	// casing so capitalized names survive extraction.
	for _, re := range authorPatterns {
		m := re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		author := strings.TrimSpace(m[1])
		if len(author) > 2 {
			pattern = PatternAuthor
			extracted = append(extracted, author)
			filters.Author = author
			hints.MetadataWeight = 0.8
			hints.SemanticWeight = 0.2
			break
		}
	}

	if pattern == PatternGeneral {
		pattern, extracted, expanded, filters, hints =
			matchGenre(lower, extracted, expanded, filters, hints)
	}

	for _, re := range settingPatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		setting := strings.TrimSpace(m[1])
		filters.Settings = append(filters.Settings, setting)
		extracted = append(extracted, setting)
		if pattern == PatternGeneral {
			pattern = PatternSetting
		}
		break
	}

	if pattern == PatternGeneral && anyMatch(moodPatterns, lower) {
		pattern = PatternMood
		hints.SemanticWeight = 0.8
	}
	if pattern == PatternGeneral && anyMatch(pacePatterns, lower) {
		pattern = PatternPace
		hints.SemanticWeight = 0.7
	}
	if pattern == PatternGeneral && anyMatch(perspectivePatterns, lower) {
		pattern = PatternPerspective
		hints.SemanticWeight = 0.6
	}

	// Similar-to overrides any earlier pattern: "like X" queries are best
	// served semantically no matter what else the text mentions.
	if anyMatch(similarPatterns, lower) {
		pattern = PatternSimilarTo
		hints.SemanticWeight = 0.9
	}

	if anyMatch(timePatterns, lower) {
		switch {
		case strings.Contains(lower, "recent") || strings.Contains(lower, "new") ||
			strings.Contains(lower, "modern") || strings.Contains(lower, "contemporary"):
			filters.MinYear = 2015
			hints.RecencyBoost = 1.3
		case strings.Contains(lower, "classic") || strings.Contains(lower, "old"):
			filters.MaxYear = 2000
			hints.RatingBoost = 1.2
		}
		if pattern == PatternGeneral {
			pattern = PatternTimeBased
		}
	}

	for _, p := range historicalPeriods {
		if strings.Contains(lower, p.name) {
			filters.MinYear = p.start
			filters.MaxYear = p.end
			filters.Settings = append(filters.Settings, p.name)
			if pattern == PatternGeneral {
				pattern = PatternSetting
			}
		}
	}

	for _, re := range audiencePatterns {
		if !re.MatchString(lower) {
			continue
		}
		switch {
		case strings.Contains(lower, "kid") || strings.Contains(lower, "child"):
			filters.Audience = "children"
		case strings.Contains(lower, "teen") || strings.Contains(lower, "ya") ||
			strings.Contains(lower, "young adult"):
			filters.Audience = "young adult"
		}
		if pattern == PatternGeneral {
			pattern = PatternAudience
		}
		break
	}

	if anyMatch(lengthPatterns, lower) {
		if strings.Contains(lower, "short") || strings.Contains(lower, "quick") ||
			strings.Contains(lower, "brief") {
			filters.MaxPages = 300
		}
		if pattern == PatternGeneral {
			pattern = PatternLength
		}
	}

	if anyMatch(complexityPatterns, lower) {
		if strings.Contains(lower, "easy") || strings.Contains(lower, "simple") ||
			strings.Contains(lower, "accessible") {
			hints.RatingBoost = 1.1
		}
		if pattern == PatternGeneral {
			pattern = PatternComplexity
		}
	}

	words := strings.Fields(lower)
	for _, t := range themeKeywords {
		if !themeMatches(t.terms, lower, words) {
			continue
		}
		extracted = append(extracted, t.base)
		expanded = append(expanded, t.terms...)
		filters.Themes = append(filters.Themes, t.base)
		if pattern == PatternGeneral {
			pattern = PatternTheme
		}
	}

	// Remaining meaningful words become extracted terms.
	for _, w := range words {
		clean := trimPunct(w)
		if len(clean) > 3 && !stopWords[clean] && !contains(extracted, clean) {
			extracted = append(extracted, clean)
		}
	}

	// Quality signals raise the rating floor regardless of pattern.
	if strings.Contains(lower, "best") || strings.Contains(lower, "top") ||
		strings.Contains(lower, "highly rated") {
		filters.MinRating = 4.0
		hints.RatingBoost = 1.5
	}

	return Enhanced{
		OriginalQuery:  raw,
		Pattern:        pattern,
		ExtractedTerms: extracted,
		ExpandedTerms:  expanded,
		Filters:        filters,
		SearchHints:    hints,
	}
}

// matchGenre checks genre phrasing first, then bare genre keywords anywhere
// in the query.
func matchGenre(lower string, extracted, expanded []string, filters Filters, hints SearchHints) (Pattern, []string, []string, Filters, SearchHints) {
	assign := func(e expansion) {
		extracted = append(extracted, e.base)
		filters.Genres = append([]string(nil), e.terms...)
		expanded = append(expanded, e.terms...)
		hints.SemanticWeight = 0.7
		hints.MetadataWeight = 0.3
	}

	for _, re := range genrePatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		genre := strings.TrimSpace(m[1])
		for _, e := range genreExpansions {
			for _, term := range e.terms {
				if strings.Contains(genre, term) || strings.Contains(term, genre) {
					assign(e)
					return PatternGenre, extracted, expanded, filters, hints
				}
			}
		}
	}

	for _, e := range genreExpansions {
		for _, term := range e.terms {
			if strings.Contains(lower, term) {
				assign(e)
				return PatternGenre, extracted, expanded, filters, hints
			}
		}
	}

	return PatternGeneral, extracted, expanded, filters, hints
}

// themeMatches reports whether any keyword signals the theme. Multi-word
// keywords match as phrases, single words on word boundaries.
func themeMatches(keywords []string, lower string, words []string) bool {
	for _, kw := range keywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(lower, kw) {
				return true
			}
			continue
		}
		for _, w := range words {
			if trimPunct(w) == kw {
				return true
			}
		}
	}
	return false
}

func anyMatch(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func trimPunct(w string) string {
	return strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
