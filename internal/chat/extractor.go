package chat

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"smart-assistant-api/internal/models"
)

// TaskDraft is the structured result of parsing a natural-language phrase.
// Description is always empty at this layer; only the title, priority and due
// date are inferred.
type TaskDraft struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	DueDate     *time.Time
}

var (
	highPriorityWords = []string{"urgent", "important", "high", "critical"}
	lowPriorityWords  = []string{"low", "minor", "small"}

	inDaysPattern = regexp.MustCompile(`(?i)\bin\s+(\d+)\s+days?\b`)
	// Explicit dates like "y 2025-10-01" are recognized and stripped from the
	// title, but the capture is not converted into a due date. Known gap kept
	// for parity with observed behavior.
	explicitDatePattern = regexp.MustCompile(`(?i)\by\s+(\d{4}-\d{2}-\d{2})\b`)

	fillerPrefixes = []string{
		"to ",
		"that i need to ",
		"i need to ",
		"need to ",
		"should ",
		"have to ",
		"must ",
	}
)

// ExtractTaskFields parses a raw phrase (already stripped of its triggering
// verb) into a task draft. Extraction is pure given the phrase and clock.
func ExtractTaskFields(phrase string, now time.Time) TaskDraft {
	draft := TaskDraft{Priority: models.PriorityMedium}
	title := strings.TrimSpace(phrase)

	title, matched := stripKeyword(title, highPriorityWords)
	if matched {
		draft.Priority = models.PriorityHigh
	} else {
		title, matched = stripKeyword(title, lowPriorityWords)
		if matched {
			draft.Priority = models.PriorityLow
		}
	}

	title, draft.DueDate = stripDueDate(title, now)

	draft.Title = cleanTitle(title)
	return draft
}

// stripKeyword removes the first case-insensitive occurrence of any word in
// the list and reports whether one matched.
func stripKeyword(s string, words []string) (string, bool) {
	lower := strings.ToLower(s)
	for _, w := range words {
		idx := strings.Index(lower, w)
		if idx < 0 {
			continue
		}
		out := s[:idx] + s[idx+len(w):]
		return strings.Join(strings.Fields(out), " "), true
	}
	return s, false
}

// stripDueDate tests the phrase against the due-date patterns in order; the
// first match wins and its text is removed from the title.
func stripDueDate(s string, now time.Time) (string, *time.Time) {
	lower := strings.ToLower(s)

	for _, w := range []string{"today", "tonight"} {
		if idx := strings.Index(lower, w); idx >= 0 {
			due := now
			return collapse(s[:idx] + s[idx+len(w):]), &due
		}
	}

	for _, w := range []string{"tomorrow", "tmrw"} {
		if idx := strings.Index(lower, w); idx >= 0 {
			due := now.Add(24 * time.Hour)
			return collapse(s[:idx] + s[idx+len(w):]), &due
		}
	}

	if m := inDaysPattern.FindStringSubmatchIndex(s); m != nil {
		n, err := strconv.Atoi(s[m[2]:m[3]])
		if err == nil {
			due := now.Add(time.Duration(n) * 24 * time.Hour)
			return collapse(s[:m[0]] + s[m[1]:]), &due
		}
	}

	if m := explicitDatePattern.FindStringIndex(s); m != nil {
		// Pattern stripped, date deliberately not parsed.
		return collapse(s[:m[0]] + s[m[1]:]), nil
	}

	return s, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanTitle strips one leading filler phrase, trims trailing punctuation and
// upper-cases the first rune.
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, prefix := range fillerPrefixes {
		if strings.HasPrefix(lower, prefix) {
			s = s[len(prefix):]
			break
		}
	}
	s = strings.TrimRight(strings.TrimSpace(s), ".!")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
