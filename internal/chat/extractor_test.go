package chat

import (
	"testing"
	"time"

	"smart-assistant-api/internal/models"

	"github.com/stretchr/testify/require"
)

var extractNow = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func TestExtractTaskFields_PriorityAndDueDate(t *testing.T) {
	draft := ExtractTaskFields("buy milk tomorrow urgent", extractNow)

	require.Equal(t, "Buy milk", draft.Title)
	require.Equal(t, models.PriorityHigh, draft.Priority)
	require.NotNil(t, draft.DueDate)
	wantDate := extractNow.Add(24 * time.Hour)
	require.Equal(t, wantDate.Year(), draft.DueDate.Year())
	require.Equal(t, wantDate.YearDay(), draft.DueDate.YearDay())
	require.Empty(t, draft.Description)
}

func TestExtractTaskFields_DefaultsToMedium(t *testing.T) {
	draft := ExtractTaskFields("water the plants", extractNow)
	require.Equal(t, "Water the plants", draft.Title)
	require.Equal(t, models.PriorityMedium, draft.Priority)
	require.Nil(t, draft.DueDate)
}

func TestExtractTaskFields_LowPriorityAndToday(t *testing.T) {
	draft := ExtractTaskFields("finish report today low", extractNow)
	require.Equal(t, "Finish report", draft.Title)
	require.Equal(t, models.PriorityLow, draft.Priority)
	require.NotNil(t, draft.DueDate)
	require.Equal(t, extractNow.YearDay(), draft.DueDate.YearDay())
}

// Only the exact keyword sets set a priority; the keyword itself is stripped
// from the title and surrounding words are untouched.
func TestExtractTaskFields_PriorityKeywordSets(t *testing.T) {
	high := []string{"urgent", "important", "high", "critical"}
	low := []string{"low", "minor", "small"}

	for _, w := range high {
		draft := ExtractTaskFields("review budget "+w, extractNow)
		require.Equal(t, models.PriorityHigh, draft.Priority, "keyword %q", w)
		require.Equal(t, "Review budget", draft.Title, "keyword %q", w)
	}
	for _, w := range low {
		draft := ExtractTaskFields("review budget "+w, extractNow)
		require.Equal(t, models.PriorityLow, draft.Priority, "keyword %q", w)
		require.Equal(t, "Review budget", draft.Title, "keyword %q", w)
	}

	// "priority" alone carries no signal and stays in the title
	draft := ExtractTaskFields("rank items by priority", extractNow)
	require.Equal(t, models.PriorityMedium, draft.Priority)
	require.Equal(t, "Rank items by priority", draft.Title)
}

func TestExtractTaskFields_InNDays(t *testing.T) {
	draft := ExtractTaskFields("pay rent in 3 days", extractNow)
	require.Equal(t, "Pay rent", draft.Title)
	require.NotNil(t, draft.DueDate)
	require.Equal(t, extractNow.Add(72*time.Hour).YearDay(), draft.DueDate.YearDay())
}

// The explicit "y YYYY-MM-DD" token is stripped from the title but its date is
// deliberately not parsed into the due date.
func TestExtractTaskFields_ExplicitDateRecognizedNotParsed(t *testing.T) {
	draft := ExtractTaskFields("call mom y 2026-01-15", extractNow)
	require.Equal(t, "Call mom", draft.Title)
	require.Nil(t, draft.DueDate)
}

func TestExtractTaskFields_FillerPrefixes(t *testing.T) {
	cases := map[string]string{
		"that i need to clean the garage": "Clean the garage",
		"i need to stretch":               "Stretch",
		"should water the garden":         "Water the garden",
		"have to file expenses":           "File expenses",
		"must renew passport":             "Renew passport",
		"to walk the dog":                 "Walk the dog",
	}
	for in, want := range cases {
		require.Equal(t, want, ExtractTaskFields(in, extractNow).Title, "input %q", in)
	}
}

func TestExtractTaskFields_TrailingPunctuation(t *testing.T) {
	require.Equal(t, "Submit taxes", ExtractTaskFields("submit taxes!", extractNow).Title)
	require.Equal(t, "Ship the release", ExtractTaskFields("ship the release.", extractNow).Title)
}

// Stripping can consume the whole phrase; the extractor returns the empty
// title and leaves the fallback decision to callers.
func TestExtractTaskFields_EmptyAfterStripping(t *testing.T) {
	draft := ExtractTaskFields("urgent tomorrow", extractNow)
	require.Empty(t, draft.Title)
	require.Equal(t, models.PriorityHigh, draft.Priority)
	require.NotNil(t, draft.DueDate)
}
