// internal/agent/classifier_test.go
package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	return NewClassifier(DefaultPatternTable())
}

// ==========================
// Classification Tests
// ==========================

func TestClassify_EmploymentSupport(t *testing.T) {
	c := newTestClassifier(t)

	intent := c.Classify("I lost my job and need help with centrelink")

	assert.Equal(t, "employment_support", intent.Intent)
	assert.GreaterOrEqual(t, intent.Confidence, 0.6)
	assert.Equal(t, "centrelink", intent.Slots.SpecificService)
	assert.Equal(t, UrgencyNormal, intent.Slots.Urgency)
	assert.NotEmpty(t, intent.Tags)
}

func TestClassify_UrgentFoodQuery(t *testing.T) {
	c := newTestClassifier(t)

	intent := c.Classify("Emergency! I need food now in Brisbane")

	assert.Equal(t, "food_assistance", intent.Intent)
	assert.Equal(t, UrgencyHigh, intent.Slots.Urgency)
	assert.Contains(t, intent.Slots.Location, "Brisbane")
}

func TestClassify_FallbackGeneralInfo(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name  string
		query string
	}{
		{"empty query", ""},
		{"unmatched text", "xyzzy qwerty plugh"},
		{"polite greeting", "hello there, how are you"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := c.Classify(tt.query)

			assert.Equal(t, IntentGeneralInfo, intent.Intent)
			assert.Equal(t, 0.3, intent.Confidence)
			assert.Empty(t, intent.Tags)
			assert.Equal(t, UrgencyNormal, intent.Slots.Urgency)
			assert.Empty(t, intent.Slots.Location)
			assert.Empty(t, intent.Slots.SpecificService)
		})
	}
}

func TestClassify_ConfidenceBounds(t *testing.T) {
	c := newTestClassifier(t)

	queries := []string{
		"",
		"I lost my job and need help with centrelink",
		"Emergency! I need food now in Brisbane",
		"I lost my job, was laid off, looking for work and need income support",
		"random words with no meaning here",
		"rent rent rent rent rent rent rent",
	}

	for _, q := range queries {
		intent := c.Classify(q)
		assert.GreaterOrEqual(t, intent.Confidence, 0.3, "query: %q", q)
		assert.LessOrEqual(t, intent.Confidence, 0.95, "query: %q", q)
	}
}

func TestClassify_ConfidenceCap(t *testing.T) {
	c := newTestClassifier(t)

	// Hits all four employment patterns, so the raw score exceeds the cap.
	intent := c.Classify("I lost my job, was laid off, looking for work and need income support")

	assert.Equal(t, "employment_support", intent.Intent)
	assert.Equal(t, 0.95, intent.Confidence)
}

func TestClassify_Idempotent(t *testing.T) {
	c := newTestClassifier(t)

	query := "I lost my job and need help with centrelink near Brisbane"
	first := c.Classify(query)
	second := c.Classify(query)

	assert.Equal(t, first, second)
}

func TestClassify_TieBreakKeepsEarlierCategory(t *testing.T) {
	c := newTestClassifier(t)

	// Employment and housing both score two patterns here; employment is
	// declared first so it keeps the lead.
	intent := c.Classify("I lost my job benefits and can't afford rent")

	assert.Equal(t, "employment_support", intent.Intent)
	assert.InDelta(t, 0.6, intent.Confidence, 1e-9)
}

func TestClassify_SinglePatternDoesNotBeatFloor(t *testing.T) {
	c := newTestClassifier(t)

	// "job" alone matches one employment pattern for 0.3, which does not
	// strictly exceed the general_info floor.
	intent := c.Classify("job")

	assert.Equal(t, IntentGeneralInfo, intent.Intent)
	assert.Equal(t, 0.3, intent.Confidence)
}

func TestClassify_TagsPreserveMatchOrder(t *testing.T) {
	c := newTestClassifier(t)

	intent := c.Classify("I lost my job and need help with centrelink")

	require.Equal(t, "employment_support", intent.Intent)
	assert.Equal(t, []string{"lost", "job", "centrelink", "need help with", "centrelink"}, intent.Tags)
}

// ==========================
// Slot Extraction Tests
// ==========================

func TestExtractLocation(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{"preposition pattern", "services near Brisbane", "near Brisbane"},
		{"preposition mid-sentence", "I live in Sydney", "in Sydney"},
		{"suburb with state code", "Toowoomba QLD", "Toowoomba QLD"},
		{"capital city alone", "Melbourne", "Melbourne"},
		{"no location", "help me please", ""},
		{"empty query", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.ExtractLocation(tt.query))
		})
	}
}

func TestExtractLocation_FirstPatternWins(t *testing.T) {
	c := newTestClassifier(t)

	// Both the preposition pattern and the capital-city pattern could
	// match; only the first is consulted.
	got := c.ExtractLocation("services near Perth")

	assert.Equal(t, "near Perth", got)
}

func TestDetectUrgency(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{"emergency keyword", "this is an Emergency", UrgencyHigh},
		{"asap keyword", "need this ASAP", UrgencyHigh},
		{"now keyword", "I need it now", UrgencyHigh},
		{"substring hit", "I have nowhere to go", UrgencyHigh},
		{"no urgency", "sometime next week would be fine", UrgencyNormal},
		{"empty query", "", UrgencyNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.DetectUrgency(tt.query))
		})
	}
}

func TestExtractSpecificService(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{"centrelink", "my centrelink payment is late", "centrelink"},
		{"jobseeker maps to centrelink", "applying for JobSeeker", "centrelink"},
		{"medicare", "lost my medicare card", "medicare"},
		{"housing", "public housing waitlist", "housing"},
		{"food bank", "where is the nearest food bank", "food"},
		{"driver licence", "renew my driver licence", "transport"},
		{"first tag in table order wins", "medicare and centrelink", "centrelink"},
		{"uppercase-only keyword never hits", "TMR", ""},
		{"no service", "general question", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.ExtractSpecificService(tt.query))
		})
	}
}

// ==========================
// Pattern Table Tests
// ==========================

func TestNewPatternTable_InvalidRegex(t *testing.T) {
	_, err := NewPatternTable(
		[]IntentPatternDef{{Intent: "broken", Patterns: []string{"("}}},
		nil, nil, nil,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	_, err = NewPatternTable(nil, []string{"["}, nil, nil)
	require.Error(t, err)
}

func TestDefaultPatternTable_Compiles(t *testing.T) {
	assert.NotPanics(t, func() {
		DefaultPatternTable()
	})
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkClassify(b *testing.B) {
	c := NewClassifier(DefaultPatternTable())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Classify("I lost my job and need help with centrelink near Brisbane")
	}
}
