package agent

import (
	"fmt"
	"regexp"
)

// IntentPatternDef declares the raw regexes for one intent category.
// Category order matters: when two categories score equally, the one
// declared first keeps the lead.
type IntentPatternDef struct {
	Intent   string
	Patterns []string
}

// ServiceKeywordDef maps a specific-service tag to the keywords that
// select it. Order matters here too: the first tag with any keyword hit
// wins and later tags are never consulted.
type ServiceKeywordDef struct {
	Service  string
	Keywords []string
}

type intentPatterns struct {
	intent   string
	patterns []*regexp.Regexp
}

// PatternTable is the compiled, immutable rule set the Classifier runs
// against. Build it once with NewPatternTable or DefaultPatternTable and
// share it freely; nothing mutates it after construction.
type PatternTable struct {
	intents      []intentPatterns
	locations    []*regexp.Regexp
	urgencyWords []string
	services     []ServiceKeywordDef
}

// NewPatternTable compiles a pattern table from raw definitions. Intent
// patterns are compiled case-sensitive because they run against the
// lowercased query; location patterns are compiled case-insensitive and
// run against the original-case query, since proper-noun casing matters
// to downstream geocoding.
func NewPatternTable(intents []IntentPatternDef, locations []string, urgencyWords []string, services []ServiceKeywordDef) (*PatternTable, error) {
	t := &PatternTable{
		urgencyWords: urgencyWords,
		services:     services,
	}

	for _, def := range intents {
		compiled := intentPatterns{intent: def.Intent}
		for _, p := range def.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("compile intent pattern %q for %s: %w", p, def.Intent, err)
			}
			compiled.patterns = append(compiled.patterns, re)
		}
		t.intents = append(t.intents, compiled)
	}

	for _, p := range locations {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("compile location pattern %q: %w", p, err)
		}
		t.locations = append(t.locations, re)
	}

	return t, nil
}

// DefaultPatternTable returns the built-in Australian government-service
// rule set. Panics on a compile failure, which can only mean the built-in
// definitions themselves are broken.
func DefaultPatternTable() *PatternTable {
	t, err := NewPatternTable(defaultIntentPatterns, defaultLocationPatterns, defaultUrgencyWords, defaultServiceKeywords)
	if err != nil {
		panic(err)
	}
	return t
}

var defaultIntentPatterns = []IntentPatternDef{
	{
		Intent: "employment_support",
		Patterns: []string{
			`\b(lost|lost my|unemployed|job|employment|work|centrelink|jobseeker|newstart)\b`,
			`\b(need help with|need help finding|looking for|seeking|want to find)\b.*\b(job|work|employment|centrelink|jobseeker)\b`,
			`\b(redundant|laid off|fired|dismissed|terminated)\b`,
			`\b(income support|benefits|payment|allowance)\b`,
		},
	},
	{
		Intent: "driver_licence",
		Patterns: []string{
			`\b(driver|driving|licence|license|learner|test|road test)\b`,
			`\b(need to get|want to get|apply for)\b.*\b(licence|license)\b`,
			`\b(transport|TMR|department of transport)\b`,
			`\b(learn to drive|driving lessons|driving test)\b`,
		},
	},
	{
		Intent: "housing_support",
		Patterns: []string{
			`\b(housing|home|rent|rental|accommodation|homeless|evicted)\b`,
			`\b(need a place|looking for|seeking)\b.*\b(home|house|apartment|accommodation)\b`,
			`\b(public housing|social housing|housing assistance)\b`,
			`\b(can't afford|struggling with|difficulty paying)\b.*\b(rent|housing)\b`,
		},
	},
	{
		Intent: "food_assistance",
		Patterns: []string{
			`\b(food|hungry|groceries|meals|eating|feed)\b`,
			`\b(need|can't afford|struggling with|need help with)\b.*\b(food|groceries|meals)\b`,
			`\b(food bank|food pantry|emergency food)\b`,
			`\b(going hungry|not enough to eat|food insecurity)\b`,
		},
	},
	{
		Intent: "health_support",
		Patterns: []string{
			`\b(health|medical|doctor|hospital|medicare|healthcare)\b`,
			`\b(need medical|sick|ill|health problem|medical help)\b`,
			`\b(can't afford|struggling with)\b.*\b(medical|health|doctor)\b`,
			`\b(mental health|depression|anxiety|stress)\b`,
		},
	},
	{
		Intent: "financial_assistance",
		Patterns: []string{
			`\b(money|financial|cash|funds|payment|bill|debt)\b`,
			`\b(can't pay|struggling with|need help with)\b.*\b(bill|debt|payment)\b`,
			`\b(emergency payment|financial hardship|financial assistance)\b`,
			`\b(broke|no money|financial difficulty)\b`,
		},
	},
}

var defaultLocationPatterns = []string{
	`\b(near|in|at|around)\b\s+([A-Za-z\s]+)`,
	`\b([A-Za-z\s]+)\s+(QLD|NSW|VIC|WA|SA|TAS|NT|ACT)\b`,
	`\b(Brisbane|Sydney|Melbourne|Perth|Adelaide|Hobart|Darwin|Canberra)\b`,
}

var defaultUrgencyWords = []string{"emergency", "urgent", "immediately", "now", "today", "asap"}

var defaultServiceKeywords = []ServiceKeywordDef{
	{Service: "centrelink", Keywords: []string{"centrelink", "jobseeker", "newstart"}},
	{Service: "medicare", Keywords: []string{"medicare", "health insurance"}},
	{Service: "housing", Keywords: []string{"housing", "rental assistance", "public housing"}},
	{Service: "food", Keywords: []string{"food bank", "food assistance", "meals"}},
	{Service: "transport", Keywords: []string{"driver licence", "transport", "TMR"}},
}
