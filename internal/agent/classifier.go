package agent

import "strings"

// patternIncrement is the confidence contribution of one matching pattern.
// A pattern that matches multiple times still contributes once.
const patternIncrement = 0.3

// confidenceFloor doubles as the fallback confidence and the bar a
// category must strictly exceed to displace general_info.
const confidenceFloor = 0.3

// confidenceCap keeps headroom below 1.0 for future calibrated scoring.
const confidenceCap = 0.95

// Classifier scores free text against a PatternTable. Stateless beyond
// the table, so one instance serves any number of concurrent callers.
type Classifier struct {
	table *PatternTable
}

func NewClassifier(table *PatternTable) *Classifier {
	return &Classifier{table: table}
}

// Classify turns raw query text into an Intent. It never fails: empty or
// unmatched input falls back to general_info at the floor confidence.
func (c *Classifier) Classify(query string) Intent {
	queryLower := strings.ToLower(query)

	bestIntent := IntentGeneralInfo
	bestConfidence := confidenceFloor
	var matchedTags []string

	for _, candidate := range c.table.intents {
		confidence := 0.0
		var tags []string

		for _, re := range candidate.patterns {
			matches := re.FindAllStringSubmatch(queryLower, -1)
			if len(matches) == 0 {
				continue
			}
			confidence += patternIncrement
			for _, m := range matches {
				if len(m) > 1 {
					tags = append(tags, m[1:]...)
				} else {
					tags = append(tags, m[0])
				}
			}
		}

		// Strictly-greater keeps the earliest category on ties.
		if confidence > bestConfidence {
			bestConfidence = confidence
			bestIntent = candidate.intent
			matchedTags = tags
		}
	}

	if bestConfidence > confidenceCap {
		bestConfidence = confidenceCap
	}

	return Intent{
		Intent:     bestIntent,
		Confidence: bestConfidence,
		Slots: Slots{
			Location:        c.ExtractLocation(query),
			Urgency:         c.DetectUrgency(query),
			SpecificService: c.ExtractSpecificService(query),
		},
		Tags: matchedTags,
	}
}

// ExtractLocation runs the ordered location patterns against the
// original-case query. The first pattern that matches at all decides the
// result; later patterns are not tried. Multi-group matches join their
// groups with a single space.
func (c *Classifier) ExtractLocation(query string) string {
	for _, re := range c.table.locations {
		m := re.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		switch {
		case len(m) > 2:
			return strings.TrimSpace(strings.Join(m[1:], " "))
		case len(m) == 2:
			return strings.TrimSpace(m[1])
		default:
			return strings.TrimSpace(m[0])
		}
	}
	return ""
}

// DetectUrgency is a plain substring scan, not a word-boundary match.
func (c *Classifier) DetectUrgency(query string) string {
	queryLower := strings.ToLower(query)
	for _, word := range c.table.urgencyWords {
		if strings.Contains(queryLower, word) {
			return UrgencyHigh
		}
	}
	return UrgencyNormal
}

// ExtractSpecificService returns the first service tag whose keyword list
// has a substring hit in the lowercased query, or "" when none do.
// Keywords are matched verbatim, so an upper-case keyword can only miss.
func (c *Classifier) ExtractSpecificService(query string) string {
	queryLower := strings.ToLower(query)
	for _, svc := range c.table.services {
		for _, keyword := range svc.Keywords {
			if strings.Contains(queryLower, keyword) {
				return svc.Service
			}
		}
	}
	return ""
}
