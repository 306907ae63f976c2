package agent

// RulecardCatalog is a fixed, read-only mapping from intent tag to a
// procedural checklist. Populated at construction; never mutated after.
type RulecardCatalog struct {
	cards map[string]Rulecard
}

// NewRulecardCatalog copies the given cards so the catalog cannot be
// mutated through the caller's map.
func NewRulecardCatalog(cards map[string]Rulecard) *RulecardCatalog {
	copied := make(map[string]Rulecard, len(cards))
	for intent, card := range cards {
		copied[intent] = card
	}
	return &RulecardCatalog{cards: copied}
}

// DefaultRulecardCatalog returns the built-in checklists.
func DefaultRulecardCatalog() *RulecardCatalog {
	return NewRulecardCatalog(defaultRulecards)
}

// Get returns the rulecard for an intent, or nil when none exists.
// A nil result is a normal outcome, not an error: it means "no canned
// checklist for this intent" and callers proceed without one.
func (c *RulecardCatalog) Get(intent string) *Rulecard {
	card, ok := c.cards[intent]
	if !ok {
		return nil
	}
	// Slices are copied so callers cannot reach back into the catalog.
	out := Rulecard{
		Description: card.Description,
		Checklist:   append([]string(nil), card.Checklist...),
		Citations:   append([]string(nil), card.Citations...),
	}
	return &out
}

var defaultRulecards = map[string]Rulecard{
	"employment_support": {
		Description: "Steps to get employment support and income assistance",
		Checklist: []string{
			"Apply for JobSeeker Payment through Centrelink",
			"Create a myGov account if you don't have one",
			"Provide required documents (ID, bank details, employment separation certificate)",
			"Attend appointments with your job service provider",
			"Look for suitable employment opportunities",
			"Consider training or upskilling programs",
		},
		Citations: []string{
			"Services Australia - JobSeeker Payment",
			"Australian Government - myGov",
			"Department of Employment and Workplace Relations",
		},
	},
	"driver_licence": {
		Description: "Steps to get your driver licence in Queensland",
		Checklist: []string{
			"Check eligibility requirements on TMR website",
			"Book a theory test at a TMR customer service centre",
			"Study the road rules and practice tests",
			"Pass the theory test to get your learner licence",
			"Complete required driving hours with a supervising driver",
			"Book and pass your practical driving test",
			"Pay licence fees and receive your licence",
		},
		Citations: []string{
			"Queensland Transport and Main Roads",
			"TMR Customer Service Centres",
			"Queensland Government - Driver Licences",
		},
	},
	"housing_support": {
		Description: "Steps to get housing assistance and support",
		Checklist: []string{
			"Contact your local housing service office",
			"Check eligibility for public housing",
			"Apply for rental assistance through Centrelink",
			"Contact local community housing providers",
			"Seek emergency accommodation if needed",
			"Consider private rental with assistance",
		},
		Citations: []string{
			"Queensland Housing Department",
			"Services Australia - Rental Assistance",
			"Community Housing Providers",
		},
	},
	"food_assistance": {
		Description: "Steps to get food assistance and support",
		Checklist: []string{
			"Contact your local food bank or food pantry",
			"Check eligibility for food assistance programs",
			"Visit community centres for meal programs",
			"Contact local charities and community organisations",
			"Check for emergency food relief services",
			"Consider government assistance programs",
		},
		Citations: []string{
			"Foodbank Queensland",
			"Local Community Centres",
			"Charity and Community Organisations",
		},
	},
}
