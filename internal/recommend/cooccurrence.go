// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package recommend

// CoOccurrence answers "what is most often bought together with Item".
type CoOccurrence struct {
	// Item is the queried item.
	Item Item `json:"item"`

	// With is the item most often bought alongside Item.
	With Item `json:"with"`

	// Confidence is the fraction of Item's transactions that also hold With.
	Confidence float64 `json:"confidence"`

	// Percentage is Confidence expressed in percent.
	Percentage float64 `json:"percentage"`

	// Lift is the lift of the single-item rule Item => With.
	Lift float64 `json:"lift"`

	// Support is the joint support of Item and With.
	Support float64 `json:"support"`
}

// TopCoOccurring returns the strongest single-item rule item => x in rules.
// The highest confidence wins; exact ties go to the lower label of x. The
// boolean is false when no such rule exists.
//
//nolint:gocritic // RuleSet passed by value, it is immutable
func TopCoOccurring(rules RuleSet, item Item) (CoOccurrence, bool) {
	var (
		best  CoOccurrence
		found bool
	)
	for i := range rules.Rules {
		r := &rules.Rules[i]
		if len(r.Antecedent) != 1 || len(r.Consequent) != 1 || r.Antecedent[0] != item {
			continue
		}
		with := r.Consequent[0]
		if found && (r.Confidence < best.Confidence || (r.Confidence == best.Confidence && with >= best.With)) {
			continue
		}
		best = CoOccurrence{
			Item:       item,
			With:       with,
			Confidence: r.Confidence,
			Percentage: r.Confidence * 100,
			Lift:       r.Lift,
			Support:    r.Support,
		}
		found = true
	}
	return best, found
}
