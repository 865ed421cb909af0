package services

import (
	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
)

// fieldRule is one destination-specific validation rule. It returns an
// empty string when satisfied, or the violation message.
type fieldRule func(r *domain.FeedRecord) string

// requireString builds a rule demanding a non-empty field.
func requireString(get func(*domain.FeedRecord) string, message string) fieldRule {
	return func(r *domain.FeedRecord) string {
		if get(r) == "" {
			return message
		}
		return ""
	}
}

// Rules common to every destination, checked before the per-destination rows.
var baseRules = []fieldRule{
	requireString(func(r *domain.FeedRecord) string { return r.Link }, "missing link"),
	requireString(func(r *domain.FeedRecord) string { return string(r.Availability) }, "missing availability"),
}

// destinationRules maps a destination name to its extra required-field rows.
// Providers disagree on what a minimal listing needs: the shopping catalog
// wants a product identifier once a brand is claimed, the pin and social
// catalogs cannot render a listing without imagery.
var destinationRules = map[string][]fieldRule{
	domain.DestinationShopping: {
		requireString(func(r *domain.FeedRecord) string { return r.ImageLink }, "missing image_link"),
		requireString(func(r *domain.FeedRecord) string { return string(r.Condition) }, "missing condition"),
		func(r *domain.FeedRecord) string {
			if r.Brand != "" && r.GTIN == "" && r.MPN == "" {
				return "gtin or mpn required when brand is set"
			}
			return ""
		},
	},
	domain.DestinationSocial: {
		requireString(func(r *domain.FeedRecord) string { return r.ImageLink }, "missing image_link"),
		requireString(func(r *domain.FeedRecord) string { return r.Description }, "missing description"),
	},
	domain.DestinationPins: {
		// Pins tolerate missing gtin but cannot list without imagery and a
		// click-through target.
		requireString(func(r *domain.FeedRecord) string { return r.ImageLink }, "missing image_link"),
	},
}

// ValidateRecord checks a feed record against a destination's required-field
// schema. Stateless and network-free. Every violated rule is returned at
// once so a caller can report a complete fix list in one pass.
//
// An unknown destination name checks only the generic record invariants.
func ValidateRecord(record domain.FeedRecord, destination string) (bool, []string) {
	problems := record.CheckInvariants()

	for _, rule := range baseRules {
		if msg := rule(&record); msg != "" {
			problems = append(problems, msg)
		}
	}
	for _, rule := range destinationRules[destination] {
		if msg := rule(&record); msg != "" {
			problems = append(problems, msg)
		}
	}

	return len(problems) == 0, problems
}
