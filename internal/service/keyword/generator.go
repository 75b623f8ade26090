// internal/service/keyword/generator.go

// Package keyword synthesizes the prioritized search strings for one
// meeting. Generation is deterministic for identical contexts: table
// lookups are fixed, tie-breaks are lexicographic, and dedup keeps the
// highest-priority instance of a colliding keyword.
package keyword

import (
	"sort"
	"strings"

	"moim/internal/domain/meeting"
	"moim/internal/domain/place"
	"moim/internal/service/preference"
)

// DefaultMaxKeywords bounds a generation call unless the caller overrides it.
const DefaultMaxKeywords = 5

// groupThreshold is the participant count at or above which group-oriented
// keywords are added.
const groupThreshold = 8

// Keyword categories, echoed on each generated keyword.
const (
	CategoryMain          = "main"
	CategoryAtmosphere    = "atmosphere"
	CategoryCondition     = "condition"
	CategoryGroup         = "group"
	CategoryGeneral       = "general"
	CategoryFoodSecondary = "food_secondary"
	CategoryPurpose       = "purpose"
)

// Generate produces at most maxKeywords search keywords for the meeting,
// sorted by ascending priority. When no district is known the district
// component is omitted and keywords become nationwide-generic.
func Generate(m *meeting.Context, maxKeywords int) []place.Keyword {
	if maxKeywords <= 0 {
		return nil
	}

	district := m.District()
	purposeTerms := PurposeSearchTerms(purposeOrDefault(m.Purpose))

	topFoods := preference.TopFood(m.Preferences, 2)
	var foodTerm string
	if len(topFoods) > 0 {
		foodTerm = FoodSearchTerm(topFoods[0])
	}

	var keywords []place.Keyword
	add := func(priority int, category string, parts ...string) {
		keywords = append(keywords, place.Keyword{
			Text:     joinParts(district, parts),
			Priority: priority,
			Category: category,
		})
	}

	// 1. Main: district + top food + venue suffix.
	if foodTerm != "" {
		add(1, CategoryMain, foodTerm+" "+venueSuffix)
	}

	// 2. Atmosphere: top tag rewritten through the search-phrase table.
	if top := preference.TopAtmosphere(m.Preferences, 1); len(top) > 0 {
		if terms := AtmosphereSearchTerms(top[0]); len(terms) > 0 {
			add(2, CategoryAtmosphere, terms[0])
		}
	}

	// 3. Condition: modifier + food (or the purpose-default noun).
	if top := preference.TopCondition(m.Preferences, 1); len(top) > 0 {
		if condTerm := ConditionSearchTerm(top[0]); condTerm != "" {
			foodOrPurpose := foodTerm
			if foodOrPurpose == "" {
				foodOrPurpose = purposeTerms[0]
			}
			add(2, CategoryCondition, condTerm, foodOrPurpose)
		}
	}

	// 4. Group keywords for large parties.
	if m.ExpectedParticipants >= groupThreshold {
		if foodTerm != "" {
			add(2, CategoryGroup, groupModifier, foodTerm)
		} else {
			add(2, CategoryGroup, groupModifier, "모임장소")
		}
		add(2, CategoryGroup, companyDinner)
	}

	// 5. General: district + venue suffix, always.
	add(3, CategoryGeneral, venueSuffix)

	// 6. Second-ranked food, when distinct.
	if len(topFoods) > 1 && topFoods[1] != topFoods[0] {
		if second := FoodSearchTerm(topFoods[1]); second != "" {
			add(3, CategoryFoodSecondary, second+" "+venueSuffix)
		}
	}

	// 7. Purpose default noun.
	add(4, CategoryPurpose, purposeTerms[0])

	keywords = dedupe(keywords)

	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Priority < keywords[j].Priority
	})

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

func purposeOrDefault(p meeting.Purpose) meeting.Purpose {
	if p == "" {
		return meeting.DefaultPurpose
	}
	return p
}

// joinParts builds "<district> <part> <part>", skipping empty components.
func joinParts(district string, parts []string) string {
	fields := make([]string, 0, len(parts)+1)
	if district != "" {
		fields = append(fields, district)
	}
	for _, part := range parts {
		if part != "" {
			fields = append(fields, part)
		}
	}
	return strings.Join(fields, " ")
}

// dedupe removes keywords with identical text, keeping the instance with
// the lowest priority number. Generation order is otherwise preserved.
func dedupe(keywords []place.Keyword) []place.Keyword {
	best := make(map[string]int, len(keywords)) // text -> index into out
	out := make([]place.Keyword, 0, len(keywords))

	for _, kw := range keywords {
		if i, ok := best[kw.Text]; ok {
			if kw.Priority < out[i].Priority {
				out[i] = kw
			}
			continue
		}
		best[kw.Text] = len(out)
		out = append(out, kw)
	}
	return out
}
