// internal/service/preference/aggregator.go

// Package preference collapses per-participant place preferences into
// weighted per-category counts used by keyword generation and ranking.
package preference

import (
	"sort"

	"moim/internal/domain/meeting"
)

// Aggregate counts, per category, how many participants listed each tag.
// A tag repeated within one participant's list counts once: weights measure
// participants, not mentions.
func Aggregate(prefs []meeting.Preference) meeting.AggregatedPreferences {
	agg := meeting.AggregatedPreferences{
		FoodWeights:       make(map[meeting.FoodTag]int),
		AtmosphereWeights: make(map[meeting.AtmosphereTag]int),
		ConditionWeights:  make(map[meeting.ConditionTag]int),
	}

	for _, pref := range prefs {
		for _, tag := range uniqueTags(pref.FoodTypes) {
			agg.FoodWeights[tag]++
		}
		for _, tag := range uniqueTags(pref.Atmospheres) {
			agg.AtmosphereWeights[tag]++
		}
		for _, tag := range uniqueTags(pref.Conditions) {
			agg.ConditionWeights[tag]++
		}
	}

	return agg
}

// TopFood returns the n most-voted food tags, highest count first.
func TopFood(agg meeting.AggregatedPreferences, n int) []meeting.FoodTag {
	return topTags(agg.FoodWeights, n)
}

// TopAtmosphere returns the n most-voted atmosphere tags, highest count first.
func TopAtmosphere(agg meeting.AggregatedPreferences, n int) []meeting.AtmosphereTag {
	return topTags(agg.AtmosphereWeights, n)
}

// TopCondition returns the n most-voted condition tags, highest count first.
func TopCondition(agg meeting.AggregatedPreferences, n int) []meeting.ConditionTag {
	return topTags(agg.ConditionWeights, n)
}

// WeightedList is a tag with its participant count, used for prompt
// rendering where counts matter.
type WeightedList[T ~string] struct {
	Tag   T
	Count int
}

// Ranked returns all tags of one category ordered by count descending,
// ties broken lexicographically so output is deterministic.
func Ranked[T ~string](weights map[T]int) []WeightedList[T] {
	out := make([]WeightedList[T], 0, len(weights))
	for tag, count := range weights {
		out = append(out, WeightedList[T]{Tag: tag, Count: count})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})

	return out
}

func topTags[T ~string](weights map[T]int, n int) []T {
	if n < 0 {
		n = 0
	}
	ranked := Ranked(weights)
	if n < len(ranked) {
		ranked = ranked[:n]
	}

	out := make([]T, 0, len(ranked))
	for _, entry := range ranked {
		out = append(out, entry.Tag)
	}
	return out
}

// uniqueTags drops duplicate tags, keeping first occurrence order.
func uniqueTags[T comparable](tags []T) []T {
	seen := make(map[T]struct{}, len(tags))
	out := tags[:0:0]
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
