// internal/service/keyword/tables.go

package keyword

import "moim/internal/domain/meeting"

// venueSuffix is the generic "good place to eat" search noun appended to
// most keywords.
const venueSuffix = "맛집"

// groupModifier marks keywords aimed at large parties.
const groupModifier = "단체"

// companyDinner is what the search provider actually indexes for
// lively/large gatherings.
const companyDinner = "회식"

// foodSearchTerms maps food tags to the nouns the search provider indexes.
var foodSearchTerms = map[meeting.FoodTag]string{
	meeting.FoodKorean:   "한식",
	meeting.FoodJapanese: "일식",
	meeting.FoodChinese:  "중식",
	meeting.FoodWestern:  "양식",
	meeting.FoodAsian:    "아시안",
	meeting.FoodMeat:     "고기",
	meeting.FoodSeafood:  "해산물",
	meeting.FoodChicken:  "치킨",
	meeting.FoodPizza:    "피자",
	meeting.FoodCafe:     "카페",
	meeting.FoodBar:      "술집",
	meeting.FoodEtc:      venueSuffix,
}

// atmosphereSearchTerms rewrites atmosphere adjectives into phrases the
// search provider indexes well; bare adjectives like "조용한" score poorly
// on their own. Ordered by observed result volume, first entry is used.
var atmosphereSearchTerms = map[meeting.AtmosphereTag][]string{
	meeting.AtmosphereQuiet:       {"조용한", "분위기 좋은"},
	meeting.AtmosphereLively:      {companyDinner, groupModifier},
	meeting.AtmosphereRomantic:    {"데이트 맛집", "분위기 좋은"},
	meeting.AtmosphereModern:      {"분위기 좋은", "인스타"},
	meeting.AtmosphereTraditional: {"전통", "한옥"},
	meeting.AtmosphereCozy:        {"분위기 좋은", "아늑한"},
	meeting.AtmosphereSpacious:    {"넓은", groupModifier},
	meeting.AtmospherePrivate:     {"프라이빗", "룸"},
}

// conditionSearchTerms maps condition tags to searchable modifiers.
var conditionSearchTerms = map[meeting.ConditionTag]string{
	meeting.ConditionParking:       "주차가능",
	meeting.ConditionPrivateRoom:   "룸",
	meeting.ConditionGroupFriendly: groupModifier,
	meeting.ConditionPetFriendly:   "애견동반",
	meeting.ConditionWheelchair:    "휠체어",
	meeting.ConditionReservation:   "예약",
	meeting.ConditionLateNight:     "심야영업",
}

// purposeSearchTerms maps the meeting purpose to generic venue nouns, most
// useful first.
var purposeSearchTerms = map[meeting.Purpose][]string{
	meeting.PurposeDining: {venueSuffix, "식당", "레스토랑"},
	meeting.PurposeCafe:   {"카페", "디저트", "브런치"},
	meeting.PurposeDrink:  {"술집", "바", "호프"},
	meeting.PurposeEtc:    {"모임장소", venueSuffix},
}

// FoodSearchTerm returns the searchable noun for a food tag, "" for
// unknown tags.
func FoodSearchTerm(tag meeting.FoodTag) string {
	return foodSearchTerms[tag]
}

// AtmosphereSearchTerms returns the searchable phrases for an atmosphere
// tag, best first.
func AtmosphereSearchTerms(tag meeting.AtmosphereTag) []string {
	return atmosphereSearchTerms[tag]
}

// ConditionSearchTerm returns the searchable modifier for a condition tag.
func ConditionSearchTerm(tag meeting.ConditionTag) string {
	return conditionSearchTerms[tag]
}

// PurposeSearchTerms returns generic venue nouns for a purpose. Unknown
// purposes fall back to the plain venue suffix.
func PurposeSearchTerms(p meeting.Purpose) []string {
	if terms, ok := purposeSearchTerms[p]; ok {
		return terms
	}
	return []string{venueSuffix}
}
