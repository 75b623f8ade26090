// internal/domain/meeting/model.go

package meeting

import (
	"github.com/google/uuid"
)

// Purpose is the category of a meeting.
type Purpose string

const (
	PurposeDining Purpose = "dining"
	PurposeCafe   Purpose = "cafe"
	PurposeDrink  Purpose = "drink"
	PurposeEtc    Purpose = "etc"
)

// DefaultPurpose is assumed when a meeting carries no purpose.
const DefaultPurpose = PurposeDining

// LocationChoiceType selects which strategy resolves the search anchor.
type LocationChoiceType string

const (
	// ChoiceCenterLocation averages participant coordinates.
	ChoiceCenterLocation LocationChoiceType = "center_location"

	// ChoicePreferenceArea anchors on a district the participants voted for.
	ChoicePreferenceArea LocationChoiceType = "preference_area"

	// ChoicePreferenceSubway anchors on a subway station the participants voted for.
	ChoicePreferenceSubway LocationChoiceType = "preference_subway"
)

// FoodTag is a food-type preference value.
type FoodTag string

const (
	FoodKorean   FoodTag = "korean"
	FoodJapanese FoodTag = "japanese"
	FoodChinese  FoodTag = "chinese"
	FoodWestern  FoodTag = "western"
	FoodAsian    FoodTag = "asian"
	FoodMeat     FoodTag = "meat"
	FoodSeafood  FoodTag = "seafood"
	FoodChicken  FoodTag = "chicken"
	FoodPizza    FoodTag = "pizza"
	FoodCafe     FoodTag = "cafe"
	FoodBar      FoodTag = "bar"
	FoodEtc      FoodTag = "etc"
)

// AtmosphereTag is an atmosphere preference value.
type AtmosphereTag string

const (
	AtmosphereQuiet       AtmosphereTag = "quiet"
	AtmosphereLively      AtmosphereTag = "lively"
	AtmosphereRomantic    AtmosphereTag = "romantic"
	AtmosphereModern      AtmosphereTag = "modern"
	AtmosphereTraditional AtmosphereTag = "traditional"
	AtmosphereCozy        AtmosphereTag = "cozy"
	AtmosphereSpacious    AtmosphereTag = "spacious"
	AtmospherePrivate     AtmosphereTag = "private"
)

// ConditionTag is a venue-condition preference value.
type ConditionTag string

const (
	ConditionParking       ConditionTag = "parking"
	ConditionPrivateRoom   ConditionTag = "private_room"
	ConditionGroupFriendly ConditionTag = "group_friendly"
	ConditionPetFriendly   ConditionTag = "pet_friendly"
	ConditionWheelchair    ConditionTag = "wheelchair"
	ConditionReservation   ConditionTag = "reservation"
	ConditionLateNight     ConditionTag = "late_night"
)

// Preference holds one participant's place preferences. Lists may be empty,
// never nil-sensitive: an absent category simply contributes no weight.
type Preference struct {
	FoodTypes   []FoodTag      `json:"food_types"`
	Atmospheres []AtmosphereTag `json:"atmospheres"`
	Conditions  []ConditionTag `json:"conditions"`
}

// AggregatedPreferences collapses all participants' preferences into
// per-category weighted counts. Counts are always >= 1 for present tags;
// a tag absent from a map received no votes.
type AggregatedPreferences struct {
	FoodWeights       map[FoodTag]int       `json:"food_weights"`
	AtmosphereWeights map[AtmosphereTag]int `json:"atmosphere_weights"`
	ConditionWeights  map[ConditionTag]int  `json:"condition_weights"`
}

// CenterLocation is the resolved search anchor. A (0,0) coordinate pair is
// the sentinel for "district known, point unknown".
type CenterLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	District  string  `json:"district,omitempty"`
}

// HasCoordinates reports whether the anchor carries a real coordinate
// rather than the sentinel pair.
func (c CenterLocation) HasCoordinates() bool {
	return c.Latitude != 0 || c.Longitude != 0
}

// ParticipantLocation is one participant's location signal. Coordinates are
// optional; an address may stand in for them.
type ParticipantLocation struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	Address       string    `json:"address,omitempty"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	District      string    `json:"district,omitempty"`
}

// Context carries everything the recommendation pipeline needs about one
// meeting. It is constructed fresh per pipeline run; the location stage
// records the resolved anchor on Center, later stages only read it.
type Context struct {
	ID          uuid.UUID `json:"meeting_id"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Purpose     Purpose   `json:"purpose"`

	LocationChoice LocationChoiceType `json:"location_choice_type"`

	Center               *CenterLocation       `json:"center_location,omitempty"`
	ParticipantLocations []ParticipantLocation `json:"participant_locations,omitempty"`

	PreferredDistrict string         `json:"preferred_district,omitempty"`
	DistrictVotes     map[string]int `json:"district_votes,omitempty"`
	PreferredStation  string         `json:"preferred_station,omitempty"`
	StationVotes      map[string]int `json:"station_votes,omitempty"`

	Preferences          AggregatedPreferences `json:"aggregated_preferences"`
	ExpectedParticipants int                   `json:"expected_participant_count"`
}

// District returns the anchor's district, or "" when none is known.
func (c *Context) District() string {
	if c.Center != nil {
		return c.Center.District
	}
	return ""
}
