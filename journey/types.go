package journey

import "strings"

// TravelStyle is the persona's travel style. The set is closed; see TravelStyles.
type TravelStyle string

const (
	TravelStyleLuxury    TravelStyle = "Luxury"
	TravelStyleAdventure TravelStyle = "Adventure"
	TravelStyleCultural  TravelStyle = "Cultural"
	TravelStyleBusiness  TravelStyle = "Business"
	TravelStyleFamily    TravelStyle = "Family"
	TravelStyleReligious TravelStyle = "Religious"
	TravelStyleEco       TravelStyle = "Eco"
	TravelStyleCulinary  TravelStyle = "Culinary"
)

// TravelStyles lists every accepted travel style in selector order.
var TravelStyles = []TravelStyle{
	TravelStyleLuxury,
	TravelStyleAdventure,
	TravelStyleCultural,
	TravelStyleBusiness,
	TravelStyleFamily,
	TravelStyleReligious,
	TravelStyleEco,
	TravelStyleCulinary,
}

// ParseTravelStyle matches s case-insensitively against TravelStyles.
func ParseTravelStyle(s string) (TravelStyle, bool) {
	s = strings.TrimSpace(s)
	for _, ts := range TravelStyles {
		if strings.EqualFold(s, string(ts)) {
			return ts, true
		}
	}
	return "", false
}

// ExperienceType is the sentiment category of one experience point.
type ExperienceType string

const (
	ExperiencePositive ExperienceType = "positive"
	ExperienceNeutral  ExperienceType = "neutral"
	ExperienceNegative ExperienceType = "negative"
)

func (t ExperienceType) valid() bool {
	switch t {
	case ExperiencePositive, ExperienceNeutral, ExperienceNegative:
		return true
	}
	return false
}

// Persona is the traveler profile a journey was generated for.
type Persona struct {
	Name        string      `json:"name"`
	Origin      string      `json:"origin"`
	TravelStyle TravelStyle `json:"travelStyle" jsonschema:"enum=Luxury,enum=Adventure,enum=Cultural,enum=Business,enum=Family,enum=Religious,enum=Eco,enum=Culinary"`
	Duration    string      `json:"duration"`
	Summary     string      `json:"summary" jsonschema_description:"Max 2 sentences."`
}

// ExperiencePoint is one specific moment within a stage.
type ExperiencePoint struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Type        ExperienceType `json:"type" jsonschema:"enum=positive,enum=neutral,enum=negative"`
	Icon        string         `json:"icon" jsonschema_description:"Icon name: plane, map, camera, coffee, bed, star, sun, creditcard, user, heart, alert, check, luggage, utensils, mountain, landmark, building"`
}

// Stage is one chronological phase of the visitor experience.
type Stage struct {
	ID               string            `json:"id"`
	StageName        string            `json:"stageName"`
	Location         string            `json:"location"`
	SentimentScore   int               `json:"sentimentScore" jsonschema_description:"Integer from 0 to 100."`
	Narrative        string            `json:"narrative" jsonschema_description:"Max 30 words."`
	ImageKeyword     string            `json:"imageKeyword" jsonschema_description:"Visual keyword for image search."`
	ExperiencePoints []ExperiencePoint `json:"experiencePoints"`
}

// Journey is one persona plus its stages in chronological order.
// A Journey is never mutated after Generate returns it.
type Journey struct {
	Persona Persona `json:"persona"`
	Stages  []Stage `json:"stages"`
}

// Scores returns the sentiment score of every stage in order.
func (j Journey) Scores() []int {
	out := make([]int, len(j.Stages))
	for i, s := range j.Stages {
		out[i] = s.SentimentScore
	}
	return out
}
