package journey

import (
	"fmt"
	"strings"
)

// DefaultPersonaType is used when Generate is called with an empty persona type.
const DefaultPersonaType = "Luxury"

const (
	StagesPerJourney    = 5
	PointsPerStage      = 3
	MaxNarrativeWords   = 30
	MaxSummarySentences = 2
)

// StageOrder is the chronological stage sequence every journey is asked for.
var StageOrder = []string{"Pre-Trip", "Arrival", "Accommodation", "Exploration", "Departure"}

const generationInstructions = `You are a visitor experience designer for tourism in Saudi Arabia (KSA).

You map the end-to-end journey of one tourist persona: how each phase of the trip feels,
where it happens, and the specific moments that shape the mood.

RULES:
- Invent exactly one persona matching the requested traveler style.
- travelStyle must be one of: Luxury, Adventure, Cultural, Business, Family, Religious, Eco, Culinary.
- Keep the persona summary to at most 2 sentences.
- sentimentScore is an integer from 0 (miserable) to 100 (delighted); it drives an emotional curve,
  so vary it honestly across stages.
- narrative is CONCISE: at most 30 words.
- imageKeyword is a short visual keyword suitable for an image search (e.g. "riyadh skyline").
- Each experience point has a short title, a one-sentence description, a type
  (positive, neutral or negative) and an icon name from: plane, map, camera, coffee, bed, star,
  sun, creditcard, user, heart, alert, check, luggage, utensils, mountain, landmark, building.
- Stage ids are short unique strings.

Return only JSON matching the schema.`

// BuildPrompt renders the user prompt for one persona type.
func BuildPrompt(personaType string) string {
	var b strings.Builder
	b.WriteString("Generate a visitor journey for a tourist in Saudi Arabia (KSA).\n")
	fmt.Fprintf(&b, "Persona: %q style traveler.\n\n", personaType)
	fmt.Fprintf(&b, "Create %d chronological stages:\n", StagesPerJourney)
	for i, name := range StageOrder {
		label := name
		if name == "Exploration" {
			label = name + " (Key site)"
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, label)
	}
	b.WriteString("\nRequirements:\n")
	b.WriteString("- Sentiment score (0-100) for the curve.\n")
	fmt.Fprintf(&b, "- Narrative: CONCISE (max %d words).\n", MaxNarrativeWords)
	fmt.Fprintf(&b, "- Persona summary: max %d sentences.\n", MaxSummarySentences)
	fmt.Fprintf(&b, "- Experience Points: %d specific moments per stage with short descriptions.\n", PointsPerStage)
	return b.String()
}
