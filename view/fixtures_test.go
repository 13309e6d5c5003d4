package view

import (
	"context"
	"fmt"

	"github.com/theimaginaryfoundation/kingdom-journeys/journey"
)

var stageNames = []string{"Pre-Trip", "Arrival", "Accommodation", "Exploration", "Departure"}

// testJourney builds a journey with one stage per score.
func testJourney(style journey.TravelStyle, scores ...int) journey.Journey {
	j := journey.Journey{
		Persona: journey.Persona{
			Name:        fmt.Sprintf("%s Traveler", style),
			Origin:      "London, UK",
			TravelStyle: style,
			Duration:    "7 Days",
			Summary:     "Seeks exclusive experiences.",
		},
		Stages: []journey.Stage{},
	}
	for i, score := range scores {
		name := fmt.Sprintf("Stage %d", i+1)
		if i < len(stageNames) {
			name = stageNames[i]
		}
		j.Stages = append(j.Stages, journey.Stage{
			ID:             fmt.Sprintf("s%d", i+1),
			StageName:      name,
			Location:       fmt.Sprintf("Location %d", i+1),
			SentimentScore: score,
			Narrative:      fmt.Sprintf("Narrative for %s.", name),
			ImageKeyword:   fmt.Sprintf("keyword%d", i+1),
			ExperiencePoints: []journey.ExperiencePoint{
				{Title: "Check-in", Description: "Fast lane.", Type: journey.ExperiencePositive, Icon: "luggage"},
				{Title: "Queue", Description: "Long wait.", Type: journey.ExperienceNegative, Icon: "mystery"},
			},
		})
	}
	return j
}

func luxuryJourney() journey.Journey {
	return testJourney(journey.TravelStyleLuxury, 60, 75, 82, 95, 70)
}

type generatorFunc func(ctx context.Context, personaType string) (journey.Journey, error)

func (f generatorFunc) Generate(ctx context.Context, personaType string) (journey.Journey, error) {
	return f(ctx, personaType)
}
