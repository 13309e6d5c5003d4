package journey

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Validate checks a decoded journey against the data model and canonicalizes it in place:
// strings are trimmed, the travel style takes its canonical spelling and experience types
// are lowercased. Every problem found is reported; the result wraps ErrMalformedResponse.
//
// A journey with zero stages is valid.
func Validate(j *Journey) error {
	return validate(j, nil)
}

func validate(j *Journey, problems []error) error {
	if j == nil {
		return fmt.Errorf("%w: journey is nil", ErrMalformedResponse)
	}

	missing := func(field string) {
		problems = append(problems, fmt.Errorf("%s is required", field))
	}

	p := &j.Persona
	p.Name = strings.TrimSpace(p.Name)
	p.Origin = strings.TrimSpace(p.Origin)
	p.Duration = strings.TrimSpace(p.Duration)
	p.Summary = strings.TrimSpace(p.Summary)
	if p.Name == "" {
		missing("persona.name")
	}
	if p.Origin == "" {
		missing("persona.origin")
	}
	if p.Duration == "" {
		missing("persona.duration")
	}
	if p.Summary == "" {
		missing("persona.summary")
	}
	if ts, ok := ParseTravelStyle(string(p.TravelStyle)); ok {
		p.TravelStyle = ts
	} else {
		problems = append(problems, fmt.Errorf("persona.travelStyle %q is not a known travel style", p.TravelStyle))
	}

	for i := range j.Stages {
		s := &j.Stages[i]
		prefix := fmt.Sprintf("stages[%d]", i)
		s.ID = strings.TrimSpace(s.ID)
		s.StageName = strings.TrimSpace(s.StageName)
		s.Location = strings.TrimSpace(s.Location)
		s.Narrative = strings.TrimSpace(s.Narrative)
		s.ImageKeyword = strings.TrimSpace(s.ImageKeyword)
		if s.ID == "" {
			missing(prefix + ".id")
		}
		if s.StageName == "" {
			missing(prefix + ".stageName")
		}
		if s.Location == "" {
			missing(prefix + ".location")
		}
		if s.Narrative == "" {
			missing(prefix + ".narrative")
		}
		if s.SentimentScore < MinSentimentScore || s.SentimentScore > MaxSentimentScore {
			problems = append(problems, fmt.Errorf("%s.sentimentScore %d is outside [%d,%d]", prefix, s.SentimentScore, MinSentimentScore, MaxSentimentScore))
		}

		for k := range s.ExperiencePoints {
			e := &s.ExperiencePoints[k]
			eprefix := fmt.Sprintf("%s.experiencePoints[%d]", prefix, k)
			e.Title = strings.TrimSpace(e.Title)
			e.Description = strings.TrimSpace(e.Description)
			e.Icon = strings.TrimSpace(e.Icon)
			e.Type = ExperienceType(strings.ToLower(strings.TrimSpace(string(e.Type))))
			if e.Title == "" {
				missing(eprefix + ".title")
			}
			if e.Description == "" {
				missing(eprefix + ".description")
			}
			if !e.Type.valid() {
				problems = append(problems, fmt.Errorf("%s.type %q is not positive, neutral or negative", eprefix, e.Type))
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrMalformedResponse, errors.Join(problems...))
}

// presence mirrors the wire shape with pointers so an absent key differs from a zero value.
type presence struct {
	Persona *json.RawMessage `json:"persona"`
	Stages  *[]stagePresence `json:"stages"`
}

type stagePresence struct {
	SentimentScore   *int             `json:"sentimentScore"`
	ImageKeyword     *string          `json:"imageKeyword"`
	ExperiencePoints *[]pointPresence `json:"experiencePoints"`
}

type pointPresence struct {
	Icon *string `json:"icon"`
}

// missingKeys reports keys that are absent or null. An empty stages array is present.
func missingKeys(p presence) []error {
	var problems []error
	missing := func(field string) {
		problems = append(problems, fmt.Errorf("%s is required", field))
	}

	if p.Persona == nil {
		missing("persona")
	}
	if p.Stages == nil {
		missing("stages")
		return problems
	}
	for i, s := range *p.Stages {
		prefix := fmt.Sprintf("stages[%d]", i)
		if s.SentimentScore == nil {
			missing(prefix + ".sentimentScore")
		}
		if s.ImageKeyword == nil {
			missing(prefix + ".imageKeyword")
		}
		if s.ExperiencePoints == nil {
			missing(prefix + ".experiencePoints")
			continue
		}
		for k, e := range *s.ExperiencePoints {
			if e.Icon == nil {
				missing(fmt.Sprintf("%s.experiencePoints[%d].icon", prefix, k))
			}
		}
	}
	return problems
}
