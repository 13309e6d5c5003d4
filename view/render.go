package view

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/theimaginaryfoundation/kingdom-journeys/journey"
)

// FailureMessage is the only failure text users ever see.
const FailureMessage = "Failed to generate journey. Please try again. Ensure API Key is valid."

// PersonaOption is one entry of the persona selector.
type PersonaOption struct {
	Value string
	Label string
}

// PersonaOptions is the selector content in display order.
var PersonaOptions = []PersonaOption{
	{Value: "Luxury", Label: "Luxury Seeker"},
	{Value: "Adventure", Label: "Desert Adventurer"},
	{Value: "Cultural", Label: "History & Heritage"},
	{Value: "Business", Label: "Business & Investment"},
	{Value: "Family", Label: "Family Vacation"},
	{Value: "Religious", Label: "Pilgrim (Umrah)"},
	{Value: "Eco", Label: "Eco-Tourism"},
	{Value: "Culinary", Label: "Foodie Explorer"},
}

// Page is the template model for one rendering of the view.
type Page struct {
	Title         string
	Phase         Phase
	Version       uint64
	PersonaType   string
	Options       []SelectOption
	Loading       bool
	Refreshing    bool
	Failed        bool
	ErrorMessage  string
	BackgroundURL string
	Persona       *journey.Persona
	Chart         Chart
	Stages        []StageCard
}

// SelectOption is one rendered <option> of the persona selector.
type SelectOption struct {
	Value    string
	Label    string
	Selected bool
}

// StageCard is one timeline card. Narrative and Points are only filled for the active card.
type StageCard struct {
	Index     int
	ID        string
	Name      string
	Location  string
	Score     int
	Tier      journey.Tier
	Active    bool
	Narrative string
	Points    []PointCard
}

// PointCard is one experience point of the active stage card.
type PointCard struct {
	Title       string
	Description string
	Type        journey.ExperienceType
	Icon        journey.IconKey
	Glyph       string
}

// NewPage builds the template model for s.
func NewPage(s State) Page {
	p := Page{
		Title:         "Kingdom Journeys",
		Phase:         s.Phase,
		Version:       s.Version,
		PersonaType:   s.PersonaType,
		Options:       selectOptions(s.PersonaType),
		Loading:       s.Phase == PhaseInitialLoading,
		Refreshing:    s.Phase == PhaseRefreshing,
		Failed:        s.Phase == PhaseError,
		BackgroundURL: journey.BackgroundImageURL(""),
	}
	if p.Failed {
		p.ErrorMessage = FailureMessage
		return p
	}
	if !s.HasJourney() {
		return p
	}

	persona := s.Journey.Persona
	p.Persona = &persona
	if active, ok := s.Active(); ok {
		p.BackgroundURL = journey.BackgroundImageURL(active.ImageKeyword)
	}
	p.Chart = NewChart(journey.ChartSeries(s.Journey.Stages))

	p.Stages = make([]StageCard, 0, len(s.Journey.Stages))
	for i, st := range s.Journey.Stages {
		card := StageCard{
			Index:    i,
			ID:       st.ID,
			Name:     st.StageName,
			Location: st.Location,
			Score:    journey.ClampScore(st.SentimentScore),
			Tier:     journey.TierFor(journey.ClampScore(st.SentimentScore)),
			Active:   i == s.ActiveStage,
		}
		if card.Active {
			card.Narrative = st.Narrative
			for _, e := range st.ExperiencePoints {
				icon := journey.ResolveIcon(e.Icon)
				card.Points = append(card.Points, PointCard{
					Title:       e.Title,
					Description: e.Description,
					Type:        e.Type,
					Icon:        icon,
					Glyph:       icon.Glyph(),
				})
			}
		}
		p.Stages = append(p.Stages, card)
	}
	return p
}

func selectOptions(selected string) []SelectOption {
	out := make([]SelectOption, 0, len(PersonaOptions)+1)
	found := false
	for _, o := range PersonaOptions {
		sel := strings.EqualFold(o.Value, selected)
		found = found || sel
		out = append(out, SelectOption{Value: o.Value, Label: o.Label, Selected: sel})
	}
	if !found && selected != "" {
		out = append(out, SelectOption{Value: selected, Label: selected, Selected: true})
	}
	return out
}

const (
	chartWidth   = 400
	chartHeight  = 200
	chartPadding = 20
)

// Chart is the sentiment curve laid out in SVG user units. Y grows downward.
type Chart struct {
	Width      int
	Height     int
	Series     []journey.ChartPoint
	Points     []ChartPlot
	Line       string
	Area       string
	ReferenceY float64
}

// ChartPlot is one chart point in SVG user units.
type ChartPlot struct {
	X     float64
	Y     float64
	Name  string
	Score int
}

// NewChart lays out series over a 0..100 y domain with a reference line at 50.
func NewChart(series []journey.ChartPoint) Chart {
	c := Chart{
		Width:      chartWidth,
		Height:     chartHeight,
		Series:     series,
		ReferenceY: chartY(journey.NeutralThreshold),
	}
	if len(series) == 0 {
		return c
	}

	inner := float64(chartWidth - 2*chartPadding)
	var line strings.Builder
	for i, pt := range series {
		x := float64(chartWidth) / 2
		if len(series) > 1 {
			x = chartPadding + inner*float64(i)/float64(len(series)-1)
		}
		y := chartY(pt.Score)
		c.Points = append(c.Points, ChartPlot{X: x, Y: y, Name: pt.Name, Score: pt.Score})
		if i == 0 {
			fmt.Fprintf(&line, "M %.1f %.1f", x, y)
		} else {
			fmt.Fprintf(&line, " L %.1f %.1f", x, y)
		}
	}
	c.Line = line.String()

	first, last := c.Points[0], c.Points[len(c.Points)-1]
	bottom := float64(chartHeight - chartPadding)
	c.Area = fmt.Sprintf("%s L %.1f %.1f L %.1f %.1f Z", c.Line, last.X, bottom, first.X, bottom)
	return c
}

func chartY(score int) float64 {
	score = journey.ClampScore(score)
	inner := float64(chartHeight - 2*chartPadding)
	return chartPadding + inner*float64(journey.MaxSentimentScore-score)/float64(journey.MaxSentimentScore)
}

// Renderer executes the page templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses every *.html template in fsys. The set must define "page" and "view".
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"icon": func(name string) string { return journey.ResolveIcon(name).Glyph() },
	}).ParseFS(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	for _, name := range []string{"page", "view"} {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("parse templates: missing %q", name)
		}
	}
	return &Renderer{tmpl: tmpl}, nil
}

// RenderPage writes the full document for s.
func (r *Renderer) RenderPage(w io.Writer, s State) error {
	return r.tmpl.ExecuteTemplate(w, "page", NewPage(s))
}

// RenderView writes only the view fragment for s.
func (r *Renderer) RenderView(w io.Writer, s State) error {
	return r.tmpl.ExecuteTemplate(w, "view", NewPage(s))
}
