package journey

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/theimaginaryfoundation/kingdom-journeys/journey/fileutils"
)

// Completer performs one structured-output call and returns the raw model text.
// Implementations wrap call failures with ErrTransport.
type Completer interface {
	Complete(ctx context.Context, instructions, input string) (string, error)
}

// Generator turns a persona type into a validated Journey. It makes exactly one call per
// Generate and never retries or caches.
type Generator struct {
	completer Completer
}

// NewGenerator returns a Generator backed by c.
func NewGenerator(c Completer) *Generator {
	return &Generator{completer: c}
}

// Generate asks the service for a journey for personaType (DefaultPersonaType when empty).
// Failures wrap ErrEmptyResponse, ErrMalformedResponse or ErrTransport.
func (g *Generator) Generate(ctx context.Context, personaType string) (Journey, error) {
	if g == nil || g.completer == nil {
		return Journey{}, errors.New("journey.Generator: completer is nil")
	}
	personaType = strings.TrimSpace(personaType)
	if personaType == "" {
		personaType = DefaultPersonaType
	}

	text, err := g.completer.Complete(ctx, generationInstructions, BuildPrompt(personaType))
	if err != nil {
		if errors.Is(err, ErrTransport) {
			return Journey{}, err
		}
		return Journey{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return Decode(text)
}

// Decode parses raw model text into a validated Journey.
func Decode(text string) (Journey, error) {
	if strings.TrimSpace(text) == "" {
		return Journey{}, ErrEmptyResponse
	}

	var j Journey
	if err := fileutils.DecodeModelJSON(text, &j); err != nil {
		return Journey{}, newOutputError(text, fmt.Errorf("%w: %w", ErrMalformedResponse, err))
	}
	var p presence
	if err := fileutils.DecodeModelJSON(text, &p); err != nil {
		return Journey{}, newOutputError(text, fmt.Errorf("%w: %w", ErrMalformedResponse, err))
	}
	if err := validate(&j, missingKeys(p)); err != nil {
		return Journey{}, newOutputError(text, err)
	}
	if j.Stages == nil {
		j.Stages = []Stage{}
	}
	return j, nil
}
