package view

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theimaginaryfoundation/kingdom-journeys/journey"
	"github.com/theimaginaryfoundation/kingdom-journeys/view/mocks"
	"go.uber.org/mock/gomock"
)

const waitFor = 2 * time.Second

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startController runs c until the test ends.
func startController(t *testing.T, gen Generator, personaType string) *Controller {
	t.Helper()
	c := NewController(gen, personaType, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = c.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return c
}

func waitForState(t *testing.T, c *Controller, cond func(State) bool) State {
	t.Helper()
	var s State
	require.Eventually(t, func() bool {
		got, err := c.Snapshot(context.Background())
		if err != nil || !cond(got) {
			return false
		}
		s = got
		return true
	}, waitFor, 5*time.Millisecond)
	return s
}

func inPhase(p Phase) func(State) bool {
	return func(s State) bool { return s.Phase == p }
}

// blockUntil returns a generator stub that waits for release before returning j.
func blockUntil(release <-chan struct{}, j journey.Journey) func(context.Context, string) (journey.Journey, error) {
	return func(ctx context.Context, _ string) (journey.Journey, error) {
		select {
		case <-release:
			return j, nil
		case <-ctx.Done():
			return journey.Journey{}, ctx.Err()
		}
	}
}

func TestControllerLoadsDefaultPersonaOnStart(t *testing.T) {
	t.Parallel()

	gen := mocks.NewMockGenerator(gomock.NewController(t))
	gen.EXPECT().Generate(gomock.Any(), "Luxury").Return(luxuryJourney(), nil).Times(1)

	c := startController(t, gen, "")
	s := waitForState(t, c, inPhase(PhaseLoaded))

	assert.Equal(t, "Luxury", s.PersonaType)
	assert.Equal(t, 0, s.ActiveStage)
	require.NotNil(t, s.Journey)
	assert.Equal(t, []int{60, 75, 82, 95, 70}, s.Journey.Scores())

	series := journey.ChartSeries(s.Journey.Stages)
	require.Len(t, series, 5)
	assert.Equal(t, journey.ChartPoint{Name: "Pre-Trip", Score: 60}, series[0])
}

func TestControllerRefreshKeepsPreviousJourneyUntilNewOneArrives(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	adventure := testJourney(journey.TravelStyleAdventure, 40, 55, 90)

	gen := mocks.NewMockGenerator(gomock.NewController(t))
	gomock.InOrder(
		gen.EXPECT().Generate(gomock.Any(), "Luxury").Return(luxuryJourney(), nil),
		gen.EXPECT().Generate(gomock.Any(), "Adventure").DoAndReturn(blockUntil(release, adventure)),
	)

	c := startController(t, gen, "Luxury")
	waitForState(t, c, inPhase(PhaseLoaded))

	ctx := context.Background()
	_, err := c.SelectStage(ctx, 2)
	require.NoError(t, err)

	s, err := c.SelectPersona(ctx, "Adventure")
	require.NoError(t, err)
	assert.Equal(t, PhaseRefreshing, s.Phase)
	assert.Equal(t, 2, s.ActiveStage)
	require.NotNil(t, s.Journey)
	assert.Equal(t, journey.TravelStyleLuxury, s.Journey.Persona.TravelStyle)

	close(release)
	s = waitForState(t, c, inPhase(PhaseLoaded))
	assert.Equal(t, "Adventure", s.PersonaType)
	assert.Equal(t, 0, s.ActiveStage)
	assert.Equal(t, journey.TravelStyleAdventure, s.Journey.Persona.TravelStyle)
}

func TestControllerRetryReusesPersonaAfterFailure(t *testing.T) {
	t.Parallel()

	gen := mocks.NewMockGenerator(gomock.NewController(t))
	gomock.InOrder(
		gen.EXPECT().Generate(gomock.Any(), "Cultural").
			Return(journey.Journey{}, fmt.Errorf("%w: not json", journey.ErrMalformedResponse)),
		gen.EXPECT().Generate(gomock.Any(), "Cultural").
			Return(testJourney(journey.TravelStyleCultural, 70, 85), nil),
	)

	c := startController(t, gen, "Cultural")
	s := waitForState(t, c, inPhase(PhaseError))
	assert.Nil(t, s.Journey)
	assert.ErrorIs(t, s.Err, journey.ErrMalformedResponse)

	s, err := c.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseInitialLoading, s.Phase)

	s = waitForState(t, c, inPhase(PhaseLoaded))
	assert.Equal(t, "Cultural", s.PersonaType)
	assert.Len(t, s.Journey.Stages, 2)
}

func TestControllerDiscardsSupersededResult(t *testing.T) {
	t.Parallel()

	releaseAdventure := make(chan struct{})
	adventure := testJourney(journey.TravelStyleAdventure, 40)
	culinary := testJourney(journey.TravelStyleCulinary, 88, 91)

	gen := mocks.NewMockGenerator(gomock.NewController(t))
	gen.EXPECT().Generate(gomock.Any(), "Luxury").Return(luxuryJourney(), nil)
	gen.EXPECT().Generate(gomock.Any(), "Adventure").DoAndReturn(blockUntil(releaseAdventure, adventure))
	gen.EXPECT().Generate(gomock.Any(), "Culinary").Return(culinary, nil)

	c := startController(t, gen, "")
	waitForState(t, c, inPhase(PhaseLoaded))

	ctx := context.Background()
	_, err := c.SelectPersona(ctx, "Adventure")
	require.NoError(t, err)
	_, err = c.SelectPersona(ctx, "Culinary")
	require.NoError(t, err)

	s := waitForState(t, c, inPhase(PhaseLoaded))
	assert.Equal(t, "Culinary", s.PersonaType)

	close(releaseAdventure)
	assert.Never(t, func() bool {
		got, err := c.Snapshot(context.Background())
		return err != nil || got.Journey == nil || got.Journey.Persona.TravelStyle != journey.TravelStyleCulinary
	}, 150*time.Millisecond, 10*time.Millisecond)
}

func TestControllerRejectsStageSelectionWhileLoading(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	gen := mocks.NewMockGenerator(gomock.NewController(t))
	gen.EXPECT().Generate(gomock.Any(), "Luxury").DoAndReturn(blockUntil(release, luxuryJourney())).AnyTimes()

	c := startController(t, gen, "Luxury")

	_, err := c.SelectStage(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestControllerNotifiesSubscribers(t *testing.T) {
	t.Parallel()

	gen := mocks.NewMockGenerator(gomock.NewController(t))
	gen.EXPECT().Generate(gomock.Any(), "Luxury").Return(luxuryJourney(), nil)

	c := NewController(gen, "Luxury", discardLogger())
	updates, cancelSub := c.Subscribe()
	defer cancelSub()

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = c.Run(ctx)
	}()
	defer func() {
		cancel()
		<-stopped
	}()

	loaded := waitForState(t, c, inPhase(PhaseLoaded))

	deadline := time.After(waitFor)
	for {
		select {
		case v := <-updates:
			if v == loaded.Version {
				return
			}
		case <-deadline:
			t.Fatalf("no notification for version %d", loaded.Version)
		}
	}
}

func TestControllerReturnsErrStoppedAfterRun(t *testing.T) {
	t.Parallel()

	gen := generatorFunc(func(context.Context, string) (journey.Journey, error) {
		return luxuryJourney(), nil
	})

	c := NewController(gen, "", discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = c.Run(ctx)
	}()
	cancel()
	<-stopped

	_, err := c.SelectPersona(context.Background(), "Eco")
	assert.ErrorIs(t, err, ErrStopped)
}

func TestControllerLogsOutputPreviewOnMalformedResult(t *testing.T) {
	t.Parallel()

	_, decodeErr := journey.Decode("not json")
	require.ErrorIs(t, decodeErr, journey.ErrMalformedResponse)

	gen := mocks.NewMockGenerator(gomock.NewController(t))
	gen.EXPECT().Generate(gomock.Any(), "Luxury").Return(journey.Journey{}, decodeErr)

	var logs bytes.Buffer
	c := NewController(gen, "Luxury", slog.New(slog.NewTextHandler(&logs, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = c.Run(ctx)
	}()

	waitForState(t, c, inPhase(PhaseError))
	cancel()
	<-stopped

	assert.Contains(t, logs.String(), "journey generation failed")
	assert.Contains(t, logs.String(), "kind=malformed")
	assert.Contains(t, logs.String(), `output_preview="not json"`)
}
