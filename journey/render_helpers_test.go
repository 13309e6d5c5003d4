package journey

import "testing"

func TestTierFor_Boundaries(t *testing.T) {
	t.Parallel()

	cases := map[int]Tier{
		0:   TierNegative,
		49:  TierNegative,
		50:  TierNeutral,
		79:  TierNeutral,
		80:  TierPositive,
		100: TierPositive,
	}
	for score, want := range cases {
		if got := TierFor(score); got != want {
			t.Fatalf("TierFor(%d)=%q, want %q", score, got, want)
		}
	}
}

func TestClampScore(t *testing.T) {
	t.Parallel()

	if ClampScore(-5) != 0 || ClampScore(150) != 100 || ClampScore(42) != 42 {
		t.Fatalf("ClampScore out of range")
	}
}

func TestResolveIcon(t *testing.T) {
	t.Parallel()

	cases := map[string]IconKey{
		"plane":       IconPlane,
		"Credit-Card": IconCreditCard,
		" LANDMARK ":  IconLandmark,
		"hotel":       IconBed,
		"AlertCircle": IconAlert,
		"":            DefaultIcon,
		"spaceship":   DefaultIcon,
		"planetarium": DefaultIcon,
		"mapbuilding": DefaultIcon,
	}
	for in, want := range cases {
		if got := ResolveIcon(in); got != want {
			t.Fatalf("ResolveIcon(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestIconKey_Glyph(t *testing.T) {
	t.Parallel()

	if IconKey("nope").Glyph() != DefaultIcon.Glyph() {
		t.Fatalf("unknown key should render the default glyph")
	}
	for k := range iconGlyphs {
		if k.Glyph() == "" {
			t.Fatalf("empty glyph for %q", k)
		}
	}
}

func TestBackgroundImageURL(t *testing.T) {
	t.Parallel()

	if got := BackgroundImageURL("riyadh  skyline\tnight"); got != "https://picsum.photos/seed/riyadhskylinenight/1920/1080" {
		t.Fatalf("got=%q", got)
	}
	if got := BackgroundImageURL(" "); got != "https://picsum.photos/seed/saudidesert/1920/1080" {
		t.Fatalf("got=%q", got)
	}
}

func TestParseTravelStyle(t *testing.T) {
	t.Parallel()

	if ts, ok := ParseTravelStyle(" culinary "); !ok || ts != TravelStyleCulinary {
		t.Fatalf("got=%q ok=%v", ts, ok)
	}
	if _, ok := ParseTravelStyle("Random"); ok {
		t.Fatalf("expected unknown style")
	}
}

func TestJourney_Scores(t *testing.T) {
	t.Parallel()

	j := Journey{Stages: []Stage{{SentimentScore: 10}, {SentimentScore: 90}}}
	got := j.Scores()
	if len(got) != 2 || got[0] != 10 || got[1] != 90 {
		t.Fatalf("Scores=%v", got)
	}
}
