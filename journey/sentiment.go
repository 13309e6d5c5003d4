package journey

const (
	MinSentimentScore = 0
	MaxSentimentScore = 100

	// PositiveThreshold and NeutralThreshold are inclusive lower bounds.
	PositiveThreshold = 80
	NeutralThreshold  = 50
)

// Tier is the visual tier a sentiment score renders in.
type Tier string

const (
	TierPositive Tier = "positive"
	TierNeutral  Tier = "neutral"
	TierNegative Tier = "negative"
)

// TierFor maps a score to its tier: >= 80 positive, 50..79 neutral, < 50 negative.
func TierFor(score int) Tier {
	switch {
	case score >= PositiveThreshold:
		return TierPositive
	case score >= NeutralThreshold:
		return TierNeutral
	default:
		return TierNegative
	}
}

// ClampScore bounds a score to [MinSentimentScore, MaxSentimentScore] for rendering.
func ClampScore(score int) int {
	if score < MinSentimentScore {
		return MinSentimentScore
	}
	if score > MaxSentimentScore {
		return MaxSentimentScore
	}
	return score
}
