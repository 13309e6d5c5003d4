package journey

// ChartPoint is one point of the sentiment-vs-stage chart.
type ChartPoint struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// ChartSeries returns one point per stage, in stage order.
func ChartSeries(stages []Stage) []ChartPoint {
	out := make([]ChartPoint, 0, len(stages))
	for _, s := range stages {
		out = append(out, ChartPoint{Name: s.StageName, Score: s.SentimentScore})
	}
	return out
}
