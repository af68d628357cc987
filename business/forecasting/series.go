package forecasting

import (
	"easy11ML/domain"
	"math"
	"math/rand"
	"time"
)

type point struct {
	date  time.Time
	value float64
	lower float64
	upper float64
}

type seriesParams struct {
	base   float64
	growth float64
	noise  float64
}

// seriesSeed fixes the noise sequence so the same horizon always yields the same values.
const seriesSeed = 42

// syntheticSeries produces a linear trend with weekly seasonality and bounded noise,
// one point per day starting at start.
func syntheticSeries(start time.Time, horizon int, p seriesParams) []point {
	rng := rand.New(rand.NewSource(seriesSeed))
	out := make([]point, 0, horizon)

	for i := 0; i < horizon; i++ {
		trend := p.base + p.growth*float64(i)
		seasonal := 60 * math.Sin(2*math.Pi*float64(i%7)/7)
		noise := -p.noise + 2*p.noise*rng.Float64()
		value := trend + seasonal + noise
		band := math.Max(value*0.12, 25)

		out = append(out, point{
			date:  start.AddDate(0, 0, i),
			value: value,
			lower: value - band,
			upper: value + band,
		})
	}
	return out
}

func toPoints(series []point) []domain.ForecastPoint {
	out := make([]domain.ForecastPoint, 0, len(series))
	for _, p := range series {
		out = append(out, domain.ForecastPoint{
			Date:       p.date.Format(time.DateOnly),
			Value:      round(p.value, 2),
			LowerBound: round(p.lower, 2),
			UpperBound: round(p.upper, 2),
		})
	}
	return out
}

var scenarioDeltas = []float64{-0.1, -0.05, 0, 0.05, 0.1}

func scenarios(series []point, scale float64) []domain.ForecastScenario {
	last := series[len(series)-1].value
	out := make([]domain.ForecastScenario, 0, len(scenarioDeltas))
	for _, d := range scenarioDeltas {
		risk := "tight"
		switch {
		case d < -0.05:
			risk = "high"
		case d < 0.05:
			risk = "balanced"
		}
		out = append(out, domain.ForecastScenario{
			DeltaPct:        round(d*100, 2),
			ProjectedDemand: round(last*(1+d), 2),
			RevenueIndex:    round((1+d*(1+scale))*100, 1),
			InventoryRisk:   risk,
		})
	}
	return out
}

func growthRate(series []point) float64 {
	start := series[0].value
	if start == 0 {
		return 0
	}
	return (series[len(series)-1].value - start) / start
}

func summarize(series []point) domain.ForecastSummary {
	peak, trough := series[0], series[0]
	for _, p := range series[1:] {
		if p.value > peak.value {
			peak = p
		}
		if p.value < trough.value {
			trough = p
		}
	}
	return domain.ForecastSummary{
		GrowthRatePct: round(growthRate(series)*100, 2),
		PeakDay:       peak.date.Format(time.DateOnly),
		PeakValue:     round(peak.value, 2),
		TroughDay:     trough.date.Format(time.DateOnly),
		TroughValue:   round(trough.value, 2),
	}
}

func restock(series []point) domain.RestockRecommendation {
	upcoming := series
	if len(upcoming) > 7 {
		upcoming = upcoming[:7]
	}
	total := 0.0
	for _, p := range upcoming {
		total += p.value
	}
	avg := total / float64(len(upcoming))
	return domain.RestockRecommendation{
		RecommendedRestockUnits: int(math.Round(avg * 1.4)),
		DemandNext7d:            int(math.Round(total)),
		Action:                  "Increase purchase order by 12% to avoid stockouts.",
		Confidence:              0.68,
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
