package pricing

import (
	"easy11ML/domain"
	"fmt"
	"math"
)

type Strategy string

const (
	StrategyBalanced Strategy = "balanced"
	StrategyGrowth   Strategy = "growth"
	StrategyMargin   Strategy = "margin"
)

var strategyNotes = map[Strategy]string{
	StrategyBalanced: "Balanced strategy weighs revenue uplift against margin protection.",
	StrategyGrowth:   "Growth strategy favours competitive pricing to capture demand.",
	StrategyMargin:   "Margin strategy prioritises profitability and reduces deep discounts.",
}

func ParseStrategy(raw string) (Strategy, error) {
	if raw == "" {
		return StrategyBalanced, nil
	}
	s := Strategy(raw)
	if _, ok := strategyNotes[s]; !ok {
		return "", fmt.Errorf("%w: unknown strategy %q", domain.ErrInvalidInput, raw)
	}
	return s, nil
}

const (
	maxDiscountPct = 0.30
	minMarginPct   = 0.18

	minAdjustment = -0.18
	maxAdjustment = 0.12

	minDiscount = -0.2
	maxDiscount = 0.4
)

var scenarioDeltas = []float64{-0.1, -0.05, 0, 0.05, 0.1}

// buildGuardrails returns floor = max(cost or 55% of current, 75% of current) and
// ceiling = 125% of current, rounded to cents. A cost above the ceiling lifts the
// ceiling to the floor so the band never inverts.
func buildGuardrails(current float64, cost *float64) domain.PriceGuardrails {
	base := current * 0.55
	if cost != nil && *cost > 0 {
		base = *cost
	}
	floor := round(math.Max(base, current*0.75), 2)
	ceiling := round(current*1.25, 2)
	if floor > ceiling {
		ceiling = floor
	}
	return domain.PriceGuardrails{
		MinPrice:       floor,
		MaxPrice:       ceiling,
		MaxDiscountPct: maxDiscountPct,
		MinMarginPct:   minMarginPct,
	}
}

// applyGuardrails clamps price into [min, max] and reports which bound bit, if any.
func applyGuardrails(price float64, g domain.PriceGuardrails) (float64, string) {
	switch {
	case price < g.MinPrice:
		return g.MinPrice, "floor"
	case price > g.MaxPrice:
		return g.MaxPrice, "ceiling"
	default:
		return price, ""
	}
}

func estimateElasticity(s domain.ProductSignals, strategy Strategy) float64 {
	// higher conversion lowers elasticity, fast stock raises it
	e := 1.4 - s.ConversionRate*1.1
	e += (s.StockVelocity - 0.5) * 0.4
	e += s.ReturnRate * 1.2
	switch strategy {
	case StrategyGrowth:
		e += 0.15
	case StrategyMargin:
		e -= 0.1
	}
	return math.Max(e, 0.4)
}

// baseAdjustment is the signed fraction to move price by before guardrails.
func baseAdjustment(s domain.ProductSignals, strategy Strategy) float64 {
	trend := (s.AddToCart7d + 1) / math.Max(s.Views7d, 5) * 5

	adj := 0.0
	if trend > s.ConversionRate*1.2 {
		adj += 0.04
	}
	if s.StockVelocity < 0.4 {
		adj -= 0.05
	}
	if s.ReturnRate > 0.04 {
		adj -= 0.03
	}

	switch strategy {
	case StrategyGrowth:
		adj -= 0.03
	case StrategyMargin:
		adj += 0.04
	}

	return clamp(adj, minAdjustment, maxAdjustment)
}

func confidence(s domain.ProductSignals) float64 {
	stability := 1 - math.Abs(s.StockVelocity-0.6)
	strength := math.Min(s.Views7d/500.0, 1.0)
	return clamp(0.55+stability*0.25+strength*0.2, 0.45, 0.95)
}

func margin(price, cost float64) float64 {
	return (price - cost) / math.Max(price, 0.01)
}

func scenarioTable(base, cost, elasticity float64) []domain.PriceScenario {
	out := make([]domain.PriceScenario, 0, len(scenarioDeltas))
	for _, d := range scenarioDeltas {
		price := base * (1 + d)
		demand := -elasticity * d
		revenue := (1+d)*(1+demand) - 1
		out = append(out, domain.PriceScenario{
			Price:            round(price, 2),
			PriceDeltaPct:    round(d*100, 2),
			DemandChangePct:  round(demand*100, 2),
			RevenueChangePct: round(revenue*100, 2),
			MarginPct:        round(margin(price, cost)*100, 2),
		})
	}
	return out
}

func explanation(s domain.ProductSignals, strategy Strategy, adjustment, elasticity float64) string {
	direction := "decrease"
	if adjustment > 0 {
		direction = "increase"
	}
	return fmt.Sprintf(
		"Suggested %s of %.1f%% based on conversion rate %.2f, stock velocity %.2f, and return rate %.2f. %s Elasticity estimate %.2f indicates demand shifts ~%.2fx relative to price moves.",
		direction, math.Abs(adjustment*100), s.ConversionRate, s.StockVelocity, s.ReturnRate,
		strategyNotes[strategy], elasticity, elasticity,
	)
}

func recommendedActions(s domain.ProductSignals, adjustment float64) []string {
	var actions []string
	if adjustment < -0.05 && s.StockVelocity < 0.5 {
		actions = append(actions, "Consider promoting through ads or bundles to move inventory.")
	}
	if adjustment > 0.05 && s.ConversionRate > 0.3 {
		actions = append(actions, "Highlight premium positioning and social proof to sustain performance.")
	}
	if s.ReturnRate > 0.05 {
		actions = append(actions, "Audit product quality/expectations to reduce returns.")
	}
	if len(actions) == 0 {
		actions = append(actions, "Monitor results over the next week and recalibrate if demand shifts.")
	}
	return actions
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
