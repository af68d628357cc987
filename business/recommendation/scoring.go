package recommendation

import (
	"easy11ML/domain"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"strings"
)

type Algorithm string

const (
	AlgoALS     Algorithm = "als"
	AlgoLightFM Algorithm = "lightfm"
	AlgoHybrid  Algorithm = "hybrid"
)

type algorithmSpec struct {
	weight  float64
	version string
}

var algorithms = map[Algorithm]algorithmSpec{
	AlgoALS:     {weight: 1.05, version: "v2.0.0"},
	AlgoLightFM: {weight: 1.025, version: "v2.0.0"},
	AlgoHybrid:  {weight: 1.07, version: "v2.0.0"},
}

func ParseAlgorithm(raw string) (Algorithm, error) {
	if raw == "" {
		return AlgoHybrid, nil
	}
	algo := Algorithm(strings.ToLower(raw))
	if _, ok := algorithms[algo]; !ok {
		return "", fmt.Errorf("%w: unknown algorithm %q", domain.ErrInvalidInput, raw)
	}
	return algo, nil
}

// final = 0.45*collaborative + 0.35*content + 0.15*business + exploration
const (
	collaborativeWeight = 0.45
	contentWeight       = 0.35
	businessWeight      = 0.15

	explorationMin = 0.01
	explorationMax = 0.05
)

func collaborativeScore(p domain.UserProfile, c candidate, algo Algorithm) float64 {
	base := math.Min(p.RFMScore*c.BasePopularity, 1.0)
	return clamp(base*algorithms[algo].weight, 0, 1)
}

func contentScore(p domain.UserProfile, c candidate) float64 {
	alignment := 1 - math.Abs(p.AvgOrderValue-c.Price)/math.Max(p.AvgOrderValue+1e-6, 1.0)
	alignment = clamp(alignment, 0, 1)
	signal := 0.6*alignment + 0.4*math.Min(c.TrendScore+p.OrdersLast30d/50.0, 1.0)
	return clamp(signal, 0, 1.2)
}

func businessScore(c candidate) float64 {
	return clamp(c.StockVelocity*0.6+(1-c.ReturnRate)*0.4, 0, 1.2)
}

// explorationSeed maps a user id onto a stable seed so repeated calls draw the same bonuses.
func explorationSeed(userID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(userID))
	return int64(h.Sum64() % 2147483647)
}

// rank scores candidates in place and sorts them by descending score.
// One exploration draw is taken per candidate in catalog order.
func rank(userID string, p domain.UserProfile, candidates []candidate, algo Algorithm) {
	rng := rand.New(rand.NewSource(explorationSeed(userID)))

	for i := range candidates {
		c := &candidates[i]
		collab := collaborativeScore(p, *c, algo)
		content := contentScore(p, *c)
		business := businessScore(*c)
		bonus := explorationMin + (explorationMax-explorationMin)*rng.Float64()

		c.score = collaborativeWeight*collab + contentWeight*content + businessWeight*business + bonus
		c.reason = reasonFor(p, *c)
		c.explanation = fmt.Sprintf(
			"Personalized using hybrid model. User LTV score %.2f, RFM %.2f. Collaborative score %.2f; Content affinity %.2f; Business signal %.2f",
			p.LifetimeValueScore, p.RFMScore, collab, content, business,
		)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
}

func reasonFor(p domain.UserProfile, c candidate) string {
	category := strings.ToLower(c.Category)
	switch {
	case (category == "electronics" || category == "computing") && p.AvgOrderValue > 500:
		return "Matches your high-end tech purchases"
	case (category == "wellness" || category == "athleisure") && p.OrdersLast30d >= 2:
		return "Keeps your wellness streak going"
	case c.ReturnRate < 0.02:
		return "Loved by similar customers"
	case len(c.Badges) > 0:
		return c.Badges[0]
	default:
		return "Smart pick based on your activity"
	}
}

func toRecommendation(c candidate) domain.Recommendation {
	return domain.Recommendation{
		ProductID:   c.ProductID,
		Score:       round(c.score, 4),
		Reason:      c.reason,
		Explanation: c.explanation,
		Metadata: domain.RecommendationMetadata{
			Title:      c.Title,
			Subtitle:   c.Subtitle,
			Price:      c.Price,
			Currency:   c.Currency,
			Image:      c.Image,
			Category:   c.Category,
			Tags:       append([]string(nil), c.Tags...),
			Badges:     append([]string(nil), c.Badges...),
			ProductURL: c.ProductURL,
		},
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
