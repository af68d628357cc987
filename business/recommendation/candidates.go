package recommendation

type candidate struct {
	ProductID  string
	Title      string
	Subtitle   string
	Price      float64
	Currency   string
	Image      string
	Category   string
	Tags       []string
	Badges     []string
	ProductURL string

	TrendScore     float64
	BasePopularity float64
	ConversionRate float64
	ReturnRate     float64
	StockVelocity  float64

	score       float64
	reason      string
	explanation string
}

// catalog is the static candidate template. It is never mutated after init.
var catalog = []candidate{
	{
		ProductID: "prod-smart-sound-01", Title: "Aeris Smart Sound Bar",
		Subtitle: "Adaptive 360° audio with cinematic spatial sound", Price: 449, Image: "🔊",
		Category: "Electronics", Tags: []string{"home-theatre", "premium", "immersive"},
		Badges:     []string{"AI tuned", "95% positive"},
		TrendScore: 0.82, BasePopularity: 0.78, ConversionRate: 0.27, ReturnRate: 0.03, StockVelocity: 0.65,
	},
	{
		ProductID: "prod-fitness-pro-02", Title: "PulseTrack Pro Watch",
		Subtitle: "VO₂ max, sleep coaching & triathlon ready", Price: 329, Image: "⌚",
		Category: "Wearables", Tags: []string{"fitness", "outdoor", "waterproof"},
		Badges:     []string{"Top seller", "Ships today"},
		TrendScore: 0.76, BasePopularity: 0.88, ConversionRate: 0.32, ReturnRate: 0.018, StockVelocity: 0.71,
	},
	{
		ProductID: "prod-creator-cam-03", Title: "Lumen Creator Camera",
		Subtitle: "4K mirrorless with AI framing for live creators", Price: 1199, Image: "📷",
		Category: "Photography", Tags: []string{"content", "studio", "low-light"},
		Badges:     []string{"Creator pick", "Bundle available"},
		TrendScore: 0.69, BasePopularity: 0.64, ConversionRate: 0.21, ReturnRate: 0.025, StockVelocity: 0.54,
	},
	{
		ProductID: "prod-lux-home-04", Title: "GlowSense Smart Lamp",
		Subtitle: "Mood-aware lighting with circadian rhythm mode", Price: 189, Image: "💡",
		Category: "Home", Tags: []string{"smart-home", "decor", "energy-saving"},
		Badges:     []string{"Eco friendly", "Recommended"},
		TrendScore: 0.74, BasePopularity: 0.67, ConversionRate: 0.26, ReturnRate: 0.017, StockVelocity: 0.49,
	},
	{
		ProductID: "prod-pro-laptop-05", Title: "NovaBook Studio 15",
		Subtitle: "Creator-grade performance with mini-LED display", Price: 1899, Image: "💻",
		Category: "Computing", Tags: []string{"creator", "performance", "studio"},
		Badges:     []string{"New", "Backed by warranty"},
		TrendScore: 0.71, BasePopularity: 0.74, ConversionRate: 0.29, ReturnRate: 0.022, StockVelocity: 0.62,
	},
	{
		ProductID: "prod-wellness-06", Title: "ZenBreath Smart Diffuser",
		Subtitle: "Guided breathwork with adaptive aromatherapy", Price: 129, Image: "🌿",
		Category: "Wellness", Tags: []string{"calm", "sleep", "mindfulness"},
		Badges:     []string{"Bestseller", "Member favourite"},
		TrendScore: 0.84, BasePopularity: 0.82, ConversionRate: 0.35, ReturnRate: 0.015, StockVelocity: 0.58,
	},
	{
		ProductID: "prod-active-07", Title: "Momentum Running Shoes",
		Subtitle: "Carbon-neutral design with adaptive cushioning", Price: 169, Image: "👟",
		Category: "Athleisure", Tags: []string{"running", "outdoor", "sustainable"},
		Badges:     []string{"Limited drop", "4.9★ reviews"},
		TrendScore: 0.91, BasePopularity: 0.86, ConversionRate: 0.31, ReturnRate: 0.019, StockVelocity: 0.77,
	},
	{
		ProductID: "prod-smart-kitchen-08", Title: "ChefMate Precision Oven",
		Subtitle: "AI-assisted cooking with steam & air fry modes", Price: 549, Image: "🍽️",
		Category: "Kitchen", Tags: []string{"smart-kitchen", "multi-function", "family"},
		Badges:     []string{"Staff pick", "Energy smart"},
		TrendScore: 0.63, BasePopularity: 0.71, ConversionRate: 0.28, ReturnRate: 0.021, StockVelocity: 0.66,
	},
}

func init() {
	for i := range catalog {
		catalog[i].Currency = "USD"
		catalog[i].ProductURL = "/products/" + catalog[i].ProductID
	}
}

// copyCatalog returns a per-request copy of the template; slices are shared read-only.
func copyCatalog() []candidate {
	out := make([]candidate, len(catalog))
	copy(out, catalog)
	return out
}
