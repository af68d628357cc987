package domain

type MarketingContentRequest struct {
	Topic           string
	Keywords        []string
	Tone            string
	Length          string
	IncludeExamples bool
	TargetAudience  string
}

type ChannelVariation struct {
	Channel      string `json:"channel"`
	Headline     string `json:"headline"`
	Subheadline  string `json:"subheadline,omitempty"`
	Body         string `json:"body"`
	CallToAction string `json:"call_to_action"`
}

type MarketingContent struct {
	Title              string             `json:"title"`
	Outline            []string           `json:"outline"`
	Content            string             `json:"content"`
	MetaTitle          string             `json:"meta_title"`
	MetaDescription    string             `json:"meta_description"`
	SuggestedKeywords  []string           `json:"suggested_keywords"`
	SEOScore           int                `json:"seo_score"`
	EstimatedWordCount int                `json:"estimated_word_count"`
	GeneratedAt        string             `json:"generated_at"`
	Tone               string             `json:"tone"`
	Length             string             `json:"length"`
	TargetAudience     string             `json:"target_audience"`
	ChannelVariations  []ChannelVariation `json:"channel_variations"`
	ImagePrompt        string             `json:"image_prompt"`
	ModelVersion       string             `json:"model_version"`
}
