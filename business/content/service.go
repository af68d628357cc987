package content

import (
	"context"
	"easy11ML/domain"
	"easy11ML/pkg/logger"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const ModelVersion = "gpt-marketing-suite-v0.9"

var titleSuffix = map[string]string{
	"friendly":     "that Customers Love",
	"professional": "for Scaled Commerce Teams",
	"playful":      "with a WOW Factor",
	"technical":    "Engineered for Revenue Teams",
}

var wordCounts = map[string]int{
	"short": 650,
	"long":  1200,
}

type Service struct {
	intn func(n int) int
	now  func() time.Time
}

func NewService() *Service {
	return &Service{intn: rand.Intn, now: time.Now}
}

func (s *Service) GenerateMarketingContent(ctx context.Context, req domain.MarketingContentRequest) (*domain.MarketingContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Topic)) < 3 {
		return nil, fmt.Errorf("%w: topic must be at least 3 characters", domain.ErrInvalidInput)
	}
	if req.Tone == "" {
		req.Tone = "friendly"
	}
	if req.Length == "" {
		req.Length = "medium"
	}
	if req.TargetAudience == "" {
		req.TargetAudience = "customers"
	}

	logger.Info("generating marketing content",
		"topic", req.Topic,
		"tone", req.Tone,
		"length", req.Length,
		"target", req.TargetAudience,
	)

	outline := buildOutline(req.Topic, req.TargetAudience)
	seo := 82 + s.intn(13) - 5

	words, ok := wordCounts[req.Length]
	if !ok {
		words = 900
	}

	suffix, ok := titleSuffix[req.Tone]
	if !ok {
		suffix = "that Converts"
	}

	title := titleCase(req.Topic)
	metaDescription := fmt.Sprintf(
		"Discover how %s unlocks growth for %s on Easy11. Get AI-powered recommendations, campaign ideas, and ready-to-launch copy.",
		strings.ToLower(req.Topic), req.TargetAudience)
	imagePrompt := fmt.Sprintf(
		"%s illustration showcasing %s for %s, with futuristic ecommerce dashboards, vibrant gradients, and clear call-to-action overlays.",
		req.Tone, strings.ToLower(req.Topic), req.TargetAudience)

	return &domain.MarketingContent{
		Title:              title + " " + suffix,
		Outline:            outline,
		Content:            longForm(req.Topic, outline, req.Tone, req.IncludeExamples),
		MetaTitle:          title + " | Easy11 Commerce Intelligence",
		MetaDescription:    metaDescription,
		SuggestedKeywords:  suggestKeywords(req.Topic, req.Keywords),
		SEOScore:           min(max(seo, 65), 98),
		EstimatedWordCount: words,
		GeneratedAt:        s.now().UTC().Format("2006-01-02T15:04:05.000000") + "Z",
		Tone:               req.Tone,
		Length:             req.Length,
		TargetAudience:     req.TargetAudience,
		ChannelVariations:  channelVariations(req.Topic, req.Tone, req.TargetAudience),
		ImagePrompt:        imagePrompt,
		ModelVersion:       ModelVersion,
	}, nil
}

func buildOutline(topic, audience string) []string {
	return []string{
		fmt.Sprintf("Why %s matters for %s", titleCase(topic), audience),
		"Audience pain points & opportunity matrix",
		"Signature Easy11 differentiators",
		"Campaign ideas & activation plan",
		"Success metrics and next steps",
	}
}

const exampleActivation = "\n\n**Example activation:** Launch a segmented email journey with dynamic product\n" +
	"blocks, then retarget high-intent shoppers via push notifications that highlight\n" +
	"inventory freshness and loyalty rewards.\n"

const conclusion = "## Bring it to life\n\n" +
	"Ship this playbook via the Easy11 Command Center: align the brief, sync the campaign, and\n" +
	"launch with full attribution tracking. Activate referrals, loyalty boosts, and post-purchase\n" +
	"flows to keep the momentum compounding."

func longForm(topic string, outline []string, tone string, examples bool) string {
	sections := make([]string, 0, len(outline)+1)
	for _, item := range outline {
		var b strings.Builder
		fmt.Fprintf(&b, "## %s\n\n", item)
		fmt.Fprintf(&b, "%s insight: %s accelerates adoption by aligning merchandising,\n", titleCase(tone), titleCase(topic))
		b.WriteString("retention, and campaign automation. Easy11 surfaces the exact signals that show when\n")
		b.WriteString("to launch, what to feature, and how to personalize offers.")
		if examples {
			b.WriteString(exampleActivation)
		}
		sections = append(sections, b.String())
	}
	sections = append(sections, conclusion)
	return strings.Join(sections, "\n\n")
}

// suggestKeywords keeps first occurrences in order.
func suggestKeywords(topic string, extra []string) []string {
	lower := strings.ToLower(topic)
	all := append([]string{lower, lower + " strategy", "commerce ai", "easy11 campaigns"}, extra...)

	seen := make(map[string]struct{}, len(all))
	out := make([]string, 0, len(all))
	for _, k := range all {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func channelVariations(topic, tone, audience string) []domain.ChannelVariation {
	cta := "Explore Easy11"
	if audience == "vendors" {
		cta = "Launch with Easy11"
	}

	short := topic
	if utf8.RuneCountInString(short) > 35 {
		short = string([]rune(short)[:35])
	}

	return []domain.ChannelVariation{
		{
			Channel:     "email",
			Headline:    titleCase(topic) + " — Ready in One Click",
			Subheadline: "Your weekly growth play is pre-written and pre-personalized.",
			Body: "Hi there,\n\nYour shoppers are signalling fresh intent. " +
				fmt.Sprintf("Use this %s sequence to spotlight trending products, ", tone) +
				"tight inventory, and loyalty boosts.\n\nPreview the journey today.",
			CallToAction: cta,
		},
		{
			Channel:  "sms",
			Headline: titleCase(short) + " → Live in minutes",
			Body: titleCase(topic) + " is live. Tap to drop AI-personalized offers before your " +
				"competition does. Easy11 keeps attribution clean.",
			CallToAction: cta,
		},
		{
			Channel:      "social",
			Headline:     titleCase(topic) + " Playbook",
			Body:         "Merchants using Easy11 see +18% lift after launching this play. Personalize, launch, measure, without heavy lifting.",
			CallToAction: "#Easy11Growth",
		},
	}
}

// titleCase upper-cases the first letter of every word and lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
