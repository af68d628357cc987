package content

import (
	"context"
	"easy11ML/domain"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMarketingContent(t *testing.T) {
	svc := NewService()
	svc.intn = func(int) int { return 12 }

	res, err := svc.GenerateMarketingContent(context.Background(), domain.MarketingContentRequest{
		Topic:           "summer SALE",
		Keywords:        []string{"commerce ai", "flash deals"},
		Tone:            "playful",
		Length:          "long",
		IncludeExamples: true,
		TargetAudience:  "vendors",
	})
	require.NoError(t, err)

	assert.Equal(t, "Summer Sale with a WOW Factor", res.Title)
	assert.Equal(t, "Summer Sale | Easy11 Commerce Intelligence", res.MetaTitle)
	assert.Equal(t, []string{"summer sale", "summer sale strategy", "commerce ai", "easy11 campaigns", "flash deals"}, res.SuggestedKeywords)
	assert.Equal(t, 89, res.SEOScore)
	assert.Equal(t, 1200, res.EstimatedWordCount)
	assert.Len(t, res.Outline, 5)
	assert.Equal(t, "Why Summer Sale matters for vendors", res.Outline[0])
	assert.Equal(t, 6, strings.Count(res.Content, "## "))
	assert.Contains(t, res.Content, "**Example activation:**")
	assert.True(t, strings.HasSuffix(res.Content, "keep the momentum compounding."))

	require.Len(t, res.ChannelVariations, 3)
	assert.Equal(t, "Launch with Easy11", res.ChannelVariations[0].CallToAction)
	assert.Equal(t, "#Easy11Growth", res.ChannelVariations[2].CallToAction)
	assert.Equal(t, ModelVersion, res.ModelVersion)
}

func TestGenerateMarketingContent_Defaults(t *testing.T) {
	svc := NewService()
	svc.intn = func(int) int { return 0 }

	res, err := svc.GenerateMarketingContent(context.Background(), domain.MarketingContentRequest{Topic: "loyalty"})
	require.NoError(t, err)

	assert.Equal(t, "Loyalty that Customers Love", res.Title)
	assert.Equal(t, 900, res.EstimatedWordCount)
	assert.Equal(t, 77, res.SEOScore)
	assert.Equal(t, "Explore Easy11", res.ChannelVariations[1].CallToAction)
	assert.NotContains(t, res.Content, "Example activation")

	res, err = svc.GenerateMarketingContent(context.Background(), domain.MarketingContentRequest{Topic: "loyalty", Tone: "sarcastic", Length: "short"})
	require.NoError(t, err)
	assert.Equal(t, "Loyalty that Converts", res.Title)
	assert.Equal(t, 650, res.EstimatedWordCount)
}

func TestGenerateMarketingContent_SEOBounds(t *testing.T) {
	svc := NewService()
	for i := 0; i < 13; i++ {
		n := i
		svc.intn = func(int) int { return n }
		res, err := svc.GenerateMarketingContent(context.Background(), domain.MarketingContentRequest{Topic: "bundles"})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.SEOScore, 65)
		assert.LessOrEqual(t, res.SEOScore, 98)
	}
}

func TestGenerateMarketingContent_ShortTopic(t *testing.T) {
	_, err := NewService().GenerateMarketingContent(context.Background(), domain.MarketingContentRequest{Topic: "ab"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Back-To-School Deals", titleCase("back-to-school DEALS"))
	assert.Equal(t, "Ai 2025 Push", titleCase("AI 2025 push"))
}
