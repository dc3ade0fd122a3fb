package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/analytics"
	"spendwise/internal/models"
	"spendwise/internal/types"
)

func sampleAnalysis() analytics.Analysis {
	return analytics.Analysis{
		CurrentPeriod:      &analytics.Period{Start: types.NewDate(2024, time.March, 1), End: types.NewDate(2024, time.March, 31)},
		CurrentTotal:       types.MustParseMoney("180"),
		PreviousTotal:      types.MustParseMoney("120"),
		TotalChangePercent: 50,
		CategoryBreakdown: []analytics.CategoryAmount{
			{CategoryName: "Food", Amount: types.MustParseMoney("150"), Color: "#F97316"},
		},
	}
}

func TestBuildInsightPrompt(t *testing.T) {
	system, user, err := BuildInsightPrompt(sampleAnalysis(), "INR")
	require.NoError(t, err)

	assert.Contains(t, system, `"insights"`)
	assert.Contains(t, system, "alert, goal, warning, recommendation")
	assert.Contains(t, system, "more than 50% versus the previous period")
	assert.Contains(t, system, "at least 80% or any category rose more than 20%;")
	assert.Contains(t, system, "concrete amounts in INR and percentages")
	assert.NotContains(t, system, "%!")
	assert.Contains(t, user, "Current period: 2024-03-01 to 2024-03-31")
	assert.Contains(t, user, `"currentTotal": 180.00`)
	assert.Contains(t, user, `"categoryName": "Food"`)
}

func TestParseInsights(t *testing.T) {
	t.Run("object_with_insights", func(t *testing.T) {
		drafts, err := ParseInsights(`{"insights":[
			{"type":"warning","title":"Food is up","description":"Food rose 50% to INR 150.00","priority":"high"},
			{"type":"goal","title":"Save","description":"Set aside INR 22.50","priority":"low"}
		]}`)
		require.NoError(t, err)
		require.Len(t, drafts, 2)
		assert.Equal(t, models.InsightTypeWarning, drafts[0].Type)
		assert.Equal(t, models.InsightPriorityHigh, drafts[0].Priority)
		assert.Equal(t, "Food is up", drafts[0].Title)
		assert.Equal(t, models.InsightTypeGoal, drafts[1].Type)
	})

	t.Run("fenced_bare_array", func(t *testing.T) {
		drafts, err := ParseInsights("```json\n[{\"type\":\"ALERT\",\"title\":\"Over\",\"description\":\"d\",\"priority\":\"Medium\"}]\n```")
		require.NoError(t, err)
		require.Len(t, drafts, 1)
		assert.Equal(t, models.InsightTypeAlert, drafts[0].Type)
		assert.Equal(t, models.InsightPriorityMedium, drafts[0].Priority)
	})

	t.Run("unknown_enums_are_coerced", func(t *testing.T) {
		drafts, err := ParseInsights(`{"insights":[{"type":"tip","title":"x","description":"y","priority":"urgent"}]}`)
		require.NoError(t, err)
		assert.Equal(t, models.InsightTypeRecommendation, drafts[0].Type)
		assert.Equal(t, models.InsightPriorityMedium, drafts[0].Priority)
	})

	t.Run("missing_fields_get_defaults", func(t *testing.T) {
		drafts, err := ParseInsights(`{"insights":[{"description":"only text"},{"title":"only title","priority":3}]}`)
		require.NoError(t, err)
		require.Len(t, drafts, 2)
		assert.Equal(t, DefaultInsightTitle, drafts[0].Title)
		assert.Equal(t, models.InsightTypeRecommendation, drafts[0].Type)
		assert.Equal(t, DefaultInsightDescription, drafts[1].Description)
		assert.Equal(t, models.InsightPriorityMedium, drafts[1].Priority)
	})

	t.Run("entries_without_text_keep_type_and_priority", func(t *testing.T) {
		drafts, err := ParseInsights(`{"insights":[{"type":"alert","priority":"high"},{"type":"goal"},7]}`)
		require.NoError(t, err)
		require.Len(t, drafts, 2)
		assert.Equal(t, models.InsightTypeAlert, drafts[0].Type)
		assert.Equal(t, models.InsightPriorityHigh, drafts[0].Priority)
		assert.Equal(t, DefaultInsightTitle, drafts[0].Title)
		assert.Equal(t, DefaultInsightDescription, drafts[0].Description)
		assert.Equal(t, models.InsightTypeGoal, drafts[1].Type)
		assert.Equal(t, models.InsightPriorityMedium, drafts[1].Priority)
	})

	t.Run("long_title_is_truncated", func(t *testing.T) {
		long := strings.Repeat("é", 250)
		drafts, err := ParseInsights(`[{"title":"` + long + `","description":"d"}]`)
		require.NoError(t, err)
		assert.Equal(t, MaxInsightTitleLength, len([]rune(drafts[0].Title)))
	})

	t.Run("prose_around_json", func(t *testing.T) {
		drafts, err := ParseInsights(`Here you go: {"insights":[{"title":"t","description":"d"}]} Hope this helps!`)
		require.NoError(t, err)
		assert.Len(t, drafts, 1)
	})

	t.Run("failures", func(t *testing.T) {
		for _, reply := range []string{
			"",
			"no json here",
			`{"insights":[]}`,
			`{"insights":"nope"}`,
			`{"insights":[1, "two", null]}`,
			`{"insights":[{"title":"unterminated"`,
		} {
			_, err := ParseInsights(reply)
			assert.Error(t, err, "reply %q", reply)
		}
	})
}

func TestInsightFormatterFallback(t *testing.T) {
	tests := []struct {
		name      string
		completer Completer
	}{
		{"transport_error", CompleterFunc(func(context.Context, CompletionRequest) (string, error) {
			return "", errors.New("connection refused")
		})},
		{"malformed_reply", CompleterFunc(func(context.Context, CompletionRequest) (string, error) {
			return "I cannot help with that.", nil
		})},
		{"not_configured", NewOpenAICompleter(OpenAIConfig{})},
		{"timeout", CompleterFunc(func(ctx context.Context, _ CompletionRequest) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewInsightFormatter(tt.completer, "INR", 20*time.Millisecond)
			drafts := f.GenerateInsights(context.Background(), sampleAnalysis())

			require.Len(t, drafts, 1)
			assert.Equal(t, FallbackInsight(), drafts[0])
			assert.Equal(t, models.InsightTypeRecommendation, drafts[0].Type)
			assert.Equal(t, models.InsightPriorityMedium, drafts[0].Priority)
		})
	}
}

func TestInsightFormatterSuccess(t *testing.T) {
	var gotSystem string
	completer := CompleterFunc(func(_ context.Context, req CompletionRequest) (string, error) {
		gotSystem = req.System
		return `{"insights":[{"type":"alert","title":"Over budget","description":"Food is at 125%","priority":"high"}]}`, nil
	})

	f := NewInsightFormatter(completer, "USD", time.Second)
	drafts := f.GenerateInsights(context.Background(), sampleAnalysis())

	require.Len(t, drafts, 1)
	assert.Equal(t, "Over budget", drafts[0].Title)
	assert.Contains(t, gotSystem, "USD")
}
