package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"spendwise/internal/analytics"
	"spendwise/internal/logger"
	"spendwise/internal/metrics"
	"spendwise/internal/models"
)

// Fallback values for insight fields the model left out.
const (
	DefaultInsightTitle       = "Spending Insight"
	DefaultInsightDescription = "Review your recent spending for more details."
	MaxInsightTitleLength     = 200

	operationInsights = "insights"
)

// DefaultTimeout bounds a completion call when none is configured.
const DefaultTimeout = 30 * time.Second

// ErrNoInsights is returned when a reply parses but holds no usable entry.
var ErrNoInsights = errors.New("reply contains no insights")

// InsightDraft is a validated insight ready to be persisted.
type InsightDraft struct {
	Type        models.InsightType     `json:"type"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Priority    models.InsightPriority `json:"priority"`
}

// FallbackInsight is returned whenever insight generation fails.
func FallbackInsight() InsightDraft {
	return InsightDraft{
		Type:        models.InsightTypeRecommendation,
		Title:       "Track Your Expenses",
		Description: "Keep logging your expenses regularly to unlock personalized spending insights.",
		Priority:    models.InsightPriorityMedium,
	}
}

const insightSystemPrompt = `You are a personal finance assistant that analyzes a user's spending.
Reply with a single JSON object and nothing else, in exactly this shape:
{"insights":[{"type":"alert|goal|warning|recommendation","title":"...","description":"...","priority":"low|medium|high"}]}

Rules:
- Return between 3 and 5 insights.
- "type" must be one of: alert, goal, warning, recommendation.
- "priority" must be "high" when any budget is over budget or any category rose more than 50%% versus the previous period;
  "medium" when any budget utilization is at least 80%% or any category rose more than 20%%;
  "low" otherwise.
- Titles are short (under 80 characters).
- Every description must cite concrete amounts in %s and percentages taken from the data.
- Use only the numbers provided. Do not invent categories, budgets or amounts.`

// BuildInsightPrompt renders the analysis into the system and user messages
// of an insight request.
func BuildInsightPrompt(analysis analytics.Analysis, currency string) (system, user string, err error) {
	payload, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("failed to serialize analysis: %w", err)
	}

	system = fmt.Sprintf(insightSystemPrompt, currency)

	var b strings.Builder
	b.WriteString("Analyze this spending data and produce insights.\n")
	fmt.Fprintf(&b, "Currency: %s\n", currency)
	if analysis.CurrentPeriod != nil {
		fmt.Fprintf(&b, "Current period: %s to %s\n", analysis.CurrentPeriod.Start, analysis.CurrentPeriod.End)
	}
	if analysis.PreviousPeriod != nil {
		fmt.Fprintf(&b, "Previous period: %s to %s\n", analysis.PreviousPeriod.Start, analysis.PreviousPeriod.End)
	}
	b.WriteString("Data:\n")
	b.Write(payload)

	return system, b.String(), nil
}

// ParseInsights maps a model reply onto InsightDrafts. It accepts an object
// with an "insights" array, a bare array, or a single insight object, with or
// without markdown fences. Entries that are not objects are skipped. Unknown
// types and priorities are coerced to recommendation and medium, and missing
// text gets the default title and description.
func ParseInsights(reply string) ([]InsightDraft, error) {
	raw, err := extractJSON(reply)
	if err != nil {
		return nil, err
	}

	var entries []json.RawMessage
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("invalid insights array: %w", err)
		}
	} else {
		obj, err := decodeObject(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid insights object: %w", err)
		}
		if list, ok := lookup(obj, "insights"); ok {
			encoded, _ := json.Marshal(list)
			if err := json.Unmarshal(encoded, &entries); err != nil {
				return nil, fmt.Errorf("insights is not an array: %w", err)
			}
		} else {
			entries = []json.RawMessage{raw}
		}
	}

	drafts := make([]InsightDraft, 0, len(entries))
	for _, entry := range entries {
		obj, err := decodeObject(entry)
		if err != nil {
			continue
		}
		drafts = append(drafts, draftFrom(obj))
	}
	if len(drafts) == 0 {
		return nil, ErrNoInsights
	}
	return drafts, nil
}

func draftFrom(obj map[string]interface{}) InsightDraft {
	d := InsightDraft{
		Type:        models.InsightType(strings.ToLower(stringField(obj, "type"))),
		Title:       stringField(obj, "title"),
		Description: stringField(obj, "description"),
		Priority:    models.InsightPriority(strings.ToLower(stringField(obj, "priority"))),
	}
	if !d.Type.Valid() {
		d.Type = models.InsightTypeRecommendation
	}
	if !d.Priority.Valid() {
		d.Priority = models.InsightPriorityMedium
	}
	if d.Title == "" {
		d.Title = DefaultInsightTitle
	}
	d.Title = truncateRunes(d.Title, MaxInsightTitleLength)
	if d.Description == "" {
		d.Description = DefaultInsightDescription
	}
	return d
}

// InsightFormatter turns an analysis into insights through a Completer.
type InsightFormatter struct {
	completer Completer
	currency  string
	timeout   time.Duration
	log       *zap.SugaredLogger
}

// NewInsightFormatter returns a formatter. A non-positive timeout uses
// DefaultTimeout.
func NewInsightFormatter(completer Completer, currency string, timeout time.Duration) *InsightFormatter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if completer == nil {
		completer = disabledCompleter{}
	}
	return &InsightFormatter{
		completer: completer,
		currency:  currency,
		timeout:   timeout,
		log:       logger.Named("ai"),
	}
}

// GenerateInsights never fails: any error along the way yields exactly one
// FallbackInsight.
func (f *InsightFormatter) GenerateInsights(ctx context.Context, analysis analytics.Analysis) []InsightDraft {
	drafts, err := f.generate(ctx, analysis)
	if err != nil {
		f.log.Warnw("insight generation fell back", "error", err)
		metrics.ObserveAI(operationInsights, metrics.OutcomeFallback)
		return []InsightDraft{FallbackInsight()}
	}
	metrics.ObserveAI(operationInsights, metrics.OutcomeSuccess)
	return drafts
}

func (f *InsightFormatter) generate(ctx context.Context, analysis analytics.Analysis) ([]InsightDraft, error) {
	system, user, err := BuildInsightPrompt(analysis, f.currency)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	reply, err := f.completer.Complete(ctx, CompletionRequest{
		System:      system,
		User:        user,
		MaxTokens:   1200,
		Temperature: 0.4,
	})
	if err != nil {
		return nil, err
	}
	return ParseInsights(reply)
}
