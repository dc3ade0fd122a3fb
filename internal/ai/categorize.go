package ai

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"spendwise/internal/logger"
	"spendwise/internal/metrics"
	"spendwise/internal/types"
)

// Label is one of the fixed categorization outcomes.
type Label string

const (
	LabelFood           Label = "food"
	LabelTransportation Label = "transportation"
	LabelShopping       Label = "shopping"
	LabelEntertainment  Label = "entertainment"
	LabelBills          Label = "bills"
	LabelHealthcare     Label = "healthcare"
	LabelEducation      Label = "education"
	LabelOther          Label = "other"
)

// Labels lists every accepted label in prompt order.
var Labels = []Label{
	LabelFood, LabelTransportation, LabelShopping, LabelEntertainment,
	LabelBills, LabelHealthcare, LabelEducation, LabelOther,
}

// Valid reports whether l is one of Labels.
func (l Label) Valid() bool {
	for _, known := range Labels {
		if l == known {
			return true
		}
	}
	return false
}

const (
	MaxReasoningLength = 300
	fallbackConfidence = 0.1
	fallbackReasoning  = "Fallback categorization: AI service unavailable"

	operationCategorize = "categorize"
)

// Categorization is the model's pick for one expense.
type Categorization struct {
	Category   Label   `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// FallbackCategorization is returned whenever categorization fails.
func FallbackCategorization() Categorization {
	return Categorization{
		Category:   LabelShopping,
		Confidence: fallbackConfidence,
		Reasoning:  fallbackReasoning,
	}
}

const categorizeSystemPrompt = `You categorize personal expenses.
Reply with a single JSON object and nothing else:
{"category":"<label>","confidence":<number between 0 and 1>,"reasoning":"<one short sentence>"}
The label must be exactly one of: %s.`

// BuildCategorizePrompt renders the system and user messages for one expense.
func BuildCategorizePrompt(description string, amount types.Money, currency string) (system, user string) {
	labels := make([]string, len(Labels))
	for i, l := range Labels {
		labels[i] = string(l)
	}
	system = fmt.Sprintf(categorizeSystemPrompt, strings.Join(labels, ", "))
	user = fmt.Sprintf("Expense description: %q\nAmount: %s %s", description, amount, currency)
	return system, user
}

// ParseCategorization validates a reply. An out-of-enum label is an error;
// confidence is clamped to [0,1] and reasoning trimmed to
// MaxReasoningLength runes.
func ParseCategorization(reply string) (Categorization, error) {
	raw, err := extractJSON(reply)
	if err != nil {
		return Categorization{}, err
	}
	if raw[0] != '{' {
		return Categorization{}, fmt.Errorf("expected a JSON object")
	}
	obj, err := decodeObject(raw)
	if err != nil {
		return Categorization{}, err
	}

	label := Label(strings.ToLower(stringField(obj, "category")))
	if !label.Valid() {
		return Categorization{}, fmt.Errorf("unknown category %q", label)
	}

	confidence, ok := numberField(obj, "confidence")
	if !ok || math.IsNaN(confidence) {
		confidence = 0
	}
	confidence = math.Max(0, math.Min(1, confidence))

	return Categorization{
		Category:   label,
		Confidence: confidence,
		Reasoning:  truncateRunes(stringField(obj, "reasoning"), MaxReasoningLength),
	}, nil
}

// Categorizer picks a label for a free-text expense through a Completer.
type Categorizer struct {
	completer Completer
	currency  string
	timeout   time.Duration
	log       *zap.SugaredLogger
}

// NewCategorizer returns a categorizer. A non-positive timeout uses
// DefaultTimeout.
func NewCategorizer(completer Completer, currency string, timeout time.Duration) *Categorizer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if completer == nil {
		completer = disabledCompleter{}
	}
	return &Categorizer{
		completer: completer,
		currency:  currency,
		timeout:   timeout,
		log:       logger.Named("ai"),
	}
}

// Categorize never fails: any error yields FallbackCategorization.
func (c *Categorizer) Categorize(ctx context.Context, description string, amount types.Money) Categorization {
	result, err := c.categorize(ctx, description, amount)
	if err != nil {
		c.log.Warnw("categorization fell back", "error", err)
		metrics.ObserveAI(operationCategorize, metrics.OutcomeFallback)
		return FallbackCategorization()
	}
	metrics.ObserveAI(operationCategorize, metrics.OutcomeSuccess)
	return result
}

func (c *Categorizer) categorize(ctx context.Context, description string, amount types.Money) (Categorization, error) {
	system, user := BuildCategorizePrompt(description, amount, c.currency)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.completer.Complete(ctx, CompletionRequest{
		System:      system,
		User:        user,
		MaxTokens:   200,
		Temperature: 0.1,
	})
	if err != nil {
		return Categorization{}, err
	}
	return ParseCategorization(reply)
}
