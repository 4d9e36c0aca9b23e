// Package classifier maps free-text customer messages to a coarse intent
// label and a confidence score. The in-repo implementation is a
// deterministic keyword matcher; a model-backed classifier can replace it
// behind the same interface.
package classifier

import (
	"context"
	"strings"
)

// Intent labels produced by the classifier.
const (
	IntentTrackShipment    = "track_shipment"
	IntentBillingInquiry   = "billing_inquiry"
	IntentTechnicalSupport = "technical_support"
	IntentEmergency        = "emergency"
	IntentComplexIssue     = "complex_issue"
	IntentGeneral          = "general"
)

// Result carries the chosen intent and its confidence in [0,1].
type Result struct {
	Intent     string
	Confidence float64
}

// Classifier labels customer text. Implementations backed by a remote
// model may fail; callers fall back to general/0.5 rather than propagate.
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}

// Thresholds for the complex-issue heuristic.
const (
	complexCharThreshold = 100
	complexWordThreshold = 20
)

// detectionCues decide the intent; ties are broken by the fixed priority
// order in Classify, which is a policy, not an error.
var detectionCues = map[string][]string{
	IntentTrackShipment:    {"track", "where", "status"},
	IntentBillingInquiry:   {"bill", "invoice", "charge", "refund"},
	IntentTechnicalSupport: {"broken", "error", "not working", "technical"},
	IntentEmergency:        {"urgent", "emergency", "critical"},
}

// scoringKeywords feed the confidence formula for the chosen intent only.
var scoringKeywords = map[string][]string{
	IntentTrackShipment:    {"track", "shipment", "where", "status", "delivery"},
	IntentBillingInquiry:   {"bill", "invoice", "charge", "payment", "refund"},
	IntentTechnicalSupport: {"broken", "error", "not working", "technical", "app"},
	IntentEmergency:        {"urgent", "emergency", "critical", "asap"},
}

var detectionOrder = []string{
	IntentTrackShipment,
	IntentBillingInquiry,
	IntentTechnicalSupport,
	IntentEmergency,
}

// KeywordClassifier is the deterministic reference implementation. Given
// the same input it is reproducible bit-for-bit; it never returns an error.
type KeywordClassifier struct{}

// NewKeywordClassifier returns the keyword-table classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Classify picks the first intent in priority order whose cues match, then
// falls back to complex_issue for long messages and general otherwise.
func (c *KeywordClassifier) Classify(_ context.Context, text string) (Result, error) {
	intent := detectIntent(text)
	return Result{Intent: intent, Confidence: confidence(text, intent)}, nil
}

func detectIntent(text string) string {
	lower := strings.ToLower(text)
	for _, intent := range detectionOrder {
		for _, cue := range detectionCues[intent] {
			if strings.Contains(lower, cue) {
				return intent
			}
		}
	}
	if len(text) > complexCharThreshold || len(strings.Fields(text)) > complexWordThreshold {
		return IntentComplexIssue
	}
	return IntentGeneral
}

// confidence is min(0.95, 0.5 + 0.15*matches) over the chosen intent's
// scoring keywords. Intents without a scoring table score 0.5.
func confidence(text, intent string) float64 {
	keywords, ok := scoringKeywords[intent]
	if !ok {
		return 0.5
	}
	lower := strings.ToLower(text)
	matches := 0
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			matches++
		}
	}
	score := 0.5 + 0.15*float64(matches)
	if score > 0.95 {
		return 0.95
	}
	return score
}
