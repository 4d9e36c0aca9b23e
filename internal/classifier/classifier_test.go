package classifier

import (
	"context"
	"math"
	"strings"
	"testing"
)

const epsilon = 1e-9

func classify(t *testing.T, text string) Result {
	t.Helper()
	res, err := NewKeywordClassifier().Classify(context.Background(), text)
	if err != nil {
		t.Fatalf("Classify(%q): %v", text, err)
	}
	return res
}

func TestClassifyTable(t *testing.T) {
	cases := []struct {
		name       string
		text       string
		intent     string
		confidence float64
	}{
		{
			name:       "tracking question matches two scoring keywords",
			text:       "Can you track my shipment FF-12345?",
			intent:     IntentTrackShipment,
			confidence: 0.80,
		},
		{
			name:       "billing",
			text:       "I was double charged on my invoice",
			intent:     IntentBillingInquiry,
			confidence: 0.80,
		},
		{
			name:       "technical",
			text:       "the app is broken and showing an error",
			intent:     IntentTechnicalSupport,
			confidence: 0.95, // broken, error, app -> capped at 0.95
		},
		{
			name:       "emergency",
			text:       "this is critical",
			intent:     IntentEmergency,
			confidence: 0.65,
		},
		{
			name:       "empty text",
			text:       "",
			intent:     IntentGeneral,
			confidence: 0.5,
		},
		{
			name:       "plain greeting",
			text:       "hello there",
			intent:     IntentGeneral,
			confidence: 0.5,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := classify(t, tc.text)
			if res.Intent != tc.intent {
				t.Fatalf("intent = %q, want %q", res.Intent, tc.intent)
			}
			if math.Abs(res.Confidence-tc.confidence) > epsilon {
				t.Fatalf("confidence = %v, want %v", res.Confidence, tc.confidence)
			}
		})
	}
}

func TestPriorityOrderBreaksTies(t *testing.T) {
	// Contains both tracking and billing cues; tracking wins by priority.
	res := classify(t, "where is the invoice for my last load")
	if res.Intent != IntentTrackShipment {
		t.Fatalf("intent = %q, want %q", res.Intent, IntentTrackShipment)
	}
}

func TestLongMessageIsComplexIssue(t *testing.T) {
	long := strings.Repeat("a", 101)
	if res := classify(t, long); res.Intent != IntentComplexIssue {
		t.Fatalf("101-char message: intent = %q, want complex_issue", res.Intent)
	}

	wordy := strings.Repeat("word ", 21)
	if res := classify(t, wordy); res.Intent != IntentComplexIssue {
		t.Fatalf("21-word message: intent = %q, want complex_issue", res.Intent)
	}

	// Cue match beats the length heuristic.
	longTracking := "track " + strings.Repeat("a", 120)
	if res := classify(t, longTracking); res.Intent != IntentTrackShipment {
		t.Fatalf("long tracking message: intent = %q, want track_shipment", res.Intent)
	}
}

func TestComplexIssueConfidenceIsBaseline(t *testing.T) {
	res := classify(t, strings.Repeat("z", 150))
	if math.Abs(res.Confidence-0.5) > epsilon {
		t.Fatalf("complex_issue confidence = %v, want 0.5", res.Confidence)
	}
}

func TestConfidenceIsCapped(t *testing.T) {
	res := classify(t, "track the shipment status, where is the delivery")
	if math.Abs(res.Confidence-0.95) > epsilon {
		t.Fatalf("confidence = %v, want cap 0.95", res.Confidence)
	}
}

func TestClassificationIsCaseInsensitive(t *testing.T) {
	res := classify(t, "TRACK MY SHIPMENT")
	if res.Intent != IntentTrackShipment {
		t.Fatalf("intent = %q, want track_shipment", res.Intent)
	}
	if math.Abs(res.Confidence-0.80) > epsilon {
		t.Fatalf("confidence = %v, want 0.80", res.Confidence)
	}
}
