package resolution

import (
	"strings"
	"testing"

	"github.com/fleetflow/support-engine/internal/domain"
)

type staticIndex []string

func (s staticIndex) ArticleIDs(limit int) []string {
	if len(s) > limit {
		s = s[:limit]
	}
	return append([]string(nil), s...)
}

func ticket(priority domain.TicketPriority, category domain.TicketCategory) *domain.SupportTicket {
	return &domain.SupportTicket{
		ID:       "TKT-TEST",
		Subject:  "Load Tracking Issue",
		Category: category,
		Priority: priority,
	}
}

func TestConfidenceStaysInBoundedRange(t *testing.T) {
	r := NewSimulatedResolver(1, nil)
	for i := 0; i < 1000; i++ {
		s := r.Resolve(ticket(domain.PriorityLow, domain.CategoryGeneral))
		if s.Confidence < 0.6 || s.Confidence >= 1.0 {
			t.Fatalf("confidence %v outside [0.6, 1.0)", s.Confidence)
		}
	}
}

func TestUrgentPriorityAlwaysRecommendsEscalation(t *testing.T) {
	r := NewSimulatedResolver(7, nil)
	for i := 0; i < 200; i++ {
		s := r.Resolve(ticket(domain.PriorityUrgent, domain.CategoryEmergency))
		if !s.EscalationRecommended {
			t.Fatalf("urgent ticket with confidence %v: escalation not recommended", s.Confidence)
		}
		if s.EstimatedResolutionMinutes != 60 {
			t.Fatalf("escalated estimate = %d, want 60", s.EstimatedResolutionMinutes)
		}
	}
}

func TestLowConfidenceRecommendsEscalation(t *testing.T) {
	r := NewSimulatedResolver(42, nil)
	for i := 0; i < 1000; i++ {
		s := r.Resolve(ticket(domain.PriorityLow, domain.CategoryBilling))
		wantEscalate := s.Confidence < 0.75
		if s.EscalationRecommended != wantEscalate {
			t.Fatalf("confidence %v: escalation %v, want %v", s.Confidence, s.EscalationRecommended, wantEscalate)
		}
		wantEstimate := 15
		if wantEscalate {
			wantEstimate = 60
		}
		if s.EstimatedResolutionMinutes != wantEstimate {
			t.Fatalf("estimate = %d, want %d", s.EstimatedResolutionMinutes, wantEstimate)
		}
	}
}

func TestResponseUsesCategoryTemplate(t *testing.T) {
	cases := []struct {
		category domain.TicketCategory
		fragment string
	}{
		{domain.CategoryBilling, "billing inquiry"},
		{domain.CategoryTechnical, "technical issue"},
		{domain.CategoryShipping, "shipping-related concern"},
		{domain.CategoryAccount, "about your account"},
		{domain.CategoryEmergency, "urgent situation"},
		{domain.CategoryGeneral, "reaching out"},
		{domain.TicketCategory("unknown"), "reaching out"}, // general fallback
	}
	for _, tc := range cases {
		got := ResponseForCategory(tc.category, "My Subject")
		if !strings.Contains(got, tc.fragment) {
			t.Fatalf("category %s: response %q missing %q", tc.category, got, tc.fragment)
		}
		if !strings.Contains(got, "My Subject") {
			t.Fatalf("category %s: response does not include the subject", tc.category)
		}
	}
}

func TestResolveAttachesArticleReferences(t *testing.T) {
	idx := staticIndex{"KB-001", "KB-002", "KB-003", "KB-004"}
	r := NewSimulatedResolver(3, idx)
	s := r.Resolve(ticket(domain.PriorityLow, domain.CategoryGeneral))
	if len(s.KnowledgeBaseArticles) != 3 {
		t.Fatalf("got %d article refs, want 3", len(s.KnowledgeBaseArticles))
	}
}

func TestFixedResolverStampsTicketID(t *testing.T) {
	f := Fixed{Suggestion: Suggestion{Confidence: 0.85}}
	s := f.Resolve(ticket(domain.PriorityLow, domain.CategoryShipping))
	if s.TicketID != "TKT-TEST" {
		t.Fatalf("ticket id = %q", s.TicketID)
	}
	if s.SuggestedResponse == "" {
		t.Fatal("expected a templated response fallback")
	}
}
