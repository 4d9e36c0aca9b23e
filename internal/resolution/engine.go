// Package resolution scores a ticket's resolvability and proposes a
// response. The shipped resolver draws its confidence from a bounded
// random range: it is a simulation-grade stand-in for a real model, kept
// behind the Resolver interface so a production classifier can replace it
// without touching store logic.
package resolution

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/fleetflow/support-engine/internal/domain"
)

// Resolution thresholds. ResponseThreshold is "good enough to respond",
// AutoResolveThreshold is "good enough to close outright"; both are strict
// greater-than comparisons.
const (
	ResponseThreshold    = 0.8
	AutoResolveThreshold = 0.9
	escalationThreshold  = 0.75

	estimatedMinutesEscalated = 60
	estimatedMinutesDirect    = 15

	maxArticleRefs = 3
)

// Suggestion is the engine's verdict on a ticket.
type Suggestion struct {
	TicketID                   string   `json:"ticket_id"`
	Confidence                 float64  `json:"confidence"`
	SuggestedResponse          string   `json:"suggested_response"`
	SuggestedActions           []string `json:"suggested_actions"`
	EscalationRecommended      bool     `json:"escalation_recommended"`
	EstimatedResolutionMinutes int      `json:"estimated_resolution_minutes"`
	KnowledgeBaseArticles      []string `json:"knowledge_base_articles"`
}

// Resolver produces a Suggestion for a ticket. Implementations must not
// mutate the ticket; state transitions belong to the ticket store.
type Resolver interface {
	Resolve(ticket *domain.SupportTicket) Suggestion
}

// ArticleIndex provides knowledge-base references for suggestions.
type ArticleIndex interface {
	ArticleIDs(limit int) []string
}

var responseTemplates = map[domain.TicketCategory]string{
	domain.CategoryBilling:   `I've reviewed your billing inquiry regarding "%s". I can help resolve this immediately by checking your account details and processing any necessary adjustments.`,
	domain.CategoryTechnical: `I understand you're experiencing a technical issue with "%s". Let me diagnose this problem and provide you with a solution right away.`,
	domain.CategoryShipping:  `I see you have a shipping-related concern: "%s". I'll check the current status and provide you with detailed information and next steps.`,
	domain.CategoryAccount:   `Thank you for contacting us about your account. I'll review "%s" and help you with any account-related changes or questions.`,
	domain.CategoryGeneral:   `I appreciate you reaching out about "%s". I'm here to help and will provide you with the information and assistance you need.`,
	domain.CategoryEmergency: `I understand this is an urgent situation: "%s". I'm prioritizing your request and will coordinate immediate assistance.`,
}

var suggestedActions = []string{"review_account", "check_status", "provide_solution"}

// SimulatedResolver draws confidence uniformly from [0.6, 1.0).
type SimulatedResolver struct {
	mu       sync.Mutex
	rng      *rand.Rand
	articles ArticleIndex
}

// NewSimulatedResolver seeds the resolver from the given source; articles
// may be nil.
func NewSimulatedResolver(seed int64, articles ArticleIndex) *SimulatedResolver {
	return &SimulatedResolver{
		rng:      rand.New(rand.NewSource(seed)),
		articles: articles,
	}
}

// Resolve scores the ticket and proposes a category-templated response.
// Escalation is recommended below the escalation threshold or for urgent
// tickets regardless of score.
func (r *SimulatedResolver) Resolve(ticket *domain.SupportTicket) Suggestion {
	r.mu.Lock()
	confidence := 0.6 + r.rng.Float64()*0.4
	r.mu.Unlock()

	escalate := confidence < escalationThreshold || ticket.Priority == domain.PriorityUrgent

	estimated := estimatedMinutesDirect
	if escalate {
		estimated = estimatedMinutesEscalated
	}

	var articleIDs []string
	if r.articles != nil {
		articleIDs = r.articles.ArticleIDs(maxArticleRefs)
	}

	return Suggestion{
		TicketID:                   ticket.ID,
		Confidence:                 confidence,
		SuggestedResponse:          ResponseForCategory(ticket.Category, ticket.Subject),
		SuggestedActions:           append([]string(nil), suggestedActions...),
		EscalationRecommended:      escalate,
		EstimatedResolutionMinutes: estimated,
		KnowledgeBaseArticles:      articleIDs,
	}
}

// ResponseForCategory renders the canned response template for a category,
// falling back to the general template.
func ResponseForCategory(category domain.TicketCategory, subject string) string {
	template, ok := responseTemplates[category]
	if !ok {
		template = responseTemplates[domain.CategoryGeneral]
	}
	return fmt.Sprintf(template, subject)
}

// Fixed returns every ticket the same pre-built suggestion; used by tests
// and callers that need deterministic engine behavior.
type Fixed struct {
	Suggestion Suggestion
}

func (f Fixed) Resolve(ticket *domain.SupportTicket) Suggestion {
	s := f.Suggestion
	s.TicketID = ticket.ID
	if s.SuggestedResponse == "" {
		s.SuggestedResponse = ResponseForCategory(ticket.Category, ticket.Subject)
	}
	return s
}
