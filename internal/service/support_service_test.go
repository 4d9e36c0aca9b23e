package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/facebookgo/clock"

	"github.com/fleetflow/support-engine/internal/classifier"
	"github.com/fleetflow/support-engine/internal/config"
	"github.com/fleetflow/support-engine/internal/domain"
	"github.com/fleetflow/support-engine/internal/events"
	"github.com/fleetflow/support-engine/internal/resolution"
	"github.com/fleetflow/support-engine/internal/store"
)

// eventRecorder captures everything published during a test.
type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) record(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *eventRecorder) ofType(t events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// failingClassifier simulates an unavailable classification backend.
type failingClassifier struct{}

func (failingClassifier) Classify(context.Context, string) (classifier.Result, error) {
	return classifier.Result{}, errors.New("backend unavailable")
}

type fixture struct {
	mock     *clock.Mock
	svc      *SupportService
	tickets  *store.TicketStore
	chats    *store.ChatStore
	recorder *eventRecorder
}

type fixtureOption func(*Dependencies, *config.EngineConfig)

func withResolver(r resolution.Resolver) fixtureOption {
	return func(deps *Dependencies, _ *config.EngineConfig) { deps.Resolver = r }
}

func withClassifier(c classifier.Classifier) fixtureOption {
	return func(deps *Dependencies, _ *config.EngineConfig) { deps.Classifier = c }
}

func withProcessDelay(d time.Duration) fixtureOption {
	return func(_ *Dependencies, cfg *config.EngineConfig) { cfg.ProcessDelay = d }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	// The mock starts at the zero time and only advances; walk it to a
	// fixed base so timestamps in failures read naturally.
	mock := clock.NewMock()
	base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	mock.Add(base.Sub(mock.Now()))

	recorder := &eventRecorder{}
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.SubscribeAll(recorder.record)

	tickets := store.NewTicketStore(mock)
	chats := store.NewChatStore(mock)
	knowledge := store.NewKnowledgeStore()

	deps := Dependencies{
		Tickets:    tickets,
		Chats:      chats,
		Knowledge:  knowledge,
		Classifier: classifier.NewKeywordClassifier(),
		// Escalate by default so tests opt in to response paths.
		Resolver:   resolution.Fixed{Suggestion: resolution.Suggestion{Confidence: 0.65, EscalationRecommended: true}},
		Dispatcher: dispatcher,
		Clock:      mock,
	}
	cfg := config.EngineConfig{ProcessDelay: 0, StaleAfter: time.Minute}
	for _, opt := range opts {
		opt(&deps, &cfg)
	}

	return &fixture{
		mock:     mock,
		svc:      NewSupportService(cfg, deps),
		tickets:  tickets,
		chats:    chats,
		recorder: recorder,
	}
}

func TestCreateTicketDetectsUrgentPriorityFromText(t *testing.T) {
	f := newFixture(t)

	ticket, err := f.svc.CreateSupportTicket(context.Background(), TicketCreateInput{
		CustomerID:   "CUST-003",
		CustomerName: "Express Freight Co",
		Subject:      "Driver breakdown",
		Description:  "URGENT: truck broken down on I-95",
		Category:     domain.CategoryEmergency,
	})
	if err != nil {
		t.Fatalf("CreateSupportTicket: %v", err)
	}
	if ticket.Priority != domain.PriorityUrgent {
		t.Fatalf("priority = %s, want urgent", ticket.Priority)
	}
	if ticket.AssignedAgent != "FleetFlow Crisis AI Gamma" {
		t.Fatalf("assigned agent = %q", ticket.AssignedAgent)
	}
}

func TestCreateTicketPriorityTable(t *testing.T) {
	cases := []struct {
		name        string
		description string
		category    domain.TicketCategory
		want        domain.TicketPriority
	}{
		{"urgent keyword beats low category", "everything stopped", domain.CategoryGeneral, domain.PriorityUrgent},
		{"high keyword", "there is a problem with my account page", domain.CategoryTechnical, domain.PriorityHigh},
		{"billing default", "please review my statement", domain.CategoryBilling, domain.PriorityMedium},
		{"account default", "please update my address", domain.CategoryAccount, domain.PriorityMedium},
		{"quiet general", "just saying thanks", domain.CategoryGeneral, domain.PriorityLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ticket, err := f.svc.CreateSupportTicket(context.Background(), TicketCreateInput{
				Description: tc.description,
				Category:    tc.category,
			})
			if err != nil {
				t.Fatalf("CreateSupportTicket: %v", err)
			}
			if ticket.Priority != tc.want {
				t.Fatalf("priority = %s, want %s", ticket.Priority, tc.want)
			}
		})
	}
}

func TestCreateTicketAppliesDefaultsAndTags(t *testing.T) {
	f := newFixture(t)

	ticket, err := f.svc.CreateSupportTicket(context.Background(), TicketCreateInput{
		Description: "invoice shows a double payment, need a refund",
	})
	if err != nil {
		t.Fatalf("CreateSupportTicket: %v", err)
	}
	if ticket.CustomerID != "CUST-UNKNOWN" || ticket.CustomerName != "Unknown Customer" {
		t.Fatalf("customer defaults not applied: %q / %q", ticket.CustomerID, ticket.CustomerName)
	}
	if ticket.Subject != "Support Request" {
		t.Fatalf("subject default not applied: %q", ticket.Subject)
	}
	if ticket.Category != domain.CategoryGeneral {
		t.Fatalf("category = %s, want general", ticket.Category)
	}
	want := map[string]bool{"invoice": true, "payment": true, "refund": true}
	for _, tag := range ticket.Tags {
		if !want[tag] {
			t.Fatalf("unexpected tag %q", tag)
		}
		delete(want, tag)
	}
	if len(want) != 0 {
		t.Fatalf("missing tags: %v", want)
	}
}

func TestCreateTicketRejectsUnknownCategory(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.CreateSupportTicket(context.Background(), TicketCreateInput{
		Category: domain.TicketCategory("gardening"),
	}); err == nil {
		t.Fatal("expected validation error for unknown category")
	}
}

func TestCreateTicketEmitsCreatedThenEscalatedEvents(t *testing.T) {
	f := newFixture(t) // default resolver escalates, delay 0

	ticket, err := f.svc.CreateSupportTicket(context.Background(), TicketCreateInput{
		Description: "hello",
	})
	if err != nil {
		t.Fatalf("CreateSupportTicket: %v", err)
	}

	created := f.recorder.ofType(events.EventTicketCreated)
	if len(created) != 1 || created[0].Ticket().ID != ticket.ID {
		t.Fatalf("ticket_created events = %v", created)
	}
	escalated := f.recorder.ofType(events.EventTicketEscalated)
	if len(escalated) != 1 {
		t.Fatalf("got %d ticket_escalated events, want 1", len(escalated))
	}
	if !escalated[0].Ticket().HumanEscalated {
		t.Fatal("escalated event payload must carry the updated ticket")
	}
}

func TestHighConfidenceResolutionEmitsProcessed(t *testing.T) {
	f := newFixture(t, withResolver(resolution.Fixed{
		Suggestion: resolution.Suggestion{Confidence: 0.95},
	}))

	ticket, err := f.svc.CreateSupportTicket(context.Background(), TicketCreateInput{
		Description: "where is my delivery",
		Category:    domain.CategoryShipping,
	})
	if err != nil {
		t.Fatalf("CreateSupportTicket: %v", err)
	}

	processed := f.recorder.ofType(events.EventTicketProcessed)
	if len(processed) != 1 {
		t.Fatalf("got %d ticket_processed events, want 1", len(processed))
	}
	payload := processed[0].Ticket()
	if payload.Status != domain.TicketStatusResolved {
		t.Fatalf("payload status = %s, want resolved", payload.Status)
	}

	stored, _ := f.svc.GetTicket(ticket.ID)
	if stored.ResolvedAt == nil || stored.ResolutionTime == nil {
		t.Fatal("auto-resolved ticket missing resolution fields")
	}
	if stored.AIResolution == "" {
		t.Fatal("auto-resolved ticket missing AI resolution text")
	}
}

func TestDeferredProcessingRunsOnClock(t *testing.T) {
	f := newFixture(t, withProcessDelay(time.Second))

	_, err := f.svc.CreateSupportTicket(context.Background(), TicketCreateInput{Description: "hi"})
	if err != nil {
		t.Fatalf("CreateSupportTicket: %v", err)
	}
	if got := len(f.recorder.ofType(events.EventTicketEscalated)); got != 0 {
		t.Fatalf("resolution ran before the delay elapsed (%d events)", got)
	}

	f.mock.Add(time.Second)

	if got := len(f.recorder.ofType(events.EventTicketEscalated)); got != 1 {
		t.Fatalf("got %d ticket_escalated events after delay, want 1", got)
	}
}

func TestUpdateTicketStatusEmitsEvent(t *testing.T) {
	f := newFixture(t)
	ticket, _ := f.svc.CreateSupportTicket(context.Background(), TicketCreateInput{Description: "hi"})

	updated, err := f.svc.UpdateTicketStatus(context.Background(), ticket.ID, domain.TicketStatusResolved)
	if err != nil {
		t.Fatalf("UpdateTicketStatus: %v", err)
	}
	if updated.Status != domain.TicketStatusResolved {
		t.Fatalf("status = %s", updated.Status)
	}
	if len(f.recorder.ofType(events.EventTicketStatusUpdated)) != 1 {
		t.Fatal("ticket_status_updated not emitted")
	}
}

func TestRateTicketRecordsScore(t *testing.T) {
	f := newFixture(t)
	ticket, _ := f.svc.CreateSupportTicket(context.Background(), TicketCreateInput{Description: "hi"})

	rated, err := f.svc.RateTicket(ticket.ID, 4)
	if err != nil {
		t.Fatalf("RateTicket: %v", err)
	}
	if rated.SatisfactionScore == nil || *rated.SatisfactionScore != 4 {
		t.Fatalf("satisfaction = %v, want 4", rated.SatisfactionScore)
	}
	if _, err := f.svc.RateTicket(ticket.ID, 6); err == nil {
		t.Fatal("expected validation error for out-of-range score")
	}
}

func TestSweepProcessesOnlyStaleOpenTickets(t *testing.T) {
	f := newFixture(t, withProcessDelay(time.Hour)) // keep creation from processing

	stale, _ := f.svc.CreateSupportTicket(context.Background(), TicketCreateInput{Description: "old one"})
	f.mock.Add(2 * time.Minute)
	fresh, _ := f.svc.CreateSupportTicket(context.Background(), TicketCreateInput{Description: "new one"})

	f.svc.SweepStaleTickets(context.Background())

	escalated := f.recorder.ofType(events.EventTicketEscalated)
	if len(escalated) != 1 {
		t.Fatalf("got %d escalations from sweep, want 1", len(escalated))
	}
	if escalated[0].Ticket().ID != stale.ID {
		t.Fatalf("sweep processed %s, want %s", escalated[0].Ticket().ID, stale.ID)
	}

	got, _ := f.svc.GetTicket(fresh.ID)
	if got.HumanEscalated {
		t.Fatal("fresh ticket must not be swept")
	}
}

func TestChatHighConfidenceGeneralResolves(t *testing.T) {
	f := newFixture(t, withClassifier(staticClassifier{intent: classifier.IntentGeneral, confidence: 0.95}))

	interaction, err := f.svc.ProcessChatbotInteraction(context.Background(), "CUST-001", "ABC Logistics Inc", "hello")
	if err != nil {
		t.Fatalf("ProcessChatbotInteraction: %v", err)
	}
	if !interaction.Resolved || interaction.EscalatedToTicket {
		t.Fatalf("resolved=%v escalated=%v, want resolved only", interaction.Resolved, interaction.EscalatedToTicket)
	}
	if interaction.EndedAt == nil {
		t.Fatal("resolved interaction must set endedAt")
	}
	if len(interaction.Messages) != 2 {
		t.Fatalf("got %d messages, want customer + ai", len(interaction.Messages))
	}
	if interaction.Messages[1].ActionTaken != "" {
		t.Fatalf("general intent must not record an action, got %q", interaction.Messages[1].ActionTaken)
	}
}

func TestChatEmergencyEscalatesToEmergencyTicket(t *testing.T) {
	f := newFixture(t, withClassifier(staticClassifier{intent: classifier.IntentEmergency, confidence: 0.65}))

	interaction, err := f.svc.ProcessChatbotInteraction(context.Background(), "CUST-003", "Express Freight Co", "driver emergency")
	if err != nil {
		t.Fatalf("ProcessChatbotInteraction: %v", err)
	}
	if !interaction.EscalatedToTicket || interaction.Resolved {
		t.Fatalf("escalated=%v resolved=%v, want escalated only", interaction.EscalatedToTicket, interaction.Resolved)
	}
	if interaction.EndedAt != nil {
		t.Fatal("escalated interaction must not set endedAt")
	}

	ticket, err := f.svc.GetTicket(interaction.TicketID)
	if err != nil {
		t.Fatalf("escalation ticket: %v", err)
	}
	if ticket.Category != domain.CategoryEmergency {
		t.Fatalf("ticket category = %s, want emergency", ticket.Category)
	}
	if ticket.Subject != "Escalated from chat: emergency" {
		t.Fatalf("ticket subject = %q", ticket.Subject)
	}
}

func TestChatComplexIssueAlwaysEscalates(t *testing.T) {
	f := newFixture(t, withClassifier(staticClassifier{intent: classifier.IntentComplexIssue, confidence: 0.9}))

	interaction, err := f.svc.ProcessChatbotInteraction(context.Background(), "CUST-001", "ABC", "long story")
	if err != nil {
		t.Fatalf("ProcessChatbotInteraction: %v", err)
	}
	if !interaction.EscalatedToTicket {
		t.Fatal("complex_issue must escalate regardless of confidence")
	}
	ticket, _ := f.svc.GetTicket(interaction.TicketID)
	if ticket.Category != domain.CategoryGeneral {
		t.Fatalf("ticket category = %s, want general", ticket.Category)
	}
}

func TestChatClassifierFailureFallsBackToGeneral(t *testing.T) {
	f := newFixture(t, withClassifier(failingClassifier{}))

	interaction, err := f.svc.ProcessChatbotInteraction(context.Background(), "CUST-001", "ABC", "anything")
	if err != nil {
		t.Fatalf("ProcessChatbotInteraction: %v", err)
	}
	if interaction.Intent != classifier.IntentGeneral {
		t.Fatalf("intent = %q, want general fallback", interaction.Intent)
	}
	if math.Abs(interaction.Confidence-0.5) > 1e-9 {
		t.Fatalf("confidence = %v, want 0.5", interaction.Confidence)
	}
	// 0.5 < 0.7 so the degraded interaction escalates to a ticket.
	if !interaction.EscalatedToTicket {
		t.Fatal("degraded interaction must escalate")
	}
}

func TestChatInteractionEventEmitted(t *testing.T) {
	f := newFixture(t, withClassifier(staticClassifier{intent: classifier.IntentGeneral, confidence: 0.95}))

	_, err := f.svc.ProcessChatbotInteraction(context.Background(), "CUST-001", "ABC", "hello")
	if err != nil {
		t.Fatalf("ProcessChatbotInteraction: %v", err)
	}
	got := f.recorder.ofType(events.EventChatbotInteraction)
	if len(got) != 1 {
		t.Fatalf("got %d chatbot_interaction events, want 1", len(got))
	}
	if got[0].Interaction() == nil {
		t.Fatal("event payload must be the interaction")
	}
}

func TestMetricsAggregation(t *testing.T) {
	f := newFixture(t, withResolver(resolution.Fixed{
		Suggestion: resolution.Suggestion{Confidence: 0.95},
	}))

	// Two auto-resolved tickets with known resolution times of 0 minutes,
	// one left open by a slow resolver path.
	f.svc.CreateSupportTicket(context.Background(), TicketCreateInput{Description: "a", Category: domain.CategoryBilling})
	f.svc.CreateSupportTicket(context.Background(), TicketCreateInput{Description: "b", Category: domain.CategoryBilling})

	newFixtureTicket(f, "c", domain.CategoryShipping)

	metrics := f.svc.GetSupportMetrics()
	if metrics.TotalTickets != 3 {
		t.Fatalf("total = %d, want 3", metrics.TotalTickets)
	}
	if metrics.OpenTickets != 1 {
		t.Fatalf("open = %d, want 1", metrics.OpenTickets)
	}
	if metrics.ResolvedTickets != 2 {
		t.Fatalf("resolved = %d, want 2", metrics.ResolvedTickets)
	}
	if metrics.AIResolutionRate != 100 {
		t.Fatalf("ai rate = %v, want 100", metrics.AIResolutionRate)
	}
	if metrics.TicketsByCategory[domain.CategoryBilling] != 2 || metrics.TicketsByCategory[domain.CategoryShipping] != 1 {
		t.Fatalf("category histogram = %v", metrics.TicketsByCategory)
	}

	recompute := f.svc.RecomputeMetrics(context.Background())
	if recompute.TotalTickets != 3 {
		t.Fatalf("recompute total = %d", recompute.TotalTickets)
	}
	if len(f.recorder.ofType(events.EventMetricsUpdated)) != 1 {
		t.Fatal("metrics_updated not emitted by recompute")
	}
}

// newFixtureTicket creates a ticket without triggering resolution.
func newFixtureTicket(f *fixture, description string, category domain.TicketCategory) *domain.SupportTicket {
	ticket := &domain.SupportTicket{
		ID:          domain.NewID("TKT"),
		Description: description,
		Category:    category,
		Priority:    domain.PriorityLow,
	}
	return f.tickets.Create(ticket)
}

func TestEmitChatActivityPublishesHeartbeat(t *testing.T) {
	f := newFixture(t, withClassifier(staticClassifier{intent: classifier.IntentGeneral, confidence: 0.95}))
	f.svc.ProcessChatbotInteraction(context.Background(), "CUST-001", "ABC", "hello")

	activity := f.svc.EmitChatActivity(context.Background())
	if activity.ResolvedToday != 1 {
		t.Fatalf("resolvedToday = %d, want 1", activity.ResolvedToday)
	}
	if len(f.recorder.ofType(events.EventChatbotActivity)) != 1 {
		t.Fatal("chatbot_activity not emitted")
	}
}

// staticClassifier returns a canned result.
type staticClassifier struct {
	intent     string
	confidence float64
}

func (c staticClassifier) Classify(context.Context, string) (classifier.Result, error) {
	return classifier.Result{Intent: c.intent, Confidence: c.confidence}, nil
}
