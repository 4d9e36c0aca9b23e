package service

import (
	"context"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetflow/support-engine/internal/classifier"
	"github.com/fleetflow/support-engine/internal/config"
	"github.com/fleetflow/support-engine/internal/domain"
	"github.com/fleetflow/support-engine/internal/events"
	"github.com/fleetflow/support-engine/internal/observability"
	"github.com/fleetflow/support-engine/internal/resolution"
	"github.com/fleetflow/support-engine/internal/store"
	"github.com/fleetflow/support-engine/pkg/util"
)

// SupportService coordinates ticket and chatbot workflows. It is built by
// the composition root and passed explicitly to consumers; there is no
// package-level instance.
type SupportService struct {
	tickets    *store.TicketStore
	chats      *store.ChatStore
	knowledge  *store.KnowledgeStore
	classifier classifier.Classifier
	resolver   resolution.Resolver
	dispatcher events.Dispatcher
	clock      clock.Clock
	logger     *zap.Logger
	metrics    *observability.Metrics
	agents     []domain.AgentProfile

	processDelay time.Duration
	staleAfter   time.Duration
}

// Dependencies bundles collaborators for the support service.
type Dependencies struct {
	Tickets    *store.TicketStore
	Chats      *store.ChatStore
	Knowledge  *store.KnowledgeStore
	Classifier classifier.Classifier
	Resolver   resolution.Resolver
	Dispatcher events.Dispatcher
	Clock      clock.Clock
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Agents     []domain.AgentProfile
}

// TicketCreateInput describes ticket creation payload. Missing customer
// fields get placeholder values; category defaults to general.
type TicketCreateInput struct {
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Subject       string
	Description   string
	Category      domain.TicketCategory
}

// NewSupportService constructs the service.
func NewSupportService(cfg config.EngineConfig, deps Dependencies) *SupportService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupportService{
		tickets:      deps.Tickets,
		chats:        deps.Chats,
		knowledge:    deps.Knowledge,
		classifier:   deps.Classifier,
		resolver:     deps.Resolver,
		dispatcher:   deps.Dispatcher,
		clock:        deps.Clock,
		logger:       logger,
		metrics:      deps.Metrics,
		agents:       deps.Agents,
		processDelay: cfg.ProcessDelay,
		staleAfter:   cfg.StaleAfter,
	}
}

var validCategories = map[domain.TicketCategory]struct{}{
	domain.CategoryBilling:   {},
	domain.CategoryTechnical: {},
	domain.CategoryShipping:  {},
	domain.CategoryAccount:   {},
	domain.CategoryGeneral:   {},
	domain.CategoryEmergency: {},
}

// CreateSupportTicket creates a ticket, emits ticket_created, and
// schedules the first AI resolution pass. With a zero process delay the
// pass runs synchronously before returning.
func (s *SupportService) CreateSupportTicket(ctx context.Context, input TicketCreateInput) (*domain.SupportTicket, error) {
	category := input.Category
	if category == "" {
		category = domain.CategoryGeneral
	}
	if _, ok := validCategories[category]; !ok {
		return nil, util.NewValidationError("unknown ticket category", map[string]any{"category": string(category)})
	}

	ticket := &domain.SupportTicket{
		ID:            domain.NewID("TKT"),
		CustomerID:    defaultString(input.CustomerID, "CUST-UNKNOWN"),
		CustomerName:  defaultString(input.CustomerName, "Unknown Customer"),
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
		Subject:       defaultString(input.Subject, "Support Request"),
		Description:   input.Description,
		Category:      category,
		Priority:      detectPriority(input.Description, category),
		AssignedAgent: agentForCategory(category),
		Tags:          extractTags(input.Description),
	}

	created := s.tickets.Create(ticket)
	s.logger.Info("support ticket created",
		zap.String("ticket_id", created.ID),
		zap.String("category", string(created.Category)),
		zap.String("priority", string(created.Priority)),
	)
	s.publishEvent(ctx, events.EventTicketCreated, created)

	if s.processDelay <= 0 {
		if err := s.ProcessTicket(ctx, created.ID); err != nil {
			s.logger.Error("initial resolution pass failed", zap.String("ticket_id", created.ID), zap.Error(err))
		}
	} else {
		id := created.ID
		s.clock.AfterFunc(s.processDelay, func() {
			if err := s.ProcessTicket(context.Background(), id); err != nil {
				s.logger.Error("deferred resolution pass failed", zap.String("ticket_id", id), zap.Error(err))
			}
		})
	}
	return created, nil
}

// ProcessTicket runs one resolution pass over the ticket. Terminal
// tickets are skipped; the store re-checks under its lock, so a ticket
// closed between scoring and applying stays untouched.
func (s *SupportService) ProcessTicket(ctx context.Context, id string) error {
	ticket, err := s.tickets.Get(id)
	if err != nil {
		return err
	}
	if ticket.Status.IsTerminal() {
		return nil
	}

	suggestion := s.resolver.Resolve(ticket)
	updated, outcome, err := s.tickets.ApplyResolution(id, suggestion)
	if err != nil {
		return err
	}
	s.metrics.RecordTicketProcessed(string(outcome))

	switch outcome {
	case store.OutcomeEscalated:
		s.logger.Info("ticket escalated to human support",
			zap.String("ticket_id", id),
			zap.Float64("confidence", suggestion.Confidence),
		)
		s.publishEvent(ctx, events.EventTicketEscalated, updated)
	case store.OutcomeResponded, store.OutcomeResolved:
		s.publishEvent(ctx, events.EventTicketProcessed, updated)
	case store.OutcomeNoop:
		// closed by another path in the interim; nothing to announce
	}
	return nil
}

// UpdateTicketStatus moves a ticket through its lifecycle and emits
// ticket_status_updated.
func (s *SupportService) UpdateTicketStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.SupportTicket, error) {
	updated, err := s.tickets.UpdateStatus(id, status)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.EventTicketStatusUpdated, updated)
	return updated, nil
}

// GetTicket fetches a single ticket.
func (s *SupportService) GetTicket(id string) (*domain.SupportTicket, error) {
	return s.tickets.Get(id)
}

// GetAllSupportTickets returns all tickets, newest first.
func (s *SupportService) GetAllSupportTickets() []domain.SupportTicket {
	return s.tickets.All()
}

// GetTicketsByStatus returns tickets in the given status, newest first.
func (s *SupportService) GetTicketsByStatus(status domain.TicketStatus) []domain.SupportTicket {
	return s.tickets.ByStatus(status)
}

// RateTicket records a customer satisfaction score.
func (s *SupportService) RateTicket(id string, score int) (*domain.SupportTicket, error) {
	return s.tickets.SetSatisfaction(id, score)
}

// SweepStaleTickets re-processes open tickets older than the staleness
// threshold, catching tickets that never got a synchronous resolution
// attempt. Per-ticket failures are logged and never halt the sweep.
func (s *SupportService) SweepStaleTickets(ctx context.Context) {
	stale := s.tickets.StaleOpen(s.staleAfter)
	for _, ticket := range stale {
		if err := s.ProcessTicket(ctx, ticket.ID); err != nil {
			s.logger.Error("sweep: resolution pass failed",
				zap.String("ticket_id", ticket.ID),
				zap.Error(err),
			)
		}
	}
	if len(stale) > 0 {
		s.logger.Debug("sweep processed stale tickets", zap.Int("count", len(stale)))
	}
}

// ListKnowledgeBase returns reference articles, most popular first.
func (s *SupportService) ListKnowledgeBase() []domain.KnowledgeBaseArticle {
	return s.knowledge.All()
}

// GetKnowledgeBaseArticle fetches one article.
func (s *SupportService) GetKnowledgeBaseArticle(id string) (domain.KnowledgeBaseArticle, error) {
	return s.knowledge.Get(id)
}

func (s *SupportService) publishEvent(ctx context.Context, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	s.metrics.RecordEvent(string(eventType))
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: s.clock.Now(),
		Payload:   payload,
	})
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
