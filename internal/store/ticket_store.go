package store

import (
	"sort"
	"sync"
	"time"

	"github.com/facebookgo/clock"

	"github.com/fleetflow/support-engine/internal/domain"
	"github.com/fleetflow/support-engine/internal/resolution"
	"github.com/fleetflow/support-engine/pkg/util"
)

// ResolutionOutcome describes what ApplyResolution did to a ticket.
type ResolutionOutcome string

const (
	// OutcomeNoop: the ticket was already terminal; nothing changed.
	OutcomeNoop ResolutionOutcome = "noop"
	// OutcomeResponded: an AI response was appended, status in_progress.
	OutcomeResponded ResolutionOutcome = "responded"
	// OutcomeResolved: responded and auto-resolved in one pass.
	OutcomeResolved ResolutionOutcome = "resolved"
	// OutcomeEscalated: handed to the human support team.
	OutcomeEscalated ResolutionOutcome = "escalated"
)

// TicketStore is the sole mutation gateway for tickets. All writes go
// through its methods; getters return deep copies so no caller can mutate
// shared state. A single RWMutex serializes writers, which stands in for
// the source model's single logical thread.
type TicketStore struct {
	mu      sync.RWMutex
	tickets map[string]*domain.SupportTicket
	clock   clock.Clock
}

// NewTicketStore builds an empty store on the given clock.
func NewTicketStore(clk clock.Clock) *TicketStore {
	return &TicketStore{
		tickets: make(map[string]*domain.SupportTicket),
		clock:   clk,
	}
}

// Create inserts the ticket, stamping creation metadata. Status is forced
// to open and timestamps come from the store clock.
func (s *TicketStore) Create(ticket *domain.SupportTicket) *domain.SupportTicket {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	ticket.Status = domain.TicketStatusOpen
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	if ticket.ConversationHistory == nil {
		ticket.ConversationHistory = []domain.ConversationMessage{}
	}
	s.tickets[ticket.ID] = ticket.Clone()
	return ticket.Clone()
}

// Load inserts a pre-baked ticket verbatim, keeping its status and
// timestamps. Used for demo fixtures; live traffic goes through Create.
func (s *TicketStore) Load(ticket *domain.SupportTicket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[ticket.ID] = ticket.Clone()
}

// Get returns a copy of the ticket or NOT_FOUND.
func (s *TicketStore) Get(id string) (*domain.SupportTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, util.NewNotFound("ticket", map[string]any{"id": id})
	}
	return ticket.Clone(), nil
}

// allowedTransitions encodes the lifecycle
// open -> in_progress -> {pending_customer, resolved} -> closed, with the
// terminal states also reachable from in_progress directly. Same-status
// updates are permitted so a second resolve is a no-op rather than an
// error.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen: {
		domain.TicketStatusOpen, domain.TicketStatusInProgress,
		domain.TicketStatusPendingCustomer, domain.TicketStatusResolved, domain.TicketStatusClosed,
	},
	domain.TicketStatusInProgress: {
		domain.TicketStatusInProgress, domain.TicketStatusPendingCustomer,
		domain.TicketStatusResolved, domain.TicketStatusClosed,
	},
	domain.TicketStatusPendingCustomer: {
		domain.TicketStatusPendingCustomer, domain.TicketStatusInProgress,
		domain.TicketStatusResolved, domain.TicketStatusClosed,
	},
	domain.TicketStatusResolved: {domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusClosed:   {domain.TicketStatusClosed},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// UpdateStatus moves the ticket to newStatus. Entering a terminal state
// sets ResolvedAt and ResolutionTime exactly once; repeating the call
// leaves them untouched. Terminal-to-non-terminal moves are rejected with
// INVALID_TRANSITION.
func (s *TicketStore) UpdateStatus(id string, newStatus domain.TicketStatus) (*domain.SupportTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, util.NewNotFound("ticket", map[string]any{"id": id})
	}
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, util.NewInvalidTransition(string(ticket.Status), string(newStatus))
	}

	now := s.clock.Now()
	ticket.Status = newStatus
	ticket.UpdatedAt = now
	if newStatus.IsTerminal() {
		s.markResolvedLocked(ticket, now)
	}
	return ticket.Clone(), nil
}

// markResolvedLocked stamps ResolvedAt/ResolutionTime once. Resolution
// time is whole minutes, floored.
func (s *TicketStore) markResolvedLocked(ticket *domain.SupportTicket, now time.Time) {
	if ticket.ResolvedAt != nil {
		return
	}
	at := now
	ticket.ResolvedAt = &at
	minutes := int(at.Sub(ticket.CreatedAt) / time.Minute)
	ticket.ResolutionTime = &minutes
}

// AppendMessage appends to the conversation history. History is
// append-only and never reordered.
func (s *TicketStore) AppendMessage(id string, msg domain.ConversationMessage) (*domain.SupportTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, util.NewNotFound("ticket", map[string]any{"id": id})
	}
	msg.TicketID = id
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.clock.Now()
	}
	ticket.ConversationHistory = append(ticket.ConversationHistory, msg)
	ticket.UpdatedAt = s.clock.Now()
	return ticket.Clone(), nil
}

// ApplyResolution applies the engine's suggestion to the ticket. The
// two-threshold rule: confidence above the response threshold without an
// escalation recommendation appends an ai_agent message and moves the
// ticket to in_progress; above the auto-resolve threshold it resolves
// outright. Anything else escalates to the human support team, leaving
// status unchanged. Applying to an already-terminal ticket is a no-op,
// not an error: the ticket may have been closed by another path between
// scoring and applying.
func (s *TicketStore) ApplyResolution(id string, sug resolution.Suggestion) (*domain.SupportTicket, ResolutionOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, OutcomeNoop, util.NewNotFound("ticket", map[string]any{"id": id})
	}
	if ticket.Status.IsTerminal() {
		return ticket.Clone(), OutcomeNoop, nil
	}

	now := s.clock.Now()
	if sug.Confidence > resolution.ResponseThreshold && !sug.EscalationRecommended {
		ticket.ConversationHistory = append(ticket.ConversationHistory, domain.ConversationMessage{
			ID:         domain.NewID("MSG"),
			TicketID:   ticket.ID,
			Sender:     domain.SenderAIAgent,
			SenderName: ticket.AssignedAgent,
			Message:    sug.SuggestedResponse,
			Timestamp:  now,
		})
		ticket.Status = domain.TicketStatusInProgress
		ticket.UpdatedAt = now

		outcome := OutcomeResponded
		if sug.Confidence > resolution.AutoResolveThreshold {
			ticket.Status = domain.TicketStatusResolved
			ticket.AIResolution = sug.SuggestedResponse
			s.markResolvedLocked(ticket, now)
			outcome = OutcomeResolved
		}
		return ticket.Clone(), outcome, nil
	}

	// Escalation is a normal outcome, not an error: ownership moves to a
	// human and status stays where it was.
	ticket.HumanEscalated = true
	ticket.AssignedAgent = domain.HumanSupportTeam
	ticket.UpdatedAt = now
	return ticket.Clone(), OutcomeEscalated, nil
}

// SetSatisfaction records a 1-5 customer rating.
func (s *TicketStore) SetSatisfaction(id string, score int) (*domain.SupportTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, util.NewNotFound("ticket", map[string]any{"id": id})
	}
	if score < 1 || score > 5 {
		return nil, util.NewValidationError("satisfaction score must be between 1 and 5", map[string]any{"score": score})
	}
	ticket.SatisfactionScore = &score
	ticket.UpdatedAt = s.clock.Now()
	return ticket.Clone(), nil
}

// All returns every ticket sorted by CreatedAt descending. The ordering
// is a contract, not incidental.
func (s *TicketStore) All() []domain.SupportTicket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectLocked(func(*domain.SupportTicket) bool { return true })
}

// ByStatus returns tickets with the given status, newest first.
func (s *TicketStore) ByStatus(status domain.TicketStatus) []domain.SupportTicket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectLocked(func(t *domain.SupportTicket) bool { return t.Status == status })
}

// StaleOpen returns open tickets older than the threshold, for the
// periodic sweep.
func (s *TicketStore) StaleOpen(olderThan time.Duration) []domain.SupportTicket {
	cutoff := s.clock.Now().Add(-olderThan)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectLocked(func(t *domain.SupportTicket) bool {
		return t.Status == domain.TicketStatusOpen && t.CreatedAt.Before(cutoff)
	})
}

func (s *TicketStore) collectLocked(keep func(*domain.SupportTicket) bool) []domain.SupportTicket {
	out := make([]domain.SupportTicket, 0, len(s.tickets))
	for _, ticket := range s.tickets {
		if keep(ticket) {
			out = append(out, *ticket.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
