package events

import (
	"time"

	"github.com/fleetflow/support-engine/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketProcessed     EventType = "ticket_processed"
	EventTicketEscalated     EventType = "ticket_escalated"
	EventTicketStatusUpdated EventType = "ticket_status_updated"
	EventChatbotInteraction  EventType = "chatbot_interaction"
	EventMetricsUpdated      EventType = "metrics_updated"
	EventChatbotActivity     EventType = "chatbot_activity"
)

// AllEventTypes lists every event the engine emits, in a stable order.
var AllEventTypes = []EventType{
	EventTicketCreated,
	EventTicketProcessed,
	EventTicketEscalated,
	EventTicketStatusUpdated,
	EventChatbotInteraction,
	EventMetricsUpdated,
	EventChatbotActivity,
}

// Event is a domain event emitted by the support service. The payload is
// the full updated entity so consumers re-render from it instead of
// diffing: a *domain.SupportTicket for the four ticket events, a
// *domain.ChatInteraction, a domain.SupportMetrics snapshot, or a
// domain.ChatActivity heartbeat.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// Ticket returns the ticket payload, or nil for non-ticket events.
func (e Event) Ticket() *domain.SupportTicket {
	t, _ := e.Payload.(*domain.SupportTicket)
	return t
}

// Interaction returns the chat payload, or nil for other events.
func (e Event) Interaction() *domain.ChatInteraction {
	i, _ := e.Payload.(*domain.ChatInteraction)
	return i
}
