package domain

import "time"

// TicketStatus enumerates lifecycle states for support tickets.
type TicketStatus string

const (
	TicketStatusOpen            TicketStatus = "open"
	TicketStatusInProgress      TicketStatus = "in_progress"
	TicketStatusPendingCustomer TicketStatus = "pending_customer"
	TicketStatusResolved        TicketStatus = "resolved"
	TicketStatusClosed          TicketStatus = "closed"
)

// IsTerminal reports whether the status is an end state.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// TicketCategory groups tickets by the kind of request.
type TicketCategory string

const (
	CategoryBilling   TicketCategory = "billing"
	CategoryTechnical TicketCategory = "technical"
	CategoryShipping  TicketCategory = "shipping"
	CategoryAccount   TicketCategory = "account"
	CategoryGeneral   TicketCategory = "general"
	CategoryEmergency TicketCategory = "emergency"
)

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

// HumanSupportTeam is the agent name assigned when a ticket is escalated.
// Escalation is one-way: HumanEscalated never reverts to false.
const HumanSupportTeam = "Human Support Team"

// MessageSender indicates who authored a conversation message.
type MessageSender string

const (
	SenderCustomer   MessageSender = "customer"
	SenderAIAgent    MessageSender = "ai_agent"
	SenderHumanAgent MessageSender = "human_agent"
)

// ConversationMessage is one entry in a ticket's conversation history.
// History is append-only; insertion order reconstructs the conversation.
type ConversationMessage struct {
	ID         string        `json:"id"`
	TicketID   string        `json:"ticket_id"`
	Sender     MessageSender `json:"sender"`
	SenderName string        `json:"sender_name"`
	Message    string        `json:"message"`
	Timestamp  time.Time     `json:"timestamp"`
}

// SupportTicket is the aggregate for customer support requests.
//
// ResolvedAt and ResolutionTime are set together, once, on the first
// transition into a terminal state. HumanEscalated implies AssignedAgent
// equals HumanSupportTeam.
type SupportTicket struct {
	ID                  string                `json:"id"`
	CustomerID          string                `json:"customer_id"`
	CustomerName        string                `json:"customer_name"`
	CustomerEmail       string                `json:"customer_email"`
	CustomerPhone       string                `json:"customer_phone,omitempty"`
	Subject             string                `json:"subject"`
	Description         string                `json:"description"`
	Category            TicketCategory        `json:"category"`
	Priority            TicketPriority        `json:"priority"`
	Status              TicketStatus          `json:"status"`
	AssignedAgent       string                `json:"assigned_agent"`
	AIResolution        string                `json:"ai_resolution,omitempty"`
	HumanEscalated      bool                  `json:"human_escalated"`
	Tags                []string              `json:"tags"`
	SatisfactionScore   *int                  `json:"satisfaction_score,omitempty"`
	ConversationHistory []ConversationMessage `json:"conversation_history"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
	ResolvedAt          *time.Time            `json:"resolved_at,omitempty"`
	ResolutionTime      *int                  `json:"resolution_time,omitempty"` // minutes
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (t *SupportTicket) Clone() *SupportTicket {
	c := *t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.ConversationHistory != nil {
		c.ConversationHistory = append([]ConversationMessage(nil), t.ConversationHistory...)
	}
	if t.ResolvedAt != nil {
		at := *t.ResolvedAt
		c.ResolvedAt = &at
	}
	if t.ResolutionTime != nil {
		rt := *t.ResolutionTime
		c.ResolutionTime = &rt
	}
	if t.SatisfactionScore != nil {
		sc := *t.SatisfactionScore
		c.SatisfactionScore = &sc
	}
	return &c
}
