package dto

import (
	"time"

	"github.com/fleetflow/support-engine/internal/domain"
)

// CreateTicketRequest payload. Missing customer fields are replaced with
// placeholders by the service.
type CreateTicketRequest struct {
	CustomerID    string                `json:"customer_id"`
	CustomerName  string                `json:"customer_name"`
	CustomerEmail string                `json:"customer_email"`
	CustomerPhone string                `json:"customer_phone"`
	Subject       string                `json:"subject"`
	Description   string                `json:"description"`
	Category      domain.TicketCategory `json:"category"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// SatisfactionRequest payload; score runs 1 to 5.
type SatisfactionRequest struct {
	Score int `json:"score"`
}

// ChatMessageRequest payload for one chatbot exchange.
type ChatMessageRequest struct {
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	Message      string `json:"message"`
}

// TicketResponse is the full ticket representation.
type TicketResponse struct {
	ID                  string                       `json:"id"`
	CustomerID          string                       `json:"customer_id"`
	CustomerName        string                       `json:"customer_name"`
	CustomerEmail       string                       `json:"customer_email"`
	CustomerPhone       string                       `json:"customer_phone,omitempty"`
	Subject             string                       `json:"subject"`
	Description         string                       `json:"description"`
	Category            domain.TicketCategory        `json:"category"`
	Priority            domain.TicketPriority        `json:"priority"`
	Status              domain.TicketStatus          `json:"status"`
	AssignedAgent       string                       `json:"assigned_agent"`
	AIResolution        string                       `json:"ai_resolution,omitempty"`
	HumanEscalated      bool                         `json:"human_escalated"`
	Tags                []string                     `json:"tags"`
	SatisfactionScore   *int                         `json:"satisfaction_score,omitempty"`
	ConversationHistory []domain.ConversationMessage `json:"conversation_history"`
	CreatedAt           time.Time                    `json:"created_at"`
	UpdatedAt           time.Time                    `json:"updated_at"`
	ResolvedAt          *time.Time                   `json:"resolved_at,omitempty"`
	ResolutionTime      *int                         `json:"resolution_time,omitempty"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.SupportTicket) TicketResponse {
	return TicketResponse{
		ID:                  t.ID,
		CustomerID:          t.CustomerID,
		CustomerName:        t.CustomerName,
		CustomerEmail:       t.CustomerEmail,
		CustomerPhone:       t.CustomerPhone,
		Subject:             t.Subject,
		Description:         t.Description,
		Category:            t.Category,
		Priority:            t.Priority,
		Status:              t.Status,
		AssignedAgent:       t.AssignedAgent,
		AIResolution:        t.AIResolution,
		HumanEscalated:      t.HumanEscalated,
		Tags:                t.Tags,
		SatisfactionScore:   t.SatisfactionScore,
		ConversationHistory: t.ConversationHistory,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
		ResolvedAt:          t.ResolvedAt,
		ResolutionTime:      t.ResolutionTime,
	}
}

// NewTicketListResponse maps a slice of domain tickets.
func NewTicketListResponse(tickets []domain.SupportTicket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}

// ChatInteractionResponse is the full chat interaction representation.
type ChatInteractionResponse struct {
	ID                string               `json:"id"`
	CustomerID        string               `json:"customer_id"`
	CustomerName      string               `json:"customer_name"`
	Intent            string               `json:"intent"`
	Confidence        float64              `json:"confidence"`
	Messages          []domain.ChatMessage `json:"messages"`
	Resolved          bool                 `json:"resolved"`
	EscalatedToTicket bool                 `json:"escalated_to_ticket"`
	TicketID          string               `json:"ticket_id,omitempty"`
	StartedAt         time.Time            `json:"started_at"`
	EndedAt           *time.Time           `json:"ended_at,omitempty"`
}

// NewChatInteractionResponse maps a domain interaction.
func NewChatInteractionResponse(i *domain.ChatInteraction) ChatInteractionResponse {
	return ChatInteractionResponse{
		ID:                i.ID,
		CustomerID:        i.CustomerID,
		CustomerName:      i.CustomerName,
		Intent:            i.Intent,
		Confidence:        i.Confidence,
		Messages:          i.Messages,
		Resolved:          i.Resolved,
		EscalatedToTicket: i.EscalatedToTicket,
		TicketID:          i.TicketID,
		StartedAt:         i.StartedAt,
		EndedAt:           i.EndedAt,
	}
}
