package domain

import "time"

// ChatSender indicates who authored a chat message.
type ChatSender string

const (
	ChatSenderCustomer ChatSender = "customer"
	ChatSenderAI       ChatSender = "ai"
)

// ChatMessage is one exchange inside a chatbot interaction.
type ChatMessage struct {
	ID          string     `json:"id"`
	Sender      ChatSender `json:"sender"`
	Message     string     `json:"message"`
	Timestamp   time.Time  `json:"timestamp"`
	Suggestions []string   `json:"suggestions,omitempty"`
	ActionTaken string     `json:"action_taken,omitempty"`
}

// ChatInteraction is a short-lived conversational exchange that either
// self-resolves or escalates into a SupportTicket.
//
// Intent and Confidence come from the first customer message and are not
// recomputed per message. Resolved and EscalatedToTicket are mutually
// exclusive outcomes; both false means the interaction is still in
// progress. EndedAt is set exactly once, only when resolved; escalated
// interactions continue via the ticket channel and never set it.
type ChatInteraction struct {
	ID                string        `json:"id"`
	CustomerID        string        `json:"customer_id"`
	CustomerName      string        `json:"customer_name"`
	Messages          []ChatMessage `json:"messages"`
	Intent            string        `json:"intent"`
	Confidence        float64       `json:"confidence"`
	Resolved          bool          `json:"resolved"`
	EscalatedToTicket bool          `json:"escalated_to_ticket"`
	TicketID          string        `json:"ticket_id,omitempty"`
	StartedAt         time.Time     `json:"started_at"`
	EndedAt           *time.Time    `json:"ended_at,omitempty"`
}

// Clone returns a deep copy of the interaction.
func (i *ChatInteraction) Clone() *ChatInteraction {
	c := *i
	if i.Messages != nil {
		c.Messages = make([]ChatMessage, len(i.Messages))
		for idx, m := range i.Messages {
			if m.Suggestions != nil {
				m.Suggestions = append([]string(nil), m.Suggestions...)
			}
			c.Messages[idx] = m
		}
	}
	if i.EndedAt != nil {
		at := *i.EndedAt
		c.EndedAt = &at
	}
	return &c
}

// ChatActivity is the transient heartbeat payload computed by the
// scheduler; it mutates no stored entity.
type ChatActivity struct {
	ActiveChats   int       `json:"active_chats"`
	ResolvedToday int       `json:"resolved_today"`
	At            time.Time `json:"at"`
}
