package domain

import "time"

// SupportMetrics is a derived aggregate over the ticket store. It is never
// a source of truth: every snapshot is recomputed in full from current
// store state.
type SupportMetrics struct {
	TotalTickets      int                    `json:"total_tickets"`
	OpenTickets       int                    `json:"open_tickets"`
	ResolvedTickets   int                    `json:"resolved_tickets"`
	AvgResolutionTime float64                `json:"avg_resolution_time"` // minutes
	AIResolutionRate  float64                `json:"ai_resolution_rate"`  // percentage
	SatisfactionScore float64                `json:"satisfaction_score"`  // 1-5 average
	TicketsByCategory map[TicketCategory]int `json:"tickets_by_category"`
	TicketsByPriority map[TicketPriority]int `json:"tickets_by_priority"`
	AgentPerformance  []AgentProfile         `json:"agent_performance"`
	GeneratedAt       time.Time              `json:"generated_at"`
}
