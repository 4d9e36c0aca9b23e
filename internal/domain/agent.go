package domain

// AgentType distinguishes automated from human agents.
type AgentType string

const (
	AgentTypeAI    AgentType = "ai"
	AgentTypeHuman AgentType = "human"
)

// AgentProfile describes a support agent and its track record. Profiles are
// static reference data seeded alongside the knowledge base.
type AgentProfile struct {
	AgentID           string    `json:"agent_id"`
	AgentName         string    `json:"agent_name"`
	AgentType         AgentType `json:"agent_type"`
	TicketsHandled    int       `json:"tickets_handled"`
	AvgResolutionTime int       `json:"avg_resolution_time"` // minutes
	SatisfactionScore float64   `json:"satisfaction_score"`
	ResolutionRate    float64   `json:"resolution_rate"` // percentage
	Specializations   []string  `json:"specializations"`
}
