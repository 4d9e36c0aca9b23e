// Package seed loads demo fixtures for local development: a few tickets
// in different lifecycle stages, the starter knowledge base, and the AI
// agent roster. Production deployments start empty.
package seed

import (
	"time"

	"github.com/facebookgo/clock"
	"go.uber.org/zap"

	"github.com/fleetflow/support-engine/internal/domain"
	"github.com/fleetflow/support-engine/internal/store"
)

// Agents returns the AI agent roster. The roster is static reference
// data and is loaded regardless of demo mode so metrics snapshots always
// list the agents.
func Agents() []domain.AgentProfile {
	return []domain.AgentProfile{
		{
			AgentID:           "ai-support-001",
			AgentName:         "FleetFlow Support AI Alpha",
			AgentType:         domain.AgentTypeAI,
			TicketsHandled:    156,
			AvgResolutionTime: 12,
			SatisfactionScore: 4.8,
			ResolutionRate:    89.1,
			Specializations:   []string{"billing", "account", "general"},
		},
		{
			AgentID:           "ai-support-002",
			AgentName:         "FleetFlow Technical AI Beta",
			AgentType:         domain.AgentTypeAI,
			TicketsHandled:    134,
			AvgResolutionTime: 24,
			SatisfactionScore: 4.6,
			ResolutionRate:    81.3,
			Specializations:   []string{"technical", "shipping", "emergency"},
		},
		{
			AgentID:           "ai-support-003",
			AgentName:         "FleetFlow Crisis AI Gamma",
			AgentType:         domain.AgentTypeAI,
			TicketsHandled:    89,
			AvgResolutionTime: 8,
			SatisfactionScore: 4.9,
			ResolutionRate:    92.7,
			Specializations:   []string{"emergency", "urgent", "escalation"},
		},
	}
}

// Articles returns the starter knowledge base.
func Articles(clk clock.Clock) []domain.KnowledgeBaseArticle {
	now := clk.Now()
	return []domain.KnowledgeBaseArticle{
		{
			ID:          "KB-001",
			Title:       "How to Track Your Shipment in Real-Time",
			Content:     "Access live tracking through your FleetFlow portal or mobile app. Updates every 30 seconds with GPS accuracy.",
			Category:    "tracking",
			Tags:        []string{"tracking", "real-time", "GPS", "mobile"},
			Popularity:  234,
			Helpful:     189,
			NotHelpful:  12,
			LastUpdated: now.Add(-24 * time.Hour),
		},
		{
			ID:          "KB-002",
			Title:       "Understanding Your FleetFlow Invoice",
			Content:     "Detailed breakdown of charges including base rate, fuel surcharge, accessorial fees, and applicable taxes.",
			Category:    "billing",
			Tags:        []string{"billing", "invoice", "charges", "fees"},
			Popularity:  156,
			Helpful:     134,
			NotHelpful:  8,
			LastUpdated: now.Add(-48 * time.Hour),
		},
		{
			ID:          "KB-003",
			Title:       "Emergency Contact Procedures",
			Content:     "For urgent issues: Call emergency hotline 1-800-FLEET-911 or use the emergency chat feature in your portal.",
			Category:    "emergency",
			Tags:        []string{"emergency", "contact", "urgent", "hotline"},
			Popularity:  89,
			Helpful:     78,
			NotHelpful:  3,
			LastUpdated: now.Add(-72 * time.Hour),
		},
	}
}

// DemoTickets loads sample tickets into the store: one mid-conversation,
// two already resolved. Timestamps are relative to the store clock so the
// fixtures look fresh at startup.
func DemoTickets(tickets *store.TicketStore, clk clock.Clock, logger *zap.Logger) {
	now := clk.Now()

	resolvedBilling := now.Add(-30 * time.Minute)
	billingMinutes := 90
	billingScore := 5

	resolvedEmergency := now.Add(-time.Hour)
	emergencyMinutes := 30
	emergencyScore := 5

	demo := []*domain.SupportTicket{
		{
			ID:                  "TKT-2025-001",
			CustomerID:          "CUST-001",
			CustomerName:        "ABC Logistics Inc",
			CustomerEmail:       "operations@abclogistics.com",
			CustomerPhone:       "+1-555-0123",
			Subject:             "Load Tracking Issue - Shipment FF-12345",
			Description:         "Unable to see real-time location updates for our shipment. Last update was 2 hours ago.",
			Category:            domain.CategoryTechnical,
			Priority:            domain.PriorityHigh,
			Status:              domain.TicketStatusInProgress,
			AssignedAgent:       "FleetFlow Technical AI Beta",
			Tags:                []string{"tracking", "real-time", "shipment"},
			CreatedAt:           now.Add(-time.Hour),
			UpdatedAt:           now.Add(-30 * time.Minute),
			ConversationHistory: []domain.ConversationMessage{
				{
					ID:         "MSG-001",
					TicketID:   "TKT-2025-001",
					Sender:     domain.SenderCustomer,
					SenderName: "John Smith - ABC Logistics",
					Message:    "Hi, we cannot see updates for shipment FF-12345. Can you help?",
					Timestamp:  now.Add(-time.Hour),
				},
				{
					ID:         "MSG-002",
					TicketID:   "TKT-2025-001",
					Sender:     domain.SenderAIAgent,
					SenderName: "FleetFlow Technical AI Beta",
					Message:    "I understand your concern about shipment FF-12345. Let me check the tracking system immediately. I can see the shipment is currently in transit near Dallas, TX. There was a temporary GPS connectivity issue which has now been resolved. You should see live updates resuming within the next 5 minutes.",
					Timestamp:  now.Add(-30 * time.Minute),
				},
			},
		},
		{
			ID:                  "TKT-2025-002",
			CustomerID:          "CUST-002",
			CustomerName:        "Metro Manufacturing",
			CustomerEmail:       "billing@metromanufacturing.com",
			Subject:             "Invoice Discrepancy - January 2025",
			Description:         "The invoice amount does not match our records. We expected $3,450 but were charged $3,680.",
			Category:            domain.CategoryBilling,
			Priority:            domain.PriorityMedium,
			Status:              domain.TicketStatusResolved,
			AssignedAgent:       "FleetFlow Support AI Alpha",
			AIResolution:        "Invoice corrected. Fuel surcharge was incorrectly applied twice. Refund of $230 processed.",
			Tags:                []string{"billing", "invoice", "discrepancy"},
			SatisfactionScore:   &billingScore,
			CreatedAt:           now.Add(-2 * time.Hour),
			UpdatedAt:           resolvedBilling,
			ResolvedAt:          &resolvedBilling,
			ResolutionTime:      &billingMinutes,
			ConversationHistory: []domain.ConversationMessage{
				{
					ID:         "MSG-003",
					TicketID:   "TKT-2025-002",
					Sender:     domain.SenderCustomer,
					SenderName: "Sarah Johnson - Metro Manufacturing",
					Message:    "There seems to be an error on our January invoice. The total is higher than expected.",
					Timestamp:  now.Add(-2 * time.Hour),
				},
				{
					ID:         "MSG-004",
					TicketID:   "TKT-2025-002",
					Sender:     domain.SenderAIAgent,
					SenderName: "FleetFlow Support AI Alpha",
					Message:    "I have reviewed your January invoice and found the discrepancy. The fuel surcharge was incorrectly applied twice - once at pickup and once at delivery. The correct amount should be $3,450. I have processed a refund of $230 which will appear in your account within 2-3 business days. I apologize for this billing error.",
					Timestamp:  resolvedBilling,
				},
			},
		},
		{
			ID:                  "TKT-2025-003",
			CustomerID:          "CUST-003",
			CustomerName:        "Express Freight Co",
			CustomerEmail:       "dispatch@expressfreight.com",
			Subject:             "Emergency - Driver Breakdown I-95",
			Description:         "Our driver has broken down on I-95 northbound near mile marker 127. Load needs urgent transfer.",
			Category:            domain.CategoryEmergency,
			Priority:            domain.PriorityUrgent,
			Status:              domain.TicketStatusResolved,
			AssignedAgent:       "FleetFlow Crisis AI Gamma",
			AIResolution:        "Emergency response activated. Replacement driver dispatched within 45 minutes. Load transferred successfully.",
			Tags:                []string{"emergency", "breakdown", "load-transfer"},
			SatisfactionScore:   &emergencyScore,
			CreatedAt:           now.Add(-90 * time.Minute),
			UpdatedAt:           resolvedEmergency,
			ResolvedAt:          &resolvedEmergency,
			ResolutionTime:      &emergencyMinutes,
			ConversationHistory: []domain.ConversationMessage{},
		},
	}

	for _, ticket := range demo {
		tickets.Load(ticket)
	}
	if logger != nil {
		logger.Info("demo tickets loaded", zap.Int("count", len(demo)))
	}
}
