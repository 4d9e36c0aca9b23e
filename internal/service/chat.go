package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/fleetflow/support-engine/internal/classifier"
	"github.com/fleetflow/support-engine/internal/domain"
	"github.com/fleetflow/support-engine/internal/events"
)

// chatEscalationThreshold: below this confidence the chatbot hands the
// conversation to a ticket instead of resolving in-line.
const chatEscalationThreshold = 0.7

const recentInteractionLimit = 20

type chatTemplate struct {
	message     string
	suggestions []string
}

// chatTemplates is the chatbot's intent-keyed response table. It is a
// separate vocabulary from the ticket-category templates: chat intents
// and ticket categories are related but not identical.
var chatTemplates = map[string]chatTemplate{
	classifier.IntentTrackShipment: {
		message:     "I can help you track your shipment! To provide real-time updates, I'll need your shipment number or load ID. You can find this in your booking confirmation email.",
		suggestions: []string{"Check shipment FF-12345", "View all my shipments", "Get delivery estimate"},
	},
	classifier.IntentBillingInquiry: {
		message:     "I'm here to help with your billing questions! I can explain charges, process refunds, or update payment methods. What specific billing issue can I assist you with?",
		suggestions: []string{"Explain my latest invoice", "Request a refund", "Update payment method"},
	},
	classifier.IntentTechnicalSupport: {
		message:     "I understand you're experiencing a technical issue. I can help troubleshoot problems with our platform, mobile app, or tracking systems. Can you describe what's not working?",
		suggestions: []string{"Login issues", "App not loading", "Tracking not updating"},
	},
	classifier.IntentEmergency: {
		message:     "I understand this is urgent! For immediate emergency assistance, please call our 24/7 hotline at 1-800-FLEET-911. I can also alert our emergency response team right now.",
		suggestions: []string{"Call emergency hotline", "Alert response team", "Get roadside assistance"},
	},
	classifier.IntentGeneral: {
		message:     "Hello! I'm FleetFlow's AI support assistant. I'm here 24/7 to help with tracking, billing, technical issues, and more. How can I assist you today?",
		suggestions: []string{"Track a shipment", "Billing question", "Technical support", "Account help"},
	},
}

// intentCategories maps chat intents onto ticket categories for
// escalation; unknown intents land in general.
var intentCategories = map[string]domain.TicketCategory{
	classifier.IntentTrackShipment:    domain.CategoryShipping,
	classifier.IntentBillingInquiry:   domain.CategoryBilling,
	classifier.IntentTechnicalSupport: domain.CategoryTechnical,
	classifier.IntentEmergency:        domain.CategoryEmergency,
	classifier.IntentComplexIssue:     domain.CategoryGeneral,
}

func categoryForIntent(intent string) domain.TicketCategory {
	if category, ok := intentCategories[intent]; ok {
		return category
	}
	return domain.CategoryGeneral
}

// ProcessChatbotInteraction runs one chatbot exchange: classify the
// message once, reply from the intent template table, then either resolve
// the interaction or escalate it into a ticket. The classification is
// single-shot: intent and confidence are fixed by the first customer
// message.
func (s *SupportService) ProcessChatbotInteraction(ctx context.Context, customerID, customerName, message string) (*domain.ChatInteraction, error) {
	result, err := s.classifier.Classify(ctx, message)
	if err != nil {
		// Support responsiveness beats classification precision: degrade
		// to the general intent instead of failing the interaction.
		s.logger.Warn("classifier unavailable, using general intent", zap.Error(err))
		result = classifier.Result{Intent: classifier.IntentGeneral, Confidence: 0.5}
	}

	now := s.clock.Now()
	interaction := &domain.ChatInteraction{
		ID:           domain.NewID("CHAT"),
		CustomerID:   customerID,
		CustomerName: customerName,
		Intent:       result.Intent,
		Confidence:   result.Confidence,
		StartedAt:    now,
		Messages: []domain.ChatMessage{{
			ID:        domain.NewID("MSG"),
			Sender:    domain.ChatSenderCustomer,
			Message:   message,
			Timestamp: now,
		}},
	}

	template, ok := chatTemplates[result.Intent]
	if !ok {
		template = chatTemplates[classifier.IntentGeneral]
	}
	reply := domain.ChatMessage{
		ID:          domain.NewID("MSG"),
		Sender:      domain.ChatSenderAI,
		Message:     template.message,
		Timestamp:   now,
		Suggestions: append([]string(nil), template.suggestions...),
	}
	if result.Intent != classifier.IntentGeneral {
		reply.ActionTaken = "processed_" + result.Intent
	}
	interaction.Messages = append(interaction.Messages, reply)

	if result.Confidence < chatEscalationThreshold || result.Intent == classifier.IntentComplexIssue {
		ticket, err := s.CreateSupportTicket(ctx, TicketCreateInput{
			CustomerID:   customerID,
			CustomerName: customerName,
			Subject:      "Escalated from chat: " + result.Intent,
			Description:  message,
			Category:     categoryForIntent(result.Intent),
		})
		if err != nil {
			return nil, err
		}
		interaction.EscalatedToTicket = true
		interaction.TicketID = ticket.ID
	} else {
		interaction.Resolved = true
		endedAt := now
		interaction.EndedAt = &endedAt
	}

	s.chats.Put(interaction)
	s.publishEvent(ctx, events.EventChatbotInteraction, interaction.Clone())
	return interaction, nil
}

// GetRecentChatbotInteractions returns the latest interactions, newest
// first.
func (s *SupportService) GetRecentChatbotInteractions() []domain.ChatInteraction {
	return s.chats.Recent(recentInteractionLimit)
}

// EmitChatActivity publishes the transient heartbeat snapshot.
func (s *SupportService) EmitChatActivity(ctx context.Context) domain.ChatActivity {
	activity := s.chats.ActivitySnapshot()
	s.publishEvent(ctx, events.EventChatbotActivity, activity)
	return activity
}
