package service

import (
	"strings"

	"github.com/fleetflow/support-engine/internal/domain"
)

var urgentKeywords = []string{"urgent", "emergency", "critical", "broken", "down", "stopped"}

var highKeywords = []string{"asap", "important", "needed", "problem", "issue", "error"}

// detectPriority derives ticket priority from the description text, with
// category heuristics as the fallback. Keyword hits outrank the
// category-based defaults.
func detectPriority(description string, category domain.TicketCategory) domain.TicketPriority {
	text := strings.ToLower(description)

	if category == domain.CategoryEmergency || containsAny(text, urgentKeywords) {
		return domain.PriorityUrgent
	}
	if containsAny(text, highKeywords) {
		return domain.PriorityHigh
	}
	if category == domain.CategoryBilling || category == domain.CategoryAccount {
		return domain.PriorityMedium
	}
	return domain.PriorityLow
}

var agentAssignments = map[domain.TicketCategory]string{
	domain.CategoryBilling:   "FleetFlow Support AI Alpha",
	domain.CategoryAccount:   "FleetFlow Support AI Alpha",
	domain.CategoryGeneral:   "FleetFlow Support AI Alpha",
	domain.CategoryTechnical: "FleetFlow Technical AI Beta",
	domain.CategoryShipping:  "FleetFlow Technical AI Beta",
	domain.CategoryEmergency: "FleetFlow Crisis AI Gamma",
}

func agentForCategory(category domain.TicketCategory) string {
	if agent, ok := agentAssignments[category]; ok {
		return agent
	}
	return agentAssignments[domain.CategoryGeneral]
}

// tagVocabulary is the fixed set of tags mined from descriptions.
var tagVocabulary = []string{
	"tracking", "billing", "technical", "shipping", "account", "invoice",
	"payment", "refund", "emergency", "breakdown", "delay", "update",
}

const maxTags = 5

func extractTags(description string) []string {
	text := strings.ToLower(description)
	tags := make([]string, 0, maxTags)
	for _, tag := range tagVocabulary {
		if strings.Contains(text, tag) {
			tags = append(tags, tag)
			if len(tags) == maxTags {
				break
			}
		}
	}
	return tags
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
