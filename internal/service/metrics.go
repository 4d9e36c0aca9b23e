package service

import (
	"context"

	"github.com/fleetflow/support-engine/internal/domain"
	"github.com/fleetflow/support-engine/internal/events"
)

// GetSupportMetrics recomputes the metrics snapshot from current store
// state. Snapshots are derived data, never a source of truth, so every
// call computes from scratch.
func (s *SupportService) GetSupportMetrics() domain.SupportMetrics {
	return s.computeMetrics()
}

// RecomputeMetrics recomputes the snapshot and publishes metrics_updated;
// the scheduler calls this on its metrics interval.
func (s *SupportService) RecomputeMetrics(ctx context.Context) domain.SupportMetrics {
	snapshot := s.computeMetrics()
	s.publishEvent(ctx, events.EventMetricsUpdated, snapshot)
	return snapshot
}

func (s *SupportService) computeMetrics() domain.SupportMetrics {
	all := s.tickets.All()

	snapshot := domain.SupportMetrics{
		TotalTickets:      len(all),
		TicketsByCategory: make(map[domain.TicketCategory]int),
		TicketsByPriority: make(map[domain.TicketPriority]int),
		AgentPerformance:  append([]domain.AgentProfile(nil), s.agents...),
		GeneratedAt:       s.clock.Now(),
	}

	var (
		resolvedCount     int
		aiResolvedCount   int
		resolutionMinutes int
		resolutionSamples int
		satisfactionTotal int
		satisfactionCount int
	)

	for _, ticket := range all {
		snapshot.TicketsByCategory[ticket.Category]++
		snapshot.TicketsByPriority[ticket.Priority]++

		if ticket.Status == domain.TicketStatusOpen {
			snapshot.OpenTickets++
		}
		if ticket.Status.IsTerminal() {
			resolvedCount++
			if !ticket.HumanEscalated {
				aiResolvedCount++
			}
			if ticket.ResolutionTime != nil {
				resolutionMinutes += *ticket.ResolutionTime
				resolutionSamples++
			}
		}
		if ticket.SatisfactionScore != nil {
			satisfactionTotal += *ticket.SatisfactionScore
			satisfactionCount++
		}
	}

	snapshot.ResolvedTickets = resolvedCount
	if resolutionSamples > 0 {
		snapshot.AvgResolutionTime = float64(resolutionMinutes) / float64(resolutionSamples)
	}
	if resolvedCount > 0 {
		snapshot.AIResolutionRate = float64(aiResolvedCount) / float64(resolvedCount) * 100
	}
	if satisfactionCount > 0 {
		snapshot.SatisfactionScore = float64(satisfactionTotal) / float64(satisfactionCount)
	}
	return snapshot
}
