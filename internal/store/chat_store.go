package store

import (
	"sort"
	"sync"
	"time"

	"github.com/facebookgo/clock"

	"github.com/fleetflow/support-engine/internal/domain"
	"github.com/fleetflow/support-engine/pkg/util"
)

// resolvedTodayWindow matches the heartbeat's rolling "today".
const resolvedTodayWindow = 24 * time.Hour

// ChatStore keeps chatbot interactions. Like the ticket store it is the
// sole mutation gateway and hands out copies.
type ChatStore struct {
	mu           sync.RWMutex
	interactions map[string]*domain.ChatInteraction
	clock        clock.Clock
}

// NewChatStore builds an empty store on the given clock.
func NewChatStore(clk clock.Clock) *ChatStore {
	return &ChatStore{
		interactions: make(map[string]*domain.ChatInteraction),
		clock:        clk,
	}
}

// Put stores a finished interaction snapshot.
func (s *ChatStore) Put(interaction *domain.ChatInteraction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions[interaction.ID] = interaction.Clone()
}

// Get returns a copy of the interaction or NOT_FOUND.
func (s *ChatStore) Get(id string) (*domain.ChatInteraction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	interaction, ok := s.interactions[id]
	if !ok {
		return nil, util.NewNotFound("chat interaction", map[string]any{"id": id})
	}
	return interaction.Clone(), nil
}

// Recent returns up to n interactions sorted by StartedAt descending.
func (s *ChatStore) Recent(n int) []domain.ChatInteraction {
	s.mu.RLock()
	out := make([]domain.ChatInteraction, 0, len(s.interactions))
	for _, interaction := range s.interactions {
		out = append(out, *interaction.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// ActivitySnapshot computes the transient heartbeat counts: interactions
// still open (no EndedAt) and interactions resolved within the rolling
// 24h window. Nothing is mutated.
func (s *ChatStore) ActivitySnapshot() domain.ChatActivity {
	now := s.clock.Now()
	cutoff := now.Add(-resolvedTodayWindow)

	s.mu.RLock()
	defer s.mu.RUnlock()

	activity := domain.ChatActivity{At: now}
	for _, interaction := range s.interactions {
		if interaction.EndedAt == nil {
			activity.ActiveChats++
		}
		if interaction.Resolved && interaction.StartedAt.After(cutoff) {
			activity.ResolvedToday++
		}
	}
	return activity
}
