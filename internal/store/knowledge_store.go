package store

import (
	"sort"
	"sync"

	"github.com/fleetflow/support-engine/internal/domain"
	"github.com/fleetflow/support-engine/pkg/util"
)

// KnowledgeStore is a read-only lookup of reference articles. Articles are
// immutable after seeding; the helpful counters are external analytics and
// are not mutated here.
type KnowledgeStore struct {
	mu       sync.RWMutex
	articles map[string]domain.KnowledgeBaseArticle
}

// NewKnowledgeStore builds an empty store.
func NewKnowledgeStore() *KnowledgeStore {
	return &KnowledgeStore{articles: make(map[string]domain.KnowledgeBaseArticle)}
}

// Seed loads articles; intended for seed fixtures only.
func (s *KnowledgeStore) Seed(articles []domain.KnowledgeBaseArticle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, article := range articles {
		s.articles[article.ID] = article
	}
}

// Get returns an article by id or NOT_FOUND.
func (s *KnowledgeStore) Get(id string) (domain.KnowledgeBaseArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	article, ok := s.articles[id]
	if !ok {
		return domain.KnowledgeBaseArticle{}, util.NewNotFound("knowledge base article", map[string]any{"id": id})
	}
	return article, nil
}

// All returns every article sorted by descending popularity.
func (s *KnowledgeStore) All() []domain.KnowledgeBaseArticle {
	s.mu.RLock()
	out := make([]domain.KnowledgeBaseArticle, 0, len(s.articles))
	for _, article := range s.articles {
		out = append(out, article)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Popularity != out[j].Popularity {
			return out[i].Popularity > out[j].Popularity
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ArticleIDs returns up to limit article ids by popularity; satisfies
// resolution.ArticleIndex.
func (s *KnowledgeStore) ArticleIDs(limit int) []string {
	articles := s.All()
	if len(articles) > limit {
		articles = articles[:limit]
	}
	ids := make([]string, 0, len(articles))
	for _, article := range articles {
		ids = append(ids, article.ID)
	}
	return ids
}
