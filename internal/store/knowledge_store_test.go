package store

import (
	"testing"

	"github.com/fleetflow/support-engine/internal/domain"
	"github.com/fleetflow/support-engine/pkg/util"
)

func seedArticles(s *KnowledgeStore) {
	s.Seed([]domain.KnowledgeBaseArticle{
		{ID: "KB-001", Title: "Tracking", Popularity: 234},
		{ID: "KB-002", Title: "Invoices", Popularity: 156},
		{ID: "KB-003", Title: "Emergencies", Popularity: 89},
	})
}

func TestKnowledgeLookup(t *testing.T) {
	s := NewKnowledgeStore()
	seedArticles(s)

	article, err := s.Get("KB-002")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if article.Title != "Invoices" {
		t.Fatalf("title = %q", article.Title)
	}
	if _, err := s.Get("KB-404"); !util.IsCode(err, "NOT_FOUND") {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestArticleIDsOrderedByPopularity(t *testing.T) {
	s := NewKnowledgeStore()
	seedArticles(s)

	ids := s.ArticleIDs(2)
	if len(ids) != 2 || ids[0] != "KB-001" || ids[1] != "KB-002" {
		t.Fatalf("ids = %v, want [KB-001 KB-002]", ids)
	}
}
