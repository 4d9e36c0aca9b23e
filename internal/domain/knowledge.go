package domain

import "time"

// KnowledgeBaseArticle is immutable-after-seed reference content. The
// helpful/not-helpful counters are written by external analytics, never by
// this engine.
type KnowledgeBaseArticle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Popularity  int       `json:"popularity"`
	Helpful     int       `json:"helpful"`
	NotHelpful  int       `json:"not_helpful"`
	LastUpdated time.Time `json:"last_updated"`
}
