package domain

import "context"

// IndexDocument is one entry of the similarity index. ID is the job id.
type IndexDocument struct {
	ID       string
	Content  string
	Metadata map[string]string
}

type ScoredID struct {
	ID    string
	Score float64
}

// SimilarityIndex embeds text and answers nearest-neighbour queries, best match first.
type SimilarityIndex interface {
	Upsert(ctx context.Context, doc IndexDocument) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, topK int, threshold float64) ([]ScoredID, error)
}

type MatchedJob struct {
	Job             Job     `json:"job"`
	MatchScore      float64 `json:"match_score"`
	MatchPercentage int     `json:"match_percentage"`
}

type MatchingUsecase interface {
	JobIndexer
	FindMatchedJobs(ctx context.Context, p Principal) ([]MatchedJob, error)
}
