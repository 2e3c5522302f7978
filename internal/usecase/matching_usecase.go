package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
)

const (
	defaultMatchTopK      = 50
	defaultMatchThreshold = 0.85
)

// MatchingConfig tunes the nearest-neighbour query.
type MatchingConfig struct {
	TopK      int
	Threshold float64
}

type matchingUsecase struct {
	index      domain.SimilarityIndex
	jobs       domain.JobRepository
	userSkills domain.UserSkillRepository
	tasks      domain.TaskRunner
	cfg        MatchingConfig
}

// NewMatchingUsecase accepts a nil index: writes become no-ops and lookups report 503.
func NewMatchingUsecase(index domain.SimilarityIndex, jobs domain.JobRepository, userSkills domain.UserSkillRepository, tasks domain.TaskRunner, cfg MatchingConfig) domain.MatchingUsecase {
	if cfg.TopK <= 0 {
		cfg.TopK = defaultMatchTopK
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = defaultMatchThreshold
	}
	return &matchingUsecase{index: index, jobs: jobs, userSkills: userSkills, tasks: tasks, cfg: cfg}
}

// JobProfileText is the document embedded for a job.
func JobProfileText(job *domain.Job) string {
	return fmt.Sprintf("Job Title: %s. Required Skills: %s.", job.Title, strings.Join(job.SkillNames(), ", "))
}

// UserProfileText is the query embedded for a candidate.
func UserProfileText(skills []string) string {
	return fmt.Sprintf("User Skills: %s.", strings.Join(skills, ", "))
}

func jobDocument(job *domain.Job) domain.IndexDocument {
	location := ""
	if job.Location != nil {
		location = *job.Location
	}
	return domain.IndexDocument{
		ID:      strconv.FormatInt(job.ID, 10),
		Content: JobProfileText(job),
		Metadata: map[string]string{
			"jobId":     strconv.FormatInt(job.ID, 10),
			"title":     job.Title,
			"type":      string(job.Type),
			"seniority": string(job.Seniority),
			"model":     string(job.Model),
			"location":  location,
			"status":    string(job.Status),
		},
	}
}

func (uc *matchingUsecase) IndexJob(job *domain.Job) {
	if uc.index == nil || job == nil {
		return
	}
	doc := jobDocument(job)
	uc.tasks.Go("index:upsert:"+doc.ID, func(ctx context.Context) error {
		return uc.index.Upsert(ctx, doc)
	})
}

func (uc *matchingUsecase) RemoveJob(jobID int64) {
	if uc.index == nil {
		return
	}
	id := strconv.FormatInt(jobID, 10)
	uc.tasks.Go("index:delete:"+id, func(ctx context.Context) error {
		return uc.index.Delete(ctx, id)
	})
}

func (uc *matchingUsecase) FindMatchedJobs(ctx context.Context, p domain.Principal) ([]domain.MatchedJob, error) {
	if uc.index == nil {
		return nil, apperror.Unavailable("Job matching is not available", nil)
	}

	skills, err := uc.userSkills.Names(ctx, p.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(skills) == 0 {
		return []domain.MatchedJob{}, nil
	}

	hits, err := uc.index.Search(ctx, UserProfileText(skills), uc.cfg.TopK, uc.cfg.Threshold)
	if err != nil {
		logger.Log.Error("Similarity search failed",
			slog.Int64("user_id", p.UserID),
			slog.Any("error", err),
		)
		return nil, apperror.Unavailable("Job matching is temporarily unavailable", err)
	}
	if len(hits) == 0 {
		return []domain.MatchedJob{}, nil
	}

	ids := make([]int64, 0, len(hits))
	for _, h := range hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			logger.Log.Warn("Skipping malformed index id", slog.String("id", h.ID))
			continue
		}
		ids = append(ids, id)
	}

	jobs, err := uc.jobs.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	byID := make(map[int64]domain.Job, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}

	// index order is kept; ids deleted from the store since indexing are dropped
	matched := make([]domain.MatchedJob, 0, len(hits))
	for _, h := range hits {
		id, _ := strconv.ParseInt(h.ID, 10, 64)
		job, ok := byID[id]
		if !ok {
			continue
		}
		matched = append(matched, domain.MatchedJob{
			Job:             job,
			MatchScore:      h.Score,
			MatchPercentage: int(math.Round(h.Score * 100)),
		})
	}
	return matched, nil
}
