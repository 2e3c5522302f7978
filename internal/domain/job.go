package domain

import (
	"context"
	"time"
)

type JobType string

const (
	JobTypeFullTime   JobType = "FULL_TIME"
	JobTypePartTime   JobType = "PART_TIME"
	JobTypeInternship JobType = "INTERNSHIP"
)

func ParseJobType(s string) (JobType, error) {
	return parseEnum("job type", s, JobTypeFullTime, JobTypePartTime, JobTypeInternship)
}

func (t JobType) MarshalText() ([]byte, error) { return []byte(enumToAPI(string(t))), nil }

func (t *JobType) UnmarshalText(b []byte) error {
	v, err := ParseJobType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

type JobSeniority string

const (
	SeniorityJunior JobSeniority = "JUNIOR"
	SeniorityMid    JobSeniority = "MID"
	SenioritySenior JobSeniority = "SENIOR"
	SeniorityLead   JobSeniority = "LEAD"
)

func ParseJobSeniority(s string) (JobSeniority, error) {
	return parseEnum("job seniority", s, SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityLead)
}

func (s JobSeniority) MarshalText() ([]byte, error) { return []byte(enumToAPI(string(s))), nil }

func (s *JobSeniority) UnmarshalText(b []byte) error {
	v, err := ParseJobSeniority(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

type JobModel string

const (
	JobModelOnsite JobModel = "ONSITE"
	JobModelHybrid JobModel = "HYBRID"
	JobModelRemote JobModel = "REMOTE"
)

func ParseJobModel(s string) (JobModel, error) {
	return parseEnum("job model", s, JobModelOnsite, JobModelHybrid, JobModelRemote)
}

func (m JobModel) MarshalText() ([]byte, error) { return []byte(enumToAPI(string(m))), nil }

func (m *JobModel) UnmarshalText(b []byte) error {
	v, err := ParseJobModel(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

type JobStatus string

const (
	JobStatusOpen   JobStatus = "OPEN"
	JobStatusPaused JobStatus = "PAUSED"
	JobStatusClosed JobStatus = "CLOSED"
)

func ParseJobStatus(s string) (JobStatus, error) {
	return parseEnum("job status", s, JobStatusOpen, JobStatusPaused, JobStatusClosed)
}

func (s JobStatus) MarshalText() ([]byte, error) { return []byte(enumToAPI(string(s))), nil }

func (s *JobStatus) UnmarshalText(b []byte) error {
	v, err := ParseJobStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

type Job struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Type        JobType      `json:"type"`
	Seniority   JobSeniority `json:"seniority"`
	Model       JobModel     `json:"model"`
	Status      JobStatus    `json:"status"`
	Location    *string      `json:"location"`
	Description string       `json:"description"`
	PostedBy    int64        `json:"posted_by"`
	Skills      []Skill      `json:"skills"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (j *Job) SkillNames() []string {
	names := make([]string, 0, len(j.Skills))
	for _, s := range j.Skills {
		names = append(names, s.Name)
	}
	return names
}

type CreateJobInput struct {
	Title       string
	Type        JobType
	Seniority   JobSeniority
	Model       JobModel
	Location    *string
	Description string
	SkillIDs    []int64
}

// UpdateJobInput is a partial update; nil fields are left untouched.
type UpdateJobInput struct {
	Title       *string
	Type        *JobType
	Seniority   *JobSeniority
	Model       *JobModel
	Location    *string
	Description *string
	SkillIDs    []int64
}

type JobRepository interface {
	Create(ctx context.Context, job *Job, skillIDs []int64) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Job, error)
	ListByStatus(ctx context.Context, status JobStatus, page PageRequest) ([]Job, int64, error)
	ListByOwner(ctx context.Context, ownerID int64, page PageRequest) ([]Job, int64, error)
	// Update rewrites the scalar columns; skillIDs replaces the skill set when non-nil.
	Update(ctx context.Context, job *Job, skillIDs []int64) error
	UpdateStatus(ctx context.Context, id int64, status JobStatus) error
}

// JobIndexer keeps the similarity index in step with job writes. Calls must not block the caller.
type JobIndexer interface {
	IndexJob(job *Job)
	RemoveJob(jobID int64)
}

type JobUsecase interface {
	Create(ctx context.Context, p Principal, in CreateJobInput) (*Job, error)
	Get(ctx context.Context, id int64) (*Job, error)
	ListOpen(ctx context.Context, page PageRequest) (Page[Job], error)
	ListMine(ctx context.Context, p Principal, page PageRequest) (Page[Job], error)
	Update(ctx context.Context, p Principal, id int64, in UpdateJobInput) (*Job, error)
	Pause(ctx context.Context, p Principal, id int64) (*Job, error)
	Resume(ctx context.Context, p Principal, id int64) (*Job, error)
	Close(ctx context.Context, p Principal, id int64) (*Job, error)
}
