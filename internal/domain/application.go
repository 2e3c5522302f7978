package domain

import (
	"context"
	"fmt"
	"io"
	"time"
)

type ApplicationStatus string

const (
	StatusSubmitted   ApplicationStatus = "SUBMITTED"
	StatusUnderReview ApplicationStatus = "UNDER_REVIEW"
	StatusShortlisted ApplicationStatus = "SHORTLISTED"
	StatusInterview   ApplicationStatus = "INTERVIEW"
	StatusOffered     ApplicationStatus = "OFFERED"
	StatusHired       ApplicationStatus = "HIRED"
	StatusRejected    ApplicationStatus = "REJECTED"
	StatusWithdrawn   ApplicationStatus = "WITHDRAWN"
)

var AllApplicationStatuses = []ApplicationStatus{
	StatusSubmitted, StatusUnderReview, StatusShortlisted, StatusInterview,
	StatusOffered, StatusHired, StatusRejected, StatusWithdrawn,
}

// Terminal statuses have no entry here.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusSubmitted:   {StatusUnderReview, StatusRejected, StatusWithdrawn},
	StatusUnderReview: {StatusShortlisted, StatusRejected, StatusWithdrawn},
	StatusShortlisted: {StatusInterview, StatusRejected, StatusWithdrawn},
	StatusInterview:   {StatusOffered, StatusRejected, StatusWithdrawn},
	StatusOffered:     {StatusHired, StatusRejected, StatusWithdrawn},
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	return parseEnum("application status", s, AllApplicationStatuses...)
}

func (s ApplicationStatus) MarshalText() ([]byte, error) { return []byte(enumToAPI(string(s))), nil }

func (s *ApplicationStatus) UnmarshalText(b []byte) error {
	v, err := ParseApplicationStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusHired || s == StatusRejected || s == StatusWithdrawn
}

func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type TransitionError struct {
	From ApplicationStatus
	To   ApplicationStatus
}

func (e *TransitionError) Error() string {
	if e.From == "" {
		return "Current application status is not set and cannot be transitioned"
	}
	return fmt.Sprintf("Cannot change status from %s to %s", e.From, e.To)
}

// ValidateStatusTransition returns a *TransitionError when next is not reachable from current.
func ValidateStatusTransition(current, next ApplicationStatus) error {
	if current == "" {
		return &TransitionError{To: next}
	}
	if !current.CanTransitionTo(next) {
		return &TransitionError{From: current, To: next}
	}
	return nil
}

type Application struct {
	ID             int64             `json:"id"`
	ApplicantID    int64             `json:"applicant_id"`
	ApplicantName  string            `json:"applicant_name"`
	ApplicantEmail string            `json:"applicant_email"`
	JobID          int64             `json:"job_id"`
	JobTitle       string            `json:"job_title"`
	JobPostedBy    int64             `json:"-"`
	ResumeID       *int64            `json:"resume_id"`
	ResumeContent  string            `json:"-"`
	CoverLetter    *string           `json:"cover_letter"`
	Status         ApplicationStatus `json:"status"`
	MatchingRatio  float64           `json:"matching_ratio"`
	AppliedAt      time.Time         `json:"apply_time"`
	LastUpdate     time.Time         `json:"last_update"`
}

type ApplyInput struct {
	JobID       int64
	CoverLetter *string
	ResumeID    *int64
	Upload      *ResumeUpload
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	Exists(ctx context.Context, applicantID, jobID int64) (bool, error)
	// GetVisible returns the application when the viewer is its applicant or the job's poster.
	GetVisible(ctx context.Context, viewerID, id int64) (*Application, error)
	ListByApplicant(ctx context.Context, applicantID int64, page PageRequest) ([]Application, int64, error)
	// ListByJob only yields rows whose job was posted by ownerID. A nil status means any.
	ListByJob(ctx context.Context, ownerID, jobID int64, status *ApplicationStatus, page PageRequest) ([]Application, int64, error)
	ListAllByJob(ctx context.Context, ownerID, jobID int64) ([]Application, error)
	UpdateStatus(ctx context.Context, id int64, status ApplicationStatus, at time.Time) error
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, p Principal, in ApplyInput) (*Application, error)
	ListMine(ctx context.Context, p Principal, page PageRequest) (Page[Application], error)
	Get(ctx context.Context, p Principal, id int64) (*Application, error)
	ListForJob(ctx context.Context, p Principal, jobID int64, status *ApplicationStatus, page PageRequest) (Page[Application], error)
	UpdateStatus(ctx context.Context, p Principal, id int64, next ApplicationStatus) (*Application, error)
	OpenResume(ctx context.Context, p Principal, id int64) (*ResumeFile, error)
	ExportForJob(ctx context.Context, p Principal, jobID int64, w io.Writer) error
}
