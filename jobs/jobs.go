// Package jobs is the typed client for the job feed: the matched listing a
// seeker browses, the postings an employer manages, and applying.
package jobs

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/hiredeck/hiredeck-go/httpx"
)

// Job is a normalized job listing. MatchPercentage is 0-100, computed
// server-side against the caller's active profile.
type Job struct {
	ID              string
	Title           string
	Company         string
	MatchPercentage int
	Location        string
	MinSalary       int
	MaxSalary       int
	Remote          bool
	Description     string
}

// CreateParams is an employer's new posting.
type CreateParams struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Salary      string `json:"salary"`
	Description string `json:"description" validate:"required"`
}

// ApplyResult is the backend's acknowledgement of an application.
type ApplyResult struct {
	ApplicationID string  `json:"application_id"`
	Status        string  `json:"status"`
	ChatID        *string `json:"chat_id,omitempty"`
}

type Service struct {
	api      *httpx.Client
	validate *validator.Validate
}

func New(api *httpx.Client) *Service {
	return &Service{
		api:      api,
		validate: validator.New(),
	}
}

// List returns the matched job feed for the current user.
func (s *Service) List(ctx context.Context) ([]Job, error) {
	var wire []jobJSON
	if err := s.api.Get(ctx, httpx.RouteJobs, &wire); err != nil {
		return nil, errors.Wrap(err, "[jobs.List]")
	}

	out := make([]Job, 0, len(wire))
	for _, j := range wire {
		out = append(out, j.normalize())
	}
	return out, nil
}

// Get returns a single job by ID.
func (s *Service) Get(ctx context.Context, jobID string) (*Job, error) {
	var wire jobJSON
	if err := s.api.Get(ctx, fmt.Sprintf("%s/%s", httpx.RouteJobs, jobID), &wire); err != nil {
		return nil, errors.Wrapf(err, "[jobs.Get] %s", jobID)
	}
	job := wire.normalize()
	return &job, nil
}

// Mine returns the postings owned by the current (employer) user.
func (s *Service) Mine(ctx context.Context) ([]Job, error) {
	var wire []jobJSON
	if err := s.api.Get(ctx, httpx.RouteJobsMine, &wire); err != nil {
		return nil, errors.Wrap(err, "[jobs.Mine]")
	}

	out := make([]Job, 0, len(wire))
	for _, j := range wire {
		out = append(out, j.normalize())
	}
	return out, nil
}

// Create posts a new job.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Job, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, errors.Wrap(err, "[jobs.Create] invalid params")
	}

	var wire jobJSON
	if err := s.api.Post(ctx, httpx.RouteJobs, params, &wire); err != nil {
		return nil, errors.Wrap(err, "[jobs.Create]")
	}
	job := wire.normalize()
	return &job, nil
}

// Apply applies the current user to a job.
func (s *Service) Apply(ctx context.Context, jobID string) (*ApplyResult, error) {
	var result ApplyResult
	if err := s.api.Post(ctx, fmt.Sprintf("%s/%s/apply", httpx.RouteJobs, jobID), nil, &result); err != nil {
		return nil, errors.Wrapf(err, "[jobs.Apply] %s", jobID)
	}
	return &result, nil
}

// jobJSON is the wire shape. The backend has shipped both companyName and
// company over time, so both are accepted.
type jobJSON struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	CompanyName     string `json:"companyName"`
	Company         string `json:"company"`
	MatchPercentage int    `json:"match_percentage"`
	Location        string `json:"location"`
	MinSalary       int    `json:"minSalary"`
	MaxSalary       int    `json:"maxSalary"`
	Remote          bool   `json:"remote"`
	Description     string `json:"description"`
}

func (j jobJSON) normalize() Job {
	company := j.CompanyName
	if company == "" {
		company = j.Company
	}
	if company == "" {
		company = "Company"
	}
	return Job{
		ID:              j.ID,
		Title:           j.Title,
		Company:         company,
		MatchPercentage: j.MatchPercentage,
		Location:        j.Location,
		MinSalary:       j.MinSalary,
		MaxSalary:       j.MaxSalary,
		Remote:          j.Remote,
		Description:     j.Description,
	}
}
