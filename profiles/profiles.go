// Package profiles is the typed client for seeker profiles, built either
// manually or from a processed interview transcript.
package profiles

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/hiredeck/hiredeck-go/httpx"
)

// Profile is a seeker profile as stored by the backend.
type Profile struct {
	ID                     string   `json:"id"`
	JobTitle               string   `json:"job_title"`
	Summary                string   `json:"summary"`
	Skills                 []string `json:"skills"`
	ExperienceYears        int      `json:"experience_years"`
	Location               string   `json:"location"`
	SalaryExpectations     string   `json:"salary_expectations"`
	LicensesCertifications []string `json:"licenses_certifications"`
	RemoteWorkPreference   bool     `json:"remote_work_preference"`
	Active                 bool     `json:"active"`
}

// CreateParams mirrors the backend's profile schema. Creating a profile also
// kicks off job matching server-side.
type CreateParams struct {
	JobTitle               string   `json:"job_title" validate:"required"`
	Summary                string   `json:"summary" validate:"required"`
	Skills                 []string `json:"skills" validate:"required,min=1"`
	ExperienceYears        int      `json:"experience_years" validate:"gte=0"`
	Location               string   `json:"location" validate:"required"`
	SalaryExpectations     string   `json:"salary_expectations"`
	LicensesCertifications []string `json:"licenses_certifications"`
	RemoteWorkPreference   bool     `json:"remote_work_preference"`
}

// CreateResult acknowledges a stored profile.
type CreateResult struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ProfileID string `json:"profile_id"`
}

// Extracted is the profile draft the backend pulls out of an interview
// transcript for the user to review before saving.
type Extracted struct {
	Status  string  `json:"status"`
	Profile Profile `json:"profile"`
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

// List returns the current user's profiles.
func (s *Service) List(ctx context.Context) ([]Profile, error) {
	var out struct {
		Profiles []Profile `json:"profiles"`
	}
	if err := s.api.Get(ctx, httpx.RouteProfiles, &out); err != nil {
		return nil, errors.Wrap(err, "[profiles.List]")
	}
	return out.Profiles, nil
}

// Create stores a profile and triggers matching.
func (s *Service) Create(ctx context.Context, params CreateParams) (*CreateResult, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, errors.Wrap(err, "[profiles.Create] invalid params")
	}

	var out CreateResult
	if err := s.api.Post(ctx, httpx.RouteProfilesCreate, params, &out); err != nil {
		return nil, errors.Wrap(err, "[profiles.Create]")
	}
	return &out, nil
}

// ProcessInterview sends an interview transcript for server-side extraction.
func (s *Service) ProcessInterview(ctx context.Context, transcript string) (*Extracted, error) {
	if transcript == "" {
		return nil, errors.New("[profiles.ProcessInterview] transcript is required")
	}

	var out Extracted
	payload := map[string]string{"transcript": transcript}
	if err := s.api.Post(ctx, httpx.RouteProfilesProcessInterview, payload, &out); err != nil {
		return nil, errors.Wrap(err, "[profiles.ProcessInterview]")
	}
	return &out, nil
}
