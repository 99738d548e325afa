// Package applications is the typed client for a user's job applications.
package applications

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/hiredeck/hiredeck-go/httpx"
)

// Status values the backend accepts for a decision.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

var InvalidStatusErr = errors.New("status must be accepted or rejected")

// Application is one application, enriched server-side with job details.
type Application struct {
	ID          string  `json:"id"`
	Status      string  `json:"status"`
	JobTitle    string  `json:"job_title"`
	CompanyName string  `json:"company_name"`
	ChatID      *string `json:"chat_id,omitempty"`
}

type Service struct {
	api *httpx.Client
}

func New(api *httpx.Client) *Service {
	return &Service{api: api}
}

// List returns all applications for the current user.
func (s *Service) List(ctx context.Context) ([]Application, error) {
	var out []Application
	if err := s.api.Get(ctx, httpx.RouteApplications, &out); err != nil {
		return nil, errors.Wrap(err, "[applications.List]")
	}
	return out, nil
}

// UpdateStatus records an employer's decision on an application.
func (s *Service) UpdateStatus(ctx context.Context, applicationID string, status Status) (*Application, error) {
	if status != StatusAccepted && status != StatusRejected {
		return nil, errors.Wrapf(InvalidStatusErr, "[applications.UpdateStatus] %q", status)
	}

	var out Application
	path := fmt.Sprintf("%s/%s/status", httpx.RouteApplications, applicationID)
	if err := s.api.Patch(ctx, path, map[string]Status{"status": status}, &out); err != nil {
		return nil, errors.Wrapf(err, "[applications.UpdateStatus] %s", applicationID)
	}
	return &out, nil
}
