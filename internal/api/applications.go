package api

import (
	"context"
	"fmt"

	"github.com/Kiran-879/ResumePilot/internal/types"
)

// ApplicationService is the typed facade over the student-facing
// /evaluations/applications/ endpoints.
type ApplicationService struct {
	client *Client
}

// List fetches the current user's applications.
func (s *ApplicationService) List(ctx context.Context) ([]types.Application, error) {
	payload, _, err := s.client.do(ctx, "GET", "/evaluations/applications/", nil, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeList[types.Application](payload, "/evaluations/applications/")
}

// Apply submits a resume against a job.
func (s *ApplicationService) Apply(ctx context.Context, req types.ApplyRequest) (*types.Application, error) {
	var application types.Application
	if err := s.client.sendJSON(ctx, "POST", "/evaluations/applications/apply/", req, &application); err != nil {
		return nil, err
	}
	return &application, nil
}

// Check reports whether the current user already applied to a job.
func (s *ApplicationService) Check(ctx context.Context, jobID int) (*types.ApplicationCheck, error) {
	var check types.ApplicationCheck
	path := fmt.Sprintf("/evaluations/applications/check/%d/", jobID)
	if err := s.client.getJSON(ctx, path, nil, &check); err != nil {
		return nil, err
	}
	return &check, nil
}

// UpdateStatus moves an application through the hiring funnel. Placement-team
// only; the server enforces the role.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id int, update types.ApplicationUpdate) (*types.Application, error) {
	var application types.Application
	path := fmt.Sprintf("/evaluations/applications/%d/update/", id)
	if err := s.client.sendJSON(ctx, "PATCH", path, update, &application); err != nil {
		return nil, err
	}
	return &application, nil
}
