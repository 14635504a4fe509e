package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Kiran-879/ResumePilot/internal/types"
)

// EvaluationService is the typed facade over the /evaluations/ endpoints.
type EvaluationService struct {
	client *Client
}

// List fetches evaluations, optionally narrowed by server-side filters such
// as "recommendation" or "job".
func (s *EvaluationService) List(ctx context.Context, filters url.Values) ([]types.Evaluation, error) {
	payload, _, err := s.client.do(ctx, "GET", "/evaluations/", filters, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeList[types.Evaluation](payload, "/evaluations/")
}

// Get fetches one evaluation by id.
func (s *EvaluationService) Get(ctx context.Context, id int) (*types.Evaluation, error) {
	var evaluation types.Evaluation
	if err := s.client.getJSON(ctx, fmt.Sprintf("/evaluations/%d/", id), nil, &evaluation); err != nil {
		return nil, err
	}
	return &evaluation, nil
}

// Create triggers an evaluation of one resume against one job. Scoring runs
// on the server; the returned evaluation is immutable from here on.
func (s *EvaluationService) Create(ctx context.Context, resumeID, jobID int) (*types.Evaluation, error) {
	body := map[string]int{
		"resume":          resumeID,
		"job_description": jobID,
	}
	var evaluation types.Evaluation
	if err := s.client.sendJSON(ctx, "POST", "/evaluations/", body, &evaluation); err != nil {
		return nil, err
	}
	return &evaluation, nil
}

// DownloadReport fetches the evaluation report as an opaque blob.
func (s *EvaluationService) DownloadReport(ctx context.Context, id int) (*Blob, error) {
	return s.client.download(ctx, fmt.Sprintf("/evaluations/%d/download/", id), nil)
}

// Stats fetches aggregate evaluation counts and the average score.
func (s *EvaluationService) Stats(ctx context.Context) (*types.EvaluationStats, error) {
	var stats types.EvaluationStats
	if err := s.client.getJSON(ctx, "/evaluations/stats/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
