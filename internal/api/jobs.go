package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Kiran-879/ResumePilot/internal/types"
)

// JobService is the typed facade over the /jobs/ endpoints.
type JobService struct {
	client *Client
}

// List fetches all job postings.
func (s *JobService) List(ctx context.Context) ([]types.Job, error) {
	payload, _, err := s.client.do(ctx, "GET", "/jobs/", nil, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeList[types.Job](payload, "/jobs/")
}

// Get fetches one job by id.
func (s *JobService) Get(ctx context.Context, id int) (*types.Job, error) {
	var job types.Job
	if err := s.client.getJSON(ctx, fmt.Sprintf("/jobs/%d/", id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Create posts a new job. Title, company name and the description file are
// required by the API; everything else is optional.
func (s *JobService) Create(ctx context.Context, fields map[string]string, descriptionFile FormFile) (*types.Job, error) {
	var job types.Job
	files := []FormFile{descriptionFile}
	if err := s.client.submitForm(ctx, "POST", "/jobs/", fields, files, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Update patches job fields, optionally replacing the description file.
func (s *JobService) Update(ctx context.Context, id int, fields map[string]string, file *FormFile) (*types.Job, error) {
	var files []FormFile
	if file != nil {
		files = append(files, *file)
	}
	var job types.Job
	if err := s.client.submitForm(ctx, "PATCH", fmt.Sprintf("/jobs/%d/", id), fields, files, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Delete removes a job by id.
func (s *JobService) Delete(ctx context.Context, id int) error {
	return s.client.delete(ctx, fmt.Sprintf("/jobs/%d/", id))
}

// Download fetches the job description file as an opaque blob.
func (s *JobService) Download(ctx context.Context, id int) (*Blob, error) {
	return s.client.download(ctx, fmt.Sprintf("/jobs/%d/download/", id), nil)
}

// MatchedCandidates lists evaluations meeting the match threshold for a job.
func (s *JobService) MatchedCandidates(ctx context.Context, id int) ([]types.Evaluation, error) {
	path := fmt.Sprintf("/jobs/%d/candidates/", id)
	payload, _, err := s.client.do(ctx, "GET", path, nil, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeList[types.Evaluation](payload, path)
}

// AppliedResumes lists applications submitted against a job.
func (s *JobService) AppliedResumes(ctx context.Context, id int) ([]types.Application, error) {
	path := fmt.Sprintf("/jobs/%d/applied/", id)
	payload, _, err := s.client.do(ctx, "GET", path, nil, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeList[types.Application](payload, path)
}

// ExportCandidates downloads the candidate spreadsheet for a job as an opaque
// blob. Options narrow the export by type, score floor, count limit, and an
// interview-round label for shortlist exports.
func (s *JobService) ExportCandidates(ctx context.Context, id int, opts types.ExportOptions) (*Blob, error) {
	query := url.Values{}
	exportType := opts.Type
	if exportType == "" {
		exportType = "all"
	}
	query.Set("type", exportType)
	query.Set("min_score", strconv.Itoa(opts.MinScore))
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Round != "" {
		query.Set("round", opts.Round)
	}
	return s.client.download(ctx, fmt.Sprintf("/jobs/%d/export/", id), query)
}

// Stats fetches aggregate job counts.
func (s *JobService) Stats(ctx context.Context) (*types.JobStats, error) {
	var stats types.JobStats
	if err := s.client.getJSON(ctx, "/jobs/stats/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
