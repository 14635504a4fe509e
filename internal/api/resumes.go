package api

import (
	"context"
	"fmt"
	"io"

	"github.com/Kiran-879/ResumePilot/internal/types"
)

// ResumeService is the typed facade over the /resumes/ endpoints.
type ResumeService struct {
	client *Client
}

// List fetches all resumes visible to the current user.
func (s *ResumeService) List(ctx context.Context) ([]types.Resume, error) {
	payload, _, err := s.client.do(ctx, "GET", "/resumes/", nil, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeList[types.Resume](payload, "/resumes/")
}

// Get fetches one resume by id.
func (s *ResumeService) Get(ctx context.Context, id int) (*types.Resume, error) {
	var resume types.Resume
	if err := s.client.getJSON(ctx, fmt.Sprintf("/resumes/%d/", id), nil, &resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

// Upload creates a resume from a file. The server parses and scores it
// asynchronously; poll Get until ProcessingStatus settles.
func (s *ResumeService) Upload(ctx context.Context, filename string, content io.Reader) (*types.Resume, error) {
	var resume types.Resume
	files := []FormFile{{Field: "file", Name: filename, Content: content}}
	if err := s.client.submitForm(ctx, "POST", "/resumes/", nil, files, &resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

// Update patches resume metadata, optionally replacing the file.
func (s *ResumeService) Update(ctx context.Context, id int, fields map[string]string, file *FormFile) (*types.Resume, error) {
	var files []FormFile
	if file != nil {
		files = append(files, *file)
	}
	var resume types.Resume
	if err := s.client.submitForm(ctx, "PATCH", fmt.Sprintf("/resumes/%d/", id), fields, files, &resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

// Delete removes a resume by id.
func (s *ResumeService) Delete(ctx context.Context, id int) error {
	return s.client.delete(ctx, fmt.Sprintf("/resumes/%d/", id))
}

// Download fetches the original resume file as an opaque blob.
func (s *ResumeService) Download(ctx context.Context, id int) (*Blob, error) {
	return s.client.download(ctx, fmt.Sprintf("/resumes/%d/download/", id), nil)
}

// Stats fetches aggregate resume counts.
func (s *ResumeService) Stats(ctx context.Context) (*types.ResumeStats, error) {
	var stats types.ResumeStats
	if err := s.client.getJSON(ctx, "/resumes/stats/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
