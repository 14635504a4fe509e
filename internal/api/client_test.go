package api

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Kiran-879/ResumePilot/internal/config"
	"github.com/Kiran-879/ResumePilot/internal/errors"
	"github.com/Kiran-879/ResumePilot/internal/types"
)

func testConfig(baseURL string) config.APIConfig {
	return config.APIConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(testConfig(server.URL), nil, opts...)
	return client, server
}

func TestClientAttachesTokenHeader(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}), WithTokenFunc(func() string { return "secret-token" }))

	var out map[string]any
	if err := client.getJSON(context.Background(), "/resumes/", nil, &out); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotAuth != "Token secret-token" {
		t.Errorf("Expected 'Token secret-token' header, got '%s'", gotAuth)
	}
}

func TestClientOmitsHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	var hasAuth bool
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hasAuth = r.Header["Authorization"]
		_, _ = w.Write([]byte(`{}`))
	}))

	var out map[string]any
	if err := client.getJSON(context.Background(), "/auth/login/", nil, &out); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if hasAuth {
		t.Errorf("Expected no Authorization header, got '%s'", gotAuth)
	}
}

func TestClientFiresAuthFailureHandlerOn401(t *testing.T) {
	expired := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Invalid token."}`))
	}),
		WithTokenFunc(func() string { return "stale" }),
		WithAuthFailureHandler(func() { expired++ }))

	var out map[string]any
	err := client.getJSON(context.Background(), "/resumes/", nil, &out)
	if err == nil {
		t.Fatal("Expected an error from the 401")
	}
	if expired != 1 {
		t.Errorf("Expected auth failure handler to fire once, fired %d times", expired)
	}

	apiErr, ok := errors.AsAPIError(err)
	if !ok {
		t.Fatalf("Expected an APIError, got %T", err)
	}
	if !apiErr.IsAuthFailure() || apiErr.Message != "Invalid token." {
		t.Errorf("Unexpected normalized error: %+v", apiErr)
	}
}

func TestClientDoesNotFireHandlerOnOtherErrors(t *testing.T) {
	expired := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "Not found."}`))
	}), WithAuthFailureHandler(func() { expired++ }))

	var out map[string]any
	err := client.getJSON(context.Background(), "/resumes/99/", nil, &out)
	if err == nil {
		t.Fatal("Expected an error from the 404")
	}
	if expired != 0 {
		t.Errorf("Expected handler untouched on 404, fired %d times", expired)
	}
	if apiErr, ok := errors.AsAPIError(err); !ok || !apiErr.IsNotFound() {
		t.Errorf("Expected a not-found APIError, got %v", err)
	}
}

func TestSubmitFormEncodesMultipart(t *testing.T) {
	var (
		gotContentType string
		gotFields      map[string]string
		gotFileName    string
		gotFileBody    string
	)
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		mediaType, params, err := mime.ParseMediaType(gotContentType)
		if err != nil || mediaType != "multipart/form-data" {
			http.Error(w, "bad content type", http.StatusBadRequest)
			return
		}
		reader := multipart.NewReader(r.Body, params["boundary"])
		gotFields = map[string]string{}
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			data, _ := io.ReadAll(part)
			if part.FileName() != "" {
				gotFileName = part.FileName()
				gotFileBody = string(data)
			} else {
				gotFields[part.FormName()] = string(data)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 12, "title": "Backend Engineer"}`))
	}))

	var job types.Job
	err := client.submitForm(context.Background(), http.MethodPost, "/jobs/",
		map[string]string{"title": "Backend Engineer", "company_name": "Acme"},
		[]FormFile{{Field: "job_description_file", Name: "jd.pdf", Content: strings.NewReader("pdf bytes")}},
		&job)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotFields["title"] != "Backend Engineer" || gotFields["company_name"] != "Acme" {
		t.Errorf("Unexpected form fields: %v", gotFields)
	}
	if gotFileName != "jd.pdf" || gotFileBody != "pdf bytes" {
		t.Errorf("Unexpected file part: name '%s' body '%s'", gotFileName, gotFileBody)
	}
	if job.ID != 12 {
		t.Errorf("Expected decoded job id 12, got %d", job.ID)
	}
}

func TestDownloadReadsContentDisposition(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="resume_7.pdf"`)
		_, _ = w.Write([]byte("%PDF-fake"))
	}))

	blob, err := client.download(context.Background(), "/resumes/7/download/", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if blob.Filename != "resume_7.pdf" {
		t.Errorf("Expected filename from disposition, got '%s'", blob.Filename)
	}
	if blob.ContentType != "application/pdf" {
		t.Errorf("Expected content type preserved, got '%s'", blob.ContentType)
	}
	if string(blob.Content) != "%PDF-fake" {
		t.Errorf("Unexpected blob content: %q", blob.Content)
	}
}

func TestDecodeListEnvelopes(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		expectedIDs []int
	}{
		{
			name:        "bare array",
			payload:     `[{"id": 1}, {"id": 2}]`,
			expectedIDs: []int{1, 2},
		},
		{
			name:        "data envelope",
			payload:     `{"data": [{"id": 3}]}`,
			expectedIDs: []int{3},
		},
		{
			name:        "results envelope",
			payload:     `{"results": [{"id": 4}, {"id": 5}]}`,
			expectedIDs: []int{4, 5},
		},
		{
			name:        "empty body",
			payload:     "",
			expectedIDs: nil,
		},
		{
			name:        "empty array",
			payload:     `[]`,
			expectedIDs: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := decodeList[types.Resume]([]byte(tt.payload), "/resumes/")
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(items) != len(tt.expectedIDs) {
				t.Fatalf("Expected %d items, got %d", len(tt.expectedIDs), len(items))
			}
			for i, id := range tt.expectedIDs {
				if items[i].ID != id {
					t.Errorf("Item %d: expected id %d, got %d", i, id, items[i].ID)
				}
			}
		})
	}
}

func TestDecodeListRejectsMalformedPayload(t *testing.T) {
	if _, err := decodeList[types.Resume]([]byte(`{"count": 3}`), "/resumes/"); err != nil {
		t.Errorf("An unknown envelope decodes as empty, got error: %v", err)
	}
	if _, err := decodeList[types.Resume]([]byte(`not json`), "/resumes/"); err == nil {
		t.Error("Expected an error for a non-JSON payload")
	}
}

func TestAuthServiceLogin(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login/" {
			http.Error(w, "wrong route", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token": "tok-1", "user": {"id": 1, "username": "alice", "role": "student"}}`))
	}))

	svcs := NewServices(client)
	resp, err := svcs.Auth.Login(context.Background(), types.Credentials{Username: "alice", Password: "pw", LoginType: "student"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Token != "tok-1" {
		t.Errorf("Expected token 'tok-1', got '%s'", resp.Token)
	}
	if resp.User == nil || resp.User.Username != "alice" {
		t.Errorf("Expected embedded user, got %+v", resp.User)
	}
}

func TestServiceRoutes(t *testing.T) {
	var gotMethod, gotPath, gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	svcs := NewServices(client)
	ctx := context.Background()

	tests := []struct {
		name           string
		call           func() error
		expectedMethod string
		expectedPath   string
		expectedQuery  string
	}{
		{
			name:           "resume stats",
			call:           func() error { _, err := svcs.Resumes.Stats(ctx); return err },
			expectedMethod: http.MethodGet,
			expectedPath:   "/resumes/stats/",
		},
		{
			name:           "job delete",
			call:           func() error { return svcs.Jobs.Delete(ctx, 4) },
			expectedMethod: http.MethodDelete,
			expectedPath:   "/jobs/4/",
		},
		{
			name:           "evaluation create",
			call:           func() error { _, err := svcs.Evaluations.Create(ctx, 2, 3); return err },
			expectedMethod: http.MethodPost,
			expectedPath:   "/evaluations/",
		},
		{
			name:           "application check",
			call:           func() error { _, err := svcs.Applications.Check(ctx, 9); return err },
			expectedMethod: http.MethodGet,
			expectedPath:   "/evaluations/applications/check/9/",
		},
		{
			name: "candidate export carries options",
			call: func() error {
				_, err := svcs.Jobs.ExportCandidates(ctx, 5, types.ExportOptions{Type: "matched", MinScore: 60, Limit: 10})
				return err
			},
			expectedMethod: http.MethodGet,
			expectedPath:   "/jobs/5/export/",
			expectedQuery:  "limit=10&min_score=60&type=matched",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if gotMethod != tt.expectedMethod {
				t.Errorf("Expected method %s, got %s", tt.expectedMethod, gotMethod)
			}
			if gotPath != tt.expectedPath {
				t.Errorf("Expected path %s, got %s", tt.expectedPath, gotPath)
			}
			if tt.expectedQuery != "" && gotQuery != tt.expectedQuery {
				t.Errorf("Expected query %s, got %s", tt.expectedQuery, gotQuery)
			}
		})
	}
}
