package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/Kiran-879/ResumePilot/internal/api"
	"github.com/Kiran-879/ResumePilot/internal/config"
	"github.com/Kiran-879/ResumePilot/internal/errors"
	"github.com/Kiran-879/ResumePilot/internal/types"
)

func newDashboardRuntime(t *testing.T, handler http.Handler) *Runtime {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	client := api.NewClient(config.APIConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, logger)
	return &Runtime{Logger: logger, Services: api.NewServices(client)}
}

func dashboardTestMux(t *testing.T, jobsStatus int) *http.ServeMux {
	t.Helper()
	serve := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/resumes/", serve(`[
		{"id": 1, "file_name": "alice.pdf", "created_at": "2025-08-20T10:00:00Z"},
		{"id": 2, "file_name": "bob.pdf", "created_at": "2025-08-22T10:00:00Z"}
	]`))
	mux.HandleFunc("/evaluations/", serve(`[
		{"id": 7, "overall_score": 60, "created_at": "2025-08-21T10:00:00Z",
		 "resume": {"id": 1, "file_name": "alice.pdf"},
		 "job_description": {"id": 3, "title": "Backend Engineer"}},
		{"id": 8, "overall_score": 80, "created_at": "2025-08-23T10:00:00Z",
		 "resume": {"id": 2, "file_name": "bob.pdf"},
		 "job_description": {"id": 3, "title": "Backend Engineer"}}
	]`))
	mux.HandleFunc("/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if jobsStatus != http.StatusOK {
			http.Error(w, `{"error": "boom"}`, jobsStatus)
			return
		}
		serve(`[{"id": 3, "title": "Backend Engineer", "created_at": "2025-08-24T10:00:00Z"}]`)(w, r)
	})
	return mux
}

func TestFetchDashboardDegradesFailedSlice(t *testing.T) {
	rt := newDashboardRuntime(t, dashboardTestMux(t, http.StatusInternalServerError))

	data := fetchDashboard(context.Background(), rt)

	if data.Stats.Jobs != 0 {
		t.Errorf("Expected 0 jobs after degraded fetch, got %d", data.Stats.Jobs)
	}
	if data.Stats.Resumes != 2 {
		t.Errorf("Expected 2 resumes, got %d", data.Stats.Resumes)
	}
	if data.Stats.Evaluations != 2 {
		t.Errorf("Expected 2 evaluations, got %d", data.Stats.Evaluations)
	}
	if data.Stats.AverageScore != 70 {
		t.Errorf("Expected average score 70, got %d", data.Stats.AverageScore)
	}
	if !reflect.DeepEqual(data.FailedSlices, []string{"jobs"}) {
		t.Errorf("Expected failed slices [jobs], got %v", data.FailedSlices)
	}
	for _, item := range data.RecentActivity {
		if item.Kind == "job" {
			t.Errorf("Degraded slice must not contribute activity, got %q", item.Title)
		}
	}
	if len(data.RecentActivity) != 4 {
		t.Errorf("Expected 4 activity items from surviving slices, got %d", len(data.RecentActivity))
	}
}

func TestFetchDashboardAggregates(t *testing.T) {
	rt := newDashboardRuntime(t, dashboardTestMux(t, http.StatusOK))

	data := fetchDashboard(context.Background(), rt)

	if data.FailedSlices != nil {
		t.Errorf("Expected no failed slices, got %v", data.FailedSlices)
	}
	if data.Stats.Resumes != 2 || data.Stats.Jobs != 1 || data.Stats.Evaluations != 2 {
		t.Errorf("Unexpected stats: %+v", data.Stats)
	}
	if data.Stats.AverageScore != 70 {
		t.Errorf("Expected average score 70, got %d", data.Stats.AverageScore)
	}

	if len(data.RecentActivity) != 5 {
		t.Fatalf("Expected 5 activity items, got %d", len(data.RecentActivity))
	}
	// Newest first across all three slices.
	for i := 1; i < len(data.RecentActivity); i++ {
		if data.RecentActivity[i].Date.After(data.RecentActivity[i-1].Date) {
			t.Errorf("Recent activity out of order at %d: %v after %v",
				i, data.RecentActivity[i].Date, data.RecentActivity[i-1].Date)
		}
	}
	if data.RecentActivity[0].Kind != "job" {
		t.Errorf("Expected newest item to be the job posting, got %q", data.RecentActivity[0].Title)
	}
}

func TestFetchDashboardAllSlicesFail(t *testing.T) {
	rt := newDashboardRuntime(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "down"}`, http.StatusServiceUnavailable)
	}))

	data := fetchDashboard(context.Background(), rt)

	if !reflect.DeepEqual(data.FailedSlices, []string{"evaluations", "jobs", "resumes"}) {
		t.Errorf("Expected all slices reported failed, got %v", data.FailedSlices)
	}
	if data.Stats != (types.DashboardStats{}) {
		t.Errorf("Expected zero stats, got %+v", data.Stats)
	}
	if len(data.RecentActivity) != 0 {
		t.Errorf("Expected no activity, got %d items", len(data.RecentActivity))
	}
}
