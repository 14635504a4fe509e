package formatters

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Kiran-879/ResumePilot/internal/listview"
	"github.com/Kiran-879/ResumePilot/internal/types"
)

func evaluationPage() listview.Page[types.Evaluation] {
	return listview.Page[types.Evaluation]{
		Items: []types.Evaluation{
			{
				ID: 1,
				Resume: types.Resume{
					FileName: "alice.pdf",
					User:     &types.UserProfile{FirstName: "Alice", LastName: "Smith"},
				},
				JobDescription: types.Job{Title: "Backend Engineer", CompanyName: "Acme"},
				OverallScore:   87,
				Recommendation: types.HighlyRecommended,
				CreatedAt:      time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC),
			},
		},
		Counts: listview.Counts{Total: 9, Filtered: 7, Shown: 1, Page: 2, TotalPages: 2},
	}
}

func TestFormatDispatchesByType(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(evaluationPage(), "table")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "Alice Smith") || !strings.Contains(out, "Backend Engineer") {
		t.Errorf("Expected table row content, got:\n%s", out)
	}
	if !strings.Contains(out, "87%") {
		t.Errorf("Expected rendered score, got:\n%s", out)
	}
}

func TestTableOutputCountsLine(t *testing.T) {
	registry := NewFormatterRegistry()
	out, err := registry.Format(evaluationPage(), "table")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "Showing 1 of 7 evaluations (filtered from 9) - page 2/2") {
		t.Errorf("Expected counts line, got:\n%s", out)
	}
}

func TestJSONFormatterRoundTrips(t *testing.T) {
	registry := NewFormatterRegistry()
	out, err := registry.Format(evaluationPage(), "json")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var decoded listview.Page[types.Evaluation]
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("JSON output did not parse: %v", err)
	}
	if len(decoded.Items) != 1 || decoded.Items[0].ID != 1 {
		t.Errorf("Unexpected decoded page: %+v", decoded)
	}
}

func TestUnknownTypeFallsBackToJSON(t *testing.T) {
	registry := NewFormatterRegistry()
	stats := types.ResumeStats{Total: 4, Processed: 3, Failed: 1}

	out, err := registry.Format(stats, "table")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	var decoded types.ResumeStats
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Fallback output is not JSON: %v", err)
	}
	if decoded != stats {
		t.Errorf("Expected %+v, got %+v", stats, decoded)
	}
}

func TestUnknownFormatIsAnError(t *testing.T) {
	registry := NewFormatterRegistry()
	if _, err := registry.Format(evaluationPage(), "markdown"); err == nil {
		t.Error("Expected an error for an unregistered format")
	}
}

func TestEvaluationTextFormatter(t *testing.T) {
	registry := NewFormatterRegistry()
	eval := evaluationPage().Items[0]
	eval.MatchedSkills = types.StringList{"Go", "Postgres"}
	eval.MissingSkills = types.StringList{"Kubernetes"}
	eval.Strengths = types.StringList{"Strong backend fundamentals"}

	out, err := registry.Format(eval, "text")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, expected := range []string{"Alice Smith", "Backend Engineer", "Go", "Kubernetes", "Strong backend fundamentals"} {
		if !strings.Contains(out, expected) {
			t.Errorf("Expected %q in text output, got:\n%s", expected, out)
		}
	}
}

func TestDashboardTextFormatter(t *testing.T) {
	registry := NewFormatterRegistry()
	data := types.DashboardData{
		Stats: types.DashboardStats{Resumes: 5, Jobs: 3, Evaluations: 8, AverageScore: 74},
		RecentActivity: []types.ActivityItem{
			{Kind: "resume", Title: "Resume uploaded: cv.pdf", Date: time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)},
		},
		FailedSlices: []string{"jobs"},
	}

	out, err := registry.Format(data, "text")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, expected := range []string{"Resume uploaded: cv.pdf", "74"} {
		if !strings.Contains(out, expected) {
			t.Errorf("Expected %q in dashboard output, got:\n%s", expected, out)
		}
	}
}
