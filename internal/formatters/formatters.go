package formatters

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Kiran-879/ResumePilot/internal/listview"
	"github.com/Kiran-879/ResumePilot/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("table", "ResumePage", &ResumeTableFormatter{})
	registry.RegisterFormatter("table", "JobPage", &JobTableFormatter{})
	registry.RegisterFormatter("table", "EvaluationPage", &EvaluationTableFormatter{})
	registry.RegisterFormatter("table", "ApplicationPage", &ApplicationTableFormatter{})
	registry.RegisterFormatter("text", "Evaluation", &EvaluationTextFormatter{})
	registry.RegisterFormatter("table", "Evaluation", &EvaluationTextFormatter{})
	registry.RegisterFormatter("text", "DashboardData", &DashboardTextFormatter{})
	registry.RegisterFormatter("table", "DashboardData", &DashboardTextFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	// "text" and "table" fall back to JSON for types without a dedicated view.
	if format == "text" || format == "table" {
		return (&JSONFormatter{}).Format(data)
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case listview.Page[types.Resume]:
		return "ResumePage"
	case listview.Page[types.Job]:
		return "JobPage"
	case listview.Page[types.Evaluation]:
		return "EvaluationPage"
	case listview.Page[types.Application]:
		return "ApplicationPage"
	case types.Evaluation, *types.Evaluation:
		return "Evaluation"
	case types.DashboardData:
		return "DashboardData"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006 15:04")
}

func countsLine(c listview.Counts, noun string) string {
	line := fmt.Sprintf("Showing %d of %d %s", c.Shown, c.Filtered, noun)
	if c.Filtered != c.Total {
		line += fmt.Sprintf(" (filtered from %d)", c.Total)
	}
	if c.TotalPages > 1 {
		line += fmt.Sprintf(" - page %d/%d", c.Page, c.TotalPages)
	}
	return line + "\n"
}

// ResumeTableFormatter renders a page of resumes as an aligned table.
type ResumeTableFormatter struct{}

func (rtf *ResumeTableFormatter) Format(data any) (string, error) {
	page, ok := data.(listview.Page[types.Resume])
	if !ok {
		return "", fmt.Errorf("expected Page[Resume], got %T", data)
	}

	var output strings.Builder
	w := tabwriter.NewWriter(&output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILE\tSIZE\tSTATUS\tSKILLS\tUPLOADED")
	for _, r := range page.Items {
		skills := strings.Join(r.Skills, ", ")
		if len(skills) > 40 {
			skills = skills[:37] + "..."
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n",
			r.ID, r.FileName, r.FileSize, r.ProcessingStatus, skills, formatDate(r.CreatedAt))
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	output.WriteString(countsLine(page.Counts, "resumes"))
	return output.String(), nil
}

func (rtf *ResumeTableFormatter) SupportedType() string {
	return "ResumePage"
}

// JobTableFormatter renders a page of job postings as an aligned table.
type JobTableFormatter struct{}

func (jtf *JobTableFormatter) Format(data any) (string, error) {
	page, ok := data.(listview.Page[types.Job])
	if !ok {
		return "", fmt.Errorf("expected Page[Job], got %T", data)
	}

	var output strings.Builder
	w := tabwriter.NewWriter(&output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCOMPANY\tLOCATION\tPRIORITY\tPOSITIONS\tAPPLIED\tMATCHED\tPOSTED")
	for _, j := range page.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			j.ID, j.Title, j.CompanyName, j.Location, j.Priority,
			j.PositionsRequired, j.AppliedCandidatesCount, j.MatchedCandidatesCount,
			formatDate(j.CreatedAt))
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	output.WriteString(countsLine(page.Counts, "jobs"))
	return output.String(), nil
}

func (jtf *JobTableFormatter) SupportedType() string {
	return "JobPage"
}

// EvaluationTableFormatter renders a page of evaluations as an aligned table.
type EvaluationTableFormatter struct{}

func (etf *EvaluationTableFormatter) Format(data any) (string, error) {
	page, ok := data.(listview.Page[types.Evaluation])
	if !ok {
		return "", fmt.Errorf("expected Page[Evaluation], got %T", data)
	}

	var output strings.Builder
	w := tabwriter.NewWriter(&output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCANDIDATE\tJOB\tCOMPANY\tSCORE\tRECOMMENDATION\tEVALUATED")
	for _, e := range page.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.0f%%\t%s\t%s\n",
			e.ID, e.CandidateName(), e.JobDescription.Title, e.JobDescription.CompanyName,
			e.OverallScore, e.Recommendation, formatDate(e.CreatedAt))
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	output.WriteString(countsLine(page.Counts, "evaluations"))
	return output.String(), nil
}

func (etf *EvaluationTableFormatter) SupportedType() string {
	return "EvaluationPage"
}

// ApplicationTableFormatter renders a page of applications as an aligned table.
type ApplicationTableFormatter struct{}

func (atf *ApplicationTableFormatter) Format(data any) (string, error) {
	page, ok := data.(listview.Page[types.Application])
	if !ok {
		return "", fmt.Errorf("expected Page[Application], got %T", data)
	}

	var output strings.Builder
	w := tabwriter.NewWriter(&output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tJOB\tCOMPANY\tSTATUS\tSCORE\tAPPLIED")
	for _, a := range page.Items {
		score := "-"
		if a.EvaluationScore != nil {
			score = fmt.Sprintf("%.0f%%", *a.EvaluationScore)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Job.Title, a.Job.CompanyName, a.Status, score, formatDate(a.AppliedAt))
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	output.WriteString(countsLine(page.Counts, "applications"))
	return output.String(), nil
}

func (atf *ApplicationTableFormatter) SupportedType() string {
	return "ApplicationPage"
}

// EvaluationTextFormatter renders one evaluation in full, the way the
// evaluation card displays it.
type EvaluationTextFormatter struct{}

func (etf *EvaluationTextFormatter) Format(data any) (string, error) {
	var result types.Evaluation
	switch v := data.(type) {
	case types.Evaluation:
		result = v
	case *types.Evaluation:
		result = *v
	default:
		return "", fmt.Errorf("expected Evaluation, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== EVALUATION ===\n\n")
	output.WriteString(fmt.Sprintf("Candidate: %s\n", result.CandidateName()))
	output.WriteString(fmt.Sprintf("Job: %s at %s\n", result.JobDescription.Title, result.JobDescription.CompanyName))
	output.WriteString(fmt.Sprintf("Overall Score: %.0f%%\n", result.OverallScore))
	output.WriteString(fmt.Sprintf("Recommendation: %s\n\n", result.Recommendation))

	output.WriteString("Score Breakdown:\n")
	output.WriteString(fmt.Sprintf("  Hard Skills: %.0f%%\n", result.HardSkillsScore))
	output.WriteString(fmt.Sprintf("  Soft Skills: %.0f%%\n", result.SoftSkillsScore))
	output.WriteString(fmt.Sprintf("  Experience:  %.0f%%\n", result.ExperienceScore))
	output.WriteString(fmt.Sprintf("  Education:   %.0f%%\n", result.EducationScore))
	if result.SemanticSimilarityScore != nil {
		output.WriteString(fmt.Sprintf("  Semantic Similarity: %.2f\n", *result.SemanticSimilarityScore))
	}
	output.WriteString("\n")

	if len(result.MatchedSkills) > 0 {
		output.WriteString("Matched Skills:\n")
		for _, skill := range result.MatchedSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}
	if len(result.MissingSkills) > 0 {
		output.WriteString("Missing Skills:\n")
		for _, skill := range result.MissingSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if result.DetailedFeedback != "" {
		output.WriteString("Detailed Feedback:\n")
		output.WriteString(result.DetailedFeedback)
		output.WriteString("\n\n")
	}
	if len(result.Strengths) > 0 {
		output.WriteString("Strengths:\n")
		for _, s := range result.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", s))
		}
		output.WriteString("\n")
	}
	if len(result.AreasForImprovement) > 0 {
		output.WriteString("Areas For Improvement:\n")
		for _, a := range result.AreasForImprovement {
			output.WriteString(fmt.Sprintf("- %s\n", a))
		}
		output.WriteString("\n")
	}
	if len(result.Recommendations) > 0 {
		output.WriteString("Recommendations:\n")
		for i, r := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, r))
		}
	}

	return output.String(), nil
}

func (etf *EvaluationTextFormatter) SupportedType() string {
	return "Evaluation"
}

// DashboardTextFormatter renders the combined dashboard summary.
type DashboardTextFormatter struct{}

func (dtf *DashboardTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.DashboardData)
	if !ok {
		return "", fmt.Errorf("expected DashboardData, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== DASHBOARD ===\n\n")
	output.WriteString(fmt.Sprintf("Resumes:       %d\n", result.Stats.Resumes))
	output.WriteString(fmt.Sprintf("Jobs:          %d\n", result.Stats.Jobs))
	output.WriteString(fmt.Sprintf("Evaluations:   %d\n", result.Stats.Evaluations))
	output.WriteString(fmt.Sprintf("Average Score: %d%%\n", result.Stats.AverageScore))

	if len(result.FailedSlices) > 0 {
		output.WriteString(fmt.Sprintf("\nUnavailable right now: %s\n", strings.Join(result.FailedSlices, ", ")))
	}

	if len(result.RecentActivity) > 0 {
		output.WriteString("\nRecent Activity:\n")
		for _, item := range result.RecentActivity {
			output.WriteString(fmt.Sprintf("- [%s] %s (%s)\n", item.Kind, item.Title, formatDate(item.Date)))
		}
	}

	return output.String(), nil
}

func (dtf *DashboardTextFormatter) SupportedType() string {
	return "DashboardData"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
