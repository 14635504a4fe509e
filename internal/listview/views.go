package listview

import (
	"time"

	"github.com/Kiran-879/ResumePilot/internal/types"
)

// EvaluationAccessors matches the evaluations view: search over candidate
// name, job title and company; category filter on recommendation.
func EvaluationAccessors() Accessors[types.Evaluation] {
	return Accessors[types.Evaluation]{
		SearchFields: func(e types.Evaluation) []string {
			fields := []string{e.JobDescription.Title, e.JobDescription.CompanyName}
			if e.Resume.User != nil {
				fields = append(fields, e.Resume.User.FirstName, e.Resume.User.LastName)
			} else {
				fields = append(fields, e.Resume.FileName)
			}
			return fields
		},
		Category:  func(e types.Evaluation) string { return string(e.Recommendation) },
		CreatedAt: func(e types.Evaluation) time.Time { return e.CreatedAt },
		Score:     func(e types.Evaluation) float64 { return e.OverallScore },
		Name:      func(e types.Evaluation) string { return e.CandidateName() },
		Title:     func(e types.Evaluation) string { return e.JobDescription.Title },
	}
}

// JobAccessors matches the jobs view: search over title, company and
// location; category filter on priority.
func JobAccessors() Accessors[types.Job] {
	return Accessors[types.Job]{
		SearchFields: func(j types.Job) []string {
			return []string{j.Title, j.CompanyName, j.Location}
		},
		Category:  func(j types.Job) string { return string(j.Priority) },
		CreatedAt: func(j types.Job) time.Time { return j.CreatedAt },
		Score:     func(j types.Job) float64 { return float64(j.MatchedCandidatesCount) },
		Name:      func(j types.Job) string { return j.Title },
		Title:     func(j types.Job) string { return j.Title },
	}
}

// ResumeAccessors matches the resumes view: search over file name and owner;
// category filter on processing status.
func ResumeAccessors() Accessors[types.Resume] {
	return Accessors[types.Resume]{
		SearchFields: func(r types.Resume) []string {
			fields := []string{r.FileName}
			if r.User != nil {
				fields = append(fields, r.User.FirstName, r.User.LastName, r.User.Username)
			}
			return fields
		},
		Category:  func(r types.Resume) string { return string(r.ProcessingStatus) },
		CreatedAt: func(r types.Resume) time.Time { return r.CreatedAt },
		Name:      func(r types.Resume) string { return r.FileName },
	}
}

// ApplicationAccessors matches the applications view: search over job title
// and company; category filter on application status.
func ApplicationAccessors() Accessors[types.Application] {
	return Accessors[types.Application]{
		SearchFields: func(a types.Application) []string {
			return []string{a.Job.Title, a.Job.CompanyName}
		},
		Category:  func(a types.Application) string { return string(a.Status) },
		CreatedAt: func(a types.Application) time.Time { return a.AppliedAt },
		Score: func(a types.Application) float64 {
			if a.EvaluationScore != nil {
				return *a.EvaluationScore
			}
			return 0
		},
		Name:  func(a types.Application) string { return a.Job.Title },
		Title: func(a types.Application) string { return a.Job.Title },
	}
}
