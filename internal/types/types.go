package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role identifies the account type of an authenticated user.
type Role string

const (
	RoleStudent       Role = "student"
	RolePlacementTeam Role = "placement_team"
	RoleAdmin         Role = "admin"
)

// ProcessingStatus is the server-driven lifecycle stage of a resume.
type ProcessingStatus string

const (
	StatusUploaded   ProcessingStatus = "uploaded"
	StatusProcessing ProcessingStatus = "processing"
	StatusProcessed  ProcessingStatus = "processed"
	StatusError      ProcessingStatus = "error"
)

// Recommendation is the categorical verdict attached to an evaluation.
type Recommendation string

const (
	HighlyRecommended Recommendation = "highly_recommended"
	Recommended       Recommendation = "recommended"
	Consider          Recommendation = "consider"
	NotRecommended    Recommendation = "not_recommended"
)

// Priority is the urgency level of a job posting.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ApplicationStatus tracks a student's application through the hiring funnel.
type ApplicationStatus string

const (
	AppApplied     ApplicationStatus = "applied"
	AppUnderReview ApplicationStatus = "under_review"
	AppShortlisted ApplicationStatus = "shortlisted"
	AppRejected    ApplicationStatus = "rejected"
	AppInterview   ApplicationStatus = "interview"
	AppSelected    ApplicationStatus = "selected"
)

// StringList decodes the API's "serialized list" fields, which arrive either as
// a JSON array of strings or as a JSON-encoded string containing such an array.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var direct []string
	if err := json.Unmarshal(data, &direct); err == nil {
		*s = direct
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("string list: unexpected value %s", string(data))
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*s = nil
		return nil
	}
	var nested []string
	if err := json.Unmarshal([]byte(raw), &nested); err == nil {
		*s = nested
		return nil
	}
	// Last resort: comma-separated plain text.
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*s = out
	return nil
}

// UserProfile is the authenticated user's identity as returned by /auth/profile/.
// Immutable within a session; refreshed only by re-fetching.
type UserProfile struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Location    string `json:"location,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// FullName returns the display name used in candidate listings.
func (u UserProfile) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Resume is an uploaded resume with its server-extracted structure.
type Resume struct {
	ID               int              `json:"id"`
	User             *UserProfile     `json:"user,omitempty"`
	FileName         string           `json:"file_name"`
	FileSize         int64            `json:"file_size"`
	ProcessingStatus ProcessingStatus `json:"processing_status"`
	PersonalInfo     map[string]any   `json:"personal_info,omitempty"`
	Skills           StringList       `json:"skills,omitempty"`
	ErrorMessage     string           `json:"error_message,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at,omitempty"`
}

// Job is a posting created by the placement team.
type Job struct {
	ID                     int       `json:"id"`
	Title                  string    `json:"title"`
	CompanyName            string    `json:"company_name"`
	ExperienceRequired     string    `json:"experience_required,omitempty"`
	Location               string    `json:"location,omitempty"`
	Priority               Priority  `json:"priority"`
	JobDescriptionFile     string    `json:"job_description_file,omitempty"`
	PositionsRequired      int       `json:"positions_required"`
	AppliedCandidatesCount int       `json:"applied_candidates_count"`
	MatchedCandidatesCount int       `json:"matched_candidates_count"`
	CreatedAt              time.Time `json:"created_at"`
}

// Evaluation is an AI-scored match between one resume and one job. Immutable
// once created from the client's point of view.
type Evaluation struct {
	ID                      int            `json:"id"`
	Resume                  Resume         `json:"resume"`
	JobDescription          Job            `json:"job_description"`
	OverallScore            float64        `json:"overall_score"`
	HardSkillsScore         float64        `json:"hard_skills_score"`
	SoftSkillsScore         float64        `json:"soft_skills_score"`
	ExperienceScore         float64        `json:"experience_score"`
	EducationScore          float64        `json:"education_score"`
	Recommendation          Recommendation `json:"recommendation"`
	MatchedSkills           StringList     `json:"matched_skills,omitempty"`
	MissingSkills           StringList     `json:"missing_skills,omitempty"`
	DetailedFeedback        string         `json:"detailed_feedback,omitempty"`
	Strengths               StringList     `json:"strengths,omitempty"`
	AreasForImprovement     StringList     `json:"areas_for_improvement,omitempty"`
	Recommendations         StringList     `json:"recommendations,omitempty"`
	SemanticSimilarityScore *float64       `json:"semantic_similarity_score,omitempty"`
	CreatedAt               time.Time      `json:"created_at"`
}

// CandidateName returns the evaluated candidate's display name, falling back to
// the resume file name when the owning user is not embedded in the payload.
func (e Evaluation) CandidateName() string {
	if e.Resume.User != nil {
		if name := e.Resume.User.FullName(); name != "" {
			return name
		}
	}
	return e.Resume.FileName
}

// Application is a student's application to a job.
type Application struct {
	ID              int               `json:"id"`
	Job             Job               `json:"job"`
	Resume          Resume            `json:"resume"`
	Status          ApplicationStatus `json:"status"`
	EvaluationScore *float64          `json:"evaluation_score,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	AppliedAt       time.Time         `json:"applied_at"`
}

// ResumeStats is the aggregate payload from /resumes/stats/.
type ResumeStats struct {
	Total      int `json:"total"`
	Processed  int `json:"processed"`
	Processing int `json:"processing"`
	Failed     int `json:"failed"`
}

// JobStats is the aggregate payload from /jobs/stats/.
type JobStats struct {
	Total          int `json:"total"`
	HighPriority   int `json:"high_priority"`
	TotalPositions int `json:"total_positions"`
}

// EvaluationStats is the aggregate payload from /evaluations/stats/.
type EvaluationStats struct {
	Total             int     `json:"total"`
	AverageScore      float64 `json:"average_score"`
	HighlyRecommended int     `json:"highly_recommended"`
	Recommended       int     `json:"recommended"`
	Consider          int     `json:"consider"`
	NotRecommended    int     `json:"not_recommended"`
}

// RegisterRequest is the body for /auth/register/.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Role            Role   `json:"role"`
	Location        string `json:"location,omitempty"`
	PhoneNumber     string `json:"phone_number,omitempty"`
}

// Credentials is the body for /auth/login/. LoginType distinguishes the student
// and placement-team entry points so the server can reject role mismatches.
type Credentials struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	LoginType string `json:"login_type,omitempty"`
}

// LoginResponse is the successful /auth/login/ payload.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user,omitempty"`
}

// ApplyRequest is the body for /evaluations/applications/apply/.
type ApplyRequest struct {
	JobID    int `json:"job_id"`
	ResumeID int `json:"resume_id"`
}

// ApplicationUpdate is the body for /evaluations/applications/{id}/update/.
type ApplicationUpdate struct {
	Status ApplicationStatus `json:"status"`
	Notes  string            `json:"notes,omitempty"`
}

// ApplicationCheck is the payload from /evaluations/applications/check/{jobId}/.
type ApplicationCheck struct {
	Applied     bool         `json:"applied"`
	Application *Application `json:"application,omitempty"`
}

// ExportOptions filters a candidate spreadsheet export for a job.
type ExportOptions struct {
	Type     string // "all", "matched" or "shortlisted"
	MinScore int
	Limit    int    // 0 means no limit
	Round    string // interview round label for shortlist exports
}
