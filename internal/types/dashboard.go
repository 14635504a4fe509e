package types

import "time"

// ActivityItem is one row of the dashboard's recent-activity feed.
type ActivityItem struct {
	Kind  string    `json:"kind"` // "resume", "job" or "evaluation"
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}

// DashboardStats are the aggregate counters shown on the dashboard. A slice
// whose fetch failed contributes zero, not an error.
type DashboardStats struct {
	Resumes      int `json:"resumes"`
	Jobs         int `json:"jobs"`
	Evaluations  int `json:"evaluations"`
	AverageScore int `json:"average_score"`
}

// DashboardData is the combined dashboard payload assembled client-side from
// three independently fetched collections.
type DashboardData struct {
	Stats          DashboardStats `json:"stats"`
	RecentActivity []ActivityItem `json:"recent_activity"`
	FailedSlices   []string       `json:"failed_slices,omitempty"` // names of fetches that degraded to empty
}
