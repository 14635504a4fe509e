package cli

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/Kiran-879/ResumePilot/internal/common"
	"github.com/Kiran-879/ResumePilot/internal/observability"
	"github.com/Kiran-879/ResumePilot/internal/session"
	"github.com/Kiran-879/ResumePilot/internal/types"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show an aggregate view of resumes, jobs and evaluations",
	Long: `Render the dashboard: counts, the average evaluation score and the most
recent activity. The three collections are fetched in parallel and a failing
fetch degrades to an empty slice instead of failing the whole view.

With --watch the dashboard refreshes on an interval and a Prometheus metrics
endpoint is served for the lifetime of the process.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &dashboardOutput)
	},
	RunE: runDashboard,
}

var (
	dashboardOutput   common.CommandConfig
	dashboardWatch    bool
	dashboardInterval time.Duration
)

func init() {
	addOutputFlags(dashboardCmd, &dashboardOutput)
	dashboardCmd.Flags().BoolVar(&dashboardWatch, "watch", false, "Refresh continuously")
	dashboardCmd.Flags().DurationVar(&dashboardInterval, "interval", 30*time.Second, "Refresh interval for --watch")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}

	if !dashboardWatch {
		data := fetchDashboard(cmd.Context(), rt)
		return common.NewOutputHandler(rt.Logger).HandleOutput(data, dashboardOutput)
	}
	return watchDashboard(cmd, rt)
}

// fetchDashboard assembles the dashboard from three independent fetches. Each
// slice degrades to empty on failure and is reported in FailedSlices; the
// dashboard itself never errors.
func fetchDashboard(ctx context.Context, rt *Runtime) types.DashboardData {
	var (
		resumes []types.Resume
		jobs    []types.Job
		evals   []types.Evaluation

		mu     sync.Mutex
		failed []string
	)

	degrade := func(name string, err error) {
		rt.Logger.Warn("Dashboard slice failed, degrading to empty", "slice", name, "error", err)
		mu.Lock()
		failed = append(failed, name)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if resumes, err = rt.Services.Resumes.List(gctx); err != nil {
			degrade("resumes", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if jobs, err = rt.Services.Jobs.List(gctx); err != nil {
			degrade("jobs", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if evals, err = rt.Services.Evaluations.List(gctx, nil); err != nil {
			degrade("evaluations", err)
		}
		return nil
	})
	_ = g.Wait()

	sort.Strings(failed)
	return types.DashboardData{
		Stats:          dashboardStats(resumes, jobs, evals),
		RecentActivity: recentActivity(resumes, jobs, evals),
		FailedSlices:   failed,
	}
}

func dashboardStats(resumes []types.Resume, jobs []types.Job, evals []types.Evaluation) types.DashboardStats {
	stats := types.DashboardStats{
		Resumes:     len(resumes),
		Jobs:        len(jobs),
		Evaluations: len(evals),
	}
	if len(evals) > 0 {
		var sum float64
		for _, e := range evals {
			sum += e.OverallScore
		}
		stats.AverageScore = int(math.Round(sum / float64(len(evals))))
	}
	return stats
}

// recentActivity merges the newest three entries of each slice and keeps the
// five most recent overall.
func recentActivity(resumes []types.Resume, jobs []types.Job, evals []types.Evaluation) []types.ActivityItem {
	var items []types.ActivityItem

	items = append(items, topActivity(resumes, 3, func(r types.Resume) types.ActivityItem {
		return types.ActivityItem{Kind: "resume", Title: "Resume uploaded: " + r.FileName, Date: r.CreatedAt}
	})...)
	items = append(items, topActivity(jobs, 3, func(j types.Job) types.ActivityItem {
		return types.ActivityItem{Kind: "job", Title: "Job posted: " + j.Title, Date: j.CreatedAt}
	})...)
	items = append(items, topActivity(evals, 3, func(e types.Evaluation) types.ActivityItem {
		return types.ActivityItem{
			Kind:  "evaluation",
			Title: fmt.Sprintf("Evaluation: %s vs %s", e.CandidateName(), e.JobDescription.Title),
			Date:  e.CreatedAt,
		}
	})...)

	sort.SliceStable(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	if len(items) > 5 {
		items = items[:5]
	}
	return items
}

func topActivity[T any](items []T, n int, conv func(T) types.ActivityItem) []types.ActivityItem {
	out := make([]types.ActivityItem, 0, len(items))
	for _, item := range items {
		out = append(out, conv(item))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// watchDashboard re-renders on an interval until the context is cancelled.
// A Prometheus endpoint is served for the lifetime of the watch, and with the
// file token backend a watcher picks up logins and logouts made by other
// processes sharing the token file.
func watchDashboard(cmd *cobra.Command, rt *Runtime) error {
	ctx := cmd.Context()

	stopProm := observability.StartPrometheusServer(rt.Config.Observability.Prometheus, rt.Logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = stopProm(shutdownCtx)
	}()

	if rt.Config.Session.Storage == "file" {
		watcher := session.NewTokenWatcher(rt.Session, rt.Config.Session.TokenFile, 0, rt.Logger)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				rt.Logger.Warn("Token watcher stopped", "error", err)
			}
		}()
	}

	handler := common.NewOutputHandler(rt.Logger)
	render := func() error {
		if snap := rt.Session.Snapshot(); !snap.IsAuthenticated {
			return fmt.Errorf("session ended: %s", snap.Error)
		}
		data := fetchDashboard(ctx, rt)
		if rt.Metrics != nil {
			rt.Metrics.DashboardRefreshes.Add(ctx, 1)
		}
		return handler.HandleOutput(data, dashboardOutput)
	}

	if err := render(); err != nil {
		return err
	}

	ticker := time.NewTicker(dashboardInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := render(); err != nil {
				return err
			}
		}
	}
}
