package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Kiran-879/ResumePilot/internal/api"
	"github.com/Kiran-879/ResumePilot/internal/common"
	"github.com/Kiran-879/ResumePilot/internal/listview"
	"github.com/Kiran-879/ResumePilot/internal/types"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage job postings",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List job postings with search, filter and paging",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &jobsOutput)
	},
	RunE: runJobsList,
}

var jobsGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one job posting",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &jobsOutput)
	},
	RunE: runJobsGet,
}

var jobsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job posting with its description file",
	RunE:  runJobsCreate,
}

var jobsUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update fields of a job posting",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsUpdate,
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a job posting",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsDelete,
}

var jobsDownloadCmd = &cobra.Command{
	Use:   "download [id]",
	Short: "Download the job description file",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsDownload,
}

var jobsCandidatesCmd = &cobra.Command{
	Use:   "candidates [id]",
	Short: "List candidates matched to a job",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &jobsOutput)
	},
	RunE: runJobsCandidates,
}

var jobsAppliedCmd = &cobra.Command{
	Use:   "applied [id]",
	Short: "List applications received for a job",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &jobsOutput)
	},
	RunE: runJobsApplied,
}

var jobsExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a candidate spreadsheet for a job",
	Long: `Export candidates for a job as a spreadsheet generated by the server.
With --summary the workbook is inspected locally and a row/column summary is
printed instead of saving the file.`,
	Args: cobra.ExactArgs(1),
	RunE: runJobsExport,
}

var jobsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate job counters",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &jobsOutput)
	},
	RunE: runJobsStats,
}

var (
	jobsOutput common.CommandConfig
	jobsQuery  listViewFlags
	jobsDir    string

	jobFields      jobFieldFlags
	jobsExportOpts types.ExportOptions
	jobsExportSumm bool
	jobsCandQuery  listViewFlags
)

type jobFieldFlags struct {
	Title       string
	Company     string
	Experience  string
	Location    string
	Priority    string
	Positions   int
	Description string
}

// asFormFields returns only the flags the user actually set, so updates do
// not blank out untouched fields.
func (f jobFieldFlags) asFormFields(cmd *cobra.Command) map[string]string {
	fields := map[string]string{}
	set := func(flag, key, value string) {
		if cmd.Flags().Changed(flag) {
			fields[key] = value
		}
	}
	set("title", "title", f.Title)
	set("company", "company_name", f.Company)
	set("experience", "experience_required", f.Experience)
	set("location", "location", f.Location)
	set("priority", "priority", f.Priority)
	set("positions", "positions_required", strconv.Itoa(f.Positions))
	return fields
}

func addJobFieldFlags(cmd *cobra.Command, f *jobFieldFlags) {
	cmd.Flags().StringVar(&f.Title, "title", "", "Job title")
	cmd.Flags().StringVar(&f.Company, "company", "", "Company name")
	cmd.Flags().StringVar(&f.Experience, "experience", "", "Experience requirement")
	cmd.Flags().StringVar(&f.Location, "location", "", "Job location")
	cmd.Flags().StringVar(&f.Priority, "priority", "medium", "Priority: low, medium or high")
	cmd.Flags().IntVar(&f.Positions, "positions", 1, "Number of open positions")
	cmd.Flags().StringVar(&f.Description, "description-file", "", "Job description document")
}

func init() {
	addListFlags(jobsListCmd, &jobsQuery, "priority", string(listview.SortCreatedDesc))
	addOutputFlags(jobsListCmd, &jobsOutput)
	addOutputFlags(jobsGetCmd, &jobsOutput)
	addOutputFlags(jobsStatsCmd, &jobsOutput)
	addJobFieldFlags(jobsCreateCmd, &jobFields)
	_ = jobsCreateCmd.MarkFlagRequired("title")
	_ = jobsCreateCmd.MarkFlagRequired("company")
	_ = jobsCreateCmd.MarkFlagRequired("description-file")
	addJobFieldFlags(jobsUpdateCmd, &jobFields)
	jobsDownloadCmd.Flags().StringVar(&jobsDir, "dir", ".", "Directory to save the download into")

	addListFlags(jobsCandidatesCmd, &jobsCandQuery, "recommendation", string(listview.SortScoreDesc))
	addOutputFlags(jobsCandidatesCmd, &jobsOutput)
	addOutputFlags(jobsAppliedCmd, &jobsOutput)

	jobsExportCmd.Flags().StringVar(&jobsExportOpts.Type, "type", "all", "Export type: all, matched or shortlisted")
	jobsExportCmd.Flags().IntVar(&jobsExportOpts.MinScore, "min-score", 0, "Minimum evaluation score to include")
	jobsExportCmd.Flags().IntVar(&jobsExportOpts.Limit, "limit", 0, "Maximum rows to export (0 = no limit)")
	jobsExportCmd.Flags().StringVar(&jobsExportOpts.Round, "round", "", "Interview round label for shortlist exports")
	jobsExportCmd.Flags().BoolVar(&jobsExportSumm, "summary", false, "Print a workbook summary instead of saving")
	jobsExportCmd.Flags().StringVar(&jobsDir, "dir", ".", "Directory to save the export into")

	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsGetCmd)
	jobsCmd.AddCommand(jobsCreateCmd)
	jobsCmd.AddCommand(jobsUpdateCmd)
	jobsCmd.AddCommand(jobsDeleteCmd)
	jobsCmd.AddCommand(jobsDownloadCmd)
	jobsCmd.AddCommand(jobsCandidatesCmd)
	jobsCmd.AddCommand(jobsAppliedCmd)
	jobsCmd.AddCommand(jobsExportCmd)
	jobsCmd.AddCommand(jobsStatsCmd)
}

func runJobsList(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}

	jobs, err := rt.Services.Jobs.List(cmd.Context())
	if err != nil {
		return err
	}

	page := listview.Apply(jobs, jobsQuery.query(rt.Config.App.PageSize.Jobs), listview.JobAccessors())
	return common.NewOutputHandler(rt.Logger).HandleOutput(page, jobsOutput)
}

func runJobsGet(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	job, err := rt.Services.Jobs.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	return common.NewOutputHandler(rt.Logger).HandleOutput(job, jobsOutput)
}

func runJobsCreate(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}

	cfg := rt.Config.App
	if err := common.ValidateUploadFile(jobFields.Description, cfg.MaxUploadSize, cfg.AllowedUploadTypes); err != nil {
		return err
	}
	f, err := os.Open(jobFields.Description)
	if err != nil {
		return err
	}
	defer f.Close()

	if rt.Metrics != nil {
		rt.Metrics.UploadsStarted.Add(cmd.Context(), 1,
			metric.WithAttributes(attribute.String("kind", "job_description")))
	}

	file := api.FormFile{Field: "job_description_file", Name: filepath.Base(jobFields.Description), Content: f}
	job, err := rt.Services.Jobs.Create(cmd.Context(), jobFields.asFormFields(cmd), file)
	if err != nil {
		return err
	}

	rt.Logger.Info("Job created", "id", job.ID, "title", job.Title)
	fmt.Fprintf(cmd.OutOrStdout(), "Created job %d: %s at %s\n", job.ID, job.Title, job.CompanyName)
	return nil
}

func runJobsUpdate(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var file *api.FormFile
	if jobFields.Description != "" {
		cfg := rt.Config.App
		if err := common.ValidateUploadFile(jobFields.Description, cfg.MaxUploadSize, cfg.AllowedUploadTypes); err != nil {
			return err
		}
		f, err := os.Open(jobFields.Description)
		if err != nil {
			return err
		}
		defer f.Close()
		file = &api.FormFile{Field: "job_description_file", Name: filepath.Base(jobFields.Description), Content: f}
	}

	job, err := rt.Services.Jobs.Update(cmd.Context(), id, jobFields.asFormFields(cmd), file)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated job %d: %s\n", job.ID, job.Title)
	return nil
}

func runJobsDelete(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := rt.Services.Jobs.Delete(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted job %d\n", id)
	return nil
}

func runJobsDownload(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	blob, err := rt.Services.Jobs.Download(cmd.Context(), id)
	if err != nil {
		return err
	}
	if rt.Metrics != nil {
		rt.Metrics.DownloadsCompleted.Add(cmd.Context(), 1,
			metric.WithAttributes(attribute.String("kind", "job_description")))
		rt.Metrics.DownloadBytes.Record(cmd.Context(), int64(len(blob.Content)))
	}

	saver := common.FileBlobSaver{Dir: jobsDir, Logger: rt.Logger}
	name := common.FallbackFilename(blob.Filename, fmt.Sprintf("job_description_%d.pdf", id))
	path, err := saver.Save(name, blob.Content)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
	return nil
}

func runJobsCandidates(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	evals, err := rt.Services.Jobs.MatchedCandidates(cmd.Context(), id)
	if err != nil {
		return err
	}

	page := listview.Apply(evals, jobsCandQuery.query(rt.Config.App.PageSize.Evaluations), listview.EvaluationAccessors())
	return common.NewOutputHandler(rt.Logger).HandleOutput(page, jobsOutput)
}

func runJobsApplied(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	apps, err := rt.Services.Jobs.AppliedResumes(cmd.Context(), id)
	if err != nil {
		return err
	}

	page := listview.Apply(apps, listview.Query{PageSize: rt.Config.App.PageSize.Applications, Page: 1,
		Sort: listview.SortScoreDesc}, listview.ApplicationAccessors())
	return common.NewOutputHandler(rt.Logger).HandleOutput(page, jobsOutput)
}

func runJobsExport(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	blob, err := rt.Services.Jobs.ExportCandidates(cmd.Context(), id, jobsExportOpts)
	if err != nil {
		return err
	}
	if rt.Metrics != nil {
		rt.Metrics.DownloadsCompleted.Add(cmd.Context(), 1,
			metric.WithAttributes(attribute.String("kind", "export")))
		rt.Metrics.DownloadBytes.Record(cmd.Context(), int64(len(blob.Content)))
	}

	if jobsExportSumm {
		summary, err := common.SummarizeWorkbook(blob.Content)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), summary.String())
		return nil
	}

	saver := common.FileBlobSaver{Dir: jobsDir, Logger: rt.Logger}
	name := common.FallbackFilename(blob.Filename, fmt.Sprintf("candidates_job_%d.xlsx", id))
	path, err := saver.Save(name, blob.Content)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
	return nil
}

func runJobsStats(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}
	stats, err := rt.Services.Jobs.Stats(cmd.Context())
	if err != nil {
		return err
	}
	return common.NewOutputHandler(rt.Logger).HandleOutput(stats, jobsOutput)
}
