package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Kiran-879/ResumePilot/internal/api"
	"github.com/Kiran-879/ResumePilot/internal/common"
	"github.com/Kiran-879/ResumePilot/internal/listview"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var resumesCmd = &cobra.Command{
	Use:   "resumes",
	Short: "Manage uploaded resumes",
}

var resumesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resumes with search, filter and paging",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &resumesOutput)
	},
	RunE: runResumesList,
}

var resumesGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one resume",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &resumesOutput)
	},
	RunE: runResumesGet,
}

var resumesUploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a resume file",
	Long: `Upload a resume. The file is validated locally for type and size
before any network call; processing happens asynchronously on the server and
is visible through the processing status in listings.`,
	Args: cobra.ExactArgs(1),
	RunE: runResumesUpload,
}

var resumesUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Replace the file of an existing resume",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumesUpdate,
}

var resumesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a resume",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumesDelete,
}

var resumesDownloadCmd = &cobra.Command{
	Use:   "download [id]",
	Short: "Download the original resume file",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumesDownload,
}

var resumesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate resume counters",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &resumesOutput)
	},
	RunE: runResumesStats,
}

var (
	resumesOutput common.CommandConfig
	resumesQuery  listViewFlags
	resumesFile   string
	resumesDir    string
)

// listViewFlags is the flag set shared by every list subcommand. It maps
// directly onto a listview.Query.
type listViewFlags struct {
	Search   string
	Category string
	Sort     string
	Page     int
}

func (f listViewFlags) query(pageSize int) listview.Query {
	return listview.Query{
		Search:   f.Search,
		Category: f.Category,
		Sort:     listview.SortKey(f.Sort),
		Page:     f.Page,
		PageSize: pageSize,
	}
}

func addListFlags(cmd *cobra.Command, f *listViewFlags, categoryName, defaultSort string) {
	cmd.Flags().StringVar(&f.Search, "search", "", "Case-insensitive substring filter")
	cmd.Flags().StringVar(&f.Category, categoryName, "", "Filter by "+categoryName)
	cmd.Flags().StringVar(&f.Sort, "sort", defaultSort, "Sort key")
	cmd.Flags().IntVar(&f.Page, "page", 1, "Page number (clamped to the last valid page)")
}

func addOutputFlags(cmd *cobra.Command, cc *common.CommandConfig) {
	cmd.Flags().StringVarP(&cc.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cc.OutputFormat, "format", "", "Output format: table, json, or text")
}

func init() {
	addListFlags(resumesListCmd, &resumesQuery, "status", string(listview.SortCreatedDesc))
	addOutputFlags(resumesListCmd, &resumesOutput)
	addOutputFlags(resumesGetCmd, &resumesOutput)
	addOutputFlags(resumesStatsCmd, &resumesOutput)
	resumesUpdateCmd.Flags().StringVar(&resumesFile, "file", "", "Replacement resume file")
	_ = resumesUpdateCmd.MarkFlagRequired("file")
	resumesDownloadCmd.Flags().StringVar(&resumesDir, "dir", ".", "Directory to save the download into")

	resumesCmd.AddCommand(resumesListCmd)
	resumesCmd.AddCommand(resumesGetCmd)
	resumesCmd.AddCommand(resumesUploadCmd)
	resumesCmd.AddCommand(resumesUpdateCmd)
	resumesCmd.AddCommand(resumesDeleteCmd)
	resumesCmd.AddCommand(resumesDownloadCmd)
	resumesCmd.AddCommand(resumesStatsCmd)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: expected a positive integer", arg)
	}
	return id, nil
}

func runResumesList(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}

	resumes, err := rt.Services.Resumes.List(cmd.Context())
	if err != nil {
		return err
	}

	page := listview.Apply(resumes, resumesQuery.query(rt.Config.App.PageSize.Resumes), listview.ResumeAccessors())
	return common.NewOutputHandler(rt.Logger).HandleOutput(page, resumesOutput)
}

func runResumesGet(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	resume, err := rt.Services.Resumes.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	return common.NewOutputHandler(rt.Logger).HandleOutput(resume, resumesOutput)
}

func runResumesUpload(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	cfg := rt.Config.App
	if err := common.ValidateUploadFile(path, cfg.MaxUploadSize, cfg.AllowedUploadTypes); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if rt.Metrics != nil {
		rt.Metrics.UploadsStarted.Add(cmd.Context(), 1,
			metric.WithAttributes(attribute.String("kind", "resume")))
	}

	resume, err := rt.Services.Resumes.Upload(cmd.Context(), filepath.Base(path), f)
	if err != nil {
		return err
	}

	rt.Logger.Info("Resume uploaded", "id", resume.ID, "file", resume.FileName)
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (id %d, status %s)\n",
		resume.FileName, resume.ID, resume.ProcessingStatus)
	return nil
}

func runResumesUpdate(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	cfg := rt.Config.App
	if err := common.ValidateUploadFile(resumesFile, cfg.MaxUploadSize, cfg.AllowedUploadTypes); err != nil {
		return err
	}
	f, err := os.Open(resumesFile)
	if err != nil {
		return err
	}
	defer f.Close()

	file := api.FormFile{Field: "file", Name: filepath.Base(resumesFile), Content: f}
	resume, err := rt.Services.Resumes.Update(cmd.Context(), id, nil, &file)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated resume %d (status %s)\n", resume.ID, resume.ProcessingStatus)
	return nil
}

func runResumesDelete(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := rt.Services.Resumes.Delete(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted resume %d\n", id)
	return nil
}

func runResumesDownload(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	blob, err := rt.Services.Resumes.Download(cmd.Context(), id)
	if err != nil {
		return err
	}
	if rt.Metrics != nil {
		rt.Metrics.DownloadsCompleted.Add(cmd.Context(), 1,
			metric.WithAttributes(attribute.String("kind", "resume")))
		rt.Metrics.DownloadBytes.Record(cmd.Context(), int64(len(blob.Content)))
	}

	saver := common.FileBlobSaver{Dir: resumesDir, Logger: rt.Logger}
	name := common.FallbackFilename(blob.Filename, fmt.Sprintf("resume_%d.pdf", id))
	path, err := saver.Save(name, blob.Content)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
	return nil
}

func runResumesStats(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}
	stats, err := rt.Services.Resumes.Stats(cmd.Context())
	if err != nil {
		return err
	}
	return common.NewOutputHandler(rt.Logger).HandleOutput(stats, resumesOutput)
}
