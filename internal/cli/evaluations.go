package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/Kiran-879/ResumePilot/internal/common"
	"github.com/Kiran-879/ResumePilot/internal/listview"

	"github.com/spf13/cobra"
)

var evaluationsCmd = &cobra.Command{
	Use:     "evaluations",
	Aliases: []string{"evals"},
	Short:   "Run and inspect resume evaluations",
}

var evaluationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List evaluations with search, filter and paging",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &evaluationsOutput)
	},
	RunE: runEvaluationsList,
}

var evaluationsGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show the full report card of one evaluation",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &evaluationsOutput)
	},
	RunE: runEvaluationsGet,
}

var evaluationsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Evaluate a resume against a job",
	Long: `Create an evaluation of one resume against one job. Scoring runs on
the server; the finished evaluation is returned and printed.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &evaluationsOutput)
	},
	RunE: runEvaluationsCreate,
}

var evaluationsReportCmd = &cobra.Command{
	Use:     "download [id]",
	Aliases: []string{"report"},
	Short:   "Download the PDF report of an evaluation",
	Args:    cobra.ExactArgs(1),
	RunE:    runEvaluationsReport,
}

var evaluationsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate evaluation counters",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &evaluationsOutput)
	},
	RunE: runEvaluationsStats,
}

var (
	evaluationsOutput common.CommandConfig
	evaluationsQuery  listViewFlags
	evaluationsDir    string

	evalResumeID int
	evalJobID    int
	evalJobOnly  int
)

func init() {
	addListFlags(evaluationsListCmd, &evaluationsQuery, "recommendation", string(listview.SortCreatedDesc))
	evaluationsListCmd.Flags().IntVar(&evalJobOnly, "job", 0, "Only evaluations for this job id")
	addOutputFlags(evaluationsListCmd, &evaluationsOutput)
	addOutputFlags(evaluationsGetCmd, &evaluationsOutput)
	addOutputFlags(evaluationsCreateCmd, &evaluationsOutput)
	addOutputFlags(evaluationsStatsCmd, &evaluationsOutput)

	evaluationsCreateCmd.Flags().IntVar(&evalResumeID, "resume", 0, "Resume id to evaluate")
	evaluationsCreateCmd.Flags().IntVar(&evalJobID, "job", 0, "Job id to evaluate against")
	_ = evaluationsCreateCmd.MarkFlagRequired("resume")
	_ = evaluationsCreateCmd.MarkFlagRequired("job")

	evaluationsReportCmd.Flags().StringVar(&evaluationsDir, "dir", ".", "Directory to save the report into")

	evaluationsCmd.AddCommand(evaluationsListCmd)
	evaluationsCmd.AddCommand(evaluationsGetCmd)
	evaluationsCmd.AddCommand(evaluationsCreateCmd)
	evaluationsCmd.AddCommand(evaluationsReportCmd)
	evaluationsCmd.AddCommand(evaluationsStatsCmd)
}

func runEvaluationsList(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}

	var filters url.Values
	if evalJobOnly > 0 {
		filters = url.Values{"job_description": []string{strconv.Itoa(evalJobOnly)}}
	}
	evals, err := rt.Services.Evaluations.List(cmd.Context(), filters)
	if err != nil {
		return err
	}

	page := listview.Apply(evals, evaluationsQuery.query(rt.Config.App.PageSize.Evaluations), listview.EvaluationAccessors())
	return common.NewOutputHandler(rt.Logger).HandleOutput(page, evaluationsOutput)
}

func runEvaluationsGet(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	eval, err := rt.Services.Evaluations.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	return common.NewOutputHandler(rt.Logger).HandleOutput(*eval, evaluationsOutput)
}

func runEvaluationsCreate(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}

	rt.Logger.Info("Starting evaluation", "resume_id", evalResumeID, "job_id", evalJobID)
	eval, err := rt.Services.Evaluations.Create(cmd.Context(), evalResumeID, evalJobID)
	if err != nil {
		return err
	}
	rt.Logger.Info("Evaluation completed", "id", eval.ID, "score", eval.OverallScore)
	return common.NewOutputHandler(rt.Logger).HandleOutput(*eval, evaluationsOutput)
}

func runEvaluationsReport(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	blob, err := rt.Services.Evaluations.DownloadReport(cmd.Context(), id)
	if err != nil {
		return err
	}

	saver := common.FileBlobSaver{Dir: evaluationsDir, Logger: rt.Logger}
	name := common.FallbackFilename(blob.Filename, fmt.Sprintf("evaluation_report_%d.pdf", id))
	path, err := saver.Save(name, blob.Content)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
	return nil
}

func runEvaluationsStats(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}
	stats, err := rt.Services.Evaluations.Stats(cmd.Context())
	if err != nil {
		return err
	}
	return common.NewOutputHandler(rt.Logger).HandleOutput(stats, evaluationsOutput)
}
