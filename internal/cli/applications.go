package cli

import (
	"fmt"

	"github.com/Kiran-879/ResumePilot/internal/common"
	"github.com/Kiran-879/ResumePilot/internal/errors"
	"github.com/Kiran-879/ResumePilot/internal/listview"
	"github.com/Kiran-879/ResumePilot/internal/types"

	"github.com/spf13/cobra"
)

var applicationsCmd = &cobra.Command{
	Use:     "applications",
	Aliases: []string{"apps"},
	Short:   "Track job applications",
}

var applicationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications with search, filter and paging",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &applicationsOutput)
	},
	RunE: runApplicationsList,
}

var applicationsApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply to a job with a resume",
	Long: `Apply to a job. The job is checked for an existing application first;
applying twice is rejected locally before any submission.`,
	RunE: runApplicationsApply,
}

var applicationsCheckCmd = &cobra.Command{
	Use:   "check [job-id]",
	Short: "Check whether you already applied to a job",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &applicationsOutput)
	},
	RunE: runApplicationsCheck,
}

var applicationsUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Move an application through the hiring funnel",
	Args:  cobra.ExactArgs(1),
	RunE:  runApplicationsUpdate,
}

var (
	applicationsOutput common.CommandConfig
	applicationsQuery  listViewFlags

	applyJobID    int
	applyResumeID int

	appStatus string
	appNotes  string
)

func init() {
	addListFlags(applicationsListCmd, &applicationsQuery, "status", string(listview.SortCreatedDesc))
	addOutputFlags(applicationsListCmd, &applicationsOutput)
	addOutputFlags(applicationsCheckCmd, &applicationsOutput)

	applicationsApplyCmd.Flags().IntVar(&applyJobID, "job", 0, "Job id to apply to")
	applicationsApplyCmd.Flags().IntVar(&applyResumeID, "resume", 0, "Resume id to apply with")
	_ = applicationsApplyCmd.MarkFlagRequired("job")
	_ = applicationsApplyCmd.MarkFlagRequired("resume")

	applicationsUpdateCmd.Flags().StringVar(&appStatus, "status", "", "New status: applied, under_review, shortlisted, rejected, interview or selected")
	applicationsUpdateCmd.Flags().StringVar(&appNotes, "notes", "", "Reviewer notes")
	_ = applicationsUpdateCmd.MarkFlagRequired("status")

	applicationsCmd.AddCommand(applicationsListCmd)
	applicationsCmd.AddCommand(applicationsApplyCmd)
	applicationsCmd.AddCommand(applicationsCheckCmd)
	applicationsCmd.AddCommand(applicationsUpdateCmd)
}

func runApplicationsList(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}

	apps, err := rt.Services.Applications.List(cmd.Context())
	if err != nil {
		return err
	}

	page := listview.Apply(apps, applicationsQuery.query(rt.Config.App.PageSize.Applications), listview.ApplicationAccessors())
	return common.NewOutputHandler(rt.Logger).HandleOutput(page, applicationsOutput)
}

func runApplicationsApply(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}

	check, err := rt.Services.Applications.Check(cmd.Context(), applyJobID)
	if err != nil {
		return err
	}
	if check.Applied {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("Already applied to job %d", applyJobID), nil)
	}

	app, err := rt.Services.Applications.Apply(cmd.Context(), types.ApplyRequest{
		JobID:    applyJobID,
		ResumeID: applyResumeID,
	})
	if err != nil {
		return err
	}

	rt.Logger.Info("Application submitted", "id", app.ID, "job_id", applyJobID)
	fmt.Fprintf(cmd.OutOrStdout(), "Applied to %s at %s (application %d, status %s)\n",
		app.Job.Title, app.Job.CompanyName, app.ID, app.Status)
	return nil
}

func runApplicationsCheck(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}
	jobID, err := parseID(args[0])
	if err != nil {
		return err
	}

	check, err := rt.Services.Applications.Check(cmd.Context(), jobID)
	if err != nil {
		return err
	}
	return common.NewOutputHandler(rt.Logger).HandleOutput(check, applicationsOutput)
}

func runApplicationsUpdate(cmd *cobra.Command, args []string) error {
	rt, _, err := requireSession(cmd)
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	app, err := rt.Services.Applications.UpdateStatus(cmd.Context(), id, types.ApplicationUpdate{
		Status: types.ApplicationStatus(appStatus),
		Notes:  appNotes,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Application %d is now %s\n", app.ID, app.Status)
	return nil
}
