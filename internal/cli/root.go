package cli

import (
	"context"

	"github.com/Kiran-879/ResumePilot/internal/api"
	"github.com/Kiran-879/ResumePilot/internal/common"
	"github.com/Kiran-879/ResumePilot/internal/config"
	"github.com/Kiran-879/ResumePilot/internal/errors"
	"github.com/Kiran-879/ResumePilot/internal/observability"
	"github.com/Kiran-879/ResumePilot/internal/session"

	"github.com/spf13/cobra"
)

// Runtime carries the wired application objects every command needs. It is
// assembled once in main and travels on the command context.
type Runtime struct {
	Config   *config.Config
	Logger   *errors.Logger
	Session  *session.Manager
	Services *api.Services
	Metrics  *observability.Metrics
}

// Define a custom private type for the context key.
type runtimeKeyType struct{}

var runtimeKey = runtimeKeyType{}

var rootCmd = &cobra.Command{
	Use:   "resumepilot",
	Short: "A CLI client for the ResumePilot matching API",
	Long: `ResumePilot is a command-line client for the resume-to-job matching
service. It manages your session, uploads resumes, maintains job postings,
runs evaluations, and tracks applications from the terminal.`,
	SilenceUsage: true,
}

func Execute(ctx context.Context, rt *Runtime) error {
	// Attach the wired runtime to the context, making it available to all subcommands
	ctx = context.WithValue(ctx, runtimeKey, rt)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getRuntimeFromContext is a helper function to get the runtime from context
func getRuntimeFromContext(ctx context.Context) (*Runtime, error) {
	if rt, ok := ctx.Value(runtimeKey).(*Runtime); ok {
		return rt, nil
	}
	return nil, errors.NewInternalError("RUNTIME_MISSING", "Runtime not found in context", nil)
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	rt, err := getRuntimeFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return rt.Config, nil
}

// requireSession rehydrates the persisted session and fails the command when
// no valid token is available. Commands that talk to protected endpoints call
// this first so the user sees one clear message instead of a raw 401.
func requireSession(cmd *cobra.Command) (*Runtime, session.Snapshot, error) {
	rt, err := getRuntimeFromContext(cmd.Context())
	if err != nil {
		return nil, session.Snapshot{}, err
	}
	snap := rt.Session.Rehydrate(cmd.Context())
	if !snap.IsAuthenticated {
		msg := "Not logged in. Run 'resumepilot login' first."
		if snap.Error != "" {
			msg = snap.Error + " Run 'resumepilot login' to start a new session."
		}
		return nil, snap, errors.NewAuthError(errors.ErrCodeSessionExpired, msg, nil)
	}
	return rt, snap, nil
}

// applyFormatDefaults fills the output format from config and validates it.
// Shared PreRunE body for every command with output flags.
func applyFormatDefaults(cmd *cobra.Command, cc *common.CommandConfig) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	if cc.OutputFormat == "" {
		cc.OutputFormat = cfg.App.DefaultFormat
	}
	return common.ValidateOutputFormat(cc.OutputFormat, cfg.App.SupportedFormats)
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(resumesCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(evaluationsCmd)
	rootCmd.AddCommand(applicationsCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(versionCmd)
}
