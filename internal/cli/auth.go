package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Kiran-879/ResumePilot/internal/common"
	"github.com/Kiran-879/ResumePilot/internal/errors"
	"github.com/Kiran-879/ResumePilot/internal/types"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and persist a session token",
	Long: `Log in with a username and password. On success the session token is
persisted so later commands run authenticated. Use --type to pick the
student or placement-team entry point.`,
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Create a new account. Registration does not log you in; run
'resumepilot login' afterwards.`,
	RunE: runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently authenticated user",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &whoamiOutput)
	},
	RunE: runWhoami,
}

var (
	loginUsername string
	loginPassword string
	loginType     string

	registerReq     types.RegisterRequest
	registerConfirm string

	whoamiOutput common.CommandConfig
)

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Account username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginType, "type", "student", "Login entry point: student or placement_team")

	registerCmd.Flags().StringVar(&registerReq.Username, "username", "", "Account username")
	registerCmd.Flags().StringVar(&registerReq.Email, "email", "", "Account email address")
	registerCmd.Flags().StringVar(&registerReq.Password, "password", "", "Account password")
	registerCmd.Flags().StringVar(&registerConfirm, "password-confirm", "", "Password confirmation")
	registerCmd.Flags().StringVar((*string)(&registerReq.Role), "role", "student", "Account role: student or placement_team")
	registerCmd.Flags().StringVar(&registerReq.Location, "location", "", "Location (optional)")
	registerCmd.Flags().StringVar(&registerReq.PhoneNumber, "phone", "", "Phone number (optional)")
	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	whoamiCmd.Flags().StringVar(&whoamiOutput.OutputFormat, "format", "", "Output format: table, json, or text")
}

func runLogin(cmd *cobra.Command, args []string) error {
	rt, err := getRuntimeFromContext(cmd.Context())
	if err != nil {
		return err
	}

	if loginType != "student" && loginType != "placement_team" {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("Invalid login type '%s'. Use student or placement_team", loginType), nil)
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	if loginUsername == "" {
		loginUsername, err = promptLine(reader, "Username: ")
		if err != nil {
			return err
		}
	}
	if loginPassword == "" {
		loginPassword, err = promptLine(reader, "Password: ")
		if err != nil {
			return err
		}
	}

	result := rt.Session.Login(cmd.Context(), types.Credentials{
		Username:  loginUsername,
		Password:  loginPassword,
		LoginType: loginType,
	})
	if rt.Metrics != nil {
		rt.Metrics.LoginAttempts.Add(cmd.Context(), 1,
			metric.WithAttributes(attribute.Bool("success", result.Success)))
	}

	if !result.Success {
		msg := result.Error
		if result.Field != "" {
			msg = fmt.Sprintf("%s (field: %s)", result.Error, result.Field)
		}
		return errors.NewAuthError(errors.ErrCodeLoginFailed, msg, nil)
	}

	snap := rt.Session.Snapshot()
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", snap.User.Username, snap.User.Role)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	rt, err := getRuntimeFromContext(cmd.Context())
	if err != nil {
		return err
	}

	if registerConfirm == "" {
		registerConfirm = registerReq.Password
	}
	if registerReq.Password != registerConfirm {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "Passwords do not match", nil)
	}
	registerReq.PasswordConfirm = registerConfirm

	result := rt.Session.Register(cmd.Context(), registerReq)
	if !result.Success {
		return errors.NewAPIError(errors.ErrCodeRequestFailed, result.Error, nil)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Account %s created. Run 'resumepilot login' to sign in.\n", registerReq.Username)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	rt, err := getRuntimeFromContext(cmd.Context())
	if err != nil {
		return err
	}
	rt.Session.Logout()
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	rt, snap, err := requireSession(cmd)
	if err != nil {
		return err
	}
	handler := common.NewOutputHandler(rt.Logger)
	return handler.HandleOutput(snap.User, whoamiOutput)
}

func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeInputRead, "Failed to read input", err)
	}
	return strings.TrimSpace(line), nil
}
