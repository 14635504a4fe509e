package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Kiran-879/ResumePilot/internal/errors"
	"github.com/Kiran-879/ResumePilot/internal/formatters"
)

// CommandConfig holds common configuration for commands
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
}

// OutputHandler handles formatting and writing output
type OutputHandler struct {
	registry *formatters.FormatterRegistry
	logger   *errors.Logger
}

// NewOutputHandler creates a new output handler
func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return &OutputHandler{
		registry: formatters.GlobalRegistry,
		logger:   logger,
	}
}

// HandleOutput formats data and writes it to the specified output
func (oh *OutputHandler) HandleOutput(data any, config CommandConfig) error {
	output, err := oh.registry.Format(data, config.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", config.OutputFormat), err)
	}

	if config.OutputFile != "" {
		dir := filepath.Dir(config.OutputFile)
		if dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return errors.NewIOError("DIRECTORY_CREATE_FAILED",
					fmt.Sprintf("Cannot create directory: %s", dir), err)
			}
		}
		if err := os.WriteFile(config.OutputFile, []byte(output), 0600); err != nil {
			return errors.NewIOError("FILE_WRITE_FAILED",
				fmt.Sprintf("Cannot write file: %s", config.OutputFile), err)
		}
		oh.logger.Info("Output written successfully",
			"file", config.OutputFile, "format", config.OutputFormat)
	} else {
		fmt.Print(output)
	}

	return nil
}
