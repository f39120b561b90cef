package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpscan/cpscan/internal/config"
	ctxutil "github.com/cpscan/cpscan/internal/observability/context"
)

// ErrInvalidConfig is returned when validation finds error-level issues.
var ErrInvalidConfig = errors.New("configuration is invalid")

// ValidateHandler checks a configuration file.
type ValidateHandler struct {
	services Provider
}

// NewValidateHandler creates a new validate command handler.
func NewValidateHandler(services Provider) *ValidateHandler {
	return &ValidateHandler{services: services}
}

// CreateCommand creates the validate cobra command.
func (h *ValidateHandler) CreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config>",
		Short: "Check a configuration file and suggest fixes",
		Example: `  cpscan validate .cpscan.yaml
  cpscan validate ~/.config/cpscan/config.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return h.Execute(cmd.Context(), args[0])
		},
	}
}

// Execute validates the file at path and prints every issue.
func (h *ValidateHandler) Execute(parentCtx context.Context, path string) error {
	logger := h.services.GetLogger()
	out := h.services.GetUI()

	ctx := parentCtx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = ctxutil.WithComponent(ctxutil.WithOperation(ctx, "validate"), "cli")

	result := config.ValidateConfigFile(path)
	logger.Info(ctx, "configuration validated",
		"path", path,
		"errors", result.Summary.Errors,
		"warnings", result.Summary.Warnings)

	if result.IsValid && len(result.Issues) == 0 {
		out.Success(ctx, "%s is valid", path)
		return nil
	}

	for _, issue := range result.Issues {
		switch issue.Level {
		case config.ValidationLevelError:
			out.Error(ctx, "%s", issue.String())
		case config.ValidationLevelWarning:
			out.Warning(ctx, "%s", issue.String())
		default:
			out.Info(ctx, "%s", issue.String())
		}
	}
	out.Result(ctx, "%s", result.Summary.String())

	if result.HasErrors() {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, path)
	}
	return nil
}
