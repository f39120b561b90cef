package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cpscan/cpscan/internal/config"
	ctxutil "github.com/cpscan/cpscan/internal/observability/context"
)

// InitOptions holds the flag values of the init command.
type InitOptions struct {
	Force    bool
	Template string
	Stdout   bool
}

// InitHandler writes a starter configuration file.
type InitHandler struct {
	services Provider
}

// NewInitHandler creates a new init command handler.
func NewInitHandler(services Provider) *InitHandler {
	return &InitHandler{services: services}
}

// CreateCommand creates the init cobra command.
func (h *InitHandler) CreateCommand() *cobra.Command {
	opts := &InitOptions{}
	templates := config.NewTemplateRegistry()

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file with the default profile",
		Long: fmt.Sprintf(`Write a YAML configuration whose default profile comes from a template.

The file is written to %s unless a path is given.

Templates: %s

Examples:
  cpscan init
  cpscan init --template strict ci/cpscan.yaml
  cpscan init --stdout --template ci`, config.DefaultConfigFileName, strings.Join(templates.Names(), ", ")),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return h.Execute(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().StringVarP(&opts.Template, "template", "t", "default", "profile template ("+strings.Join(templates.Names(), ", ")+")")
	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "print the configuration instead of writing it")

	return cmd
}

// Execute generates and writes the configuration.
func (h *InitHandler) Execute(parentCtx context.Context, args []string, opts *InitOptions) error {
	logger := h.services.GetLogger()
	out := h.services.GetUI()

	ctx := parentCtx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = ctxutil.WithComponent(ctxutil.WithOperation(ctx, "init"), "cli")

	cfg, err := config.GenerateConfig(opts.Template)
	if err != nil {
		return err
	}

	if opts.Stdout {
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = out.Writer().Write(data)
		return err
	}

	path := config.DefaultConfigFileName
	if len(args) > 0 {
		path = args[0]
	}
	if err := config.WriteConfig(path, cfg, opts.Force); err != nil {
		logger.Error(ctx, "failed to write configuration", "path", path, "error", err.Error())
		return err
	}

	logger.Info(ctx, "configuration written", "path", path, "template", opts.Template)
	out.Success(ctx, "wrote %s (template %s)", path, opts.Template)
	return nil
}
