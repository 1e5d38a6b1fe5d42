package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mochibot/mochibot/engine/settings"
	"github.com/mochibot/mochibot/pkg/docgen"
	"github.com/mochibot/mochibot/pkg/logger"
)

const defaultConfigFile = "config/bot_config.toml"

func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate bot configuration",
	}

	cmd.AddCommand(
		configValidateCmd(),
		configDocsCmd(),
	)

	return cmd
}

func configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [files...]",
		Short: "Validate configuration files against the declared models",
		Long: "Loads the given configuration files in order, later files " +
			"overriding earlier ones, applies environment overrides, and " +
			"reports the first violation found.",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.FromContext(cmd.Context())
			paths := args
			if len(paths) == 0 {
				paths = []string{defaultConfigFile}
			}
			typed, _, err := settings.Load(cmd.Context(), paths...)
			if err != nil {
				return fmt.Errorf("configuration is invalid: %w", err)
			}
			log.Info("Configuration is valid",
				"files", len(paths),
				"providers", len(typed.Providers),
				"models", len(typed.Models),
				"tasks", len(typed.Tasks))
			return nil
		},
	}
}

func configDocsCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate the configuration reference",
		Long: "Writes one JSON Schema file per configuration model plus a " +
			"Markdown reference into the output directory.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen := docgen.NewGenerator(settings.Models())
			return gen.Generate(cmd.Context(), outDir)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "docs/config", "Output directory")
	return cmd
}
