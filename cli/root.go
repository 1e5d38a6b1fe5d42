package cli

import (
	"github.com/spf13/cobra"

	"github.com/mochibot/mochibot/pkg/logger"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mochibot",
		Short: "Mochibot CLI tool",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logLevel, logJSON, err := logger.GetLoggerConfig(cmd)
			if err != nil {
				return err
			}
			logger.SetupLogger(logLevel, logJSON)
			return nil
		},
	}

	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "Log in JSON format")

	root.AddCommand(
		ConfigCmd(),
		VersionCmd(),
	)

	return root
}
