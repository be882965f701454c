package main

import (
	"fmt"
	"os"
	"rento/config"
	"rento/helper"
	"rento/shared/logger"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := config.Get()

	logger.InitLogger(cfg.Server.Env)
	logger.SetLogLevel(cfg)

	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the Rento database schema",
		SilenceUsage: true,
	}

	cmd.AddCommand(
		actionCommand(cfg, helper.ActionUp, "Apply all pending migrations"),
		actionCommand(cfg, helper.ActionDown, "Roll back the last migration"),
		actionCommand(cfg, helper.ActionStepUp, "Apply the next pending migration"),
		actionCommand(cfg, helper.ActionDrop, "Roll back every migration"),
		versionCommand(cfg),
		forceCommand(cfg),
	)

	return cmd
}

func actionCommand(cfg *config.Config, action helper.Action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return helper.Run(cfg, action) //nolint:wrapcheck
		},
	}
}

func versionCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			version, dirty, err := helper.Version(cfg)
			if err != nil {
				return err //nolint:wrapcheck
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)

			return err //nolint:wrapcheck
		},
	}
}

func forceCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "force VERSION",
		Short: "Mark VERSION as applied after a failed migration was fixed by hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}

			log.Warn().Int("version", version).Msg("forcing schema version")

			return helper.Force(cfg, version) //nolint:wrapcheck
		},
	}
}
