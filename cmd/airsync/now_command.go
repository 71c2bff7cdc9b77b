package main

import (
	"github.com/spf13/cobra"

	"airsync/internal/logging"
)

func newNowCommand(configFlag *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "now",
		Short: "Run the download pipeline once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(*configFlag)
			if err != nil {
				return err
			}

			// One-shot mode always exits zero; pipeline failures are
			// already alerted through the notification channels.
			if err := app.runner.Run(cmd.Context(), force); err != nil {
				app.logger.Error("pipeline run failed", logging.Error(err))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Download even when the local recording is current")
	return cmd
}
