package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"airsync/internal/notifications"
)

func newTestNotifyCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification to the monitor channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(*configFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !app.cfg.EnableSlack || strings.TrimSpace(app.cfg.MonitorURL) == "" {
				fmt.Fprintln(out, "Notifications are disabled; nothing sent")
				return nil
			}

			msg := notifications.Message{
				Icon: ":wave:",
				Text: "Test notification from airsync",
			}
			if err := app.notify.Monitor(cmd.Context(), msg); err != nil {
				return fmt.Errorf("send test notification: %w", err)
			}
			fmt.Fprintln(out, "Test notification sent")
			return nil
		},
	}
}
