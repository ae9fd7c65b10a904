package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/tally/internal/cli"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Merge Go cover profiles into the coverage store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			if len(app.Config.ProfilePaths) == 0 {
				return fmt.Errorf("no profiles given: use --profile or TALLY_PROFILES")
			}
			return app.Collector.ReportCoverage(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
}
