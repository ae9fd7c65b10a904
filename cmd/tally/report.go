package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aretw0/tally/internal/cli"
	"github.com/aretw0/tally/pkg/ports"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the coverage report into object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		open, _ := cmd.Flags().GetBool("open")
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			return app.Generator.Generate(ctx, app.Store, ports.GenerateOptions{OpenReport: open})
		})
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Bool("open", false, "Print the location of the generated report")
}
