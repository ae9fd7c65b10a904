package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/tally/internal/cli"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard all recorded coverage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			if err := app.Store.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "coverage cleared")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
