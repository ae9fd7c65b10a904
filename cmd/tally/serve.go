package main

import (
	"context"
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/aretw0/tally/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the coverage admin server",
	Long:  `Serves the admin dispatcher under the mount point and Prometheus metrics at /metrics until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			ln, err := net.Listen("tcp", ":"+app.Config.Port)
			if err != nil {
				return fmt.Errorf("failed to listen on port %s: %w", app.Config.Port, err)
			}
			return app.Serve(ctx, ln, app.NewRouter())
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from TALLY_PORT or 8080)")
	serveCmd.Flags().String("mount", "", "Path the admin surface is mounted under (default from TALLY_MOUNT or /coverage)")
}
