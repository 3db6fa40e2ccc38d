package main

import (
	"github.com/spf13/cobra"

	"github.com/abatilo/lanes/internal/tui"
	"github.com/abatilo/lanes/internal/web"
)

// serveCmd implements 'lanes serve'.
func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP",
		Run: func(cmd *cobra.Command, _ []string) {
			a, err := getStore(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer a.Close()

			if addr == "" {
				addr = cfg.Server.Addr
			}
			if err = web.NewServer(a.handlers, logger).Run(cmd.Context(), addr); err != nil {
				printError(err)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.addr)")
	return cmd
}

// tuiCmd implements 'lanes tui'.
func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the board in the terminal",
		Run: func(cmd *cobra.Command, _ []string) {
			a, err := getStore(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer a.Close()

			if err = tui.Run(cmd.Context(), a.handlers); err != nil {
				printError(err)
			}
		},
	}
}
