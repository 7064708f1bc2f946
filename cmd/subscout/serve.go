package main

import (
	"github.com/spf13/cobra"
	"go-subscout/server"
)

func newServeCmd(g *globals) *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scan API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listenAddr != "" {
				g.cfg.Listen = listenAddr
			}
			return server.Start(g.cfg)
		},
	}
	cmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "Listen address (overrides config)")
	return cmd
}
