package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go-subscout/config"
)

// globals holds the state shared by every subcommand of one invocation.
type globals struct {
	cfg        *config.Config
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	g := &globals{cfg: config.Default()}

	cmd := &cobra.Command{
		Use:           "subscout",
		Short:         "Passive subdomain discovery and validation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			g.cfg = loaded

			logrus.SetLevel(g.cfg.Level())
			if g.debug {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML configuration file")
	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newScanCmd(g))
	cmd.AddCommand(newServeCmd(g))
	return cmd
}

func printBanner() {
	cyan := color.New(color.FgCyan, color.Bold)
	gray := color.New(color.FgHiBlack)

	cyan.Fprintln(color.Error, "  subscout")
	gray.Fprintln(color.Error, "  crt.sh | bufferover | wordlist -> DNS | HTTPS")
	fmt.Fprintln(color.Error)
}
