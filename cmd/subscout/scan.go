package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go-subscout/export"
	"go-subscout/models"
	"go-subscout/plugin"
	"go-subscout/render"
	"go-subscout/sources"
)

var errClipboardUnsupported = errors.New("no clipboard utility available")

// copyToClipboard is swapped out in tests.
var copyToClipboard = func(text string) error {
	if clipboard.Unsupported {
		return errClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}

type scanOptions struct {
	settings     models.Settings
	wordlistFile string
	jsonOut      string
	csvOut       string
	copyList     bool
}

func newScanCmd(g *globals) *cobra.Command {
	o := &scanOptions{settings: models.DefaultSettings()}

	cmd := &cobra.Command{
		Use:   "scan <domain>",
		Short: "Discover and validate subdomains of a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, g, o, args[0])
		},
	}

	f := cmd.Flags()
	f.BoolVar(&o.settings.MethodCrt, "crtsh", true, "Query certificate transparency logs")
	f.BoolVar(&o.settings.MethodBuff, "bufferover", true, "Query the forward DNS aggregation service")
	f.BoolVar(&o.settings.MethodWordlist, "wordlist", false, "Expand the built-in wordlist")
	f.BoolVar(&o.settings.ValidateDNS, "dns", true, "Validate A records over DNS-over-HTTPS")
	f.BoolVar(&o.settings.ValidateHTTP, "http", true, "Probe HTTPS reachability")
	f.IntVarP(&o.settings.Concurrency, "concurrency", "c", models.DefaultConcurrency, "Subdomains validated in parallel")
	f.IntVarP(&o.settings.Delay, "delay", "d", models.DefaultDelay, "Delay in ms each worker waits between subdomains")
	f.IntVarP(&o.settings.Timeout, "timeout", "t", models.DefaultTimeout, "Per request timeout in ms")
	f.IntVar(&o.settings.RateLimit, "rate", 0, "Validations per second, 0 = unlimited")
	f.StringVar(&o.wordlistFile, "wordlist-file", "", "Custom wordlist (implies --wordlist)")
	f.StringVarP(&o.jsonOut, "json-out", "o", "", "Write the JSON export to this file")
	f.StringVar(&o.csvOut, "csv-out", "", "Write the CSV export to this file")
	f.BoolVar(&o.copyList, "copy", false, "Copy the subdomain list to the clipboard")
	return cmd
}

func runScan(cmd *cobra.Command, g *globals, o *scanOptions, domain string) error {
	printBanner()

	settings := o.settings
	settings.Domain = domain

	opts := []plugin.Option{
		plugin.WithEndpoints(g.cfg.Endpoints),
		plugin.WithUserAgent(g.cfg.UserAgent),
	}
	if o.wordlistFile != "" {
		wl, err := sources.LoadWordlist(o.wordlistFile)
		if err != nil {
			return err
		}
		opts = append(opts, plugin.WithWordlist(wl))
		settings.MethodWordlist = true
	}

	var (
		barMu sync.Mutex
		bar   *progressbar.ProgressBar
	)
	opts = append(opts, plugin.WithProgress(func(p models.Progress) {
		barMu.Lock()
		defer barMu.Unlock()
		if bar == nil {
			bar = progressbar.NewOptions(p.Total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("Validating"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(30),
				progressbar.OptionClearOnFinish(),
			)
		}
		bar.Set(p.Checked)
	}))

	m := plugin.NewManager(nil, opts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	s, err := m.Start(context.Background(), settings)
	if err != nil {
		return err
	}

	select {
	case <-s.Done():
	case <-ctx.Done():
		m.Stop()
		s.Wait()
	}

	barMu.Lock()
	if bar != nil {
		bar.Finish()
	}
	barMu.Unlock()

	snap := s.Snapshot()
	color.New(color.FgHiBlack).Fprintln(color.Error, snap.Summary)
	return writeResults(cmd.OutOrStdout(), o, snap)
}

func writeResults(out io.Writer, o *scanOptions, snap models.Snapshot) error {
	if err := render.Table(out, snap.Records); err != nil {
		return err
	}

	if o.copyList && len(snap.Records) > 0 {
		text := export.ClipboardText(snap.Records)
		if err := copyToClipboard(text); err != nil {
			logrus.Warnf("Couldn't copy to the clipboard (%v), printing the list instead", err)
			fmt.Fprintln(out, text)
		} else {
			logrus.Infof("Copied %d subdomains to the clipboard", len(snap.Records))
		}
	}

	outputs := []struct {
		path   string
		format export.Format
	}{
		{o.jsonOut, export.FormatJSON},
		{o.csvOut, export.FormatCSV},
	}
	for _, dst := range outputs {
		if dst.path == "" {
			continue
		}
		data, err := export.Render(dst.format, snap.Domain, snap.Records, time.Now())
		if err != nil {
			return err
		}
		if err := export.WriteFile(dst.path, data); err != nil {
			return err
		}
		logrus.Infof("Wrote %s export to %s", dst.format, dst.path)
	}
	return nil
}
