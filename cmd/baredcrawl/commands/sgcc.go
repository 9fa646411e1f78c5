package commands

import (
	"baredcrawl/internal/components/chrono"
	"baredcrawl/internal/jsoncache"
	"baredcrawl/internal/scrapers/sgcc"
	"baredcrawl/internal/serviceutil"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var sgccFlags struct {
	count   int
	delay   float64
	timeout float64
	output  string
	cron    string
	hold    float64
}

func init() {
	defaults := DefaultConfig().Sgcc

	pubkeyCmd.Flags().IntVar(&sgccFlags.count, "count", defaults.Count, "Number of requests to make.")
	pubkeyCmd.Flags().Float64Var(&sgccFlags.delay, "delay", defaults.DelaySeconds, "Seconds to wait between requests.")
	pubkeyCmd.Flags().Float64Var(&sgccFlags.timeout, "timeout", defaults.TimeoutSeconds, "Per request timeout in seconds.")
	pubkeyCmd.Flags().StringVar(&sgccFlags.output, "output", defaults.Output, "The JSON file results are appended to.")
	pubkeyCmd.Flags().StringVar(&sgccFlags.cron, "cron", "", "Repeat the batch on this cron schedule until interrupted.")

	probeCmd.Flags().Float64Var(&sgccFlags.hold, "hold", 5, "Seconds to wait after the request before exiting.")

	sgccCmd.AddCommand(pubkeyCmd)
	sgccCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(sgccCmd)
}

var sgccCmd = &cobra.Command{
	Use:   "sgcc",
	Short: "Scrapers for the SGCC Hebei power trading portal (pmos.he.sgcc.com.cn).",
}

func sgccConfig(cmd *cobra.Command) sgcc.ClientOptions {
	c := &cfg.Sgcc
	overrideInt(cmd, "count", sgccFlags.count, &c.Count)
	overrideFloat(cmd, "delay", sgccFlags.delay, &c.DelaySeconds)
	overrideFloat(cmd, "timeout", sgccFlags.timeout, &c.TimeoutSeconds)
	overrideString(cmd, "output", sgccFlags.output, &c.Output)
	overrideString(cmd, "cron", sgccFlags.cron, &c.Cron)

	return sgcc.ClientOptions{
		BaseUrl: c.BaseUrl,
		Timeout: seconds(c.TimeoutSeconds),
	}
}

var pubkeyCmd = &cobra.Command{
	Use:   "pubkey [--count <n>] [--delay <seconds>] [--output <path/to/cache.json>]",
	Short: "Fetches secure keys and appends every attempt to a JSON cache file.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := sgccConfig(cmd)
		c := cfg.Sgcc
		if c.Count < 0 {
			return fmt.Errorf("--count must not be negative, got %d", c.Count)
		}

		cache, err := jsoncache.New[sgcc.CrawlResult](c.Output, tel)
		if err != nil {
			return err
		}
		client := sgcc.NewClient(opts, clock, tel)
		crawler := sgcc.NewCrawler(client, seconds(c.DelaySeconds), tel)

		batch := func(ctx context.Context) {
			slog.Info(
				"starting crawl",
				"count", c.Count,
				"delay_seconds", c.DelaySeconds,
			)

			start := time.Now()
			stats, err := crawler.Run(ctx, c.Count, cache)
			elapsed := time.Since(start)
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("crawl stopped", "err", err)
			}

			slog.Info(strings.Repeat("=", 50))
			slog.Info("crawl finished")
			slog.Info("total requests", "n", stats.Total)
			slog.Info("succeeded", "n", stats.Success)
			slog.Info("failed", "n", stats.Failed)
			slog.Info("elapsed", "seconds", fmt.Sprintf("%.2f", elapsed.Seconds()))
			slog.Info("cache file", "path", cache.Path())
			slog.Info(strings.Repeat("=", 50))
		}

		ctx := cmd.Context()
		if c.Cron == "" {
			batch(ctx)
			return nil
		}

		cron := chrono.NewStandardCron(ctx, clock, tel)
		err = cron.Cron(c.Cron, func() { batch(ctx) })
		if err != nil {
			return fmt.Errorf("invalid cron schedule %q: %w", c.Cron, err)
		}
		slog.Info("scheduled crawl, press Ctrl+C to stop", "cron", c.Cron)
		<-cron.Done()
		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe [--hold <seconds>]",
	Short: "Sends a single secure key request and prints the response.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		opts := sgccConfig(cmd)

		start := time.Now()
		slog.Info("probe start", "unix", float64(start.UnixNano())/1e9)

		client := sgcc.NewClient(opts, clock, tel)
		body, err := client.Probe(cmd.Context())
		if len(body) > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), string(body))
		}
		if err != nil {
			serviceutil.Fatal("probe failed", err)
		}

		select {
		case <-time.After(seconds(sgccFlags.hold)):
		case <-cmd.Context().Done():
		}
		slog.Info("probe end", "unix", float64(time.Now().UnixNano())/1e9)
	},
}
