package commands

import (
	"baredcrawl/internal/jsoncache"
	"baredcrawl/internal/scrapers/dytt"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var dyttFlags struct {
	pages    int
	delay    float64
	timeout  float64
	output   string
	cfBypass bool
}

func init() {
	defaults := DefaultConfig().Dytt

	dyttCmd.Flags().IntVar(&dyttFlags.pages, "pages", defaults.Pages, "Number of listing pages to walk, starting from page 1.")
	dyttCmd.Flags().Float64Var(&dyttFlags.delay, "delay", defaults.DelaySeconds, "Seconds to wait between pages.")
	dyttCmd.Flags().Float64Var(&dyttFlags.timeout, "timeout", defaults.TimeoutSeconds, "Per request timeout in seconds.")
	dyttCmd.Flags().StringVar(&dyttFlags.output, "output", defaults.Output, "The JSON file page results are appended to.")
	dyttCmd.Flags().BoolVar(&dyttFlags.cfBypass, "cf-bypass", defaults.CloudflareBypass, "Wrap the transport to get past cloudflare's browser check.")

	rootCmd.AddCommand(dyttCmd)
}

var dyttCmd = &cobra.Command{
	Use:   "dytt [--pages <n>] [--delay <seconds>] [--output <path/to/cache.json>]",
	Short: "Walks the dytt8 latest movie listing and records the movie links of each page.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := &cfg.Dytt
		overrideInt(cmd, "pages", dyttFlags.pages, &c.Pages)
		overrideFloat(cmd, "delay", dyttFlags.delay, &c.DelaySeconds)
		overrideFloat(cmd, "timeout", dyttFlags.timeout, &c.TimeoutSeconds)
		overrideString(cmd, "output", dyttFlags.output, &c.Output)
		overrideBool(cmd, "cf-bypass", dyttFlags.cfBypass, &c.CloudflareBypass)

		cache, err := jsoncache.New[dytt.PageResult](c.Output, tel)
		if err != nil {
			return err
		}
		client := dytt.NewClient(dytt.ClientOptions{
			ListUrl:          c.ListUrl,
			Timeout:          seconds(c.TimeoutSeconds),
			CloudflareBypass: c.CloudflareBypass,
		}, clock, tel)

		slog.Info("starting crawl", "pages", c.Pages, "delay_seconds", c.DelaySeconds)

		start := time.Now()
		stats, err := dytt.NewCrawler(client, seconds(c.DelaySeconds), tel).
			Run(cmd.Context(), c.Pages, cache)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("crawl stopped after %d pages: %w", stats.Pages, err)
		}

		slog.Info(
			"crawl finished",
			"pages", stats.Pages,
			"succeeded", stats.Success,
			"failed", stats.Failed,
			"movies", stats.Movies,
			"seconds", fmt.Sprintf("%.2f", time.Since(start).Seconds()),
			"cache", cache.Path(),
		)
		return nil
	},
}
