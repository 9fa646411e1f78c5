package commands

import (
	"baredcrawl/internal/components/chrono"
	"baredcrawl/internal/components/telemetry"
	"baredcrawl/internal/configutil"
	"baredcrawl/internal/serviceutil"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	dumpHttp   string

	cfg      Config
	clock    chrono.API
	tel      telemetry.API = telemetry.SlogAPI{}
	exporter telemetry.Exporter
)

var rootCmd = &cobra.Command{
	Use:   "baredcrawl",
	Short: "baredcrawl is a set of small scrapers that log their results to local JSON files.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		serviceutil.InitSlog(cmd.ErrOrStderr(), verbose)

		var err error
		cfg, err = configutil.ReadWithDefaults(configPath, DefaultConfig())
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}

		clock, err = chrono.NewStandardImpl(cfg.Timezone)
		if err != nil {
			return fmt.Errorf("load timezone: %w", err)
		}

		exporter, err = telemetry.SetupFromEnv(cmd.Context(), "baredcrawl")
		if err != nil {
			slog.Warn("telemetry setup failed, continuing without export", "err", err)
		}
		if exporter.Enabled() {
			telemetry.InstrumentPerfStats(cmd.Context())
		}

		if dumpHttp != "" {
			out, err := telemetry.NewFilesystemOutput(dumpHttp)
			if err != nil {
				return fmt.Errorf("prepare http dump directory: %w", err)
			}
			telemetry.SetHttpDumpOutput(out)
			slog.Info("dumping http exchanges", "dir", dumpHttp)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		err := exporter.Shutdown(context.Background())
		if err != nil {
			slog.Warn("telemetry shutdown", "err", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output, including every request made.")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "baredcrawl.json5", "The config file, a <name>.local.<ext> next to it overrides it.")
	rootCmd.PersistentFlags().StringVar(&dumpHttp, "dump-http", "", "Write every request/response exchange to files in this directory (it is cleared first).")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
