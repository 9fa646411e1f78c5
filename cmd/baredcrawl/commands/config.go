package commands

import (
	"baredcrawl/internal/scrapers/dytt"
	"baredcrawl/internal/scrapers/sgcc"
	"time"

	"github.com/spf13/cobra"
)

type SgccConfig struct {
	BaseUrl        string  `json:"base_url"`
	Count          int     `json:"count"`
	DelaySeconds   float64 `json:"delay_seconds"`
	TimeoutSeconds float64 `json:"timeout_seconds"`
	Output         string  `json:"output"`
	// Cron, when set, repeats the whole batch on this schedule until interrupted.
	Cron string `json:"cron"`
}

type DyttConfig struct {
	ListUrl          string  `json:"list_url"`
	Pages            int     `json:"pages"`
	DelaySeconds     float64 `json:"delay_seconds"`
	TimeoutSeconds   float64 `json:"timeout_seconds"`
	Output           string  `json:"output"`
	CloudflareBypass bool    `json:"cloudflare_bypass"`
}

type Config struct {
	// Timezone is the IANA zone record timestamps are written in, empty is
	// the machine's local zone.
	Timezone string     `json:"timezone"`
	Sgcc     SgccConfig `json:"sgcc"`
	Dytt     DyttConfig `json:"dytt"`
}

func DefaultConfig() Config {
	return Config{
		Sgcc: SgccConfig{
			BaseUrl:        sgcc.DefaultBaseUrl,
			Count:          sgcc.DefaultCount,
			DelaySeconds:   sgcc.DefaultDelay.Seconds(),
			TimeoutSeconds: sgcc.DefaultTimeout.Seconds(),
			Output:         "cache/sgcc_he_publicKey.json",
		},
		Dytt: DyttConfig{
			ListUrl:        dytt.DefaultListUrl,
			Pages:          dytt.DefaultPages,
			DelaySeconds:   dytt.DefaultDelay.Seconds(),
			TimeoutSeconds: dytt.DefaultTimeout.Seconds(),
			Output:         "cache/dytt_movie.json",
		},
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// flag values win over the config file only when they were set explicitly.
func overrideInt(cmd *cobra.Command, name string, flag int, target *int) {
	if cmd.Flags().Changed(name) {
		*target = flag
	}
}

func overrideFloat(cmd *cobra.Command, name string, flag float64, target *float64) {
	if cmd.Flags().Changed(name) {
		*target = flag
	}
}

func overrideString(cmd *cobra.Command, name string, flag string, target *string) {
	if cmd.Flags().Changed(name) {
		*target = flag
	}
}

func overrideBool(cmd *cobra.Command, name string, flag bool, target *bool) {
	if cmd.Flags().Changed(name) {
		*target = flag
	}
}
