package commands

import (
	"baredcrawl/internal/jsoncache"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	cacheCmd.AddCommand(cacheShowCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspects the JSON files crawls append to.",
}

// cacheEntry holds the fields every crawl record shares.
type cacheEntry struct {
	Timestamp string  `json:"timestamp"`
	Success   bool    `json:"success"`
	Error     *string `json:"error"`
}

func renderCache(entries []cacheEntry) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Timestamp", "Success", "Error"})

	succeeded := 0
	for i, e := range entries {
		errText := ""
		if e.Error != nil {
			errText = *e.Error
		}
		if e.Success {
			succeeded++
		}
		t.AppendRow(table.Row{i + 1, e.Timestamp, e.Success, errText})
	}
	t.AppendFooter(table.Row{"", "Total", fmt.Sprintf("%d/%d", succeeded, len(entries)), ""})
	t.SetStyle(table.StyleRounded)
	return t
}

var cacheShowCmd = &cobra.Command{
	Use:   "show <path/to/cache.json>",
	Short: "Prints the entries of a cache file as a table.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(args[0]); err != nil {
			return err
		}
		cache, err := jsoncache.New[cacheEntry](args[0], tel)
		if err != nil {
			return err
		}
		entries, err := cache.Load()
		if err != nil {
			return err
		}

		t := renderCache(entries)
		t.SetOutputMirror(cmd.OutOrStdout())
		t.Render()
		return nil
	},
}
