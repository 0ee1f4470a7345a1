package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Norber-Developer/RefindPlus/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent scan passes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		outputFmt, _ := cmd.Flags().GetString("output")
		checkOutput(outputFmt)

		store := mustDB(mustConfig())
		defer store.Close()

		runs, err := store.RecentScans(limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading scan history: %v\n", err)
			os.Exit(1)
		}
		if outputFmt == "json" {
			mustPrintJSON(runs)
			return
		}
		report.New(os.Stdout).History(runs)
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "number of passes to show")
	historyCmd.Flags().StringP("output", "o", "table", "Output format: json, table")
}
