package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Norber-Developer/RefindPlus/internal/report"
)

var volumesCmd = &cobra.Command{
	Use:   "volumes",
	Short: "List the volumes a scan would visit",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		outputFmt, _ := cmd.Flags().GetString("output")
		checkOutput(outputFmt)

		vols, release := mustVolumes(mustConfig())
		defer release()
		if outputFmt == "json" {
			mustPrintJSON(report.Volumes(vols))
			return
		}
		report.New(os.Stdout).Volumes(vols)
	},
}

func init() {
	volumesCmd.Flags().StringP("output", "o", "table", "Output format: json, table")
}
