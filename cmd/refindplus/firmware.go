package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Norber-Developer/RefindPlus/internal/efivar"
	"github.com/Norber-Developer/RefindPlus/internal/report"
)

var firmwareCmd = &cobra.Command{
	Use:   "firmware",
	Short: "List firmware boot options in BootOrder",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		outputFmt, _ := cmd.Flags().GetString("output")
		checkOutput(outputFmt)

		cfg := mustConfig()
		opts, err := efivar.NewStore(cfg.EfivarsDir).BootEntries()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading firmware boot options: %v\n", err)
			os.Exit(1)
		}
		if outputFmt == "json" {
			mustPrintJSON(report.Firmware(opts))
			return
		}
		report.New(os.Stdout).Firmware(opts)
	},
}

func init() {
	firmwareCmd.Flags().StringP("output", "o", "table", "Output format: json, table")
}
