package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Norber-Developer/RefindPlus/internal/log"
	"github.com/Norber-Developer/RefindPlus/internal/version"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:     "refindplus",
	Short:   "Boot entry discovery for RefindPlus",
	Version: version.Version,
	Long: `refindplus runs the RefindPlus boot entry discovery engine against the
volumes of the running system, a set of mounted directories or raw disk
images, and prints the boot menu it would build.

It also manages the persisted hidden-tag variables that suppress entries
from future scans.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetLogger(log.New(os.Stderr, debug))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/refindplus/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(volumesCmd)
	rootCmd.AddCommand(firmwareCmd)
	rootCmd.AddCommand(hiddenCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
