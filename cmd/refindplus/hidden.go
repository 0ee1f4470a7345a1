package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Norber-Developer/RefindPlus/internal/db"
	"github.com/Norber-Developer/RefindPlus/internal/report"
	"github.com/Norber-Developer/RefindPlus/internal/scan"
)

var hiddenCmd = &cobra.Command{
	Use:   "hidden",
	Short: "Manage hidden boot entries",
	Long: `Manage the persisted variables that hide entries from future scans.

Variables: HiddenTags (loaders), HiddenTools, HiddenLegacy, HiddenFirmware.
Loader and tool identifiers take the form <volume>:<path>, where the
volume is a partition GUID or a volume name.

Examples:
  refindplus hidden list
  refindplus hidden add 'ESP:\EFI\old\grubx64.efi'
  refindplus hidden hide "Boot shimx64.efi from ESP"
  refindplus hidden remove --var HiddenFirmware "UEFI Shell"
  refindplus hidden prune`,
}

var hiddenListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every hidden variable",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		outputFmt, _ := cmd.Flags().GetString("output")
		checkOutput(outputFmt)

		store := mustDB(mustConfig())
		defer store.Close()

		vars := make(map[string][]string, len(db.HiddenVars))
		for _, name := range db.HiddenVars {
			ids, err := scan.ReadHidden(store, name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", name, err)
				os.Exit(1)
			}
			vars[name] = ids
		}
		if outputFmt == "json" {
			mustPrintJSON(vars)
			return
		}
		report.New(os.Stdout).Hidden(vars)
	},
}

var hiddenAddCmd = &cobra.Command{
	Use:   "add <identifier>",
	Short: "Add an identifier to a hidden variable",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		varName := hiddenVarFlag(cmd)
		store := mustDB(mustConfig())
		defer store.Close()

		if err := scan.AddHidden(store, varName, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating %s: %v\n", varName, err)
			os.Exit(1)
		}
		fmt.Printf("%s: hid %s\n", varName, args[0])
	},
}

var hiddenHideCmd = &cobra.Command{
	Use:   "hide <title>",
	Short: "Scan, then hide the entry with the given title",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sources, _ := cmd.Flags().GetString("sources")
		cfg := mustConfig()
		store := mustDB(cfg)
		defer store.Close()

		engine, release := newEngine(cfg, store)
		defer release()

		res := engine.RunFullScan(sources)
		for _, e := range res.Entries {
			if !strings.EqualFold(e.Info().Title, args[0]) {
				continue
			}
			varName, id, err := scan.HideEntry(store, e)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error hiding %q: %v\n", args[0], err)
				os.Exit(1)
			}
			fmt.Printf("%s: hid %s\n", varName, id)
			return
		}
		fmt.Fprintf(os.Stderr, "Not found: %s\n", args[0])
		os.Exit(1)
	},
}

var hiddenRemoveCmd = &cobra.Command{
	Use:   "remove <identifier>",
	Short: "Remove an identifier from a hidden variable",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		varName := hiddenVarFlag(cmd)
		store := mustDB(mustConfig())
		defer store.Close()

		removed, err := scan.Unhide(store, varName, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error updating %s: %v\n", varName, err)
			os.Exit(1)
		}
		if !removed {
			fmt.Fprintf(os.Stderr, "Not found in %s: %s\n", varName, args[0])
			os.Exit(1)
		}
		fmt.Printf("%s: restored %s\n", varName, args[0])
	},
}

var hiddenPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop hidden loader and tool identifiers whose target is gone",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustConfig()
		store := mustDB(cfg)
		defer store.Close()

		engine, release := newEngine(cfg, store)
		defer release()

		idx := engine.Index()
		for _, name := range []string{db.VarHiddenTags, db.VarHiddenTools} {
			removed, err := scan.PruneHidden(store, idx, name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error pruning %s: %v\n", name, err)
				os.Exit(1)
			}
			for _, id := range removed {
				fmt.Printf("%s: pruned %s\n", name, id)
			}
		}
	},
}

// hiddenVarFlag returns the canonical spelling of the --var flag.
func hiddenVarFlag(cmd *cobra.Command) string {
	name, _ := cmd.Flags().GetString("var")
	for _, v := range db.HiddenVars {
		if strings.EqualFold(v, name) {
			return v
		}
	}
	fmt.Fprintf(os.Stderr, "Error: unknown hidden variable %q (want one of %s)\n", name, strings.Join(db.HiddenVars, ", "))
	os.Exit(1)
	return ""
}

func init() {
	hiddenListCmd.Flags().StringP("output", "o", "table", "Output format: json, table")
	hiddenAddCmd.Flags().String("var", db.VarHiddenTags, "hidden variable to update")
	hiddenRemoveCmd.Flags().String("var", db.VarHiddenTags, "hidden variable to update")
	hiddenHideCmd.Flags().StringP("sources", "s", "", "source letter codes (default from scan_for)")

	hiddenCmd.AddCommand(hiddenListCmd)
	hiddenCmd.AddCommand(hiddenAddCmd)
	hiddenCmd.AddCommand(hiddenHideCmd)
	hiddenCmd.AddCommand(hiddenRemoveCmd)
	hiddenCmd.AddCommand(hiddenPruneCmd)
}
