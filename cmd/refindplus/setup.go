package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Norber-Developer/RefindPlus/internal/config"
	"github.com/Norber-Developer/RefindPlus/internal/db"
	"github.com/Norber-Developer/RefindPlus/internal/efivar"
	"github.com/Norber-Developer/RefindPlus/internal/icons"
	"github.com/Norber-Developer/RefindPlus/internal/log"
	"github.com/Norber-Developer/RefindPlus/internal/report"
	"github.com/Norber-Developer/RefindPlus/internal/scan"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

func mustConfig() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func mustDB(cfg *config.Config) *db.DB {
	store, err := db.New(cfg.StateDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening state database: %v\n", err)
		os.Exit(1)
	}
	return store
}

// mustVolumes lists the configured volumes. The returned func releases
// whatever the lister keeps open for them.
func mustVolumes(cfg *config.Config) ([]*volume.Volume, func()) {
	lister, err := volume.NewLister(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	vols, err := lister.List()
	if err != nil {
		closeLister(lister)
		fmt.Fprintf(os.Stderr, "Error enumerating volumes: %v\n", err)
		os.Exit(1)
	}
	return vols, func() { closeLister(lister) }
}

func closeLister(l volume.Lister) {
	c, ok := l.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.Warnf("could not release volumes: %v", err)
	}
}

// newEngine wires the host collaborators into a scan engine. Legacy and
// network discovery have no host-side implementation and stay unset.
func newEngine(cfg *config.Config, store *db.DB) (*scan.Engine, func()) {
	opts := []scan.Option{
		scan.WithState(store),
		scan.WithFirmware(efivar.NewStore(cfg.EfivarsDir)),
	}
	if cfg.IconsDir != "" {
		opts = append(opts, scan.WithIcons(icons.NewDir(cfg.IconsDir)))
	}
	vols, release := mustVolumes(cfg)
	return scan.NewEngine(cfg, vols, opts...), release
}

// writeJSON prints v to stdout, reporting a failed write on stderr.
func writeJSON(stdout, stderr io.Writer, v any) bool {
	if err := report.PrintJSON(stdout, v); err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return false
	}
	return true
}

func mustPrintJSON(v any) {
	if !writeJSON(os.Stdout, os.Stderr, v) {
		os.Exit(1)
	}
}

func checkOutput(format string) {
	if format != "json" && format != "table" {
		fmt.Fprintf(os.Stderr, "Error: unknown output format %q (want json or table)\n", format)
		os.Exit(1)
	}
}
