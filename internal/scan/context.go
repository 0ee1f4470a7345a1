package scan

import (
	"fmt"

	"github.com/Norber-Developer/RefindPlus/internal/db"
	"github.com/Norber-Developer/RefindPlus/internal/log"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

// ScanContext is the state of one scan pass. The exclusion overlay lives
// here and is dropped with the context; the engine's configuration is
// only ever read.
type ScanContext struct {
	*Engine
	policy Policy
	arch   archInfo

	hiddenTags     []string
	hiddenTools    []string
	hiddenLegacy   []string
	hiddenFirmware []string

	warnings []error
}

func (e *Engine) newScanContext() *ScanContext {
	c := &ScanContext{
		Engine: e,
		arch:   archFor(e.cfg.Arch),
	}
	if e.cfg.Prune() {
		for _, name := range []string{db.VarHiddenTags, db.VarHiddenTools} {
			if _, err := PruneHidden(e.state, e.index, name); err != nil {
				c.warnf("pruning %s: %w", name, err)
			}
		}
	}
	c.hiddenTags = c.readHidden(db.VarHiddenTags)
	c.hiddenTools = c.readHidden(db.VarHiddenTools)
	c.hiddenLegacy = c.readHidden(db.VarHiddenLegacy)
	c.hiddenFirmware = c.readHidden(db.VarHiddenFirmware)

	c.policy = Policy{
		Exclusions: ExclusionsFromConfig(e.cfg).WithHidden(c.hiddenTags, c.hiddenTools),
		Self: Self{
			Volume: e.SelfVolume(),
			Dir:    volume.CleanPath(e.cfg.Self.Dir),
		},
		SyncAPFS: e.cfg.SyncAPFS,
	}
	return c
}

func (c *ScanContext) readHidden(name string) []string {
	if c.state == nil {
		return nil
	}
	value, err := c.state.ReadVar(name)
	if err != nil {
		c.warnf("reading %s: %w", name, err)
		return nil
	}
	return SplitList(value)
}

func (c *ScanContext) anyHidden() bool {
	return len(c.hiddenTags)+len(c.hiddenTools)+len(c.hiddenLegacy)+len(c.hiddenFirmware) > 0
}

// warnf records a non-fatal problem and logs it.
func (c *ScanContext) warnf(format string, args ...any) {
	err := fmt.Errorf(format, args...)
	log.Warn(err)
	c.warnings = append(c.warnings, err)
}
