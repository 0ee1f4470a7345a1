package scan

import (
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/Norber-Developer/RefindPlus/internal/log"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

// Source letters accepted in scan_for.
const (
	SourceManual         = 'm'
	SourceInternal       = 'i'
	SourceExternal       = 'e'
	SourceOptical        = 'o'
	SourceNetwork        = 'n'
	SourceLegacyInternal = 'h'
	SourceLegacyExternal = 'b'
	SourceLegacyOptical  = 'c'
	SourceFirmware       = 'f'
)

var shortcutDigits = []rune("1234567890")

// Result is the outcome of one full scan.
type Result struct {
	Entries   []Entry
	Warnings  []error
	Sources   string
	StartedAt time.Time
	Duration  time.Duration
}

// Empty reports whether the scan found nothing to boot.
func (r *Result) Empty() bool { return len(r.Entries) == 0 }

// Err combines the warnings into one error, or nil.
func (r *Result) Err() error { return multierr.Combine(r.Warnings...) }

// RunFullScan scans every source named in sources, in order, then the
// tools, and returns a fresh entry list. An empty sources string uses the
// configured scan_for.
func (e *Engine) RunFullScan(sources string) *Result {
	if sources == "" {
		sources = e.cfg.ScanFor
	}
	res := &Result{Sources: sources, StartedAt: time.Now()}

	c := e.newScanContext()
	for _, src := range strings.ToLower(sources) {
		res.Entries = append(res.Entries, c.scanSource(src)...)
	}
	res.Entries = append(res.Entries, c.scanTools()...)
	assignDigits(res.Entries)

	res.Warnings = c.warnings
	res.Duration = time.Since(res.StartedAt)
	if res.Empty() {
		log.Warn("no boot options found")
	} else {
		log.Debugf("scan %q found %d entries in %s", sources, len(res.Entries), res.Duration)
	}
	return res
}

func (c *ScanContext) scanSource(src rune) []Entry {
	switch src {
	case SourceManual:
		return c.scanManual()
	case SourceInternal:
		return c.scanVolumes(volume.KindInternal)
	case SourceExternal:
		return c.scanVolumes(volume.KindExternal)
	case SourceOptical:
		return c.scanVolumes(volume.KindOptical)
	case SourceNetwork:
		return c.scanNetwork()
	case SourceLegacyInternal:
		return c.scanLegacy(volume.KindInternal)
	case SourceLegacyExternal:
		return c.scanLegacy(volume.KindExternal)
	case SourceLegacyOptical:
		return c.scanLegacy(volume.KindOptical)
	case SourceFirmware:
		var out []Entry
		for _, fe := range c.ScanFirmwareDefined(RowPrimary, "", "") {
			out = append(out, fe)
		}
		return out
	}
	log.Debugf("ignoring unknown scan source %q", src)
	return nil
}

// assignDigits gives the first ten primary-row entries the keys 1-9, 0.
func assignDigits(entries []Entry) {
	n := 0
	for _, e := range entries {
		info := e.Info()
		if info.Row != RowPrimary {
			continue
		}
		if n < len(shortcutDigits) {
			info.ShortcutDigit = shortcutDigits[n]
		}
		n++
	}
}
