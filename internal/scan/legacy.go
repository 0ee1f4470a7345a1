package scan

import (
	"unicode"

	"github.com/Norber-Developer/RefindPlus/internal/log"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

// scanLegacy asks the legacy scanner for BIOS-mode targets on volumes of
// kind.
func (c *ScanContext) scanLegacy(kind volume.Kind) []Entry {
	if !c.cfg.LegacyMode {
		return nil
	}
	if c.legacy == nil {
		log.Debugf("legacy %s scan: no scanner configured", kind)
		return nil
	}
	records, err := c.legacy.ScanLegacy(kind)
	if err != nil {
		c.warnf("legacy %s scan: %w", kind, err)
		return nil
	}

	var out []Entry
	for _, rec := range records {
		if isIn(rec.Name, c.hiddenLegacy) {
			continue
		}
		if rec.Volume != nil && c.policy.VolumeExcluded(rec.Volume) {
			continue
		}
		osType := rec.OSType
		if osType == "" {
			osType = OSUnknown
		}
		e := &LegacyEntry{
			EntryInfo: EntryInfo{
				Title:  loaderTitle(rec.Name, rec.Volume),
				OSType: osType,
				Row:    RowPrimary,
			},
			Record: rec,
		}
		e.Hints = mergeWords(nil, rec.Name)
		e.Hints = mergeHint(e.Hints, "legacy")
		e.ShortcutLetter = unicode.ToUpper(firstRune(e.Hints[0]))
		e.Icon = c.resolveIcon(nil, "", e.Hints)
		out = append(out, e)
	}
	return out
}
