package scan

import (
	"github.com/Norber-Developer/RefindPlus/internal/log"
)

// ScanFirmwareDefined turns the firmware boot options into entries on row.
// With a label filter, only options whose label contains one of the
// comma-delimited filter strings are kept. Options named in the firmware
// exclusion list or hidden by the user are always dropped, and so are
// shell options when filling the primary row. An empty icon lets the
// resolver choose.
func (c *ScanContext) ScanFirmwareDefined(row Row, labelFilter, icon string) []*FirmwareEntry {
	if c.firmware == nil {
		return nil
	}
	records, err := c.firmware.BootEntries()
	if err != nil {
		c.warnf("reading firmware boot options: %w", err)
		return nil
	}

	excluded := append(append([]string(nil), c.policy.Firmware...), c.hiddenFirmware...)
	if row == RowPrimary {
		excluded = append(excluded, "shell")
	}
	filter := SplitList(labelFilter)

	var out []*FirmwareEntry
	for _, rec := range records {
		if rec.Label == "" {
			continue
		}
		if len(filter) > 0 && !isInSubstring(rec.Label, filter) {
			continue
		}
		if isInSubstring(rec.Label, excluded) {
			log.Debugf("skipping firmware option %q", rec.Label)
			continue
		}

		e := &FirmwareEntry{
			EntryInfo: EntryInfo{
				Title:  "Reboot to " + rec.Label,
				OSType: OSFirmware,
				Row:    row,
			},
			Record: rec,
		}
		e.Hints = mergeWords(nil, rec.Label)
		e.Hints = mergeHint(e.Hints, "unknown")
		e.Icon = icon
		if e.Icon == "" {
			e.Icon = c.resolveIcon(nil, "", e.Hints)
		}
		out = append(out, e)
	}
	return out
}
