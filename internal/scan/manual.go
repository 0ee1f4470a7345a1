package scan

import (
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

// scanManual emits the user-declared menu entries. Hidden tags do not
// apply to them.
func (c *ScanContext) scanManual() []Entry {
	var out []Entry
	for _, m := range c.cfg.Manual {
		if m.Disabled {
			continue
		}
		v := c.policy.Self.Volume
		if m.Volume != "" {
			found, _, err := c.index.Lookup(m.Volume)
			if err != nil {
				c.warnf("menu entry %q: volume %q: %w", m.Title, m.Volume, err)
				continue
			}
			v = found
		}
		if v == nil {
			c.warnf("menu entry %q: no volume", m.Title)
			continue
		}
		path := volume.CleanPath(m.Loader)
		if !v.FileExists(path) {
			c.warnf("menu entry %q: loader %s not found on %s", m.Title, volume.Display(path), v.Describe())
			continue
		}

		osType := ParseOSType(m.OSType)
		cl := c.Classify(path, v)
		if osType == OSUnknown {
			osType = cl.OSType
		}
		initrd := volume.CleanPath(m.Initrd)
		e := &LoaderEntry{
			EntryInfo: EntryInfo{
				Title:          "Boot " + m.Title,
				OSType:         osType,
				Hints:          cl.Hints,
				Row:            RowPrimary,
				ShortcutLetter: cl.Letter,
			},
			Volume:      v,
			Path:        path,
			Options:     addInitrd(m.Options, initrd),
			Initrd:      initrd,
			LoaderTitle: m.Title,
			Manual:      true,
		}
		if fi, err := v.Stat(path); err == nil {
			e.ModTime = fi.ModTime()
		}
		e.Icon = m.Icon
		if e.Icon == "" {
			e.Icon = c.resolveIcon(v, path, cl.Hints)
		}
		e.SubEntries = []*SubEntry{e.sub(defaultSubTitle, e.Options)}
		out = append(out, e)
	}
	return out
}
