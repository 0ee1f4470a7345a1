package scan

import (
	"strings"
	"time"

	"github.com/Norber-Developer/RefindPlus/internal/log"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

// loaderTitle decorates a bare title with the volume name.
func loaderTitle(title string, v *volume.Volume) string {
	if v != nil && v.Name != "" && !strings.EqualFold(v.Name, "Recovery HD") {
		return "Boot " + title + " from " + v.Name
	}
	return "Boot " + title
}

// newLoaderEntry classifies the loader at path and builds its entry. An
// empty title uses the path.
func (c *ScanContext) newLoaderEntry(v *volume.Volume, path, title string, modTime time.Time) *LoaderEntry {
	path = volume.CleanPath(path)
	if title == "" {
		title = volume.Display(path)
	}
	if modTime.IsZero() {
		if fi, err := v.Stat(path); err == nil {
			modTime = fi.ModTime()
		}
	}

	cl := c.Classify(path, v)
	e := &LoaderEntry{
		EntryInfo: EntryInfo{
			Title:          loaderTitle(title, v),
			OSType:         cl.OSType,
			Hints:          cl.Hints,
			Row:            RowPrimary,
			ShortcutLetter: cl.Letter,
		},
		Volume:      v,
		Path:        path,
		ModTime:     modTime,
		Options:     cl.Options,
		Initrd:      cl.Initrd,
		LoaderTitle: title,
	}
	e.Icon = c.resolveIcon(v, path, cl.Hints)
	e.SubEntries = c.loaderVariants(e)
	log.Debugf("found %s on %s", volume.Display(path), v.Describe())
	return e
}

func (c *ScanContext) resolveIcon(v *volume.Volume, path string, hints []string) string {
	if c.icons == nil {
		return ""
	}
	return c.icons.Resolve(v, path, hints)
}

// FoldOrAppend adds raw to result, or, when folding is on and raw is a
// kernel following an earlier kernel of the same directory, to the sub-entries
// of that first kernel. It returns the updated result and first kernel.
func (c *ScanContext) FoldOrAppend(result []*LoaderEntry, raw rawCandidate, first *LoaderEntry) ([]*LoaderEntry, *LoaderEntry) {
	kernel := isKernelName(volume.Basename(raw.Path))
	if kernel && first != nil && c.cfg.Fold() {
		first.SubEntries = append(first.SubEntries, c.kernelVariants(raw.Volume, raw.Path)...)
		return result, first
	}

	e := c.newLoaderEntry(raw.Volume, raw.Path, "", raw.ModTime)
	result = append(result, e)
	if kernel && first == nil {
		first = e
	}
	return result, first
}
