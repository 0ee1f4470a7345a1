package scan

import (
	"strings"
	"time"

	"github.com/Norber-Developer/RefindPlus/internal/log"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

const (
	bootmgfw        = `EFI\Microsoft\Boot\bootmgfw.efi`
	bkpbootmgfw     = `EFI\Microsoft\Boot\bkpbootmgfw.efi`
	cloakedPrefix   = "Cloaked_SkipThis_"
	fallbackTitle   = "Fallback Boot Loader"
	refindConfigDir = `EFI\refind`
)

// scanVolumes runs the per-volume loader scan on every volume of kind.
func (c *ScanContext) scanVolumes(kind volume.Kind) []Entry {
	var out []Entry
	for _, v := range c.volumes {
		if v.Kind != kind {
			continue
		}
		for _, e := range c.scanEfiFiles(v) {
			out = append(out, e)
		}
	}
	return out
}

func (c *ScanContext) skipVolume(v *volume.Volume) bool {
	switch {
	case !v.Readable || v.Root == nil:
		log.Debugf("skipping unreadable volume %s", v.Describe())
		return true
	case v.Name == "" && v.FSName == "" && v.PartName == "" && !v.HasGUID():
		log.Debugf("skipping unnamed volume on %s", v.Device)
		return true
	case c.policy.SyncAPFS && strings.HasPrefix(v.Name, cloakedPrefix):
		log.Debugf("skipping cloaked volume %s", v.Name)
		return true
	}
	return false
}

// scanEfiFiles finds the loaders on one volume: well-known loaders first,
// then the root, the EFI subdirectories, the extra directories and
// finally the fallback loader.
func (c *ScanContext) scanEfiFiles(v *volume.Volume) []*LoaderEntry {
	if c.skipVolume(v) {
		return nil
	}

	var (
		out       []*LoaderEntry
		duplicate bool
	)
	add := func(path, title string) {
		if !c.specialLoaderAllowed(v, path) {
			return
		}
		out = append(out, c.newLoaderEntry(v, path, title, time.Time{}))
		if IsDuplicateOfFallback(v, path, c.arch.fallback) {
			duplicate = true
		}
	}
	scanDir := func(dir string) {
		entries, dup := c.ScanDirectory(v, dir, c.namePatterns())
		out = append(out, entries...)
		duplicate = duplicate || dup
	}

	// macOS
	if v.FileExists(refindConfigDir+`\config.conf`) || v.FileExists(refindConfigDir+`\refind.conf`) {
		add(macOSLoader, "RefindPlus")
	} else {
		add(macOSLoader, macOSTitle(v, ""))
	}
	for _, dir := range c.guidDirs(v) {
		add(volume.JoinPath(dir, macOSLoader), macOSTitle(v, dir))
	}

	add(xomLoader, "Windows XP (XoM)")

	// Microsoft
	hasBackup := v.FileExists(bkpbootmgfw)
	add(bkpbootmgfw, "Windows (UEFI - Boot Repair Backup)")
	if hasBackup {
		add(bootmgfw, "Assumed Windows (UEFI - Probably GRUB)")
	} else {
		add(bootmgfw, "Windows (UEFI)")
	}

	scanned := []string{""}
	scanDir("")

	if entries, err := v.ReadDir("EFI"); err == nil {
		for _, ent := range entries {
			name := ent.Name()
			if !ent.IsDir() || strings.HasPrefix(name, ".") || strings.EqualFold(name, "tools") {
				continue
			}
			dir := volume.JoinPath("EFI", name)
			scanned = append(scanned, dir)
			scanDir(dir)
		}
	} else if !volume.IsNotExist(err) {
		c.warnf("while scanning the '%s' directory on '%s': %w", `\EFI`, v.Describe(), err)
	}

	for _, elem := range SplitList(c.cfg.AlsoScanDirs) {
		vol, dir := volume.SplitVolumeAndFilename(elem)
		if vol != "" && !v.MatchesDescription(vol) {
			continue
		}
		dir = volume.CleanPath(dir)
		if isIn(dir, scanned) || dir == "" {
			continue
		}
		if fi, err := v.Stat(dir); err != nil || !fi.IsDir() {
			continue
		}
		scanned = append(scanned, dir)
		scanDir(dir)
	}

	if !duplicate && !c.selfDuplicatesFallback(v) {
		add(c.arch.fallback, fallbackTitle)
	}
	return out
}

// selfDuplicatesFallback reports whether one of the boot manager's own
// loaders is a copy of the fallback loader on v. The self directory is
// never walked, so this is checked separately.
func (c *ScanContext) selfDuplicatesFallback(v *volume.Volume) bool {
	self := c.policy.Self
	if self.Volume != v || self.Dir == "" {
		return false
	}
	entries, err := v.ReadDir(self.Dir)
	if err != nil {
		return false
	}
	for _, ent := range entries {
		if ent.IsDir() || volume.Ext(ent.Name()) != ".efi" {
			continue
		}
		if IsDuplicateOfFallback(v, volume.JoinPath(self.Dir, ent.Name()), c.arch.fallback) {
			log.Debugf("fallback loader on %s is a copy of %s", v.Describe(), volume.Display(self.Dir))
			return true
		}
	}
	return false
}

// specialLoaderAllowed applies the directory, file and validity checks to
// a loader found by name rather than by directory walk.
func (c *ScanContext) specialLoaderAllowed(v *volume.Volume, path string) bool {
	dir, file := volume.DirOf(path), volume.Basename(path)
	return v.FileExists(path) &&
		c.policy.ShouldScan(v, dir) &&
		!c.policy.IsExcludedFile(v, dir, file, c.policy.Files) &&
		c.validator.IsValidLoader(v, path)
}

// guidDirs returns root directories named by a GUID, as APFS uses for
// per-volume boot files.
func (c *ScanContext) guidDirs(v *volume.Volume) []string {
	entries, err := v.ReadDir("")
	if err != nil {
		return nil
	}
	var dirs []string
	for _, ent := range entries {
		if _, ok := volume.ParseGUID(ent.Name()); ok && ent.IsDir() {
			dirs = append(dirs, ent.Name())
		}
	}
	return dirs
}
