package scan

import (
	"strings"

	"github.com/Norber-Developer/RefindPlus/internal/config"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

// Exclusions is the parsed form of the dont_scan_* settings.
type Exclusions struct {
	Volumes  []string
	Dirs     []string
	Files    []string
	Tools    []string
	Firmware []string
}

// ExclusionsFromConfig parses the configured lists.
func ExclusionsFromConfig(cfg *config.Config) Exclusions {
	return Exclusions{
		Volumes:  SplitList(cfg.DontScanVolumes),
		Dirs:     SplitList(cfg.DontScanDirs),
		Files:    SplitList(cfg.DontScanFiles),
		Tools:    SplitList(cfg.DontScanTools),
		Firmware: SplitList(cfg.DontScanFirmware),
	}
}

// WithHidden returns a copy with persisted hidden identifiers merged in.
// Hidden tags extend both the file and volume lists; hidden tools extend
// the tool list. The receiver is left untouched.
func (e Exclusions) WithHidden(tags, tools []string) Exclusions {
	out := Exclusions{
		Volumes:  append([]string(nil), e.Volumes...),
		Dirs:     append([]string(nil), e.Dirs...),
		Files:    append([]string(nil), e.Files...),
		Tools:    append([]string(nil), e.Tools...),
		Firmware: append([]string(nil), e.Firmware...),
	}
	for _, t := range tags {
		if !isIn(t, out.Files) {
			out.Files = append(out.Files, t)
		}
		if !isIn(t, out.Volumes) {
			out.Volumes = append(out.Volumes, t)
		}
	}
	for _, t := range tools {
		if !isIn(t, out.Tools) {
			out.Tools = append(out.Tools, t)
		}
	}
	return out
}

// Self locates the boot manager's own directory.
type Self struct {
	Volume *volume.Volume
	Dir    string
}

// Policy decides which directories and files a pass may look at.
type Policy struct {
	Exclusions
	Self Self
	// SyncAPFS exempts PreBoot volumes from volume-level exclusion.
	SyncAPFS bool
}

// VolumeExcluded reports whether the volume is named in the volume list.
func (p *Policy) VolumeExcluded(v *volume.Volume) bool {
	if p.SyncAPFS && v.IsPreBoot() {
		return false
	}
	for _, name := range []string{v.Name, v.FSName, v.PartName, v.GUIDString()} {
		if isIn(name, p.Volumes) {
			return true
		}
	}
	return false
}

// ShouldScan reports whether dir on v may be searched for loaders. dir may
// carry a "volume:" prefix, in which case a different volume never matches.
func (p *Policy) ShouldScan(v *volume.Volume, dir string) bool {
	if vol, rest := volume.SplitVolumeAndFilename(dir); vol != "" {
		if !v.MatchesDescription(vol) {
			return false
		}
		dir = rest
	}
	dir = volume.CleanPath(dir)

	if p.isSelfDir(v, dir) {
		return false
	}
	if p.VolumeExcluded(v) {
		return false
	}
	for _, elem := range p.Dirs {
		vol, d := volume.SplitVolumeAndFilename(elem)
		if vol != "" && !v.MatchesDescription(vol) {
			continue
		}
		if strings.EqualFold(volume.CleanPath(d), dir) {
			return false
		}
	}
	return true
}

func (p *Policy) isSelfDir(v *volume.Volume, dir string) bool {
	return p.Self.Volume != nil && p.Self.Volume == v &&
		p.Self.Dir != "" && strings.EqualFold(volume.CleanPath(p.Self.Dir), dir)
}

// IsExcludedFile reports whether file in dir on v is named by list. Each
// element is "[volume:][dir\]file"; the parts present must all match.
func (p *Policy) IsExcludedFile(v *volume.Volume, dir, file string, list []string) bool {
	return filenameIn(v, dir, file, list)
}

func filenameIn(v *volume.Volume, dir, file string, list []string) bool {
	dir = volume.CleanPath(dir)
	for _, elem := range list {
		t := volume.SplitPathName(elem)
		if t.File == "" {
			continue
		}
		if t.Volume != "" && (v == nil || !v.MatchesDescription(t.Volume)) {
			continue
		}
		if t.HasDir && !strings.EqualFold(t.Dir, dir) {
			continue
		}
		if strings.EqualFold(t.File, file) {
			return true
		}
	}
	return false
}
