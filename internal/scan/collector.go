package scan

import (
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/Norber-Developer/RefindPlus/internal/log"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

const (
	loaderPatterns = "*.efi"
	kernelPatterns = "vmlinuz*,bzImage*,kernel*"

	// Kernels carrying this marker sort after everything else in their
	// directory so they never become the default.
	rescueMarker = "vmlinuz-0-rescue"
)

// rawCandidate is a file that passed the directory filters but has not
// been classified yet.
type rawCandidate struct {
	Volume  *volume.Volume
	Path    string
	ModTime time.Time
	Rescue  bool
}

// matcher is a compiled comma-delimited glob set, matched case-insensitively.
type matcher []glob.Glob

func compilePatterns(patterns string) matcher {
	var m matcher
	for _, p := range SplitList(patterns) {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			log.Debugf("ignoring bad pattern %q: %v", p, err)
			continue
		}
		m = append(m, g)
	}
	return m
}

func (m matcher) Match(name string) bool {
	name = strings.ToLower(name)
	for _, g := range m {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (c *ScanContext) namePatterns() string {
	if c.cfg.ScanAllLinux() {
		return loaderPatterns + "," + kernelPatterns
	}
	return loaderPatterns
}

// collectDirectory lists the loader candidates in dir, newest first with
// rescue kernels last, and reports whether any of them duplicates the
// fallback loader. A missing directory is not an error.
func (c *ScanContext) collectDirectory(v *volume.Volume, dir, patterns string) ([]rawCandidate, bool, error) {
	dir = volume.CleanPath(dir)
	if !c.policy.ShouldScan(v, dir) {
		return nil, false, nil
	}

	entries, err := v.ReadDir(dir)
	if err != nil {
		if volume.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	match := compilePatterns(patterns)
	shells := c.arch.shellNames()
	var raws []rawCandidate
	for _, ent := range entries {
		if ent.IsDir() || !match.Match(ent.Name()) {
			continue
		}
		info, err := ent.Info()
		if err != nil {
			continue
		}
		if c.skipFile(v, dir, ent.Name(), info, shells) {
			continue
		}
		raws = append(raws, rawCandidate{
			Volume:  v,
			Path:    volume.JoinPath(dir, ent.Name()),
			ModTime: info.ModTime(),
			Rescue:  containsFold(ent.Name(), rescueMarker),
		})
	}

	sortCandidates(raws)

	duplicate := false
	for _, raw := range raws {
		if IsDuplicateOfFallback(v, raw.Path, c.arch.fallback) {
			duplicate = true
		}
	}
	return raws, duplicate, nil
}

func (c *ScanContext) skipFile(v *volume.Volume, dir, name string, info fs.FileInfo, shells []string) bool {
	full := volume.JoinPath(dir, name)
	switch {
	case strings.HasPrefix(name, "."):
		return true
	case volume.Ext(name) == ".icns" || volume.Ext(name) == ".png":
		return true
	case strings.EqualFold(dir, volume.DirOf(c.arch.fallback)) && strings.EqualFold(name, c.arch.fallbackBasename()):
		return true
	case filenameIn(v, dir, name, shells):
		return true
	case LooksLikeAliasOrLink(v, full, info.Size()):
		return true
	case v.FileExists(full + ".signed"):
		return true
	case c.policy.IsExcludedFile(v, dir, name, c.policy.Files):
		return true
	case !c.validator.IsValidLoader(v, full):
		return true
	}
	return false
}

// sortCandidates orders by descending modification time at one-second
// precision. Rescue kernels go last. Ties keep enumeration order.
func sortCandidates(raws []rawCandidate) {
	sort.SliceStable(raws, func(i, j int) bool {
		if raws[i].Rescue != raws[j].Rescue {
			return !raws[i].Rescue
		}
		return raws[i].ModTime.Truncate(time.Second).After(raws[j].ModTime.Truncate(time.Second))
	})
}

// ScanDirectory turns the candidates in dir into finished loader entries.
// The second result reports whether one of them duplicates the fallback.
func (c *ScanContext) ScanDirectory(v *volume.Volume, dir, patterns string) ([]*LoaderEntry, bool) {
	raws, duplicate, err := c.collectDirectory(v, dir, patterns)
	if err != nil {
		c.warnf("while scanning the '%s' directory on '%s': %w", volume.Display(dir), v.Describe(), err)
		return nil, false
	}

	var (
		out   []*LoaderEntry
		first *LoaderEntry
	)
	for _, raw := range raws {
		out, first = c.FoldOrAppend(out, raw, first)
	}
	return out, duplicate
}
