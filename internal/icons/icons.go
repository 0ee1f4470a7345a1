// Package icons picks menu icons for boot entries.
package icons

import (
	"io/fs"
	"os"
	"strings"

	"github.com/Norber-Developer/RefindPlus/internal/cache"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

// Unknown is the icon used when nothing better is found.
const Unknown = "os_unknown.png"

var customExts = []string{".png", ".icns"}

// Resolver looks icons up in an icon set. The zero value has no icon set
// and resolves every hint list to Unknown.
type Resolver struct {
	set   fs.FS
	cache *cache.Cache[string]
}

// New returns a resolver over the icon set in set, which may be nil.
func New(set fs.FS) *Resolver {
	return &Resolver{set: set, cache: cache.New[string]()}
}

// NewDir returns a resolver over an icon directory. An empty dir gives a
// resolver without an icon set.
func NewDir(dir string) *Resolver {
	if dir == "" {
		return New(nil)
	}
	return New(os.DirFS(dir))
}

// Resolve returns a custom icon stored next to the loader when there is
// one, otherwise the first os_<hint>.png in the icon set. Custom icons are
// returned as "volume:\path".
func (r *Resolver) Resolve(v *volume.Volume, loaderPath string, hints []string) string {
	if v != nil && loaderPath != "" {
		if icon := customIcon(v, loaderPath); icon != "" {
			return icon
		}
	}

	key := strings.ToLower(strings.Join(hints, ","))
	if r.cache != nil {
		if icon, ok := r.cache.Get(key); ok {
			return icon
		}
	}
	icon := r.byHints(hints)
	if r.cache != nil {
		r.cache.SetStatic(key, icon)
	}
	return icon
}

func customIcon(v *volume.Volume, loaderPath string) string {
	dir := volume.DirOf(loaderPath)
	stem := volume.StripExt(volume.Basename(loaderPath))
	for _, ext := range customExts {
		p := volume.JoinPath(dir, stem+ext)
		if v.FileExists(p) {
			return v.Describe() + ":" + volume.Display(p)
		}
	}
	return ""
}

func (r *Resolver) byHints(hints []string) string {
	if r.set == nil {
		return Unknown
	}
	for _, h := range hints {
		name := "os_" + strings.ToLower(h) + ".png"
		if _, err := fs.Stat(r.set, name); err == nil {
			return name
		}
	}
	return Unknown
}
