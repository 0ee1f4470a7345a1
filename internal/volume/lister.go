package volume

import (
	"fmt"
	"os"

	"github.com/Norber-Developer/RefindPlus/internal/config"
)

// Lister enumerates volumes in scan order. Listers that keep devices open
// for the volumes they return also implement io.Closer.
type Lister interface {
	List() ([]*Volume, error)
}

// NewLister picks the lister for the configured discovery mode.
func NewLister(cfg *config.Config) (Lister, error) {
	switch cfg.Discovery {
	case "static":
		return &StaticLister{Specs: cfg.Volumes}, nil
	case "image":
		return &ImageLister{Specs: cfg.Images}, nil
	case "auto", "":
		return &LsblkLister{}, nil
	}
	return nil, fmt.Errorf("unknown discovery mode %q", cfg.Discovery)
}

// StaticLister serves volumes declared in the config file, each backed by
// a mounted directory.
type StaticLister struct {
	Specs []config.VolumeSpec
}

// List returns one volume per spec. A spec whose directory is missing is
// returned unreadable rather than dropped, so ordering stays stable.
func (s *StaticLister) List() ([]*Volume, error) {
	vols := make([]*Volume, 0, len(s.Specs))
	for _, spec := range s.Specs {
		kind, err := ParseKind(spec.Kind)
		if err != nil {
			return nil, fmt.Errorf("volume %q: %w", spec.Name, err)
		}
		v := &Volume{
			Name:     spec.Name,
			FSName:   spec.FSName,
			PartName: spec.PartName,
			Kind:     kind,
			Device:   spec.Path,
		}
		if spec.GUID != "" {
			id, ok := ParseGUID(spec.GUID)
			if !ok {
				return nil, fmt.Errorf("volume %q: invalid guid %q", spec.Name, spec.GUID)
			}
			v.PartGUID = id
		}
		if fi, err := os.Stat(spec.Path); err == nil && fi.IsDir() {
			v.Root = os.DirFS(spec.Path)
			v.Readable = true
		}
		vols = append(vols, v)
	}
	return vols, nil
}
