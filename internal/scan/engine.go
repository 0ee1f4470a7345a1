package scan

import (
	"github.com/Norber-Developer/RefindPlus/internal/config"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

// LoaderValidator decides whether a file is an executable loader.
type LoaderValidator interface {
	IsValidLoader(v *volume.Volume, path string) bool
}

// IconResolver picks an icon for an entry from its hints.
type IconResolver interface {
	Resolve(v *volume.Volume, loaderPath string, hints []string) string
}

// StateStore persists the hidden-identifier variables.
type StateStore interface {
	ReadVar(name string) (string, error)
	WriteVar(name, value string) error
}

// FirmwareReader exposes the firmware boot option list.
type FirmwareReader interface {
	BootEntries() ([]BootEntryRecord, error)
	BootToFirmwareSupported() bool
}

// LegacyScanner reports BIOS-mode boot targets on volumes of one kind.
type LegacyScanner interface {
	ScanLegacy(kind volume.Kind) ([]LegacyRecord, error)
}

// NetworkOffer is one boot image offered by a network boot server.
type NetworkOffer struct {
	Title    string
	BootInfo string
}

// NetworkDiscoverer runs the network discovery program and returns offers.
type NetworkDiscoverer interface {
	Discover(v *volume.Volume, program string) ([]NetworkOffer, error)
}

// Engine builds boot menus from a set of volumes and collaborators.
// It keeps no state between passes.
type Engine struct {
	cfg       *config.Config
	volumes   []*volume.Volume
	index     *volume.Index
	validator LoaderValidator
	icons     IconResolver
	state     StateStore
	firmware  FirmwareReader
	legacy    LegacyScanner
	network   NetworkDiscoverer
}

// Option configures an Engine.
type Option func(*Engine)

func WithValidator(v LoaderValidator) Option { return func(e *Engine) { e.validator = v } }
func WithIcons(r IconResolver) Option        { return func(e *Engine) { e.icons = r } }
func WithState(s StateStore) Option          { return func(e *Engine) { e.state = s } }
func WithFirmware(f FirmwareReader) Option   { return func(e *Engine) { e.firmware = f } }
func WithLegacy(l LegacyScanner) Option      { return func(e *Engine) { e.legacy = l } }
func WithNetwork(n NetworkDiscoverer) Option { return func(e *Engine) { e.network = n } }

// NewEngine returns an engine over vols. Without WithValidator, loaders are
// checked as PE images for the configured architecture.
func NewEngine(cfg *config.Config, vols []*volume.Volume, opts ...Option) *Engine {
	e := &Engine{
		cfg:     cfg,
		volumes: vols,
		index:   volume.NewIndex(vols),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.validator == nil {
		e.validator = NewPEValidator(cfg.Arch)
	}
	return e
}

// Volumes returns the volumes the engine scans.
func (e *Engine) Volumes() []*volume.Volume { return e.volumes }

// Index returns the lookup index over the engine's volumes.
func (e *Engine) Index() *volume.Index { return e.index }

// SelfVolume resolves the configured self volume, or nil.
func (e *Engine) SelfVolume() *volume.Volume {
	if e.cfg.Self.Volume == "" {
		return nil
	}
	v, _, err := e.index.Lookup(e.cfg.Self.Volume)
	if err != nil {
		return nil
	}
	return v
}
