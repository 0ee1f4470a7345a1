package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds everything the scanner reads. Exclusion lists stay in their
// comma-delimited form; a scan pass builds its own working copy from them.
type Config struct {
	// Discovery mode: "auto", "static" or "image" (default static if volumes specified)
	Discovery string       `yaml:"discovery,omitempty"`
	Volumes   []VolumeSpec `yaml:"volumes,omitempty"`
	Images    []ImageSpec  `yaml:"images,omitempty"`
	Self      SelfSpec     `yaml:"self"`
	Arch      string       `yaml:"arch,omitempty"`
	ScanFor   string       `yaml:"scan_for,omitempty"`
	Manual    []MenuEntry  `yaml:"menu_entries,omitempty"`
	ShowTools []string     `yaml:"show_tools,omitempty"`
	IconsDir  string       `yaml:"icons_dir,omitempty"`
	StateDB   string       `yaml:"state_db,omitempty"`

	DontScanVolumes  string `yaml:"dont_scan_volumes,omitempty"`
	DontScanDirs     string `yaml:"dont_scan_dirs,omitempty"`
	DontScanFiles    string `yaml:"dont_scan_files,omitempty"`
	DontScanTools    string `yaml:"dont_scan_tools,omitempty"`
	DontScanFirmware string `yaml:"dont_scan_firmware,omitempty"`
	AlsoScanDirs     string `yaml:"also_scan_dirs,omitempty"`

	FoldLinuxKernels    *bool `yaml:"fold_linux_kernels,omitempty"`
	ScanAllLinuxKernels *bool `yaml:"scan_all_linux_kernels,omitempty"`
	PruneHidden         *bool `yaml:"prune_hidden,omitempty"`
	SyncAPFS            bool  `yaml:"sync_apfs,omitempty"`
	LegacyMode          bool  `yaml:"legacy_mode,omitempty"`
	NetworkBoot         bool  `yaml:"network_boot,omitempty"`

	// EfivarsDir overrides the efivarfs mount point.
	EfivarsDir string `yaml:"efivars_dir,omitempty"`
}

// VolumeSpec declares a mounted filesystem to scan in static mode.
type VolumeSpec struct {
	Name     string `yaml:"name"`
	FSName   string `yaml:"fs_name,omitempty"`
	PartName string `yaml:"part_name,omitempty"`
	GUID     string `yaml:"guid,omitempty"`
	Kind     string `yaml:"kind,omitempty"`
	Path     string `yaml:"path"`
}

// ImageSpec declares a raw disk image whose GPT partitions are scanned.
type ImageSpec struct {
	Path string `yaml:"path"`
	Kind string `yaml:"kind,omitempty"`
}

// SelfSpec locates the boot manager's own installation.
type SelfSpec struct {
	Volume string `yaml:"volume,omitempty"`
	Dir    string `yaml:"dir,omitempty"`
}

// MenuEntry is a user-declared boot stanza.
type MenuEntry struct {
	Title    string `yaml:"title"`
	Volume   string `yaml:"volume,omitempty"`
	Loader   string `yaml:"loader"`
	Initrd   string `yaml:"initrd,omitempty"`
	Options  string `yaml:"options,omitempty"`
	OSType   string `yaml:"ostype,omitempty"`
	Icon     string `yaml:"icon,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

const DefaultStatePath = "/var/lib/refindplus/state.db"

var defaultShowTools = []string{
	"shell", "memtest", "gdisk", "apple_recovery", "windows_recovery",
	"mok_tool", "about", "hidden_tags", "shutdown", "reboot", "firmware",
}

// defaultConfig provides baseline settings; volumes are discovered dynamically
var defaultConfig = Config{
	Arch:          "x64",
	ScanFor:       "ieom",
	DontScanDirs:  `EFI\tools,EFI\tools\drivers`,
	DontScanFiles: "shim.efi,shim-fedora.efi,shimx64.efi,PreLoader.efi,TextMode.efi,ebounce.efi,GraphicsConsole.efi,MokManager.efi,HashTool.efi,HashTool-signed.efi",
	AlsoScanDirs:  "boot",
	Self: SelfSpec{
		Dir: `EFI\refind`,
	},
	StateDB: DefaultStatePath,
}

func Load(path string) (*Config, error) {
	if path == "" {
		// Try default locations
		candidates := []string{
			"/etc/refindplus/config.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/refindplus/config.yaml"),
			"config.yaml",
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
	}

	cfg := Default()
	if path == "" {
		// No config file found - use defaults with auto-discovery
		return cfg, applyDefaults(cfg)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns a fresh copy of the built-in configuration.
func Default() *Config {
	cfg := defaultConfig
	cfg.ShowTools = append([]string(nil), defaultShowTools...)
	return &cfg
}

// Parse overlays YAML data onto cfg and fills in whatever was left empty.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return applyDefaults(cfg)
}

func applyDefaults(cfg *Config) error {
	if cfg.Arch == "" {
		cfg.Arch = defaultConfig.Arch
	}
	cfg.Arch = strings.ToLower(cfg.Arch)
	switch cfg.Arch {
	case "x64", "ia32", "aa64":
	default:
		return fmt.Errorf("unsupported arch %q", cfg.Arch)
	}
	if cfg.ScanFor == "" {
		cfg.ScanFor = defaultConfig.ScanFor
	}
	// the shim fallback helper is only excluded from the built-in list
	if cfg.DontScanFiles == defaultConfig.DontScanFiles {
		cfg.DontScanFiles += ",fb" + cfg.Arch + ".efi"
	}
	if cfg.StateDB == "" {
		cfg.StateDB = DefaultStatePath
	}

	// Determine discovery mode
	if cfg.Discovery == "" {
		switch {
		case len(cfg.Volumes) > 0:
			cfg.Discovery = "static"
		case len(cfg.Images) > 0:
			cfg.Discovery = "image"
		default:
			cfg.Discovery = "auto"
		}
	}
	return nil
}

// Fold reports whether Linux kernels in one directory are grouped.
func (c *Config) Fold() bool { return boolOr(c.FoldLinuxKernels, true) }

// ScanAllLinux reports whether kernel names without .efi are scanned.
func (c *Config) ScanAllLinux() bool { return boolOr(c.ScanAllLinuxKernels, true) }

// Prune reports whether stale hidden identifiers are dropped during a scan.
func (c *Config) Prune() bool { return boolOr(c.PruneHidden, true) }

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
