package scan

import (
	"github.com/Norber-Developer/RefindPlus/internal/log"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

type toolSpec struct {
	title  string
	letter rune
	hints  []string
	paths  func(c *ScanContext) []string
	// first stops the search at the first match.
	first bool
}

var fileTools = map[ToolKind]toolSpec{
	ToolShell: {
		title: "EFI Shell", letter: 'S', hints: []string{"shell"},
		paths: func(c *ScanContext) []string { return c.arch.shellNames() },
	},
	ToolGPTSync: {
		title: "Hybrid MBR tool", letter: 'P', hints: []string{"hybrid"},
		paths: func(c *ScanContext) []string { return c.arch.gptsyncNames() }, first: true,
	},
	ToolGdisk: {
		title: "disk partitioning tool", letter: 'G', hints: []string{"partition"},
		paths: func(c *ScanContext) []string { return c.arch.gdiskNames() }, first: true,
	},
	ToolNetboot: {
		title: "Network Boot", letter: 'N', hints: []string{"netboot"},
		paths: func(c *ScanContext) []string { return []string{ipxePath} }, first: true,
	},
	ToolMemtest: {
		title: "Memory test utility", hints: []string{"memtest"},
		paths: func(c *ScanContext) []string { return c.arch.memtestNames() }, first: true,
	},
	ToolMok: {
		title: "MOK utility", hints: []string{"mok"},
		paths: func(c *ScanContext) []string { return c.arch.mokNames(c.policy.Self.Dir) },
	},
	ToolFwupdate: {
		title: "Firmware update utility", hints: []string{"fwupdate"},
		paths: func(c *ScanContext) []string { return c.arch.fwupdateNames() }, first: true,
	},
	ToolAppleRecovery: {
		title: "Recovery HD", letter: 'R', hints: []string{"mac"},
		paths: func(c *ScanContext) []string { return []string{appleRecoveryPath} },
	},
	ToolWindowsRecovery: {
		title: "Windows Recovery Environment", letter: 'R', hints: []string{"win8"},
		paths: func(c *ScanContext) []string { return []string{windowsRecovery} },
	},
}

var builtinTools = map[ToolKind]struct {
	title string
	hints []string
}{
	ToolAbout:      {"About RefindPlus", []string{"about"}},
	ToolHiddenTags: {"Manage Hidden Tags Menu", []string{"hidden"}},
	ToolShutdown:   {"System Shutdown", []string{"shutdown"}},
	ToolReboot:     {"System Restart", []string{"reset"}},
	ToolExit:       {"Exit RefindPlus", []string{"exit"}},
	ToolFirmware:   {"Reboot into Firmware", []string{"firmware"}},
}

// scanTools builds the tools row from show_tools, in configured order.
func (c *ScanContext) scanTools() []Entry {
	var out []Entry
	for _, name := range c.cfg.ShowTools {
		kind := ToolKind(lower(name))
		if b, ok := builtinTools[kind]; ok {
			if !c.builtinAvailable(kind) {
				continue
			}
			out = append(out, &ToolEntry{
				EntryInfo: EntryInfo{
					Title:  b.title,
					OSType: OSTool,
					Row:    RowTools,
					Hints:  b.hints,
					Icon:   c.resolveIcon(nil, "", b.hints),
				},
				Kind: kind,
			})
			continue
		}
		spec, ok := fileTools[kind]
		if !ok {
			log.Debugf("unknown tool %q in show_tools", name)
			continue
		}
		for _, t := range c.findTool(kind, spec) {
			out = append(out, t)
		}
		if kind == ToolShell {
			for _, fe := range c.ScanFirmwareDefined(RowTools, "Shell", "") {
				out = append(out, fe)
			}
		}
	}
	return out
}

func (c *ScanContext) builtinAvailable(kind ToolKind) bool {
	switch kind {
	case ToolHiddenTags:
		return c.anyHidden()
	case ToolFirmware:
		return c.firmware != nil && c.firmware.BootToFirmwareSupported()
	}
	return true
}

// toolVolumes returns the self volume first, then every other readable one.
func (c *ScanContext) toolVolumes() []*volume.Volume {
	var vols []*volume.Volume
	self := c.policy.Self.Volume
	if self != nil && self.Readable {
		vols = append(vols, self)
	}
	for _, v := range c.volumes {
		if v != self && v.Readable && v.Root != nil {
			vols = append(vols, v)
		}
	}
	return vols
}

func (c *ScanContext) findTool(kind ToolKind, spec toolSpec) []*ToolEntry {
	var out []*ToolEntry
	for _, v := range c.toolVolumes() {
		for _, p := range spec.paths(c) {
			path := volume.CleanPath(p)
			if !v.FileExists(path) || !c.IsValidTool(v, path) {
				continue
			}
			title := "Load " + spec.title
			if kind == ToolAppleRecovery || kind == ToolWindowsRecovery {
				title = loaderTitle(spec.title, v)
			}
			e := &ToolEntry{
				EntryInfo: EntryInfo{
					Title:          title,
					OSType:         OSTool,
					Row:            RowTools,
					Hints:          spec.hints,
					ShortcutLetter: spec.letter,
				},
				Kind:   kind,
				Volume: v,
				Path:   path,
			}
			e.Icon = c.resolveIcon(v, path, spec.hints)
			out = append(out, e)
			if spec.first {
				return out
			}
		}
	}
	return out
}

// IsValidTool reports whether the tool at path on v may be offered. The
// tool exclusion list already holds the user's hidden tools.
func (c *ScanContext) IsValidTool(v *volume.Volume, path string) bool {
	dir, file := volume.DirOf(path), volume.Basename(path)
	if c.policy.IsExcludedFile(v, dir, file, c.policy.Tools) {
		return false
	}
	return c.validator.IsValidLoader(v, path)
}
