package scan

import (
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

const defaultSubTitle = "Boot using default options"

// loaderVariants builds the sub-entry list of an auto-detected loader.
func (c *ScanContext) loaderVariants(e *LoaderEntry) []*SubEntry {
	subs := []*SubEntry{e.sub(defaultSubTitle, e.Options)}

	switch e.OSType {
	case OSMacOS:
		if c.arch.name != "aa64" {
			subs = append(subs,
				e.sub("Boot Mac OS with a 64-bit kernel", "arch=x86_64"),
				e.sub("Boot Mac OS with a 32-bit kernel", "arch=i386"),
			)
		}
		subs = append(subs,
			e.sub("Boot Mac OS in verbose mode", "-v"),
			e.sub("Boot Mac OS in single user mode", "-v -s"),
			e.sub("Boot Mac OS in safe mode", "-v -x"),
		)
		root, _ := macOSRoot(e.Path)
		if diags := volume.JoinPath(root, macOSDiagnostics); e.Volume.FileExists(diags) {
			subs = append(subs, &SubEntry{
				Title:  "Run Apple Hardware Test",
				Volume: e.Volume,
				Path:   diags,
			})
		}
	case OSLinux:
		lines := readLinuxOptions(e.Volume, e.Path)
		for i, l := range lines {
			opts := addInitrd(expandVersion(l.Options, e.Path), e.Initrd)
			if i == 0 {
				subs[0].Options = opts
			}
			subs = append(subs, e.sub(l.Title, opts))
		}
	case OSELILO:
		subs = append(subs,
			e.sub("Run ELILO in interactive mode", "-p"),
			e.sub(`Boot Linux for a 17" iMac or a 15" MacBook Pro (*)`, "-d 0 i17"),
			e.sub(`Boot Linux for a 20" iMac (*)`, "-d 0 i20"),
			e.sub("Boot Linux for a Mac Mini (*)", "-d 0 mini"),
		)
	case OSXOM:
		subs = append(subs,
			e.sub("Boot Windows from Hard Disk", "-s -h"),
			e.sub("Boot Windows from CD-ROM", "-s -c"),
			e.sub("Run XOM in text mode", "-v"),
		)
	}
	return subs
}

func (e *LoaderEntry) sub(title, options string) *SubEntry {
	return &SubEntry{Title: title, Volume: e.Volume, Path: e.Path, Options: options}
}

// kernelVariants builds the sub-entries a folded kernel contributes to the
// primary entry of its directory.
func (c *ScanContext) kernelVariants(v *volume.Volume, kernelPath string) []*SubEntry {
	base := volume.Basename(kernelPath)
	initrd := c.findInitrd(v, kernelPath)
	lines := readLinuxOptions(v, kernelPath)
	if len(lines) == 0 {
		lines = []optionLine{{Title: "Boot Linux"}}
	}
	subs := make([]*SubEntry, 0, len(lines))
	for _, l := range lines {
		subs = append(subs, &SubEntry{
			Title:   base + ": " + l.Title,
			Volume:  v,
			Path:    kernelPath,
			Options: addInitrd(expandVersion(l.Options, kernelPath), initrd),
		})
	}
	return subs
}
