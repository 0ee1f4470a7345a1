package scan

import (
	"strings"
	"unicode"

	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

// Classification is what the name of a loader says about it.
type Classification struct {
	OSType  OSType
	Hints   []string
	Options string
	Initrd  string
	Letter  rune
}

// Classify infers the OS type, icon hints, default options and shortcut
// letter for the loader at path on v.
func (c *ScanContext) Classify(path string, v *volume.Volume) Classification {
	return c.classify(path, v, "")
}

// ClassifyOffered classifies a loader offered by a network boot server,
// whose title stands in for the directory and volume names.
func (c *ScanContext) ClassifyOffered(path, title string) Classification {
	return c.classify(path, nil, title)
}

func (c *ScanContext) classify(path string, v *volume.Volume, offeredTitle string) Classification {
	path = volume.CleanPath(path)
	base := volume.Basename(path)
	nameClues := strings.ToLower(base)

	cl := Classification{OSType: OSUnknown}
	network := v == nil || v.Kind == volume.KindNetwork
	if network {
		cl.Hints = mergeWords(cl.Hints, offeredTitle)
		nameClues += " " + strings.ToLower(offeredTitle)
	} else {
		if dir := volume.LastDirName(path); dir != "" {
			cl.Hints = mergeHint(cl.Hints, dir)
			cl.Letter = firstRune(dir)
		}
		if c.policy.SyncAPFS && v.IsPreBoot() {
			cl.Hints = mergeWords(cl.Hints, v.Name)
		} else {
			cl.Hints = mergeWords(cl.Hints, v.FSName)
		}
		cl.Hints = mergeWords(cl.Hints, v.PartName)
	}

	lowerPath := strings.ToLower(path)
	switch {
	case isKernelName(nameClues):
		cl.OSType = OSLinux
		if cl.Letter == 0 {
			cl.Letter = 'L'
		}
		if !network {
			cl.Hints = append(c.guessDistribution(v, path), cl.Hints...)
			cl.Initrd = c.findInitrd(v, path)
			cl.Options = c.mainLinuxOptions(v, path, cl.Initrd)
		}
		cl.Hints = mergeHint(cl.Hints, "linux")
	case strings.Contains(lowerPath, "refit"):
		cl.OSType = OSRefind
		cl.Letter = 'R'
		cl.Hints = mergeHint(cl.Hints, "refit")
	case strings.Contains(lowerPath, "refind"):
		cl.OSType = OSRefind
		cl.Letter = 'R'
		cl.Hints = mergeHint(cl.Hints, "refind")
	case isMacOSLoader(path):
		cl.Hints = mergeHint(cl.Hints, "mac")
		if v != nil && (v.FileExists(`EFI\refind\refind.conf`) || v.FileExists(`EFI\refind\config.conf`)) {
			cl.OSType = OSRefind
			cl.Letter = 'R'
		} else {
			cl.OSType = OSMacOS
			cl.Letter = 'M'
		}
	case nameClues == "diags.efi":
		cl.Hints = mergeHint(cl.Hints, "hwtest")
	case nameClues == "e.efi" || nameClues == "elilo.efi" || strings.Contains(nameClues, "elilo"):
		cl.OSType = OSELILO
		cl.Hints = mergeWords(cl.Hints, "elilo,linux")
		if cl.Letter == 0 {
			cl.Letter = 'L'
		}
	case strings.Contains(nameClues, "grub"):
		cl.OSType = OSGrub
		cl.Letter = 'G'
		cl.Hints = mergeWords(cl.Hints, "grub,linux")
	case isIn(base, []string{"cdboot.efi", "bootmgr.efi", "bootmgfw.efi", "bkpbootmgfw.efi"}):
		cl.OSType = OSWindows
		cl.Letter = 'W'
		cl.Hints = mergeHint(cl.Hints, "win8")
	case nameClues == "xom.efi":
		cl.OSType = OSXOM
		cl.Letter = 'W'
		cl.Options = "-s -h"
		cl.Hints = mergeWords(cl.Hints, "xom,win,win8")
	case strings.Contains(nameClues, "ipxe"):
		cl.OSType = OSNetwork
		cl.Letter = 'N'
		cl.Hints = mergeHint(cl.Hints, "network")
	}

	cl.Letter = unicode.ToUpper(cl.Letter)
	return cl
}

func isMacOSLoader(path string) bool {
	_, ok := macOSRoot(path)
	return ok
}

// isKernelName reports whether s looks like a Linux kernel image name.
func isKernelName(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "bzimage") || strings.Contains(s, "vmlinuz") || strings.Contains(s, "kernel")
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
