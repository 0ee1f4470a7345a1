package scan

import (
	"time"

	"github.com/Norber-Developer/RefindPlus/internal/efivar"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

// OSType tags an entry with the operating system family it boots.
type OSType string

const (
	OSMacOS    OSType = "macos"
	OSLinux    OSType = "linux"
	OSWindows  OSType = "windows"
	OSELILO    OSType = "elilo"
	OSGrub     OSType = "grub"
	OSRefind   OSType = "refind"
	OSXOM      OSType = "xom"
	OSNetwork  OSType = "network"
	OSUnknown  OSType = "unknown"
	OSFirmware OSType = "firmware"
	OSTool     OSType = "tool"
)

// ParseOSType maps the names accepted in menu stanzas. Unknown names map to
// OSUnknown.
func ParseOSType(s string) OSType {
	switch OSType(lower(s)) {
	case OSMacOS, "mac", "macosx":
		return OSMacOS
	case OSLinux:
		return OSLinux
	case OSWindows, "win":
		return OSWindows
	case OSELILO:
		return OSELILO
	case OSGrub:
		return OSGrub
	case OSRefind, "refit":
		return OSRefind
	case OSXOM:
		return OSXOM
	}
	return OSUnknown
}

// Row places an entry in the menu.
type Row int

const (
	RowPrimary Row = 0
	RowTools   Row = 1
)

// EntryInfo is the presentation data every entry carries.
type EntryInfo struct {
	Title          string
	OSType         OSType
	Icon           string
	Hints          []string
	Row            Row
	ShortcutLetter rune
	ShortcutDigit  rune
}

// Entry is one menu choice. The concrete types are LoaderEntry,
// FirmwareEntry, ToolEntry, NetworkEntry and LegacyEntry.
type Entry interface {
	Info() *EntryInfo
	isEntry()
}

func (i *EntryInfo) Info() *EntryInfo { return i }

// LoaderEntry is an EFI executable found on a volume.
type LoaderEntry struct {
	EntryInfo
	Volume *volume.Volume
	// Path is the loader location on Volume, in stored form.
	Path    string
	ModTime time.Time
	Options string
	Initrd  string
	// LoaderTitle is the bare title before "Boot ... from ..." decoration.
	LoaderTitle string
	Manual      bool
	SubEntries  []*SubEntry
}

// SubEntry is an alternative way of launching a LoaderEntry.
type SubEntry struct {
	Title   string
	Volume  *volume.Volume
	Path    string
	Options string
}

// BootEntryRecord is a firmware-defined boot option.
type BootEntryRecord = efivar.LoadOption

// FirmwareEntry reboots into a firmware-defined boot option.
type FirmwareEntry struct {
	EntryInfo
	Record BootEntryRecord
}

// ToolKind names a utility offered on the tools row.
type ToolKind string

const (
	ToolShell           ToolKind = "shell"
	ToolMemtest         ToolKind = "memtest"
	ToolGPTSync         ToolKind = "gptsync"
	ToolGdisk           ToolKind = "gdisk"
	ToolNetboot         ToolKind = "netboot"
	ToolAppleRecovery   ToolKind = "apple_recovery"
	ToolWindowsRecovery ToolKind = "windows_recovery"
	ToolMok             ToolKind = "mok_tool"
	ToolFwupdate        ToolKind = "fwupdate"
	ToolAbout           ToolKind = "about"
	ToolHiddenTags      ToolKind = "hidden_tags"
	ToolShutdown        ToolKind = "shutdown"
	ToolReboot          ToolKind = "reboot"
	ToolExit            ToolKind = "exit"
	ToolFirmware        ToolKind = "firmware"
)

// ToolEntry is a utility. Built-in tools have no Volume.
type ToolEntry struct {
	EntryInfo
	Kind    ToolKind
	Volume  *volume.Volume
	Path    string
	Options string
}

// NetworkEntry is a boot image offered by a network boot server.
type NetworkEntry struct {
	EntryInfo
	Volume   *volume.Volume
	Path     string
	BootInfo string
}

// LegacyRecord is a BIOS-mode boot target reported by a LegacyScanner.
type LegacyRecord struct {
	Name   string
	Kind   string
	OSType OSType
	Volume *volume.Volume
}

// LegacyEntry boots a BIOS-mode target.
type LegacyEntry struct {
	EntryInfo
	Record LegacyRecord
}

func (*LoaderEntry) isEntry()   {}
func (*FirmwareEntry) isEntry() {}
func (*ToolEntry) isEntry()     {}
func (*NetworkEntry) isEntry()  {}
func (*LegacyEntry) isEntry()   {}
