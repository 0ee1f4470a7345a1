package scan

import (
	"strings"

	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

// archInfo holds the file names that depend on the firmware architecture.
type archInfo struct {
	name     string
	fallback string // EFI\BOOT\boot<arch>.efi
	machine  uint16 // PE machine type
}

const (
	machineI386  = 0x014c
	machineAMD64 = 0x8664
	machineARM64 = 0xaa64
)

func archFor(name string) archInfo {
	switch strings.ToLower(name) {
	case "ia32":
		return archInfo{name: "ia32", fallback: `EFI\BOOT\bootia32.efi`, machine: machineI386}
	case "aa64":
		return archInfo{name: "aa64", fallback: `EFI\BOOT\bootaa64.efi`, machine: machineARM64}
	}
	return archInfo{name: "x64", fallback: `EFI\BOOT\bootx64.efi`, machine: machineAMD64}
}

func (a archInfo) fallbackBasename() string { return volume.Basename(a.fallback) }

// shellNames lists the shell locations that are never offered as loaders.
// Elements carry a leading separator so root entries only match the root.
func (a archInfo) shellNames() []string {
	dirs := []string{
		`\EFI\BOOT\` + a.name + `_tools`,
		`\EFI\tools_` + a.name,
		`\EFI\tools`,
		`\EFI`,
		``,
	}
	files := []string{a.name + "_Shell.efi", "shell_" + a.name + ".efi", "shell.efi"}
	var out []string
	for _, d := range dirs {
		for _, f := range files {
			out = append(out, d+`\`+f)
		}
	}
	return out
}

func (a archInfo) gptsyncNames() []string {
	return []string{`EFI\tools\gptsync.efi`, `EFI\tools\gptsync_` + a.name + ".efi"}
}

func (a archInfo) gdiskNames() []string {
	return []string{`EFI\tools\gdisk.efi`, `EFI\tools\gdisk_` + a.name + ".efi"}
}

func (a archInfo) memtestNames() []string {
	dirs := []string{`EFI\BOOT\tools`, `EFI\tools`, `EFI\tools\memtest86`, `EFI\tools\memtest`, `EFI\memtest86`, `EFI\memtest`}
	files := []string{"memtest86.efi", "memtest86_" + a.name + ".efi", "memtest86" + a.name + ".efi", "boot" + a.name + ".efi"}
	var out []string
	for _, d := range dirs {
		for _, f := range files {
			out = append(out, d+`\`+f)
		}
	}
	return out
}

var distroDirs = []string{`EFI\tools`, `EFI\fedora`, `EFI\redhat`, `EFI\ubuntu`, `EFI\suse`, `EFI\opensuse`, `EFI\altlinux`}

func (a archInfo) mokNames(selfDir string) []string {
	files := []string{"MokManager.efi", "HashTool.efi", "HashTool-signed.efi", "KeyTool.efi", "KeyTool-signed.efi"}
	dirs := append([]string(nil), distroDirs...)
	if selfDir != "" {
		dirs = append(dirs, selfDir)
	}
	var out []string
	for _, d := range dirs {
		for _, f := range files {
			out = append(out, d+`\`+f)
		}
	}
	return out
}

func (a archInfo) fwupdateNames() []string {
	var out []string
	for _, d := range distroDirs {
		out = append(out, d+`\fwup`+a.name+".efi")
	}
	return out
}

const (
	ipxeDiscoverPath  = `EFI\tools\ipxe_discover.efi`
	ipxePath          = `EFI\tools\ipxe.efi`
	appleRecoveryPath = `com.apple.recovery.boot\boot.efi`
	windowsRecovery   = `EFI\Microsoft\Boot\LrsBootmgr.efi`
)
