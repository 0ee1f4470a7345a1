package scan

import (
	"strings"

	"github.com/micromdm/plist"

	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

const (
	macOSLoader      = `System\Library\CoreServices\boot.efi`
	macOSDiagnostics = `System\Library\CoreServices\.diagnostics\diags.efi`
	macOSVersionFile = `System\Library\CoreServices\SystemVersion.plist`
	xomLoader        = `System\Library\CoreServices\xom.efi`
)

// macOSRoot returns the directory that holds the System folder of the
// macOS loader at path. ok is false when path is not a macOS loader.
func macOSRoot(path string) (root string, ok bool) {
	path = volume.CleanPath(path)
	if len(path) < len(macOSLoader) || !strings.EqualFold(path[len(path)-len(macOSLoader):], macOSLoader) {
		return "", false
	}
	root = path[:len(path)-len(macOSLoader)]
	if root != "" && !strings.HasSuffix(root, `\`) {
		return "", false
	}
	return volume.CleanPath(root), true
}

type systemVersion struct {
	ProductName    string `plist:"ProductName"`
	ProductVersion string `plist:"ProductVersion"`
}

// macOSTitle names the macOS install on v, "Mac OS" when its version file
// is missing or unreadable.
func macOSTitle(v *volume.Volume, root string) string {
	data, err := v.ReadFile(volume.JoinPath(root, macOSVersionFile))
	if err != nil {
		return "Mac OS"
	}
	var sv systemVersion
	if err := plist.Unmarshal(data, &sv); err != nil {
		return "Mac OS"
	}
	name := strings.TrimSpace(sv.ProductName)
	if name == "" {
		name = "Mac OS"
	}
	if ver := strings.TrimSpace(sv.ProductVersion); ver != "" {
		return name + " " + ver
	}
	return name
}
