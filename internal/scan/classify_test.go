package scan

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

func TestClassify(t *testing.T) {
	v := testVolume("ESP", fstest.MapFS{})
	c := testEngine(testConfig(), []*volume.Volume{v}).newScanContext()

	tests := []struct {
		path   string
		os     OSType
		letter rune
		hint   string
	}{
		{`EFI\ubuntu\grubx64.efi`, OSGrub, 'G', "grub"},
		{`EFI\Microsoft\Boot\bootmgfw.efi`, OSWindows, 'W', "win8"},
		{`EFI\refind\refind_x64.efi`, OSRefind, 'R', "refind"},
		{`EFI\refit\refit.efi`, OSRefind, 'R', "refit"},
		{`System\Library\CoreServices\boot.efi`, OSMacOS, 'M', "mac"},
		{`6A1B2C3D-0000-4000-8000-00000000ABCD\System\Library\CoreServices\boot.efi`, OSMacOS, 'M', "mac"},
		{`Backup\OldSystem\Library\CoreServices\boot.efi`, OSUnknown, 'C', "CoreServices"},
		{`EFI\gentoo\elilo.efi`, OSELILO, 'G', "elilo"},
		{`e.efi`, OSELILO, 'L', "elilo"},
		{`boot\vmlinuz-6.1.0`, OSLinux, 'B', "linux"},
		{`bzImage`, OSLinux, 'L', "linux"},
		{`EFI\tools\ipxe.efi`, OSNetwork, 'N', "network"},
		{`EFI\xom\xom.efi`, OSXOM, 'W', "xom"},
		{`EFI\diag\diags.efi`, OSUnknown, 'D', "hwtest"},
		{`EFI\foo\bar.efi`, OSUnknown, 'F', "foo"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			cl := c.Classify(tt.path, v)
			assert.Equal(t, tt.os, cl.OSType)
			assert.Equal(t, string(tt.letter), string(cl.Letter))
			assert.Contains(t, cl.Hints, tt.hint)
			assert.Contains(t, cl.Hints, "ESP")
		})
	}
}

func TestClassifyGrubHintsFallBackToLinux(t *testing.T) {
	v := testVolume("ESP", fstest.MapFS{})
	c := testEngine(testConfig(), []*volume.Volume{v}).newScanContext()

	hints := c.Classify(`EFI\ubuntu\grubx64.efi`, v).Hints
	assert.Equal(t, []string{"ubuntu", "ESP", "grub", "linux"}, hints)
}

func TestClassifyXOMOptions(t *testing.T) {
	v := testVolume("ESP", fstest.MapFS{})
	c := testEngine(testConfig(), []*volume.Volume{v}).newScanContext()
	assert.Equal(t, "-s -h", c.Classify(xomLoader, v).Options)
}

func TestClassifyMacWithRefindConfig(t *testing.T) {
	v := testVolume("Mac", fstest.MapFS{"EFI/refind/refind.conf": file("timeout 5", at(0))})
	c := testEngine(testConfig(), []*volume.Volume{v}).newScanContext()

	cl := c.Classify(macOSLoader, v)
	assert.Equal(t, OSRefind, cl.OSType)
	assert.Equal(t, 'R', cl.Letter)
}

func TestClassifyPreBootUsesVolumeName(t *testing.T) {
	v := &volume.Volume{Name: "Macintosh HD", FSName: "PreBoot", Root: fstest.MapFS{}, Readable: true}
	cfg := testConfig()
	cfg.SyncAPFS = true
	c := testEngine(cfg, []*volume.Volume{v}).newScanContext()

	cl := c.Classify(`EFI\os\a.efi`, v)
	assert.Equal(t, []string{"os", "Macintosh", "HD"}, cl.Hints)
}

func TestClassifyOffered(t *testing.T) {
	c := testEngine(testConfig(), nil).newScanContext()

	cl := c.ClassifyOffered(ipxePath, "Debian Installer")
	assert.Equal(t, OSNetwork, cl.OSType)
	assert.Equal(t, 'N', cl.Letter)
	assert.Equal(t, []string{"Debian", "Installer", "network"}, cl.Hints)
}

func TestClassifyLinuxOptions(t *testing.T) {
	v := testVolume("root", fstest.MapFS{
		"boot/vmlinuz-6.1.0-13-amd64":    file("k", at(0)),
		"boot/initrd.img-6.1.0-13-amd64": file("i", at(0)),
		"boot/refind_linux.conf":         file(`"Boot normally" "ro root=UUID=abc quiet"`+"\n", at(0)),
		"etc/os-release":                 file("NAME=\"Debian GNU/Linux\"\nID=debian\n", at(0)),
	})
	c := testEngine(testConfig(), []*volume.Volume{v}).newScanContext()

	cl := c.Classify(`boot\vmlinuz-6.1.0-13-amd64`, v)
	assert.Equal(t, OSLinux, cl.OSType)
	assert.Equal(t, `boot\initrd.img-6.1.0-13-amd64`, cl.Initrd)
	assert.Equal(t, `ro root=UUID=abc quiet initrd=\boot\initrd.img-6.1.0-13-amd64`, cl.Options)
	assert.Equal(t, "debian", cl.Hints[0])
}
