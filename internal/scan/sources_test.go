package scan

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norber-Developer/RefindPlus/internal/config"
	"github.com/Norber-Developer/RefindPlus/internal/db"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

func TestManualEntries(t *testing.T) {
	v := testVolume("ESP", fstest.MapFS{
		"EFI/custom/grubx64.efi": file(loaderData('g'), at(0)),
		"EFI/arch/vmlinuz-linux": file(loaderData('k'), at(0)),
	})
	cfg := testConfig()
	cfg.Self.Volume = "ESP"
	cfg.Manual = []config.MenuEntry{
		{Title: "Custom GRUB", Volume: "esp", Loader: "/EFI/custom/grubx64.efi"},
		{Title: "Arch", Loader: `\EFI\arch\vmlinuz-linux`, Initrd: `\EFI\arch\initramfs-linux.img`, Options: "rw root=/dev/sda3", OSType: "Linux", Icon: "arch.png"},
		{Title: "Disabled", Loader: `EFI\custom\grubx64.efi`, Disabled: true},
		{Title: "Missing", Loader: `EFI\none\loader.efi`},
		{Title: "Nowhere", Volume: "USB", Loader: `EFI\custom\grubx64.efi`},
	}
	state := memState{db.VarHiddenTags: `ESP:\EFI\custom\grubx64.efi`}

	res := testEngine(cfg, []*volume.Volume{v}, WithState(state)).RunFullScan("m")
	require.Len(t, res.Entries, 2)

	grub := res.Entries[0].(*LoaderEntry)
	assert.Equal(t, "Boot Custom GRUB", grub.Title)
	assert.Equal(t, OSGrub, grub.OSType)
	assert.True(t, grub.Manual)

	arch := res.Entries[1].(*LoaderEntry)
	assert.Equal(t, OSLinux, arch.OSType)
	assert.Equal(t, `rw root=/dev/sda3 initrd=\EFI\arch\initramfs-linux.img`, arch.Options)
	assert.Equal(t, "arch.png", arch.Icon)
	assert.Equal(t, '2', arch.ShortcutDigit)

	assert.Len(t, res.Warnings, 2)
}

type fakeNetwork struct {
	offers []NetworkOffer
	err    error
	calls  int
}

func (f *fakeNetwork) Discover(v *volume.Volume, program string) ([]NetworkOffer, error) {
	f.calls++
	return f.offers, f.err
}

func networkVolume() *volume.Volume {
	return testVolume("ESP", fstest.MapFS{
		"EFI/tools/ipxe_discover.efi": file(loaderData('d'), at(0)),
		"EFI/tools/ipxe.efi":          file(loaderData('i'), at(0)),
	})
}

func TestNetworkSource(t *testing.T) {
	v := networkVolume()
	cfg := testConfig()
	cfg.Self.Volume = "ESP"
	cfg.NetworkBoot = true
	nw := &fakeNetwork{offers: []NetworkOffer{{Title: "Debian Installer", BootInfo: "tftp://10.0.0.1/debian"}}}

	res := testEngine(cfg, []*volume.Volume{v}, WithNetwork(nw)).RunFullScan("n")
	require.Len(t, res.Entries, 1)
	ne := res.Entries[0].(*NetworkEntry)
	assert.Equal(t, "Boot Debian Installer", ne.Title)
	assert.Equal(t, OSNetwork, ne.OSType)
	assert.Equal(t, "tftp://10.0.0.1/debian", ne.BootInfo)

	nw.err = errors.New("no DHCP answer")
	res = testEngine(cfg, []*volume.Volume{v}, WithNetwork(nw)).RunFullScan("n")
	assert.Empty(t, res.Entries)
	assert.Len(t, res.Warnings, 1)

	cfg.NetworkBoot = false
	res = testEngine(cfg, []*volume.Volume{v}, WithNetwork(nw)).RunFullScan("n")
	assert.Empty(t, res.Entries)
	assert.Equal(t, 2, nw.calls)
}

type fakeLegacy struct {
	records map[volume.Kind][]LegacyRecord
}

func (f *fakeLegacy) ScanLegacy(kind volume.Kind) ([]LegacyRecord, error) {
	return f.records[kind], nil
}

func TestLegacySources(t *testing.T) {
	hdd := &volume.Volume{Name: "HDD", Kind: volume.KindInternal}
	usb := &volume.Volume{Name: "Stick", Kind: volume.KindExternal}
	lg := &fakeLegacy{records: map[volume.Kind][]LegacyRecord{
		volume.KindInternal: {
			{Name: "Windows", OSType: OSWindows, Volume: hdd},
			{Name: "Old Linux", Volume: hdd},
		},
		volume.KindExternal: {{Name: "FreeDOS", Volume: usb}},
	}}
	cfg := testConfig()
	cfg.LegacyMode = true
	cfg.DontScanVolumes = "Stick"
	state := memState{db.VarHiddenLegacy: "old linux"}

	res := testEngine(cfg, nil, WithLegacy(lg), WithState(state)).RunFullScan("hbc")
	require.Len(t, res.Entries, 1)
	le := res.Entries[0].(*LegacyEntry)
	assert.Equal(t, "Boot Windows from HDD", le.Title)
	assert.Equal(t, OSWindows, le.OSType)
	assert.Equal(t, 'W', le.ShortcutLetter)

	cfg.LegacyMode = false
	assert.Empty(t, testEngine(cfg, nil, WithLegacy(lg)).RunFullScan("hbc").Entries)
}
