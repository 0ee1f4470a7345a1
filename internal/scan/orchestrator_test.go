package scan

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norber-Developer/RefindPlus/internal/config"
	"github.com/Norber-Developer/RefindPlus/internal/db"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

func TestFullScanSuppressesDuplicateFallback(t *testing.T) {
	content := loaderData('C')
	v := testVolume("ESP", fstest.MapFS{
		"EFI/BOOT/BOOTX64.EFI": file(content, at(0)),
		"EFI/myos/loader.efi":  file(content, at(5)),
	})
	res := testEngine(testConfig(), []*volume.Volume{v}).RunFullScan("i")

	require.Len(t, res.Entries, 1)
	le, ok := res.Entries[0].(*LoaderEntry)
	require.True(t, ok)
	assert.Equal(t, `EFI\myos\loader.efi`, le.Path)
	assert.Equal(t, `Boot \EFI\myos\loader.efi from ESP`, le.Title)
	assert.Equal(t, '1', le.ShortcutDigit)
	assert.Equal(t, defaultSubTitle, le.SubEntries[0].Title)
	assert.Empty(t, res.Warnings)
	assert.NoError(t, res.Err())
}

func TestFullScanKeepsDistinctFallback(t *testing.T) {
	v := testVolume("ESP", fstest.MapFS{
		"EFI/BOOT/BOOTX64.EFI": file(loaderData('F'), at(0)),
		"EFI/myos/loader.efi":  file(loaderData('C'), at(5)),
	})
	res := testEngine(testConfig(), []*volume.Volume{v}).RunFullScan("i")

	assert.Equal(t, []string{`ESP:EFI\myos\loader.efi`, `ESP:EFI\BOOT\bootx64.efi`}, loaderPaths(res.Entries))
	assert.Equal(t, "Boot Fallback Boot Loader from ESP", res.Entries[1].Info().Title)
}

func TestFullScanListsBothCopies(t *testing.T) {
	content := loaderData('C')
	v := testVolume("ESP", fstest.MapFS{
		"EFI/BOOT/BOOTX64.EFI": file(content, at(0)),
		"EFI/a/first.efi":      file(content, at(1)),
		"EFI/b/second.efi":     file(content, at(2)),
	})
	res := testEngine(testConfig(), []*volume.Volume{v}).RunFullScan("i")

	assert.Equal(t, []string{`ESP:EFI\a\first.efi`, `ESP:EFI\b\second.efi`}, loaderPaths(res.Entries))
}

func TestFullScanSpecialLoaders(t *testing.T) {
	v := testVolume("Macintosh HD", fstest.MapFS{
		"System/Library/CoreServices/boot.efi":               file(loaderData('m'), at(0)),
		"System/Library/CoreServices/SystemVersion.plist":    file(systemVersionPlist, at(0)),
		"System/Library/CoreServices/.diagnostics/diags.efi": file(loaderData('d'), at(0)),
		"EFI/Microsoft/Boot/bootmgfw.efi":                    file(loaderData('w'), at(0)),
	})
	res := testEngine(testConfig(), []*volume.Volume{v}).RunFullScan("i")

	require.Len(t, res.Entries, 2)
	mac := res.Entries[0].(*LoaderEntry)
	assert.Equal(t, "Boot macOS 13.4 from Macintosh HD", mac.Title)
	assert.Equal(t, OSMacOS, mac.OSType)
	titles := subTitles(mac)
	assert.Contains(t, titles, "Boot Mac OS in safe mode")
	assert.Equal(t, "Run Apple Hardware Test", titles[len(titles)-1])

	win := res.Entries[1].(*LoaderEntry)
	assert.Equal(t, "Boot Windows (UEFI) from Macintosh HD", win.Title)
	assert.Equal(t, OSWindows, win.OSType)
}

func TestFullScanMacLoaderInGUIDDir(t *testing.T) {
	const guidDir = "6A1B2C3D-0000-4000-8000-00000000ABCD"
	v := testVolume("Preboot", fstest.MapFS{
		guidDir + "/System/Library/CoreServices/boot.efi":               file(loaderData('m'), at(0)),
		guidDir + "/System/Library/CoreServices/SystemVersion.plist":    file(systemVersionPlist, at(0)),
		guidDir + "/System/Library/CoreServices/.diagnostics/diags.efi": file(loaderData('d'), at(0)),
	})
	res := testEngine(testConfig(), []*volume.Volume{v}).RunFullScan("i")

	require.Len(t, res.Entries, 1)
	mac := res.Entries[0].(*LoaderEntry)
	assert.Equal(t, guidDir+`\System\Library\CoreServices\boot.efi`, mac.Path)
	assert.Equal(t, "Boot macOS 13.4 from Preboot", mac.Title)
	assert.Equal(t, OSMacOS, mac.OSType)
	assert.Equal(t, 'M', mac.ShortcutLetter)
	assert.Contains(t, mac.Hints, "mac")

	titles := subTitles(mac)
	assert.Contains(t, titles, "Boot Mac OS in verbose mode")
	last := mac.SubEntries[len(mac.SubEntries)-1]
	assert.Equal(t, "Run Apple Hardware Test", last.Title)
	assert.Equal(t, guidDir+`\System\Library\CoreServices\.diagnostics\diags.efi`, last.Path)
}

func TestFullScanSelfCopyOfFallback(t *testing.T) {
	content := loaderData('R')
	cfg := testConfig()
	cfg.Self = config.SelfSpec{Volume: "ESP", Dir: `EFI\refind`}

	v := testVolume("ESP", fstest.MapFS{
		"EFI/refind/refind_x64.efi": file(content, at(1)),
		"EFI/BOOT/BOOTX64.EFI":      file(content, at(0)),
	})
	res := testEngine(cfg, []*volume.Volume{v}).RunFullScan("i")
	assert.Empty(t, loaderPaths(res.Entries), "the boot manager's own fallback copy is not a boot target")

	// a fallback that differs from the boot manager is still offered
	other := testVolume("ESP", fstest.MapFS{
		"EFI/refind/refind_x64.efi": file(content, at(1)),
		"EFI/BOOT/BOOTX64.EFI":      file(loaderData('F'), at(0)),
	})
	res = testEngine(cfg, []*volume.Volume{other}).RunFullScan("i")
	assert.Equal(t, []string{`ESP:EFI\BOOT\bootx64.efi`}, loaderPaths(res.Entries))

	// the same copy on another volume is not the boot manager's
	data := testVolume("Data", fstest.MapFS{
		"EFI/BOOT/BOOTX64.EFI": file(content, at(0)),
	})
	res = testEngine(cfg, []*volume.Volume{v, data}).RunFullScan("i")
	assert.Equal(t, []string{`Data:EFI\BOOT\bootx64.efi`}, loaderPaths(res.Entries))
}

const systemVersionPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>ProductName</key>
	<string>macOS</string>
	<key>ProductVersion</key>
	<string>13.4</string>
</dict>
</plist>
`

func subTitles(le *LoaderEntry) []string {
	var out []string
	for _, s := range le.SubEntries {
		out = append(out, s.Title)
	}
	return out
}

func TestFullScanExclusionIsPerVolume(t *testing.T) {
	a := testVolume("VolA", fstest.MapFS{"EFI/os/loader.efi": file(loaderData('a'), at(0))})
	b := testVolume("VolB", fstest.MapFS{"EFI/os/loader.efi": file(loaderData('b'), at(0))})
	cfg := testConfig()
	cfg.DontScanFiles += ",VolA:loader.efi"

	res := testEngine(cfg, []*volume.Volume{a, b}).RunFullScan("i")
	assert.Equal(t, []string{`VolB:EFI\os\loader.efi`}, loaderPaths(res.Entries))
}

func TestFullScanLeavesConfigUntouched(t *testing.T) {
	v := testVolume("ESP", fstest.MapFS{
		"EFI/myos/loader.efi": file(loaderData('a'), at(1)),
		"EFI/other/boot.efi":  file(loaderData('b'), at(0)),
	})
	cfg := testConfig()
	files, vols := cfg.DontScanFiles, cfg.DontScanVolumes
	state := memState{db.VarHiddenTags: `ESP:\EFI\myos\loader.efi`}

	e := testEngine(cfg, []*volume.Volume{v}, WithState(state))
	res := e.RunFullScan("i")

	assert.Equal(t, []string{`ESP:EFI\other\boot.efi`}, loaderPaths(res.Entries))
	assert.Equal(t, files, cfg.DontScanFiles)
	assert.Equal(t, vols, cfg.DontScanVolumes)
	assert.Equal(t, `ESP:\EFI\myos\loader.efi`, state[db.VarHiddenTags])

	// unhiding takes effect on the next pass
	removed, err := Unhide(state, db.VarHiddenTags, `esp:\efi\myos\loader.efi`)
	require.NoError(t, err)
	assert.True(t, removed)
	res = e.RunFullScan("i")
	assert.Equal(t, []string{`ESP:EFI\myos\loader.efi`, `ESP:EFI\other\boot.efi`}, loaderPaths(res.Entries))
}

func TestFullScanFoldingIsStable(t *testing.T) {
	conf := `"Boot with standard options"  "ro root=/dev/sda2 quiet"
"Boot to single-user mode"    "ro root=/dev/sda2 single"
`
	v := testVolume("root", fstest.MapFS{
		"boot/vmlinuz-6.1.0":     file(loaderData('1'), at(1)),
		"boot/vmlinuz-6.2.0":     file(loaderData('2'), at(2)),
		"boot/initrd.img-6.1.0":  file("i1", at(1)),
		"boot/initrd.img-6.2.0":  file("i2", at(2)),
		"boot/refind_linux.conf": file(conf, at(0)),
	})
	e := testEngine(testConfig(), []*volume.Volume{v})

	first := e.RunFullScan("i")
	require.Len(t, first.Entries, 1)
	primary := first.Entries[0].(*LoaderEntry)
	assert.Equal(t, `boot\vmlinuz-6.2.0`, primary.Path)
	assert.Equal(t, OSLinux, primary.OSType)
	assert.Equal(t, `ro root=/dev/sda2 quiet initrd=\boot\initrd.img-6.2.0`, primary.Options)

	want := []string{
		defaultSubTitle,
		"Boot with standard options",
		"Boot to single-user mode",
		"vmlinuz-6.1.0: Boot with standard options",
		"vmlinuz-6.1.0: Boot to single-user mode",
	}
	if diff := cmp.Diff(want, subTitles(primary)); diff != "" {
		t.Errorf("sub-entries mismatch (-want +got):\n%s", diff)
	}
	folded := primary.SubEntries[3]
	assert.Equal(t, `boot\vmlinuz-6.1.0`, folded.Path)
	assert.Equal(t, `ro root=/dev/sda2 quiet initrd=\boot\initrd.img-6.1.0`, folded.Options)

	second := e.RunFullScan("i")
	require.Len(t, second.Entries, 1)
	assert.NotSame(t, primary, second.Entries[0])
	if diff := cmp.Diff(subTitles(primary), subTitles(second.Entries[0].(*LoaderEntry))); diff != "" {
		t.Errorf("rescan changed grouping (-first +second):\n%s", diff)
	}
}

func TestFullScanFoldsPerDirectory(t *testing.T) {
	a := testVolume("VolA", fstest.MapFS{
		"EFI/arch/vmlinuz-linux":     file(loaderData('a'), at(4)),
		"EFI/arch/vmlinuz-linux-lts": file(loaderData('b'), at(3)),
		"boot/vmlinuz-6.1.0":         file(loaderData('1'), at(1)),
		"boot/vmlinuz-6.2.0":         file(loaderData('2'), at(2)),
	})
	b := testVolume("VolB", fstest.MapFS{
		"boot/vmlinuz-5.0": file(loaderData('5'), at(9)),
	})
	res := testEngine(testConfig(), []*volume.Volume{a, b}).RunFullScan("i")

	assert.Equal(t, []string{
		`VolA:EFI\arch\vmlinuz-linux`, `VolA:boot\vmlinuz-6.2.0`, `VolB:boot\vmlinuz-5.0`,
	}, loaderPaths(res.Entries))

	want := map[string][]string{
		`EFI\arch\vmlinuz-linux`: {defaultSubTitle, "vmlinuz-linux-lts: Boot Linux"},
		`boot\vmlinuz-6.2.0`:      {defaultSubTitle, "vmlinuz-6.1.0: Boot Linux"},
		`boot\vmlinuz-5.0`:        {defaultSubTitle},
	}
	for _, e := range res.Entries {
		le := e.(*LoaderEntry)
		if diff := cmp.Diff(want[le.Path], subTitles(le)); diff != "" {
			t.Errorf("%s sub-entries mismatch (-want +got):\n%s", le.Path, diff)
		}
		for _, sub := range le.SubEntries {
			assert.Same(t, le.Volume, sub.Volume)
			assert.Equal(t, volume.DirOf(le.Path), volume.DirOf(sub.Path))
		}
	}
}

func TestFullScanWithoutFolding(t *testing.T) {
	v := testVolume("root", fstest.MapFS{
		"boot/vmlinuz-6.1.0": file(loaderData('1'), at(1)),
		"boot/vmlinuz-6.2.0": file(loaderData('2'), at(2)),
		"boot/grubx64.efi":   file(loaderData('g'), at(3)),
	})
	cfg := testConfig()
	off := false
	cfg.FoldLinuxKernels = &off

	res := testEngine(cfg, []*volume.Volume{v}).RunFullScan("i")
	assert.Equal(t, []string{
		`root:boot\grubx64.efi`, `root:boot\vmlinuz-6.2.0`, `root:boot\vmlinuz-6.1.0`,
	}, loaderPaths(res.Entries))
}

func TestFullScanSourceOrder(t *testing.T) {
	internal := testVolume("Internal", fstest.MapFS{"EFI/os/a.efi": file(loaderData('a'), at(0))})
	external := testVolume("USB", fstest.MapFS{"EFI/os/b.efi": file(loaderData('b'), at(0))})
	external.Kind = volume.KindExternal
	vols := []*volume.Volume{internal, external}

	e := testEngine(testConfig(), vols)
	assert.Equal(t, []string{`USB:EFI\os\b.efi`, `Internal:EFI\os\a.efi`}, loaderPaths(e.RunFullScan("ei").Entries))
	assert.Equal(t, []string{`Internal:EFI\os\a.efi`}, loaderPaths(e.RunFullScan("i").Entries))
	assert.Equal(t, []string{`Internal:EFI\os\a.efi`, `USB:EFI\os\b.efi`}, loaderPaths(e.RunFullScan("").Entries))
}

func TestFullScanEmpty(t *testing.T) {
	res := testEngine(testConfig(), []*volume.Volume{testVolume("ESP", fstest.MapFS{})}).RunFullScan("ieom")
	assert.True(t, res.Empty())
	assert.NoError(t, res.Err())
}

func TestAssignDigits(t *testing.T) {
	var entries []Entry
	entries = append(entries, &ToolEntry{EntryInfo: EntryInfo{Row: RowTools}})
	for i := 0; i < 11; i++ {
		entries = append(entries, &LoaderEntry{})
	}
	assignDigits(entries)

	assert.Equal(t, rune(0), entries[0].Info().ShortcutDigit)
	assert.Equal(t, '1', entries[1].Info().ShortcutDigit)
	assert.Equal(t, '9', entries[9].Info().ShortcutDigit)
	assert.Equal(t, '0', entries[10].Info().ShortcutDigit)
	assert.Equal(t, rune(0), entries[11].Info().ShortcutDigit)
}

func TestPruneAtScanStart(t *testing.T) {
	v := testVolume("ESP", fstest.MapFS{"EFI/os/kept.efi": file(loaderData('k'), at(0))})
	state := memState{
		db.VarHiddenTags:  `ESP:\EFI\os\kept.efi,ESP:\EFI\gone.efi,plain.efi,Missing:\x.efi`,
		db.VarHiddenTools: `ESP:\EFI\tools\gdisk.efi`,
	}
	testEngine(testConfig(), []*volume.Volume{v}, WithState(state)).RunFullScan("i")

	assert.Equal(t, `ESP:\EFI\os\kept.efi,plain.efi`, state[db.VarHiddenTags])
	_, ok := state[db.VarHiddenTools]
	assert.False(t, ok)

	cfg := testConfig()
	off := false
	cfg.PruneHidden = &off
	state[db.VarHiddenTools] = `ESP:\EFI\tools\gdisk.efi`
	testEngine(cfg, []*volume.Volume{v}, WithState(state)).RunFullScan("i")
	assert.Equal(t, `ESP:\EFI\tools\gdisk.efi`, state[db.VarHiddenTools])
}
