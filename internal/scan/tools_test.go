package scan

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norber-Developer/RefindPlus/internal/db"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

func toolKinds(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		switch e := e.(type) {
		case *ToolEntry:
			out = append(out, string(e.Kind))
		case *FirmwareEntry:
			out = append(out, "firmware:"+e.Record.Label)
		}
	}
	return out
}

func TestToolsRow(t *testing.T) {
	v := testVolume("ESP", fstest.MapFS{
		"EFI/tools/shell_x64.efi":           file(loaderData('s'), at(0)),
		"EFI/tools/gdisk_x64.efi":           file(loaderData('g'), at(0)),
		"EFI/tools/memtest86/memtest86.efi": file(loaderData('m'), at(0)),
		"shell.efi":                         file(loaderData('r'), at(0)),
	})
	cfg := testConfig()
	cfg.ShowTools = []string{"shell", "gdisk", "memtest", "about", "hidden_tags", "firmware", "bogus", "shutdown"}
	fw := firmwareList()
	fw.toFW = true

	res := testEngine(cfg, []*volume.Volume{v}, WithFirmware(fw)).RunFullScan("i")

	assert.Equal(t, []string{
		"shell", "shell", "firmware:UEFI Shell x64",
		"gdisk", "memtest", "about", "firmware", "shutdown",
	}, toolKinds(res.Entries))
	assert.Empty(t, loaderPaths(res.Entries), "shells are not loaders")

	for _, e := range res.Entries {
		assert.Equal(t, RowTools, e.Info().Row)
		assert.Equal(t, rune(0), e.Info().ShortcutDigit)
	}
	shell := res.Entries[0].(*ToolEntry)
	assert.Equal(t, "Load EFI Shell", shell.Title)
	assert.Equal(t, `EFI\tools\shell_x64.efi`, shell.Path)
	assert.Equal(t, 'S', shell.ShortcutLetter)
}

func TestToolsHiddenAndExcluded(t *testing.T) {
	v := testVolume("ESP", fstest.MapFS{
		"EFI/tools/gdisk.efi":   file(loaderData('g'), at(0)),
		"EFI/tools/gptsync.efi": file(loaderData('p'), at(0)),
	})
	cfg := testConfig()
	cfg.ShowTools = []string{"gdisk", "gptsync", "hidden_tags"}
	cfg.DontScanTools = "gptsync.efi"
	state := memState{db.VarHiddenTools: `ESP:\EFI\tools\gdisk.efi`}

	res := testEngine(cfg, []*volume.Volume{v}, WithState(state)).RunFullScan("i")
	assert.Equal(t, []string{"hidden_tags"}, toolKinds(res.Entries))
}

func TestToolsSearchSelfVolumeFirst(t *testing.T) {
	other := testVolume("Other", fstest.MapFS{"EFI/tools/gdisk.efi": file(loaderData('o'), at(0))})
	self := testVolume("Self", fstest.MapFS{"EFI/tools/gdisk.efi": file(loaderData('s'), at(0))})
	cfg := testConfig()
	cfg.ShowTools = []string{"gdisk", "windows_recovery"}
	cfg.Self.Volume = "Self"

	res := testEngine(cfg, []*volume.Volume{other, self}).RunFullScan("")
	require.Len(t, res.Entries, 1)
	assert.Same(t, self, res.Entries[0].(*ToolEntry).Volume)
}
