package scan

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

func rawNames(raws []rawCandidate) []string {
	var out []string
	for _, r := range raws {
		out = append(out, volume.Basename(r.Path))
	}
	return out
}

func TestCollectOrdersByModTime(t *testing.T) {
	v := testVolume("ESP", fstest.MapFS{
		"EFI/os/a.efi": file(loaderData('a'), at(1)),
		"EFI/os/b.efi": file(loaderData('b'), at(3)),
		"EFI/os/c.efi": file(loaderData('c'), at(2)),
	})
	c := testEngine(testConfig(), []*volume.Volume{v}).newScanContext()

	raws, dup, err := c.collectDirectory(v, `EFI\os`, loaderPatterns)
	require.NoError(t, err)
	assert.False(t, dup)
	assert.Equal(t, []string{"b.efi", "c.efi", "a.efi"}, rawNames(raws))
}

func TestCollectRescueLast(t *testing.T) {
	v := testVolume("ESP", fstest.MapFS{
		"EFI/os/a.efi":                      file(loaderData('a'), at(1)),
		"EFI/os/b.efi":                      file(loaderData('b'), at(3)),
		"EFI/os/c.efi":                      file(loaderData('c'), at(2)),
		"EFI/os/vmlinuz-0-rescue-abcd.efi":  file(loaderData('r'), at(10)),
		"EFI/os/vmlinuz-0-RESCUE-older.efi": file(loaderData('s'), at(0)),
	})
	c := testEngine(testConfig(), []*volume.Volume{v}).newScanContext()

	raws, _, err := c.collectDirectory(v, `EFI\os`, loaderPatterns)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"b.efi", "c.efi", "a.efi",
		"vmlinuz-0-rescue-abcd.efi", "vmlinuz-0-RESCUE-older.efi",
	}, rawNames(raws))
}

func TestCollectTiesKeepDirectoryOrder(t *testing.T) {
	v := testVolume("ESP", fstest.MapFS{
		"EFI/os/a.efi": file(loaderData('a'), at(0).Add(100)),
		"EFI/os/b.efi": file(loaderData('b'), at(0).Add(900)),
		"EFI/os/c.efi": file(loaderData('c'), at(0)),
	})
	c := testEngine(testConfig(), []*volume.Volume{v}).newScanContext()

	raws, _, err := c.collectDirectory(v, `EFI\os`, loaderPatterns)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.efi", "b.efi", "c.efi"}, rawNames(raws), "sub-second differences are ties")
}

func TestCollectFilters(t *testing.T) {
	data := loaderData('x')
	v := testVolume("ESP", fstest.MapFS{
		"shell.efi":                file(data, at(0)),
		"root.efi":                 file(data, at(0)),
		"EFI/BOOT/BOOTX64.EFI":     file(data, at(0)),
		"EFI/BOOT/other.efi":       file(loaderData('o'), at(0)),
		"EFI/os/.hidden.efi":       file(data, at(0)),
		"EFI/os/icon.png":          file(data, at(0)),
		"EFI/os/kernel.icns":       file(data, at(0)),
		"EFI/os/signed.efi":        file(loaderData('s'), at(0)),
		"EFI/os/signed.efi.signed": file(loaderData('s'), at(0)),
		"EFI/os/shimx64.efi":       file(loaderData('m'), at(0)),
		"EFI/os/readme.txt":        file(data, at(0)),
		"EFI/os/vmlinuz-6.1":       file(loaderData('k'), at(0)),
		"EFI/os/grubx64.efi":       file(loaderData('g'), at(0)),
		"EFI/os/sub/nested.efi":    file(data, at(0)),
	})
	c := testEngine(testConfig(), []*volume.Volume{v}).newScanContext()

	raws, _, err := c.collectDirectory(v, "", c.namePatterns())
	require.NoError(t, err)
	assert.Equal(t, []string{"root.efi"}, rawNames(raws))

	raws, dup, err := c.collectDirectory(v, `EFI\BOOT`, c.namePatterns())
	require.NoError(t, err)
	assert.False(t, dup)
	assert.Equal(t, []string{"other.efi"}, rawNames(raws))

	raws, _, err = c.collectDirectory(v, `EFI\os`, c.namePatterns())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"grubx64.efi", "vmlinuz-6.1"}, rawNames(raws))

	raws, _, err = c.collectDirectory(v, `EFI\os`, loaderPatterns)
	require.NoError(t, err)
	assert.Equal(t, []string{"grubx64.efi"}, rawNames(raws))
}

func TestCollectMissingDirectory(t *testing.T) {
	v := testVolume("ESP", fstest.MapFS{})
	c := testEngine(testConfig(), []*volume.Volume{v}).newScanContext()

	raws, dup, err := c.collectDirectory(v, `EFI\nothing`, loaderPatterns)
	assert.NoError(t, err)
	assert.False(t, dup)
	assert.Empty(t, raws)
}

type brokenFS struct{ fstest.MapFS }

func (b brokenFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name == "EFI/bad" {
		return nil, errors.New("device error")
	}
	return b.MapFS.ReadDir(name)
}

func TestScanDirectoryWarnsOnReadError(t *testing.T) {
	v := testVolume("ESP", nil)
	v.Root = brokenFS{fstest.MapFS{
		"EFI/bad/a.efi":  file(loaderData('a'), at(0)),
		"EFI/good/b.efi": file(loaderData('b'), at(0)),
	}}
	e := testEngine(testConfig(), []*volume.Volume{v})

	res := e.RunFullScan("i")
	assert.Equal(t, []string{`ESP:EFI\good\b.efi`}, loaderPaths(res.Entries))
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Error(), `'\EFI\bad' directory on 'ESP'`)
	assert.Error(t, res.Err())
}
