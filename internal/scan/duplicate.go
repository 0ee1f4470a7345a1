package scan

import (
	"bytes"
	"io"
	"strings"

	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

const compareChunk = 32 * 1024

// IsDuplicateOfFallback reports whether the loader at path has the same
// contents as the fallback loader on the same volume.
func IsDuplicateOfFallback(v *volume.Volume, path, fallback string) bool {
	path = volume.CleanPath(path)
	fallback = volume.CleanPath(fallback)
	if strings.EqualFold(path, fallback) {
		return false
	}
	a, err := v.Stat(path)
	if err != nil || a.IsDir() {
		return false
	}
	b, err := v.Stat(fallback)
	if err != nil || b.IsDir() {
		return false
	}
	if a.Size() != b.Size() {
		return false
	}
	same, err := sameContents(v, path, fallback)
	return err == nil && same
}

func sameContents(v *volume.Volume, p1, p2 string) (bool, error) {
	f1, err := v.Open(p1)
	if err != nil {
		return false, err
	}
	defer f1.Close()
	f2, err := v.Open(p2)
	if err != nil {
		return false, err
	}
	defer f2.Close()

	b1 := make([]byte, compareChunk)
	b2 := make([]byte, compareChunk)
	for {
		n1, err1 := io.ReadFull(f1, b1)
		n2, err2 := io.ReadFull(f2, b2)
		if n1 != n2 || !bytes.Equal(b1[:n1], b2[:n2]) {
			return false, nil
		}
		end1 := err1 == io.EOF || err1 == io.ErrUnexpectedEOF
		end2 := err2 == io.EOF || err2 == io.ErrUnexpectedEOF
		if end1 || end2 {
			return end1 && end2, nil
		}
		if err1 != nil {
			return false, err1
		}
		if err2 != nil {
			return false, err2
		}
	}
}

// LooksLikeAliasOrLink reports whether the size seen when opening the file
// disagrees with the size its directory record gave. This is a heuristic
// for alias-like entries, not a link test. A file that cannot be opened
// counts as zero length.
func LooksLikeAliasOrLink(v *volume.Volume, path string, dirSize int64) bool {
	var size int64
	if f, err := v.Open(path); err == nil {
		if fi, err := f.Stat(); err == nil {
			size = fi.Size()
		}
		f.Close()
	}
	return size != dirSize
}
