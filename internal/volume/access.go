package volume

import (
	"errors"
	"io/fs"
	"path"
	"strings"
)

// Firmware filesystems are case-insensitive. The roots we get handed on a
// host usually are not, so lookups fall back to a case-folding walk.

// Resolve maps a stored path to the io/fs path of the matching file.
func (v *Volume) Resolve(p string) (string, error) {
	if v.Root == nil {
		return "", ErrNoRoot
	}
	return resolve(v.Root, p)
}

func resolve(fsys fs.FS, p string) (string, error) {
	want := FSPath(p)
	if want == "." {
		return want, nil
	}
	if _, err := fs.Stat(fsys, want); err == nil {
		return want, nil
	}

	cur := "."
	for _, elem := range strings.Split(want, "/") {
		entries, err := fs.ReadDir(fsys, cur)
		if err != nil {
			return "", err
		}
		found := ""
		for _, e := range entries {
			if e.Name() == elem {
				found = elem
				break
			}
			if found == "" && strings.EqualFold(e.Name(), elem) {
				found = e.Name()
			}
		}
		if found == "" {
			return "", &fs.PathError{Op: "open", Path: Display(p), Err: fs.ErrNotExist}
		}
		cur = path.Join(cur, found)
	}
	return cur, nil
}

// Stat returns file info for p.
func (v *Volume) Stat(p string) (fs.FileInfo, error) {
	fp, err := v.Resolve(p)
	if err != nil {
		return nil, err
	}
	return fs.Stat(v.Root, fp)
}

// Exists reports whether p names an existing file or directory.
func (v *Volume) Exists(p string) bool {
	_, err := v.Stat(p)
	return err == nil
}

// FileExists reports whether p names an existing regular file.
func (v *Volume) FileExists(p string) bool {
	fi, err := v.Stat(p)
	return err == nil && !fi.IsDir()
}

// ReadDir lists the directory p.
func (v *Volume) ReadDir(p string) ([]fs.DirEntry, error) {
	fp, err := v.Resolve(p)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(v.Root, fp)
}

// ReadFile returns the contents of p.
func (v *Volume) ReadFile(p string) ([]byte, error) {
	fp, err := v.Resolve(p)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(v.Root, fp)
}

// Open opens p for reading.
func (v *Volume) Open(p string) (fs.File, error) {
	fp, err := v.Resolve(p)
	if err != nil {
		return nil, err
	}
	return v.Root.Open(fp)
}

// IsNotExist reports whether err means "nothing here".
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, ErrNoRoot)
}
