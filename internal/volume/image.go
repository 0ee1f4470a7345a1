package volume

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/Norber-Developer/RefindPlus/internal/config"
	"github.com/Norber-Developer/RefindPlus/internal/log"
	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/filesystem"
	"github.com/diskfs/go-diskfs/filesystem/fat32"
	"github.com/diskfs/go-diskfs/partition/gpt"
	"go.uber.org/multierr"
)

// ImageLister exposes the FAT partitions of raw GPT disk images. Other
// filesystems are listed unreadable, the way firmware without a driver
// for them sees them.
type ImageLister struct {
	Specs []config.ImageSpec

	// open disk handles; the listed volumes read through them until Close
	disks []io.Closer
}

// List opens every image read-only and converts its partitions. The images
// stay open until Close.
func (l *ImageLister) List() ([]*Volume, error) {
	var vols []*Volume
	for _, spec := range l.Specs {
		kind, err := ParseKind(spec.Kind)
		if err != nil {
			return nil, fmt.Errorf("image %s: %w", spec.Path, err)
		}
		imgVols, d, err := listImage(spec.Path, kind)
		if err != nil {
			return nil, fmt.Errorf("image %s: %w", spec.Path, err)
		}
		l.disks = append(l.disks, d)
		vols = append(vols, imgVols...)
	}
	return vols, nil
}

// Close releases every image opened by List. Volumes from those images are
// unusable afterwards.
func (l *ImageLister) Close() error {
	var err error
	for _, d := range l.disks {
		err = multierr.Append(err, d.Close())
	}
	l.disks = nil
	return err
}

func listImage(imagePath string, kind Kind) ([]*Volume, io.Closer, error) {
	d, err := diskfs.Open(imagePath, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open disk image: %w", err)
	}
	table, err := d.GetPartitionTable()
	if err != nil {
		d.Close()
		return nil, nil, fmt.Errorf("failed to read partition table: %w", err)
	}
	gptTable, ok := table.(*gpt.Table)
	if !ok {
		d.Close()
		return nil, nil, fmt.Errorf("partition table is %s, only GPT is supported", table.Type())
	}

	var vols []*Volume
	for i, p := range gptTable.Partitions {
		partitionIndex := i + 1 // go-diskfs uses 1-based indexing
		v := &Volume{
			Name:     p.Name,
			PartName: p.Name,
			Kind:     kind,
			Device:   fmt.Sprintf("%s:%d", imagePath, partitionIndex),
		}
		if id, ok := ParseGUID(p.GUID); ok {
			v.PartGUID = id
		}

		fsys, err := d.GetFilesystem(partitionIndex)
		if err != nil {
			log.Debugf("No readable filesystem on %s: %v", v.Device, err)
			vols = append(vols, v)
			continue
		}
		fat, ok := fsys.(*fat32.FileSystem)
		if !ok {
			vols = append(vols, v)
			continue
		}
		if label := strings.TrimSpace(fat.Label()); label != "" {
			v.FSName = label
			if v.Name == "" {
				v.Name = label
			}
		}
		v.Root = &diskFS{fs: fat}
		v.Readable = true
		vols = append(vols, v)
	}
	return vols, d, nil
}

// diskFilesystem is the part of the go-diskfs filesystem API we read through.
type diskFilesystem interface {
	ReadDir(path string) ([]os.FileInfo, error)
	OpenFile(path string, flag int) (filesystem.File, error)
}

// diskFS adapts a go-diskfs filesystem to io/fs.
type diskFS struct {
	fs diskFilesystem
}

func (d *diskFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	infos, err := d.fs.ReadDir(absPath(name))
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: translateErr(err)}
	}
	entries := make([]fs.DirEntry, 0, len(infos))
	for _, fi := range infos {
		if fi.Name() == "." || fi.Name() == ".." {
			continue
		}
		entries = append(entries, fs.FileInfoToDirEntry(fi))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (d *diskFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return &diskDir{fs: d, name: name, info: rootInfo{}}, nil
	}

	dir, base := path.Split(name)
	infos, err := d.fs.ReadDir(absPath(strings.TrimSuffix(dir, "/")))
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: translateErr(err)}
	}
	for _, fi := range infos {
		if fi.Name() != base {
			continue
		}
		if fi.IsDir() {
			return &diskDir{fs: d, name: name, info: fi}, nil
		}
		f, err := d.fs.OpenFile(absPath(name), os.O_RDONLY)
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		return &diskFile{f: f, info: fi}, nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func absPath(name string) string {
	if name == "." || name == "" {
		return "/"
	}
	return "/" + name
}

// go-diskfs reports missing paths with plain errors.
func translateErr(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "not found") ||
		strings.Contains(strings.ToLower(err.Error()), "does not exist") {
		return fs.ErrNotExist
	}
	return err
}

type diskFile struct {
	f    io.ReadCloser
	info fs.FileInfo
}

func (f *diskFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *diskFile) Read(p []byte) (int, error) { return f.f.Read(p) }
func (f *diskFile) Close() error               { return f.f.Close() }

type diskDir struct {
	fs   *diskFS
	name string
	info fs.FileInfo
	rest []fs.DirEntry
	read bool
}

func (d *diskDir) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *diskDir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.name, Err: fs.ErrInvalid}
}
func (d *diskDir) Close() error { return nil }

func (d *diskDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if !d.read {
		entries, err := d.fs.ReadDir(d.name)
		if err != nil {
			return nil, err
		}
		d.rest, d.read = entries, true
	}
	if n <= 0 {
		out := d.rest
		d.rest = nil
		return out, nil
	}
	if len(d.rest) == 0 {
		return nil, io.EOF
	}
	if n > len(d.rest) {
		n = len(d.rest)
	}
	out := d.rest[:n]
	d.rest = d.rest[n:]
	return out, nil
}

type rootInfo struct{}

func (rootInfo) Name() string       { return "." }
func (rootInfo) Size() int64        { return 0 }
func (rootInfo) Mode() fs.FileMode  { return fs.ModeDir | 0o555 }
func (rootInfo) ModTime() time.Time { return time.Time{} }
func (rootInfo) IsDir() bool        { return true }
func (rootInfo) Sys() any           { return nil }
