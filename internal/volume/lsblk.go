package volume

import (
	"encoding/json"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"github.com/Norber-Developer/RefindPlus/internal/cache"
)

const lsblkCacheKey = "lsblk:volumes"

// LsblkLister enumerates mounted partitions of the running system.
type LsblkLister struct {
	// Cache defaults to the global cache when nil.
	Cache *cache.Cache[[]byte]
}

// lsblkOutput represents the JSON output from lsblk
type lsblkOutput struct {
	Blockdevices []lsblkDevice `json:"blockdevices"`
}

// lsblkDevice represents a single device in lsblk output
type lsblkDevice struct {
	Name       string        `json:"name"`
	Path       string        `json:"path"`
	Type       string        `json:"type"`
	PartUUID   string        `json:"partuuid"`
	PartLabel  string        `json:"partlabel"`
	Label      string        `json:"label"`
	FSType     string        `json:"fstype"`
	Tran       string        `json:"tran"`
	RM         flexBool      `json:"rm"`
	Mountpoint string        `json:"mountpoint"`
	Children   []lsblkDevice `json:"children,omitempty"`
}

// List runs lsblk and converts every filesystem-bearing device.
func (l *LsblkLister) List() ([]*Volume, error) {
	c := l.Cache
	if c == nil {
		c = lsblkCache()
	}
	out, ok := c.Get(lsblkCacheKey)
	if !ok {
		cmd := exec.Command("lsblk", "-J", "-o",
			"NAME,PATH,TYPE,PARTUUID,PARTLABEL,LABEL,FSTYPE,TRAN,RM,MOUNTPOINT")
		var err error
		out, err = cmd.Output()
		if err != nil {
			return nil, err
		}
		c.SetFast(lsblkCacheKey, out)
	}
	return parseLsblk(out, os.DirFS)
}

var lsblkCacheInstance = cache.New[[]byte]()

func lsblkCache() *cache.Cache[[]byte] { return lsblkCacheInstance }

// parseLsblk converts lsblk JSON into volumes; mount maps a mountpoint to
// its root handle.
func parseLsblk(out []byte, mount func(string) fs.FS) ([]*Volume, error) {
	var output lsblkOutput
	if err := json.Unmarshal(out, &output); err != nil {
		return nil, err
	}

	var vols []*Volume
	for _, dev := range output.Blockdevices {
		vols = processDevice(dev, "", false, mount, vols)
	}
	return vols, nil
}

func processDevice(dev lsblkDevice, tran string, removable bool, mount func(string) fs.FS, vols []*Volume) []*Volume {
	// Transport and removability are only reported on the whole disk
	if dev.Tran != "" {
		tran = dev.Tran
	}
	removable = removable || bool(dev.RM)

	if dev.FSType != "" {
		v := &Volume{
			Name:     dev.Label,
			FSName:   dev.Label,
			PartName: dev.PartLabel,
			Kind:     classifyDevice(dev.Type, tran, removable),
			Device:   dev.Path,
		}
		if v.Name == "" {
			v.Name = dev.PartLabel
		}
		if id, ok := ParseGUID(dev.PartUUID); ok {
			v.PartGUID = id
		}
		if dev.Mountpoint != "" {
			v.Root = mount(dev.Mountpoint)
			v.Readable = true
		}
		vols = append(vols, v)
	}

	for _, child := range dev.Children {
		vols = processDevice(child, tran, removable, mount, vols)
	}
	return vols
}

func classifyDevice(devType, tran string, removable bool) Kind {
	switch {
	case devType == "rom":
		return KindOptical
	case strings.EqualFold(tran, "usb"), removable:
		return KindExternal
	case strings.EqualFold(tran, "iscsi"), strings.HasPrefix(devType, "nbd"):
		return KindNetwork
	}
	return KindInternal
}

// flexBool accepts both the boolean and the "0"/"1" forms older lsblk
// releases print.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "true", "1":
		*b = true
	default:
		*b = false
	}
	return nil
}
