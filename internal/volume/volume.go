// Package volume models the filesystems a scan walks and the ways of
// enumerating them.
package volume

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a query doesn't match any volume
	ErrNotFound = errors.New("volume not found")
	// ErrNoRoot is returned for file access on a volume without a root directory
	ErrNoRoot = errors.New("volume has no root directory")
)

// Kind classifies the physical medium a volume lives on.
type Kind int

const (
	KindInternal Kind = iota
	KindExternal
	KindOptical
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindExternal:
		return "external"
	case KindOptical:
		return "optical"
	case KindNetwork:
		return "network"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind accepts the names produced by String. Empty means internal.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "internal":
		return KindInternal, nil
	case "external", "usb":
		return KindExternal, nil
	case "optical", "cd", "dvd":
		return KindOptical, nil
	case "network", "net":
		return KindNetwork, nil
	}
	return KindInternal, fmt.Errorf("unknown disk kind %q", s)
}

// Volume is one scannable filesystem. It is treated as immutable while a
// scan pass is running.
type Volume struct {
	// Name is the display name used in titles and hidden-tag identifiers.
	Name     string
	FSName   string
	PartName string
	PartGUID uuid.UUID
	Kind     Kind
	// Device is the block device or image the volume came from.
	Device   string
	Root     fs.FS
	Readable bool
}

// HasGUID reports whether the partition GUID is known.
func (v *Volume) HasGUID() bool { return v.PartGUID != uuid.Nil }

// GUIDString returns the partition GUID or "" when unknown.
func (v *Volume) GUIDString() string {
	if !v.HasGUID() {
		return ""
	}
	return v.PartGUID.String()
}

// IsPreBoot reports whether this is an APFS PreBoot volume.
func (v *Volume) IsPreBoot() bool {
	return strings.Contains(v.FSName, "PreBoot") || strings.EqualFold(v.PartName, "PreBoot")
}

// MatchesDescription reports whether desc names this volume. A GUID
// description is compared to the partition GUID; anything else to the
// volume, filesystem and partition names.
func (v *Volume) MatchesDescription(desc string) bool {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return false
	}
	if id, ok := ParseGUID(desc); ok {
		return v.PartGUID == id
	}
	for _, name := range []string{v.Name, v.FSName, v.PartName} {
		if name != "" && strings.EqualFold(name, desc) {
			return true
		}
	}
	return false
}

// Describe returns the most specific human-readable name available.
func (v *Volume) Describe() string {
	for _, name := range []string{v.Name, v.FSName, v.PartName} {
		if name != "" {
			return name
		}
	}
	if v.HasGUID() {
		return v.GUIDString()
	}
	return "Unknown Volume"
}

func (v *Volume) String() string { return v.Describe() }

// ParseGUID accepts only the canonical 36 character form so that volume
// labels which happen to be hex strings are not mistaken for GUIDs.
func ParseGUID(s string) (uuid.UUID, bool) {
	if len(s) != 36 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
