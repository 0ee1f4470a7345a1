// Package efivar reads UEFI variables from an efivarfs mount.
package efivar

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Norber-Developer/RefindPlus/internal/log"
)

// DefaultDir is where Linux mounts efivarfs.
const DefaultDir = "/sys/firmware/efi/efivars"

// GlobalGUID is the vendor GUID of the architecturally defined variables.
const GlobalGUID = "8be4df61-93ca-11d2-aa0d-00e098032b8c"

// OsIndicationBootToFWUI is the OsIndicationsSupported bit for "reboot
// into the firmware setup".
const OsIndicationBootToFWUI = 0x1

// ErrNotFound is returned when a variable does not exist
var ErrNotFound = errors.New("variable not found")

// Store reads variables from an efivarfs directory.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir, or DefaultDir when dir is empty.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	return &Store{Dir: dir}
}

// Read returns the attributes and payload of name-guid.
func (s *Store) Read(name, guid string) (uint32, []byte, error) {
	raw, err := os.ReadFile(filepath.Join(s.Dir, name+"-"+guid))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return 0, nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(raw) < 4 {
		return 0, nil, fmt.Errorf("%s: short variable (%d bytes)", name, len(raw))
	}
	return binary.LittleEndian.Uint32(raw[:4]), raw[4:], nil
}

// BootOrder returns the boot option numbers in firmware order. A missing
// BootOrder is an empty list.
func (s *Store) BootOrder() ([]uint16, error) {
	_, data, err := s.Read("BootOrder", GlobalGUID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("BootOrder: odd length %d", len(data))
	}
	order := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		order = append(order, binary.LittleEndian.Uint16(data[i:]))
	}
	return order, nil
}

// BootOption reads and parses Boot####.
func (s *Store) BootOption(num uint16) (LoadOption, error) {
	_, data, err := s.Read(BootVarName(num), GlobalGUID)
	if err != nil {
		return LoadOption{}, err
	}
	opt, err := ParseLoadOption(data)
	if err != nil {
		return LoadOption{}, fmt.Errorf("%s: %w", BootVarName(num), err)
	}
	opt.Number = num
	return opt, nil
}

// BootEntries returns every boot option named by BootOrder, in order.
// Options that are missing or malformed are skipped with a warning.
func (s *Store) BootEntries() ([]LoadOption, error) {
	order, err := s.BootOrder()
	if err != nil {
		return nil, err
	}
	opts := make([]LoadOption, 0, len(order))
	for _, num := range order {
		opt, err := s.BootOption(num)
		if err != nil {
			log.Warnf("Skipping firmware boot option %s: %v", BootVarName(num), err)
			continue
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

// OsIndicationsSupported returns the firmware's OsIndicationsSupported mask.
func (s *Store) OsIndicationsSupported() (uint64, error) {
	_, data, err := s.Read("OsIndicationsSupported", GlobalGUID)
	if err != nil {
		return 0, err
	}
	if len(data) < 8 {
		return 0, fmt.Errorf("OsIndicationsSupported: short value (%d bytes)", len(data))
	}
	return binary.LittleEndian.Uint64(data), nil
}

// BootToFirmwareSupported reports whether the firmware can be asked to
// stop in its setup screen on the next boot.
func (s *Store) BootToFirmwareSupported() bool {
	mask, err := s.OsIndicationsSupported()
	return err == nil && mask&OsIndicationBootToFWUI != 0
}

// BootVarName formats a boot option number as its variable name.
func BootVarName(num uint16) string {
	return fmt.Sprintf("Boot%04X", num)
}
