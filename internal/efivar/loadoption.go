package efivar

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/unicode"
)

// LoadOptionActive is the EFI_LOAD_OPTION attribute bit for active options.
const LoadOptionActive = 0x1

// LoadOption is one parsed EFI_LOAD_OPTION.
type LoadOption struct {
	Number       uint16
	Attributes   uint32
	Label        string
	DevicePath   DevicePath
	OptionalData []byte
}

// Active reports whether the firmware will consider this option.
func (o LoadOption) Active() bool { return o.Attributes&LoadOptionActive != 0 }

var errShortOption = errors.New("truncated load option")

// ParseLoadOption decodes the payload of a Boot#### variable.
func ParseLoadOption(data []byte) (LoadOption, error) {
	var opt LoadOption
	if len(data) < 6 {
		return opt, errShortOption
	}
	opt.Attributes = binary.LittleEndian.Uint32(data[0:4])
	pathLen := int(binary.LittleEndian.Uint16(data[4:6]))
	rest := data[6:]

	end := -1
	for i := 0; i+1 < len(rest); i += 2 {
		if rest[i] == 0 && rest[i+1] == 0 {
			end = i
			break
		}
	}
	if end < 0 {
		return opt, fmt.Errorf("%w: unterminated description", errShortOption)
	}
	label, err := decodeUTF16(rest[:end])
	if err != nil {
		return opt, fmt.Errorf("bad description: %w", err)
	}
	opt.Label = label
	rest = rest[end+2:]

	if len(rest) < pathLen {
		return opt, fmt.Errorf("%w: device path wants %d bytes, have %d", errShortOption, pathLen, len(rest))
	}
	opt.DevicePath = DevicePath(rest[:pathLen])
	opt.OptionalData = rest[pathLen:]
	return opt, nil
}

func decodeUTF16(b []byte) (string, error) {
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DevicePath is a packed EFI device path.
type DevicePath []byte

// Device path node types and subtypes we render by name.
const (
	dpTypeHardware  = 0x01
	dpTypeACPI      = 0x02
	dpTypeMessaging = 0x03
	dpTypeMedia     = 0x04
	dpTypeEnd       = 0x7f

	dpMediaHardDrive = 0x01
	dpMediaFilePath  = 0x04
)

// String renders the path in the firmware's text notation, as far as the
// node types are known; others are shown as raw type/subtype pairs.
func (p DevicePath) String() string {
	var parts []string
	b := []byte(p)
	for len(b) >= 4 {
		typ, sub := b[0], b[1]
		n := int(binary.LittleEndian.Uint16(b[2:4]))
		if n < 4 || n > len(b) {
			parts = append(parts, "Invalid")
			break
		}
		node := b[4:n]
		b = b[n:]
		if typ == dpTypeEnd {
			break
		}
		parts = append(parts, nodeString(typ, sub, node))
	}
	return strings.Join(parts, "/")
}

// FilePath returns the first media file path node, if any.
func (p DevicePath) FilePath() string {
	b := []byte(p)
	for len(b) >= 4 {
		typ, sub := b[0], b[1]
		n := int(binary.LittleEndian.Uint16(b[2:4]))
		if n < 4 || n > len(b) || typ == dpTypeEnd {
			return ""
		}
		if typ == dpTypeMedia && sub == dpMediaFilePath {
			s, _ := decodeUTF16(trimNul(b[4:n]))
			return s
		}
		b = b[n:]
	}
	return ""
}

// PartitionGUID returns the GPT signature of the first hard drive node.
func (p DevicePath) PartitionGUID() (uuid.UUID, bool) {
	b := []byte(p)
	for len(b) >= 4 {
		typ, sub := b[0], b[1]
		n := int(binary.LittleEndian.Uint16(b[2:4]))
		if n < 4 || n > len(b) || typ == dpTypeEnd {
			break
		}
		if typ == dpTypeMedia && sub == dpMediaHardDrive && n >= 42 && b[41] == 2 {
			return guidFromEFI(b[24:40]), true
		}
		b = b[n:]
	}
	return uuid.Nil, false
}

func nodeString(typ, sub byte, node []byte) string {
	switch {
	case typ == dpTypeMedia && sub == dpMediaHardDrive && len(node) >= 38:
		num := binary.LittleEndian.Uint32(node[0:4])
		if node[37] == 2 {
			return fmt.Sprintf("HD(%d,GPT,%s)", num, guidFromEFI(node[20:36]))
		}
		return fmt.Sprintf("HD(%d,MBR)", num)
	case typ == dpTypeMedia && sub == dpMediaFilePath:
		s, err := decodeUTF16(trimNul(node))
		if err == nil {
			return s
		}
	case typ == dpTypeHardware:
		return fmt.Sprintf("HW(%d)", sub)
	case typ == dpTypeACPI:
		return fmt.Sprintf("Acpi(%d)", sub)
	case typ == dpTypeMessaging:
		return fmt.Sprintf("Msg(%d)", sub)
	}
	return fmt.Sprintf("Path(%d,%d)", typ, sub)
}

func trimNul(b []byte) []byte {
	for len(b) >= 2 && b[len(b)-2] == 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-2]
	}
	return b
}

// guidFromEFI converts the mixed-endian EFI_GUID layout to a UUID.
func guidFromEFI(b []byte) uuid.UUID {
	var u uuid.UUID
	copy(u[:], b)
	u[0], u[1], u[2], u[3] = b[3], b[2], b[1], b[0]
	u[4], u[5] = b[5], b[4]
	u[6], u[7] = b[7], b[6]
	return u
}
