package scan

import (
	"github.com/saferwall/pe"

	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

// PEValidator accepts PE images built for one machine type.
type PEValidator struct {
	Machine uint16
}

// NewPEValidator returns a validator for the named architecture.
func NewPEValidator(arch string) *PEValidator {
	return &PEValidator{Machine: archFor(arch).machine}
}

func (p *PEValidator) IsValidLoader(v *volume.Volume, path string) bool {
	data, err := v.ReadFile(path)
	if err != nil {
		return false
	}
	f, err := pe.NewBytes(data, &pe.Options{Fast: true})
	if err != nil {
		return false
	}
	defer f.Close()
	if err := f.Parse(); err != nil {
		return false
	}
	if p.Machine == 0 {
		return true
	}
	return uint16(f.NtHeader.FileHeader.Machine) == p.Machine
}

// AcceptAll treats every file as a valid loader.
type AcceptAll struct{}

func (AcceptAll) IsValidLoader(*volume.Volume, string) bool { return true }
