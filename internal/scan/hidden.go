package scan

import (
	"errors"
	"fmt"

	"github.com/Norber-Developer/RefindPlus/internal/db"
	"github.com/Norber-Developer/RefindPlus/internal/log"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

// ErrNotHideable is returned for entries that have no hidden identifier.
var ErrNotHideable = errors.New("entry cannot be hidden")

// HiddenIdentifier returns the variable and identifier under which e is
// hidden. Files are identified as "GUID:path", or "name:path" when the
// volume has no GUID.
func HiddenIdentifier(e Entry) (varName, id string, err error) {
	switch e := e.(type) {
	case *LoaderEntry:
		if e.Manual {
			return "", "", ErrNotHideable
		}
		return db.VarHiddenTags, fileIdentifier(e.Volume, e.Path), nil
	case *ToolEntry:
		if e.Volume == nil {
			return "", "", ErrNotHideable
		}
		return db.VarHiddenTools, fileIdentifier(e.Volume, e.Path), nil
	case *FirmwareEntry:
		return db.VarHiddenFirmware, e.Record.Label, nil
	case *LegacyEntry:
		return db.VarHiddenLegacy, e.Record.Name, nil
	case *NetworkEntry:
		return "", "", ErrNotHideable
	}
	return "", "", fmt.Errorf("unknown entry type %T", e)
}

func fileIdentifier(v *volume.Volume, path string) string {
	prefix := v.Name
	if v.HasGUID() {
		prefix = v.GUIDString()
	} else if prefix == "" {
		prefix = v.Describe()
	}
	return prefix + ":" + volume.Display(path)
}

// HideEntry records e in the matching hidden variable. Hiding an entry
// twice stores it once.
func HideEntry(store StateStore, e Entry) (string, string, error) {
	varName, id, err := HiddenIdentifier(e)
	if err != nil {
		return "", "", err
	}
	if err := AddHidden(store, varName, id); err != nil {
		return "", "", err
	}
	return varName, id, nil
}

// AddHidden appends id to the hidden variable varName.
func AddHidden(store StateStore, varName, id string) error {
	if store == nil {
		return errors.New("no state store")
	}
	cur, err := store.ReadVar(varName)
	if err != nil {
		return err
	}
	next := AddToList(cur, id)
	if next == cur {
		return nil
	}
	return store.WriteVar(varName, next)
}

// Unhide removes id from varName and reports whether it was present.
func Unhide(store StateStore, varName, id string) (bool, error) {
	if store == nil {
		return false, errors.New("no state store")
	}
	cur, err := store.ReadVar(varName)
	if err != nil {
		return false, err
	}
	next, removed := DeleteFromList(cur, id)
	if !removed {
		return false, nil
	}
	return true, store.WriteVar(varName, next)
}

// ReadHidden returns the elements of varName.
func ReadHidden(store StateStore, varName string) ([]string, error) {
	if store == nil {
		return nil, nil
	}
	cur, err := store.ReadVar(varName)
	if err != nil {
		return nil, err
	}
	return SplitList(cur), nil
}

// PruneHidden drops volume-qualified identifiers whose volume is gone or
// whose file no longer exists. The variable is only rewritten when
// something was removed. Unqualified identifiers are kept.
func PruneHidden(store StateStore, idx *volume.Index, varName string) ([]string, error) {
	if store == nil {
		return nil, nil
	}
	cur, err := store.ReadVar(varName)
	if err != nil {
		return nil, err
	}

	var kept, removed []string
	for _, id := range SplitList(cur) {
		vol, path := volume.SplitVolumeAndFilename(id)
		if vol == "" || hiddenTargetExists(idx, vol, path) {
			kept = append(kept, id)
			continue
		}
		removed = append(removed, id)
	}
	if len(removed) == 0 {
		return nil, nil
	}
	log.Infof("pruned %d stale %s identifiers", len(removed), varName)
	return removed, store.WriteVar(varName, JoinList(kept))
}

func hiddenTargetExists(idx *volume.Index, vol, path string) bool {
	if idx == nil {
		return false
	}
	v, _, err := idx.Lookup(vol)
	if err != nil {
		return false
	}
	return v.FileExists(path)
}
