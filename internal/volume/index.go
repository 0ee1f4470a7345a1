package volume

import "strings"

// IdentifierType describes what kind of identifier a lookup matched
type IdentifierType string

const (
	IDPartGUID IdentifierType = "part_guid"
	IDName     IdentifierType = "name"
	IDFSName   IdentifierType = "fs_name"
	IDPartName IdentifierType = "part_name"
	IDUnknown  IdentifierType = "unknown"
)

// Index provides lookups of volumes by any of their identifiers.
type Index struct {
	Volumes []*Volume

	// Reverse lookup indexes (lowercased identifier -> volume)
	ByPartGUID map[string]*Volume
	ByName     map[string]*Volume
	ByFSName   map[string]*Volume
	ByPartName map[string]*Volume
}

// NewIndex indexes vols. When two volumes share an identifier the first
// one wins, matching enumeration order.
func NewIndex(vols []*Volume) *Index {
	idx := &Index{
		Volumes:    vols,
		ByPartGUID: make(map[string]*Volume),
		ByName:     make(map[string]*Volume),
		ByFSName:   make(map[string]*Volume),
		ByPartName: make(map[string]*Volume),
	}
	for _, v := range vols {
		if v.HasGUID() {
			addIndex(idx.ByPartGUID, v.GUIDString(), v)
		}
		addIndex(idx.ByName, v.Name, v)
		addIndex(idx.ByFSName, v.FSName, v)
		addIndex(idx.ByPartName, v.PartName, v)
	}
	return idx
}

func addIndex(m map[string]*Volume, key string, v *Volume) {
	if key == "" {
		return
	}
	key = strings.ToLower(key)
	if _, exists := m[key]; !exists {
		m[key] = v
	}
}

// Lookup finds a volume by GUID or name, case-insensitively.
func (idx *Index) Lookup(query string) (*Volume, IdentifierType, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, IDUnknown, ErrNotFound
	}

	if id, ok := ParseGUID(q); ok {
		if v, ok := idx.ByPartGUID[id.String()]; ok {
			return v, IDPartGUID, nil
		}
		return nil, IDUnknown, ErrNotFound
	}

	lookups := []struct {
		index  map[string]*Volume
		idType IdentifierType
	}{
		{idx.ByName, IDName},
		{idx.ByFSName, IDFSName},
		{idx.ByPartName, IDPartName},
	}
	for _, lookup := range lookups {
		if v, ok := lookup.index[q]; ok {
			return v, lookup.idType, nil
		}
	}
	return nil, IDUnknown, ErrNotFound
}
