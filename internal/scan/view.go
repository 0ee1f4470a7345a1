package scan

import (
	"fmt"
	"time"

	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

// EntryView is the flattened, serializable form of an Entry.
type EntryView struct {
	Kind       string         `json:"kind"`
	Title      string         `json:"title"`
	OSType     OSType         `json:"os_type"`
	Row        Row            `json:"row"`
	Shortcut   string         `json:"shortcut,omitempty"`
	Digit      string         `json:"digit,omitempty"`
	Icon       string         `json:"icon,omitempty"`
	Hints      []string       `json:"hints,omitempty"`
	Volume     string         `json:"volume,omitempty"`
	Path       string         `json:"path,omitempty"`
	Options    string         `json:"options,omitempty"`
	ModTime    *time.Time     `json:"mod_time,omitempty"`
	BootNum    string         `json:"boot_num,omitempty"`
	DevicePath string         `json:"device_path,omitempty"`
	SubEntries []SubEntryView `json:"sub_entries,omitempty"`
}

// SubEntryView is the serializable form of a SubEntry.
type SubEntryView struct {
	Title   string `json:"title"`
	Path    string `json:"path"`
	Options string `json:"options,omitempty"`
}

// View flattens e for reporting.
func View(e Entry) EntryView {
	info := e.Info()
	ev := EntryView{
		Title:  info.Title,
		OSType: info.OSType,
		Row:    info.Row,
		Icon:   info.Icon,
		Hints:  info.Hints,
	}
	if info.ShortcutLetter != 0 {
		ev.Shortcut = string(info.ShortcutLetter)
	}
	if info.ShortcutDigit != 0 {
		ev.Digit = string(info.ShortcutDigit)
	}

	switch e := e.(type) {
	case *LoaderEntry:
		ev.Kind = "loader"
		if e.Manual {
			ev.Kind = "manual"
		}
		ev.Volume = describe(e.Volume)
		ev.Path = volume.Display(e.Path)
		ev.Options = e.Options
		if !e.ModTime.IsZero() {
			t := e.ModTime
			ev.ModTime = &t
		}
		for _, s := range e.SubEntries {
			ev.SubEntries = append(ev.SubEntries, SubEntryView{
				Title:   s.Title,
				Path:    volume.Display(s.Path),
				Options: s.Options,
			})
		}
	case *FirmwareEntry:
		ev.Kind = "firmware"
		ev.BootNum = fmt.Sprintf("%04X", e.Record.Number)
		ev.Path = e.Record.DevicePath.FilePath()
		ev.DevicePath = e.Record.DevicePath.String()
	case *ToolEntry:
		ev.Kind = "tool:" + string(e.Kind)
		if e.Volume != nil {
			ev.Volume = describe(e.Volume)
			ev.Path = volume.Display(e.Path)
		}
		ev.Options = e.Options
	case *NetworkEntry:
		ev.Kind = "network"
		ev.Volume = describe(e.Volume)
		ev.Path = volume.Display(e.Path)
		ev.Options = e.BootInfo
	case *LegacyEntry:
		ev.Kind = "legacy"
		ev.Volume = describe(e.Record.Volume)
	}
	return ev
}

// Views flattens every entry of the result.
func (r *Result) Views() []EntryView {
	out := make([]EntryView, 0, len(r.Entries))
	for _, e := range r.Entries {
		out = append(out, View(e))
	}
	return out
}

func describe(v *volume.Volume) string {
	if v == nil {
		return ""
	}
	return v.Describe()
}
