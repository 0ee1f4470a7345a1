// Package report renders scan results and stored state for the CLI.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/Norber-Developer/RefindPlus/internal/db"
	"github.com/Norber-Developer/RefindPlus/internal/efivar"
	"github.com/Norber-Developer/RefindPlus/internal/scan"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Printer writes tables, colored when the destination is a terminal.
type Printer struct {
	w      io.Writer
	header *color.Color
	good   *color.Color
	warn   *color.Color
	dim    *color.Color
}

// New returns a printer for w.
func New(w io.Writer) *Printer {
	p := &Printer{
		w:      w,
		header: color.New(color.FgCyan, color.Bold),
		good:   color.New(color.FgGreen),
		warn:   color.New(color.FgYellow),
		dim:    color.New(color.FgHiBlack),
	}
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	for _, c := range []*color.Color{p.header, p.good, p.warn, p.dim} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) heading(format string, args ...any) {
	fmt.Fprintln(p.w, p.header.Sprintf(format, args...))
}

func (p *Printer) rule(n int) {
	fmt.Fprintln(p.w, strings.Repeat("-", n))
}

// ScanReport is the JSON form of a scan result.
type ScanReport struct {
	Sources   string           `json:"sources"`
	StartedAt time.Time        `json:"started_at"`
	Duration  string           `json:"duration"`
	Empty     bool             `json:"empty"`
	Entries   []scan.EntryView `json:"entries"`
	Warnings  []string         `json:"warnings,omitempty"`
}

// NewScanReport flattens res.
func NewScanReport(res *scan.Result) *ScanReport {
	r := &ScanReport{
		Sources:   res.Sources,
		StartedAt: res.StartedAt,
		Duration:  res.Duration.Round(time.Millisecond).String(),
		Empty:     res.Empty(),
		Entries:   res.Views(),
	}
	for _, w := range res.Warnings {
		r.Warnings = append(r.Warnings, w.Error())
	}
	return r
}

// Scan prints the boot menu a scan produced.
func (p *Printer) Scan(res *scan.Result) {
	p.heading("Boot entries (sources %q, %s)", res.Sources, res.Duration.Round(time.Millisecond))
	if res.Empty() {
		fmt.Fprintln(p.w, p.warn.Sprint("no boot options found"))
	} else {
		fmt.Fprintf(p.w, "%-4s %-4s %-10s %-50s %s\n", "KEY", "ROW", "TYPE", "TITLE", "LOCATION")
		p.rule(100)
		for _, ev := range res.Views() {
			key := ev.Digit
			if key == "" {
				key = ev.Shortcut
			}
			loc := ev.Path
			if ev.Volume != "" {
				loc = ev.Volume + ":" + ev.Path
			}
			if ev.BootNum != "" {
				loc = "Boot" + ev.BootNum
			}
			fmt.Fprintf(p.w, "%-4s %-4d %-10s %-50s %s\n", key, ev.Row, ev.OSType, ev.Title, loc)
			for _, s := range ev.SubEntries {
				fmt.Fprintf(p.w, "%s\n", p.dim.Sprintf("     %-64s %s", "- "+s.Title, s.Options))
			}
		}
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintln(p.w)
		for _, w := range res.Warnings {
			fmt.Fprintln(p.w, p.warn.Sprint("warning: ")+w.Error())
		}
	}
}

// VolumeView is the JSON form of a volume.
type VolumeView struct {
	Name     string `json:"name"`
	FSName   string `json:"fs_name,omitempty"`
	PartName string `json:"part_name,omitempty"`
	GUID     string `json:"guid,omitempty"`
	Kind     string `json:"kind"`
	Device   string `json:"device,omitempty"`
	Readable bool   `json:"readable"`
}

// Volumes flattens vols for JSON output.
func Volumes(vols []*volume.Volume) []VolumeView {
	out := make([]VolumeView, 0, len(vols))
	for _, v := range vols {
		out = append(out, VolumeView{
			Name:     v.Name,
			FSName:   v.FSName,
			PartName: v.PartName,
			GUID:     v.GUIDString(),
			Kind:     v.Kind.String(),
			Device:   v.Device,
			Readable: v.Readable,
		})
	}
	return out
}

// Volumes prints the enumerated volumes.
func (p *Printer) Volumes(vols []*volume.Volume) {
	fmt.Fprintf(p.w, "%-20s %-10s %-38s %-20s %s\n", "NAME", "KIND", "PART GUID", "DEVICE", "STATE")
	p.rule(100)
	for _, v := range Volumes(vols) {
		state := p.good.Sprint("readable")
		if !v.Readable {
			state = p.warn.Sprint("unreadable")
		}
		name := v.Name
		if name == "" {
			name = v.FSName
		}
		fmt.Fprintf(p.w, "%-20s %-10s %-38s %-20s %s\n", name, v.Kind, v.GUID, v.Device, state)
	}
}

// FirmwareView is the JSON form of a firmware boot option.
type FirmwareView struct {
	Number     string `json:"number"`
	Label      string `json:"label"`
	Active     bool   `json:"active"`
	Path       string `json:"path,omitempty"`
	DevicePath string `json:"device_path"`
}

// Firmware flattens opts for JSON output.
func Firmware(opts []efivar.LoadOption) []FirmwareView {
	out := make([]FirmwareView, 0, len(opts))
	for _, o := range opts {
		out = append(out, FirmwareView{
			Number:     efivar.BootVarName(o.Number),
			Label:      o.Label,
			Active:     o.Active(),
			Path:       o.DevicePath.FilePath(),
			DevicePath: o.DevicePath.String(),
		})
	}
	return out
}

// Firmware prints the firmware boot options in boot order.
func (p *Printer) Firmware(opts []efivar.LoadOption) {
	fmt.Fprintf(p.w, "%-9s %-1s %-32s %-36s %s\n", "OPTION", "", "LABEL", "LOADER", "DEVICE PATH")
	p.rule(120)
	for _, f := range Firmware(opts) {
		mark := " "
		if f.Active {
			mark = p.good.Sprint("*")
		}
		loader := f.Path
		if loader == "" {
			loader = "-"
		}
		fmt.Fprintf(p.w, "%-9s %s %-32s %-36s %s\n", f.Number, mark, f.Label, loader, f.DevicePath)
	}
}

// Hidden prints the hidden identifier variables in their fixed order.
func (p *Printer) Hidden(vars map[string][]string) {
	for _, name := range db.HiddenVars {
		ids := vars[name]
		p.heading("%s (%d)", name, len(ids))
		if len(ids) == 0 {
			fmt.Fprintln(p.w, p.dim.Sprint("  (none)"))
		}
		for _, id := range ids {
			fmt.Fprintf(p.w, "  %s\n", id)
		}
	}
}

// History prints recorded scan runs, newest first.
func (p *Printer) History(runs []*db.ScanRun) {
	fmt.Fprintf(p.w, "%-6s %-16s %-10s %-8s %-9s %s\n", "ID", "WHEN", "SOURCES", "ENTRIES", "WARNINGS", "DURATION")
	p.rule(70)
	for _, r := range runs {
		warnings := fmt.Sprintf("%d", r.Warnings)
		if r.Warnings > 0 {
			warnings = p.warn.Sprint(warnings)
		}
		fmt.Fprintf(p.w, "%-6d %-16s %-10s %-8d %-9s %s\n",
			r.ID, humanize.Time(r.StartedAt), r.Sources, r.Entries, warnings, r.Duration.Round(time.Millisecond))
	}
}
