package scan

import (
	"bufio"
	"bytes"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
	"mvdan.cc/sh/v3/shell"

	"github.com/Norber-Developer/RefindPlus/internal/log"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

const (
	linuxOptionsFile = "refind_linux.conf"
	osReleasePath    = `etc\os-release`
	versionToken     = "%v"
)

// optionLine is one "title options" line of a Linux options file.
type optionLine struct {
	Title   string
	Options string
}

// readLinuxOptions reads the options file next to the kernel, falling back
// to the one in \boot. A missing file yields no lines.
func readLinuxOptions(v *volume.Volume, kernelPath string) []optionLine {
	var data []byte
	var err error
	for _, dir := range []string{volume.DirOf(kernelPath), "boot"} {
		data, err = v.ReadFile(volume.JoinPath(dir, linuxOptionsFile))
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil
	}

	var lines []optionLine
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields, err := splitOptionLine(line)
		if err != nil {
			log.Debugf("skipping %s line %q: %v", linuxOptionsFile, line, err)
			continue
		}
		if len(fields) == 0 {
			continue
		}
		ol := optionLine{Title: fields[0]}
		if len(fields) > 1 {
			ol.Options = strings.Join(fields[1:], " ")
		}
		lines = append(lines, ol)
	}
	return lines
}

// splitOptionLine splits a line with shell quoting rules. Backslashes are
// path separators here, and $NAME stays as written.
func splitOptionLine(line string) ([]string, error) {
	line = strings.ReplaceAll(line, `\`, `\\`)
	return shell.Fields(line, func(name string) string { return "$" + name })
}

// kernelVersion returns the part of the kernel name starting at its first
// digit, without a trailing .efi: "vmlinuz-6.1.0-13-amd64" -> "6.1.0-13-amd64".
func kernelVersion(kernelPath string) string {
	base := volume.Basename(kernelPath)
	if volume.Ext(base) == ".efi" {
		base = volume.StripExt(base)
	}
	i := strings.IndexFunc(base, func(r rune) bool { return r >= '0' && r <= '9' })
	if i < 0 {
		return ""
	}
	return base[i:]
}

// findInitrd looks for an initial RAM disk matching the kernel's version in
// the kernel's directory. The shortest matching name wins.
func (c *ScanContext) findInitrd(v *volume.Volume, kernelPath string) string {
	dir := volume.DirOf(kernelPath)
	entries, err := v.ReadDir(dir)
	if err != nil {
		return ""
	}
	version := strings.ToLower(kernelVersion(kernelPath))

	var matches []string
	for _, ent := range entries {
		name := strings.ToLower(ent.Name())
		if ent.IsDir() || !strings.HasPrefix(name, "init") {
			continue
		}
		if version == "" {
			if strings.ContainsAny(name, "0123456789") {
				continue
			}
		} else if !strings.Contains(name, version) {
			continue
		}
		matches = append(matches, ent.Name())
	}
	if len(matches) == 0 {
		return ""
	}
	sort.Slice(matches, func(i, j int) bool {
		if len(matches[i]) != len(matches[j]) {
			return len(matches[i]) < len(matches[j])
		}
		return matches[i] < matches[j]
	})
	return volume.JoinPath(dir, matches[0])
}

// addInitrd appends an initrd= option unless one is already present.
func addInitrd(options, initrd string) string {
	if initrd == "" || containsFold(options, "initrd=") {
		return options
	}
	return strings.TrimSpace(options + " initrd=" + volume.Display(initrd))
}

// expandVersion substitutes the kernel version for %v.
func expandVersion(options, kernelPath string) string {
	if !strings.Contains(options, versionToken) {
		return options
	}
	return strings.ReplaceAll(options, versionToken, kernelVersion(kernelPath))
}

// mainLinuxOptions builds the default options for a kernel from the first
// line of its options file.
func (c *ScanContext) mainLinuxOptions(v *volume.Volume, kernelPath, initrd string) string {
	var options string
	if lines := readLinuxOptions(v, kernelPath); len(lines) > 0 {
		options = expandVersion(lines[0].Options, kernelPath)
	}
	return addInitrd(options, initrd)
}

// guessDistribution returns icon hints naming the Linux distribution.
func (c *ScanContext) guessDistribution(v *volume.Volume, kernelPath string) []string {
	var hints []string
	if data, err := v.ReadFile(osReleasePath); err == nil {
		if id := osReleaseID(data); id != "" {
			hints = mergeHint(hints, id)
		}
	}
	base := strings.ToLower(volume.Basename(kernelPath))
	if strings.Contains(base, ".fc") {
		hints = mergeHint(hints, "fedora")
	}
	if strings.Contains(base, ".el") {
		hints = mergeHint(hints, "redhat")
	}
	return hints
}

func osReleaseID(data []byte) string {
	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return ""
	}
	id := f.Section("").Key("ID").String()
	return strings.ToLower(strings.Trim(id, `"'`))
}
