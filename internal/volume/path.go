package volume

import "strings"

// Paths inside a volume are kept in boot-manager form: backslash
// separated, no leading or trailing separator. The root is "".

// CleanPath converts p to the stored form.
func CleanPath(p string) string {
	p = strings.ReplaceAll(p, "/", `\`)
	var b strings.Builder
	b.Grow(len(p))
	prevSep := true
	for _, r := range p {
		if r == '\\' {
			if prevSep {
				continue
			}
			prevSep = true
		} else {
			prevSep = false
		}
		b.WriteRune(r)
	}
	return strings.TrimSuffix(b.String(), `\`)
}

// JoinPath joins elements and cleans the result.
func JoinPath(elem ...string) string {
	return CleanPath(strings.Join(elem, `\`))
}

// Basename returns the last element of p.
func Basename(p string) string {
	p = CleanPath(p)
	if i := strings.LastIndexByte(p, '\\'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// DirOf returns everything before the last element of p.
func DirOf(p string) string {
	p = CleanPath(p)
	if i := strings.LastIndexByte(p, '\\'); i >= 0 {
		return p[:i]
	}
	return ""
}

// LastDirName returns the name of the directory holding p, or "" at the root.
func LastDirName(p string) string {
	return Basename(DirOf(p))
}

// Display renders p with a leading separator, the way boot menus show it.
func Display(p string) string {
	return `\` + CleanPath(p)
}

// FSPath converts a stored path to an io/fs path.
func FSPath(p string) string {
	p = CleanPath(p)
	if p == "" {
		return "."
	}
	return strings.ReplaceAll(p, `\`, "/")
}

// StripExt removes the final extension from a file name.
func StripExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

// Ext returns the final extension including the dot, lowercased.
func Ext(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return strings.ToLower(name[i:])
	}
	return ""
}

// SplitVolumeAndFilename splits "volume:path" at the first colon.
func SplitVolumeAndFilename(s string) (vol, rest string) {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return "", s
}

// Target is a parsed exclusion or hidden-tag element.
type Target struct {
	Volume string
	Dir    string
	File   string
	// HasDir is set when the element carried a separator, so an empty Dir
	// means the volume root rather than "any directory".
	HasDir bool
}

// SplitPathName parses "[volume:][dir\]file".
func SplitPathName(s string) Target {
	var t Target
	t.Volume, s = SplitVolumeAndFilename(strings.TrimSpace(s))
	t.HasDir = strings.ContainsAny(s, `\/`)
	s = CleanPath(s)
	t.Dir = DirOf(s)
	t.File = Basename(s)
	return t
}
