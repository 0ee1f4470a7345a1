package scan

import "strings"

// Exclusion lists and persisted hidden identifiers are comma-delimited
// strings. These helpers treat them as ordered, case-insensitive sets.

// SplitList splits a comma-delimited list, dropping blank elements.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList is the inverse of SplitList.
func JoinList(items []string) string {
	return strings.Join(items, ",")
}

// AddToList appends item unless an equal element is already present.
func AddToList(list, item string) string {
	item = strings.TrimSpace(item)
	if item == "" {
		return list
	}
	items := SplitList(list)
	if isIn(item, items) {
		return JoinList(items)
	}
	return JoinList(append(items, item))
}

// DeleteFromList removes every element equal to item.
func DeleteFromList(list, item string) (string, bool) {
	items := SplitList(list)
	kept := items[:0]
	removed := false
	for _, it := range items {
		if strings.EqualFold(it, strings.TrimSpace(item)) {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	return JoinList(kept), removed
}

// isIn reports whether s equals any element.
func isIn(s string, list []string) bool {
	if s == "" {
		return false
	}
	for _, item := range list {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}

// isInSubstring reports whether any element occurs inside s.
func isInSubstring(s string, list []string) bool {
	ls := strings.ToLower(s)
	for _, item := range list {
		if item != "" && strings.Contains(ls, strings.ToLower(item)) {
			return true
		}
	}
	return false
}

// lower is strings.ToLower after trimming.
func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// containsFold is a case-insensitive strings.Contains.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// mergeWords appends the words of s, split on the usual label separators,
// skipping words already present.
func mergeWords(hints []string, s string) []string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == ':' || r == ','
	})
	for _, w := range words {
		hints = mergeHint(hints, w)
	}
	return hints
}

// mergeHint appends hint unless present.
func mergeHint(hints []string, hint string) []string {
	if hint == "" || isIn(hint, hints) {
		return hints
	}
	return append(hints, hint)
}
