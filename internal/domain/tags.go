package domain

import "strings"

// SplitTags normalizes a comma-separated tag string to a set of trimmed,
// non-empty tags. Duplicates are removed; input order is preserved.
//
// Examples:
//
//	"Items, Crafting"      → ["Items", "Crafting"]
//	" Items ,, Items "     → ["Items"]
//	""                     → nil
func SplitTags(raw string) []string {
	if raw == "" {
		return nil
	}

	var tags []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// MergeTags returns the union of two tag sets with no duplicates.
// Order: all of a first, then new tags from b.
func MergeTags(a, b []string) []string {
	if len(a) == 0 {
		return append([]string(nil), b...)
	}

	merged := append([]string(nil), a...)
	seen := make(map[string]struct{}, len(a))
	for _, tag := range a {
		seen[tag] = struct{}{}
	}
	for _, tag := range b {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}
	return merged
}
