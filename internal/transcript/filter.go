package transcript

import "strings"

// Filter applies the free-text query and the speaker exclusion set to
// segments, preserving relative order. A segment passes the text filter
// when query is empty or the lowercased query is a substring of its
// lowercased text or speaker label; it passes the speaker filter unless
// its speaker is excluded. With no query and no exclusions the input slice
// is returned unchanged.
func Filter(segments []Segment, query string, excluded map[string]bool) []Segment {
	if query == "" && len(excluded) == 0 {
		return segments
	}

	queryLower := strings.ToLower(query)
	out := make([]Segment, 0, len(segments))

	for _, seg := range segments {
		if excluded[seg.Speaker] {
			continue
		}
		if queryLower != "" && !matchesQuery(seg, queryLower) {
			continue
		}
		out = append(out, seg)
	}

	return out
}

func matchesQuery(seg Segment, queryLower string) bool {
	return strings.Contains(strings.ToLower(seg.Text), queryLower) ||
		strings.Contains(strings.ToLower(seg.Speaker), queryLower)
}

// FilterGroups applies the same query and exclusion semantics to
// consolidated groups.
func FilterGroups(groups []Group, query string, excluded map[string]bool) []Group {
	if query == "" && len(excluded) == 0 {
		return groups
	}

	queryLower := strings.ToLower(query)
	out := make([]Group, 0, len(groups))

	for _, g := range groups {
		if excluded[g.Speaker] {
			continue
		}
		if queryLower != "" &&
			!strings.Contains(strings.ToLower(g.Text), queryLower) &&
			!strings.Contains(strings.ToLower(g.Speaker), queryLower) {
			continue
		}
		out = append(out, g)
	}

	return out
}
