package feeds

import "sort"

// Dedupe returns entries with at most one entry per distinct link, keeping
// the most recently published one. The policy is sort-then-first-wins:
// entries are sorted descending by the Published string and the first
// occurrence of each link is kept. Lexicographic descent on same-format
// ISO-8601 strings is time order, and the empty string sorts after every
// timestamp, so undated entries lose to dated duplicates.
func Dedupe(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Published > sorted[j].Published
	})

	seen := make(map[string]bool, len(sorted))
	unique := make([]Entry, 0, len(sorted))
	for _, e := range sorted {
		if seen[e.Link] {
			continue
		}
		seen[e.Link] = true
		unique = append(unique, e)
	}
	return unique
}

// Cap truncates entries to at most n, preserving order.
func Cap(entries []Entry, n int) []Entry {
	if n < 0 {
		n = 0
	}
	if len(entries) <= n {
		return entries
	}
	return entries[:n]
}
