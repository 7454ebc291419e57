package ranking

import "sort"

// MergeBest combines entries from one or more subject-area exports for a
// single year, keeping the best quartile per normalized key. Ties on
// quartile are broken by SJR rank (lower is better, absent ranks last),
// then by load order (first wins). The result is sorted by quartile, rank,
// title.
//
// This is the policy for building a year table from raw exports; it is
// distinct from the last-write-wins rule YearTable.Put applies when an
// already-built table is loaded.
func MergeBest(entries []Entry) []Entry {
	best := make(map[string]Entry)
	var order []string

	for _, e := range entries {
		cur, ok := best[e.Key]
		if !ok {
			best[e.Key] = e
			order = append(order, e.Key)
			continue
		}
		if betterEntry(e, cur) {
			best[e.Key] = e
		}
	}

	out := make([]Entry, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Quartile.Order() != b.Quartile.Order() {
			return a.Quartile.Order() < b.Quartile.Order()
		}
		if a.Rank != b.Rank {
			return rankLess(a.Rank, b.Rank)
		}
		return a.Title < b.Title
	})
	return out
}

// betterEntry reports whether a strictly outranks b.
func betterEntry(a, b Entry) bool {
	if a.Quartile != b.Quartile {
		return a.Quartile.Better(b.Quartile)
	}
	return rankLess(a.Rank, b.Rank)
}

// rankLess orders SJR ranks ascending with 0 (absent) last.
func rankLess(a, b int) bool {
	if a == 0 {
		return false
	}
	if b == 0 {
		return true
	}
	return a < b
}
