package markup

// ExtractIDs returns referenced entry ids in document order. Duplicates are
// preserved, markers with a missing or unusable id attribute are skipped
// silently. The result drives both ownership reconciliation and the ordered
// prefetch of referenced entries.
func ExtractIDs(value string) []int64 {
	ms := scan(value, false)
	if len(ms) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.ID)
	}
	return ids
}

// FirstUse collapses ids to their first occurrence, preserving order. The
// position of the first occurrence is authoritative for sorting.
func FirstUse(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
