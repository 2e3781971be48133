package markup

import (
	"sort"
	"strings"
)

// edit is a single planned replacement of a byte span.
type edit struct {
	start, end int
	text       string
}

// applyEdits builds the output in one pass with a monotonic cursor over the
// original string. Substituted text is never looked at again, which is what
// keeps replacements containing marker-shaped content safe. Overlapping
// edits keep the earlier one.
func applyEdits(value string, edits []edit) string {
	if len(edits) == 0 {
		return value
	}
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var sb strings.Builder
	sb.Grow(len(value) + len(value)/4)
	cur := 0
	for _, e := range edits {
		if e.start < cur {
			continue
		}
		sb.WriteString(value[cur:e.start])
		sb.WriteString(e.text)
		cur = e.end
	}
	sb.WriteString(value[cur:])
	return sb.String()
}

// Rewrite substitutes marker occurrences. fn is called for every well formed
// marker in document order and returns the replacement text for the whole
// marker span plus true, or false to keep the occurrence untouched.
// Replacing nothing reproduces the input byte for byte.
func Rewrite(value string, fn func(Marker) (string, bool)) string {
	ms := scan(value, false)
	if len(ms) == 0 {
		return value
	}
	var edits []edit
	for _, m := range ms {
		if repl, ok := fn(m); ok {
			edits = append(edits, edit{start: m.Start, end: m.End, text: repl})
		}
	}
	return applyEdits(value, edits)
}

// StripAttr removes a transient attribute from every marker tag, including
// tags whose id attribute is broken. Values are cleaned this way before
// they are persisted.
func StripAttr(value, key string) string {
	ms := scan(value, true)
	if len(ms) == 0 {
		return value
	}
	var edits []edit
	for _, m := range ms {
		for _, a := range m.Attrs {
			if strings.EqualFold(a.Key, key) {
				// drop the leading whitespace together with the attribute
				edits = append(edits, edit{start: m.Start + a.start, end: m.Start + a.end})
			}
		}
	}
	return applyEdits(value, edits)
}
