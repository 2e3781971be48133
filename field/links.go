package field

import (
	"sort"

	"github.com/maruel/natural"

	"rte/entry"
)

// LinkOption is one target group offered by the editor link dialog.
type LinkOption struct {
	Label   string
	Handle  string
	Sources []string
}

// LinkOptionsHook lets the embedding application reshape the computed
// options before the editor sees them.
type LinkOptionsHook func([]LinkOption) []LinkOption

// LinkOptions computes the link dialog options for the given entry types,
// naturally sorted by label so "Chapter 2" sorts before "Chapter 10". The
// hook, when not nil, runs over the sorted list last.
func LinkOptions(types []entry.Type, hook LinkOptionsHook) []LinkOption {
	out := make([]LinkOption, 0, len(types))
	for _, t := range types {
		label := t.Name
		if label == "" {
			label = t.Handle
		}
		out = append(out, LinkOption{
			Label:   label,
			Handle:  t.Handle,
			Sources: []string{"type:" + t.Handle},
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return natural.Less(out[i].Label, out[j].Label)
	})
	if hook != nil {
		out = hook(out)
	}
	return out
}
