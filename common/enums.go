// Enums here are shared between configuration parsing and the runtime
// packages (field settings, stores, renderers). Keeping them in a separate
// package avoids pulling configuration machinery into the domain packages.
package common

// How an inline reference is presented when the field value is rendered.
// ENUM(card, template)
type RenderMode int

// Specification of child entry propagation across sites when an owner is
// first saved into a new site.
// ENUM(none, siteGroup, language, all, custom)
type PropagationMethod int

func (p PropagationMethod) Propagates() bool {
	return p != PropagationMethodNone
}

// Publication state of an entry.
// ENUM(live, pending, expired, disabled)
type EntryStatus string

func (s EntryStatus) Visible() bool {
	return s == EntryStatusLive
}

// How media embeds are stored inside a field value.
// ENUM(inline, reference)
type EmbedStyle int

func (e EmbedStyle) Inline() bool {
	return e == EmbedStyleInline
}
