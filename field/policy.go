package field

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"

	"rte/markup"
)

// entryIDPattern matches the only values data-entryid may carry. Anything
// else on the attribute is dropped by the sanitizer.
var entryIDPattern = regexp.MustCompile(`^[0-9]+$`)

// Policy builds the sanitizer policy for stored field values on top of the
// user generated content baseline.
func Policy(s Settings) *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()

	// Figures as the normalizer emits them.
	p.AllowElements("figure", "figcaption")

	// Both embed representations stay valid regardless of the current
	// setting, so values stored under the other style survive a resave.
	p.AllowElements("oembed")
	p.AllowAttrs("url").OnElements("oembed")
	p.AllowAttrs("data-url").OnElements("div")
	p.AllowElements("iframe")
	p.AllowAttrs("src", "width", "height", "frameborder", "allow", "allowfullscreen").OnElements("iframe")

	AmendPolicy(p, s.Nested())
	return p
}

// AmendPolicy whitelists the nested entry marker on an existing policy.
// Nothing is added when the field has the feature disabled, so markers in a
// pasted value are stripped like any other unknown tag.
func AmendPolicy(p *bluemonday.Policy, nestedEnabled bool) {
	if !nestedEnabled {
		return
	}
	p.AllowElements(markup.MarkerTag)
	p.AllowAttrs(markup.AttrEntryID).Matching(entryIDPattern).OnElements(markup.MarkerTag)
}
