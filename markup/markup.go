// Package markup implements scanning and rewriting of rich text field
// values: inline reference markers, figure classes and media embeds. All
// transforms work on byte offsets into the original string and never rescan
// substituted text, so replacements containing marker-shaped content are
// safe.
package markup

import (
	"errors"
	"html"
	"strconv"
	"strings"
)

// Tag and attribute literals of the inline reference grammar.
const (
	// MarkerTag is the element name of an inline reference.
	MarkerTag = "nested-entry"
	// AttrEntryID carries the referenced entry id.
	AttrEntryID = "data-entryid"
	// AttrCard carries rendered card HTML injected for editor hydration.
	// Transient: stripped from values before they are persisted.
	AttrCard = "data-card"
)

// Attr is a single attribute captured from a scanned open tag. Val keeps the
// bytes as they appear in the source, character entities are not resolved.
type Attr struct {
	Key string
	Val string

	// spans are byte offsets into the owning tag's raw text; start covers
	// the leading whitespace, keyStart does not
	start, keyStart, valStart, valEnd, end int
	quoted                                 bool
}

// Marker is one inline reference occurrence inside a field value.
type Marker struct {
	ID    int64  // referenced entry id
	Raw   string // complete marker text as found in the value
	Start int    // byte offset of the marker in the scanned value
	End   int    // byte offset right past the marker
	Attrs []Attr

	openEnd int // offset inside Raw right past the open tag
	void    bool
}

// Encode produces the canonical marker for an entry id. Extra attributes are
// appended after the id, values get escaped. An extra id attribute is
// ignored, the id argument always wins.
func Encode(id int64, attrs ...Attr) string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(MarkerTag)
	sb.WriteByte(' ')
	sb.WriteString(AttrEntryID)
	sb.WriteString(`="`)
	sb.WriteString(strconv.FormatInt(id, 10))
	sb.WriteByte('"')
	for _, a := range attrs {
		if a.Key == "" || strings.EqualFold(a.Key, AttrEntryID) {
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(a.Val))
		sb.WriteByte('"')
	}
	sb.WriteString("></")
	sb.WriteString(MarkerTag)
	sb.WriteByte('>')
	return sb.String()
}

// WithID returns the marker text with the id attribute value replaced in
// place. Every other byte of the marker is preserved. A marker without an id
// attribute comes back unchanged.
func (m Marker) WithID(id int64) string {
	for _, a := range m.Attrs {
		if !strings.EqualFold(a.Key, AttrEntryID) {
			continue
		}
		s := strconv.FormatInt(id, 10)
		if a.quoted {
			return m.Raw[:a.valStart] + s + m.Raw[a.valEnd:]
		}
		return m.Raw[:a.keyStart] + AttrEntryID + `="` + s + `"` + m.Raw[a.end:]
	}
	return m.Raw
}

// WithAttr returns the marker text with the attribute set to the given
// value, escaping it. An existing attribute is replaced in place, a new one
// is inserted right before the open tag terminator. Errors out when the
// marker has no addressable open tag so the caller can skip the occurrence.
func (m Marker) WithAttr(key, val string) (string, error) {
	if m.openEnd <= 0 || m.openEnd > len(m.Raw) {
		return "", errors.New("marker open tag is not addressable")
	}
	esc := html.EscapeString(val)
	for _, a := range m.Attrs {
		if !strings.EqualFold(a.Key, key) {
			continue
		}
		if a.quoted {
			return m.Raw[:a.valStart] + esc + m.Raw[a.valEnd:], nil
		}
		return m.Raw[:a.keyStart] + key + `="` + esc + `"` + m.Raw[a.end:], nil
	}
	at := m.openEnd - 1
	if m.void {
		at = m.openEnd - 2
	}
	if at < 0 {
		return "", errors.New("marker open tag is not addressable")
	}
	return m.Raw[:at] + " " + key + `="` + esc + `"` + m.Raw[at:], nil
}

// Attr returns the named attribute or nil.
func (m Marker) Attr(key string) *Attr {
	for i := range m.Attrs {
		if strings.EqualFold(m.Attrs[i].Key, key) {
			return &m.Attrs[i]
		}
	}
	return nil
}
