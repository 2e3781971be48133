package markup

import (
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
)

// Containers whose content is never scanned for markers. Script, style and
// similar raw text elements are already opaque to the lexer, these are the
// ones it tokenizes normally.
var opaqueTags = map[string]struct{}{
	"code": {},
	"pre":  {},
}

// DecodeAll returns all well formed markers of the value in document order.
// Matches never overlap or nest: an open marker runs to its first closing
// tag or, when the closing tag is missing, to the end of input.
func DecodeAll(value string) []Marker {
	return scan(value, false)
}

// scan walks the value once, left to right, accumulating byte positions
// from consumed token data. When keepInvalid is set, marker tags without a
// usable id attribute are included with ID 0 (the save path cleanup still
// needs to touch those).
func scan(value string, keepInvalid bool) []Marker {
	var res []Marker

	l := html.NewLexer(parse.NewInputString(value))

	var (
		pos     int
		opaque  int    // depth inside opaque containers
		pending string // opaque tag waiting for its open tag to finish
		cur     *Marker
		inBody  bool // cur's open tag finished, waiting for the closing tag
	)

	finish := func(end int) {
		m := *cur
		cur = nil
		inBody = false
		m.End = end
		m.Raw = value[m.Start:m.End]
		for i := range m.Attrs {
			a := &m.Attrs[i]
			a.start -= m.Start
			a.keyStart -= m.Start
			a.valStart -= m.Start
			a.valEnd -= m.Start
			a.end -= m.Start
		}
		m.openEnd -= m.Start
		if a := m.Attr(AttrEntryID); a != nil {
			if id, err := strconv.ParseInt(strings.TrimSpace(a.Val), 10, 64); err == nil && id > 0 {
				m.ID = id
			}
		}
		if m.ID == 0 && !keepInvalid {
			return
		}
		res = append(res, m)
	}

	for {
		tt, data := l.Next()
		if tt == html.ErrorToken {
			break
		}
		tokStart := pos
		pos += len(data)

		switch tt {
		case html.StartTagToken:
			pending = ""
			if cur != nil {
				// inside a marker body only the closing tag matters
				continue
			}
			name := string(l.Text())
			if _, ok := opaqueTags[strings.ToLower(name)]; ok {
				pending = name
				continue
			}
			if opaque == 0 && strings.EqualFold(name, MarkerTag) {
				cur = &Marker{Start: tokStart}
			}

		case html.AttributeToken:
			if cur != nil && !inBody {
				cur.Attrs = append(cur.Attrs, splitAttr(data, tokStart))
			}

		case html.StartTagCloseToken:
			if pending != "" {
				opaque++
				pending = ""
			}
			if cur != nil && !inBody {
				cur.openEnd = pos
				inBody = true
			}

		case html.StartTagVoidToken:
			pending = ""
			if cur != nil && !inBody {
				cur.openEnd = pos
				cur.void = true
				finish(pos)
			}

		case html.EndTagToken:
			name := string(l.Text())
			if cur != nil {
				if inBody && strings.EqualFold(name, MarkerTag) {
					finish(pos)
				}
				continue
			}
			if _, ok := opaqueTags[strings.ToLower(name)]; ok && opaque > 0 {
				opaque--
			}
		}
	}

	// a marker whose open tag completed but was never closed runs to the
	// end of input; an incomplete open tag is not a marker at all
	if cur != nil && inBody {
		finish(len(value))
	}
	return res
}

// splitAttr carves key, value and their byte spans out of a raw attribute
// chunk (leading whitespace, key, optional =value). Spans are absolute until
// the owning match is finished.
func splitAttr(data []byte, tokStart int) Attr {
	i := 0
	for i < len(data) && isSpace(data[i]) {
		i++
	}
	a := Attr{start: tokStart, keyStart: tokStart + i}
	ks := i
	for i < len(data) && data[i] != '=' && !isSpace(data[i]) {
		i++
	}
	a.Key = string(data[ks:i])

	j := i
	for j < len(data) && isSpace(data[j]) {
		j++
	}
	if j >= len(data) || data[j] != '=' {
		// attribute without a value
		a.end = tokStart + i
		a.valStart = a.end
		a.valEnd = a.end
		return a
	}
	j++
	for j < len(data) && isSpace(data[j]) {
		j++
	}
	if j < len(data) && (data[j] == '"' || data[j] == '\'') {
		q := data[j]
		j++
		vs := j
		for j < len(data) && data[j] != q {
			j++
		}
		a.quoted = true
		a.Val = string(data[vs:j])
		a.valStart = tokStart + vs
		a.valEnd = tokStart + j
		if j < len(data) {
			j++ // closing quote
		}
		a.end = tokStart + j
		return a
	}
	vs := j
	for j < len(data) && !isSpace(data[j]) {
		j++
	}
	a.Val = string(data[vs:j])
	a.valStart = tokStart + vs
	a.valEnd = tokStart + j
	a.end = a.valEnd
	return a
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
