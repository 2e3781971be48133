package markup

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
)

// openTag is a scanned open tag of a figure or of its first child element.
// Attribute spans stay absolute here, edits are planned against the whole
// value.
type openTag struct {
	name    string
	start   int // absolute
	openEnd int // absolute, right past the open tag terminator
	attrs   []Attr
}

func (t openTag) attr(key string) *Attr {
	for i := range t.attrs {
		if strings.EqualFold(t.attrs[i].Key, key) {
			return &t.attrs[i]
		}
	}
	return nil
}

// ensureClass plans an edit adding a class token to the open tag unless it
// is already present.
func (t openTag) ensureClass(want string) (edit, bool) {
	for _, a := range t.attrs {
		if !strings.EqualFold(a.Key, "class") {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == want {
				return edit{}, false
			}
		}
		if a.quoted {
			text := " " + want
			if strings.TrimSpace(a.Val) == "" {
				text = want
			}
			return edit{start: a.valEnd, end: a.valEnd, text: text}, true
		}
		nv := want
		if a.Val != "" {
			nv = a.Val + " " + want
		}
		return edit{start: a.keyStart, end: a.end, text: `class="` + nv + `"`}, true
	}
	at := t.openEnd - 1
	return edit{start: at, end: at, text: ` class="` + want + `"`}, true
}

// figure is one scanned figure element together with its first direct child
// element. child.name stays empty when the first child is not one the
// normalizer acts on.
type figure struct {
	open     openTag
	end      int // absolute end of the figure element
	child    openTag
	childEnd int    // absolute end of the child element span
	inner    [2]int // inner content span of a paired child
}

// img never carries content, the lexer reports a bare '>' for it
var voidChildren = map[string]struct{}{
	"img": {},
}

// scanFigures walks the value once collecting figure elements. Only the
// outermost figure of a nested run is tracked and only a first child of
// interest is captured, everything else leaves the figure inert.
func scanFigures(value string) []figure {
	var res []figure

	l := html.NewLexer(parse.NewInputString(value))

	var (
		pos        int
		cur        *figure
		figDepth   int
		inOpen     bool // lexing cur's own open tag
		awaitChild bool // right past cur's open tag, before any child element
		childOpen  bool // lexing the child's open tag
		inChild    bool // inside a paired child, waiting for its end
		childDepth int
	)

	for {
		tt, data := l.Next()
		if tt == html.ErrorToken {
			break
		}
		tokStart := pos
		pos += len(data)

		switch tt {
		case html.StartTagToken:
			name := strings.ToLower(string(l.Text()))
			if cur == nil {
				if name == "figure" {
					cur = &figure{open: openTag{name: name, start: tokStart}}
					figDepth = 1
					inOpen = true
				}
				continue
			}
			if name == "figure" {
				figDepth++
			}
			if inChild {
				if name == cur.child.name {
					childDepth++
				}
				continue
			}
			if awaitChild {
				awaitChild = false
				switch name {
				case "img", "iframe", "oembed":
					cur.child = openTag{name: name, start: tokStart}
					childOpen = true
				}
			}

		case html.AttributeToken:
			if cur == nil {
				continue
			}
			if inOpen {
				cur.open.attrs = append(cur.open.attrs, splitAttr(data, tokStart))
			} else if childOpen {
				cur.child.attrs = append(cur.child.attrs, splitAttr(data, tokStart))
			}

		case html.StartTagCloseToken:
			if cur == nil {
				continue
			}
			if inOpen {
				cur.open.openEnd = pos
				inOpen = false
				awaitChild = true
			} else if childOpen {
				cur.child.openEnd = pos
				childOpen = false
				if _, void := voidChildren[cur.child.name]; void {
					cur.childEnd = pos
					cur.inner[0], cur.inner[1] = pos, pos
				} else {
					inChild = true
					childDepth = 1
					cur.inner[0] = pos
				}
			}

		case html.StartTagVoidToken:
			if cur == nil {
				continue
			}
			if inOpen {
				// a content-less figure, nothing to normalize
				cur = nil
				figDepth = 0
				inOpen = false
			} else if childOpen {
				cur.child.openEnd = pos
				childOpen = false
				cur.childEnd = pos
				cur.inner[0], cur.inner[1] = pos, pos
			}

		case html.EndTagToken:
			if cur == nil {
				continue
			}
			name := strings.ToLower(string(l.Text()))
			if inChild && name == cur.child.name {
				childDepth--
				if childDepth == 0 {
					inChild = false
					cur.inner[1] = tokStart
					cur.childEnd = pos
				}
				continue
			}
			if name == "figure" {
				figDepth--
				if figDepth <= 0 {
					if inChild || childOpen {
						// child never terminated, skip this occurrence
						cur.child = openTag{}
					}
					cur.end = pos
					res = append(res, *cur)
					cur = nil
					awaitChild = false
					inChild = false
					childOpen = false
				}
			}
		}
	}
	return res
}

// NormalizeFigureClasses makes figure wrappers carry the class their content
// implies: image for img, media for iframe and oembed. Existing unrelated
// classes are preserved, figures with unrecognized content are left alone.
func NormalizeFigureClasses(value string) string {
	figs := scanFigures(value)
	if len(figs) == 0 {
		return value
	}
	var edits []edit
	for _, f := range figs {
		var want string
		switch f.child.name {
		case "img":
			want = "image"
		case "iframe", "oembed":
			want = "media"
		default:
			continue
		}
		if e, ok := f.open.ensureClass(want); ok {
			edits = append(edits, e)
		}
	}
	return applyEdits(value, edits)
}

// RewriteEmbeds converts figures wrapping a raw iframe into the configured
// embed form. With inline previews the iframe stays and gets wrapped in a
// generic container carrying the absolute URL as data; otherwise the iframe
// is replaced by an oembed element keeping the remaining attributes and
// inner content. Protocol relative URLs become https either way, existing
// oembed urls included.
func RewriteEmbeds(value string, inline bool) string {
	figs := scanFigures(value)
	if len(figs) == 0 {
		return value
	}
	var edits []edit
	for _, f := range figs {
		switch f.child.name {
		case "iframe":
			src := f.child.attr("src")
			if src == nil || src.Val == "" {
				continue
			}
			abs := absoluteURL(src.Val)
			if inline {
				if abs != src.Val {
					if src.quoted {
						edits = append(edits, edit{start: src.valStart, end: src.valEnd, text: abs})
					} else {
						edits = append(edits, edit{start: src.keyStart, end: src.end, text: `src="` + abs + `"`})
					}
				}
				edits = append(edits,
					edit{start: f.child.start, end: f.child.start, text: `<div class="embed" data-url="` + abs + `">`},
					edit{start: f.childEnd, end: f.childEnd, text: `</div>`})
				continue
			}
			var sb strings.Builder
			sb.WriteString(`<oembed url="`)
			sb.WriteString(abs)
			sb.WriteString(`"`)
			for _, a := range f.child.attrs {
				if strings.EqualFold(a.Key, "src") {
					continue
				}
				// verbatim source bytes keep the original escaping intact
				sb.WriteByte(' ')
				sb.WriteString(value[a.keyStart:a.end])
			}
			sb.WriteString(">")
			sb.WriteString(value[f.inner[0]:f.inner[1]])
			sb.WriteString("</oembed>")
			edits = append(edits, edit{start: f.child.start, end: f.childEnd, text: sb.String()})

		case "oembed":
			u := f.child.attr("url")
			if u == nil || !u.quoted {
				continue
			}
			if abs := absoluteURL(u.Val); abs != u.Val {
				edits = append(edits, edit{start: u.valStart, end: u.valEnd, text: abs})
			}
		}
	}
	return applyEdits(value, edits)
}

// absoluteURL pins protocol relative URLs to https. Everything else passes
// through untouched.
func absoluteURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}
