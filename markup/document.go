package markup

import (
	stdhtml "html"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
)

// DocumentTitle extracts a human readable title from an HTML document: the
// text of its title element or, when that is absent or empty, of its first
// h1. Entities are resolved and whitespace collapsed. Returns the empty
// string when the document offers neither.
func DocumentTitle(doc string) string {
	l := html.NewLexer(parse.NewInputString(doc))

	var (
		title, h1         strings.Builder
		inTitle, inH1     bool
		seenTitle, seenH1 bool
	)

	for {
		tt, data := l.Next()
		if tt == html.ErrorToken {
			break
		}
		switch tt {
		case html.StartTagToken:
			name := strings.ToLower(string(l.Text()))
			if name == "title" && !seenTitle {
				inTitle, seenTitle = true, true
			}
			if name == "h1" && !seenH1 {
				inH1, seenH1 = true, true
			}

		case html.TextToken:
			if inTitle {
				title.Write(data)
			}
			if inH1 {
				h1.Write(data)
			}

		case html.EndTagToken:
			name := strings.ToLower(string(l.Text()))
			if name == "title" {
				inTitle = false
				if t := cleanText(title.String()); t != "" {
					// nothing later in the document can win over this
					return t
				}
			}
			if name == "h1" {
				inH1 = false
			}
		}
	}

	if t := cleanText(title.String()); t != "" {
		return t
	}
	return cleanText(h1.String())
}

// DocumentBody returns the inner markup of the body element. A document
// without one is already a fragment and passes through unchanged.
func DocumentBody(doc string) string {
	l := html.NewLexer(parse.NewInputString(doc))

	var (
		pos     int
		opening bool
		start   = -1
	)

	for {
		tt, data := l.Next()
		if tt == html.ErrorToken {
			// unterminated body runs to the end of input
			if start >= 0 {
				return doc[start:]
			}
			return doc
		}
		tokStart := pos
		pos += len(data)

		switch tt {
		case html.StartTagToken:
			if start < 0 && strings.EqualFold(string(l.Text()), "body") {
				opening = true
			}

		case html.StartTagCloseToken:
			if opening {
				opening = false
				start = pos
			}

		case html.StartTagVoidToken:
			if opening {
				return ""
			}

		case html.EndTagToken:
			if start >= 0 && strings.EqualFold(string(l.Text()), "body") {
				return doc[start:tokStart]
			}
		}
	}
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(stdhtml.UnescapeString(s)), " ")
}
