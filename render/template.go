package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"rte/entry"
)

// templateValues is a struct that holds variables we make available for
// template expansion.
type templateValues struct {
	Entry  *entry.Entry
	Type   *entry.Type
	SiteID int64
}

// Templates expands per type display templates from a directory. A type
// named article renders through <dir>/article.tmpl with the slim-sprig
// function set available.
type Templates struct {
	dir string
}

func NewTemplates(dir string) *Templates {
	return &Templates{dir: dir}
}

// Render expands the named template with the entry. The file is read on
// every call so template edits show up without a restart.
func (t *Templates) Render(name string, e *entry.Entry, typ *entry.Type) (string, error) {
	text, err := os.ReadFile(filepath.Join(t.dir, name+".tmpl"))
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", name, err)
	}

	tmpl, err := template.New(name).Funcs(sprig.FuncMap()).Parse(string(text))
	if err != nil {
		return "", fmt.Errorf("unable to parse template %s: %w", name, err)
	}

	values := &templateValues{Entry: e, Type: typ, SiteID: e.SiteID}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.String(), nil
}
