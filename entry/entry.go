// Package entry defines the content model shared by the field engine and
// the interfaces its storage collaborators implement.
package entry

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"

	"rte/common"
)

// Entry is a single content element. Nested entries additionally carry the
// owner and the field they live in.
type Entry struct {
	ID         int64
	UID        string
	Type       string
	FieldID    int64
	OwnerID    int64
	SiteID     int64
	Title      string
	Status     common.EntryStatus
	Image      string // preview asset path, relative to the assets directory
	Summary    string
	DraftName  string
	RevisionOf int64 // non-zero marks a read only snapshot of that entry
	Missing    bool  // synthesized stand-in, never persisted
	Updated    time.Time
}

// Revision reports whether the entry is a read only snapshot.
func (e *Entry) Revision() bool {
	return e.RevisionOf != 0
}

// Label returns the title to display for the entry.
func (e *Entry) Label() string {
	if e.Title != "" {
		return e.Title
	}
	return fmt.Sprintf("Entry %d", e.ID)
}

// Placeholder synthesizes a stand-in for a referenced entry that cannot be
// found, so the display path never fails on a dangling reference.
func Placeholder(id, siteID int64) *Entry {
	return &Entry{
		ID:      id,
		SiteID:  siteID,
		Title:   fmt.Sprintf("Missing entry (#%d)", id),
		Status:  common.EntryStatusDisabled,
		Missing: true,
	}
}

// Type describes one kind of nested entry a field accepts.
type Type struct {
	Handle              string
	Name                string
	Template            string // display template name, derived from the handle when empty
	UseTemplateInEditor bool
	HasTitle            bool
	Icon                string
}

// TemplateName returns the display template name for the type.
func (t Type) TemplateName() string {
	if t.Template != "" {
		return t.Template
	}
	return slug.Make(t.Handle)
}
