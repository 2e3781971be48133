// Package field implements the rich text field itself: per-field settings,
// the normalization pipeline submitted values pass through on save, and the
// sanitizer policy that pipeline enforces.
package field

import (
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"rte/common"
	"rte/markup"
)

// Settings configure a single rich text field instance.
type Settings struct {
	// EntryTypes lists the entry type handles that may be created inline.
	// An empty list disables the nested entries feature for the field.
	EntryTypes   []string
	Translatable bool
	Propagation  common.PropagationMethod
	// Purify runs stored values through the sanitizer policy on save.
	Purify bool
	// Embeds selects how pasted media iframes are stored.
	Embeds common.EmbedStyle
	// DefaultMode is the presentation used when an entry type has no
	// display template of its own.
	DefaultMode  common.RenderMode
	TemplatesDir string
}

// Nested reports whether the field allows nested entries at all.
func (s Settings) Nested() bool {
	return len(s.EntryTypes) > 0
}

// AllowsType reports whether entries of the given type handle may be
// created inside the field.
func (s Settings) AllowsType(handle string) bool {
	for _, h := range s.EntryTypes {
		if h == handle {
			return true
		}
	}
	return false
}

// Field is one configured rich text field.
type Field struct {
	ID       int64
	Handle   string
	Name     string
	Settings Settings

	policy *bluemonday.Policy
	log    *zap.Logger
}

// New builds a field with its sanitizer policy precompiled from settings.
func New(id int64, handle, name string, s Settings, log *zap.Logger) *Field {
	if log == nil {
		log = zap.NewNop()
	}
	return &Field{
		ID:       id,
		Handle:   handle,
		Name:     name,
		Settings: s,
		policy:   Policy(s),
		log:      log.Named("field"),
	}
}

// NormalizeValue runs the save pipeline over a submitted value. Editor
// hydration attributes are stripped first so they never reach storage,
// figures get their canonical classes, raw media iframes are rewritten to
// the configured embed representation, and the result is sanitized when
// the field asks for it.
func (f *Field) NormalizeValue(value string) string {
	value = markup.StripAttr(value, markup.AttrCard)
	value = markup.NormalizeFigureClasses(value)
	value = markup.RewriteEmbeds(value, f.Settings.Embeds.Inline())
	if f.Settings.Purify {
		before := len(value)
		value = f.policy.Sanitize(value)
		if len(value) != before {
			f.log.Debug("Sanitizer changed field value", zap.String("field", f.Handle), zap.Int("before", before), zap.Int("after", len(value)))
		}
	}
	return value
}
