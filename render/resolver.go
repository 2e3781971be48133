// Package render resolves the entry references in a stored field value into
// display HTML: a summary card or a per type template rendering, chosen by
// the entry type and the rendering situation.
package render

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"rte/entry"
	"rte/markup"
)

// DisplayContext describes the rendering situation of one request.
type DisplayContext struct {
	OwnerID int64
	SiteID  int64
	FieldID int64
	// Editing keeps markers in place and hydrates them with card markup,
	// the front end replaces markers with their rendering instead.
	Editing bool
	// Static forces the bare card for every reference, regardless of type
	// configuration. Revision views use it.
	Static bool
}

type CardRenderer interface {
	Render(e *entry.Entry, typ *entry.Type, opts CardOptions) (string, error)
}

type TemplateRenderer interface {
	Render(name string, e *entry.Entry, typ *entry.Type) (string, error)
}

// Resolver turns stored field values into display HTML. Dangling references
// render as placeholder cards, they never fail the request.
type Resolver struct {
	src   entry.Source
	types entry.TypeSource
	cards CardRenderer
	tmpl  TemplateRenderer
	opts  CardOptions
	log   *zap.Logger
}

func NewResolver(src entry.Source, types entry.TypeSource, cards CardRenderer, tmpl TemplateRenderer, opts CardOptions, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{src: src, types: types, cards: cards, tmpl: tmpl, opts: opts, log: log.Named("render")}
}

// Display resolves every marker in value. Entries of the owner are loaded
// in one query up front, anything else falls back to a single lookup per
// marker. Bulk lookup and type listing failures abort the render, a failed
// or dangling single reference degrades to a placeholder.
func (r *Resolver) Display(ctx context.Context, value string, dc DisplayContext) (string, error) {
	ids := markup.ExtractIDs(value)
	if len(ids) == 0 {
		return value, nil
	}

	owned, err := r.prefetch(ctx, ids, dc)
	if err != nil {
		return "", err
	}
	types, err := r.typeIndex(ctx)
	if err != nil {
		return "", err
	}

	return markup.Rewrite(value, func(mk markup.Marker) (string, bool) {
		e := owned[mk.ID]
		if e == nil {
			e = r.lookup(ctx, mk.ID, dc.SiteID)
		}

		var typ *entry.Type
		if t, ok := types[e.Type]; ok {
			typ = &t
		}

		snapshot := dc.Static || e.Revision()
		rendered, err := r.renderOne(e, typ, dc, snapshot)
		if err != nil {
			r.log.Warn("Skipping reference that failed to render",
				zap.Int64("id", mk.ID), zap.Error(err))
			return "", false
		}

		if !dc.Editing || snapshot {
			return rendered, true
		}
		out, err := mk.WithAttr(markup.AttrCard, rendered)
		if err != nil {
			r.log.Warn("Skipping marker that cannot carry card markup",
				zap.Int64("id", mk.ID), zap.Error(err))
			return "", false
		}
		return out, true
	}), nil
}

// renderOne picks the representation for one resolved entry. Snapshots and
// missing entries always get the bare card. Template mode applies outside
// the editor, or inside it when the type opts in, and falls back to the
// card when the template cannot be rendered.
func (r *Resolver) renderOne(e *entry.Entry, typ *entry.Type, dc DisplayContext, snapshot bool) (string, error) {
	opts := r.opts
	if snapshot || e.Missing {
		opts = CardOptions{}
	}
	if !snapshot && typ != nil && (!dc.Editing || typ.UseTemplateInEditor) {
		html, err := r.tmpl.Render(typ.TemplateName(), e, typ)
		if err == nil {
			return html, nil
		}
		r.log.Warn("Display template failed, falling back to card",
			zap.String("type", typ.Handle), zap.Error(err))
	}
	return r.cards.Render(e, typ, opts)
}

func (r *Resolver) prefetch(ctx context.Context, ids []int64, dc DisplayContext) (map[int64]*entry.Entry, error) {
	if dc.OwnerID == 0 {
		return nil, nil
	}
	list, err := r.src.ByOwner(ctx, entry.OwnerQuery{
		OwnerID:    dc.OwnerID,
		SiteID:     dc.SiteID,
		FieldID:    dc.FieldID,
		IDs:        markup.FirstUse(ids),
		OrderByIDs: true,
	})
	if err != nil {
		return nil, fmt.Errorf("loading nested entries of owner %d: %w", dc.OwnerID, err)
	}
	out := make(map[int64]*entry.Entry, len(list))
	for _, e := range list {
		out[e.ID] = e
	}
	return out, nil
}

func (r *Resolver) lookup(ctx context.Context, id, siteID int64) *entry.Entry {
	e, err := r.src.ByID(ctx, id, siteID, entry.LookupOptions{Revisions: true, Drafts: true})
	if err != nil {
		r.log.Warn("Entry lookup failed, rendering placeholder",
			zap.Int64("id", id), zap.Error(err))
		e = nil
	}
	if e == nil {
		return entry.Placeholder(id, siteID)
	}
	return e
}

func (r *Resolver) typeIndex(ctx context.Context) (map[string]entry.Type, error) {
	list, err := r.types.Types(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading entry types: %w", err)
	}
	out := make(map[string]entry.Type, len(list))
	for _, t := range list {
		out[t.Handle] = t
	}
	return out, nil
}
