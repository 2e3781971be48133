package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rte/assets"
	"rte/entry"
	"rte/field"
	"rte/nested"
	"rte/render"
	"rte/store"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
	}
}

// OpenStore opens the content store configured in Cfg and synchronizes the
// site and entry type catalogs into it. Requires Cfg and Log to be set.
func (e *LocalEnv) OpenStore(ctx context.Context) error {
	s, err := store.Open(ctx, e.Cfg.Store.Path, e.Cfg.Store.PoolSize, e.Log)
	if err != nil {
		return fmt.Errorf("opening content store: %w", err)
	}

	sites := make([]store.Site, 0, len(e.Cfg.Sites))
	for _, sc := range e.Cfg.Sites {
		sites = append(sites, store.Site{
			Handle:   sc.Handle,
			Language: sc.Language,
			GroupID:  sc.Group,
			Primary:  sc.Primary,
		})
	}
	if err := s.SyncSites(ctx, sites); err != nil {
		_ = s.Close()
		return fmt.Errorf("synchronizing sites: %w", err)
	}

	types := make([]entry.Type, 0, len(e.Cfg.Field.Types))
	for _, tc := range e.Cfg.Field.Types {
		types = append(types, entry.Type{
			Handle:              tc.Handle,
			Name:                tc.Name,
			Template:            tc.Template,
			UseTemplateInEditor: tc.UseTemplateInEditor,
			HasTitle:            tc.HasTitle,
			Icon:                tc.Icon,
		})
	}
	if err := s.SyncTypes(ctx, types); err != nil {
		_ = s.Close()
		return fmt.Errorf("synchronizing entry types: %w", err)
	}

	// When debug report is requested capture the store content as it is
	// after the run, the database is closed by then.
	if _, err := os.Stat(e.Cfg.Store.Path); err == nil {
		e.Rpt.Store("store/"+filepath.Base(e.Cfg.Store.Path), e.Cfg.Store.Path)
	}

	e.Store = s
	return nil
}

// Field builds the configured rich text field.
func (e *LocalEnv) Field() *field.Field {
	fc := e.Cfg.Field
	return field.New(fc.ID, fc.Handle, fc.Name, field.Settings{
		EntryTypes:   fc.TypeHandles(),
		Translatable: fc.Translatable,
		Propagation:  fc.Propagation,
		Purify:       fc.Purify,
		Embeds:       fc.Embeds,
		DefaultMode:  fc.DefaultMode,
		TemplatesDir: e.Cfg.Render.TemplatesDir,
	}, e.Log)
}

// Manager builds the nested entry manager on top of the open store.
func (e *LocalEnv) Manager() *nested.Manager {
	return nested.NewManager(e.Store, e.Store, e.Store, e.Log)
}

// Resolver builds the presentation resolver on top of the open store.
func (e *LocalEnv) Resolver() *render.Resolver {
	rc := e.Cfg.Render
	thumbs := assets.NewTransformer(rc.AssetsDir, rc.ThumbSize, rc.JPEGQuality, e.Log)
	cards := render.NewCards(thumbs, e.Log)
	templates := render.NewTemplates(rc.TemplatesDir)
	opts := render.CardOptions{
		AutoReload:    rc.Card.AutoReload,
		ShowDraftName: rc.Card.ShowDraftName,
		ShowStatus:    rc.Card.ShowStatus,
		ShowThumb:     rc.Card.ShowThumb,
	}
	return render.NewResolver(e.Store, e.Store, cards, templates, opts, e.Log)
}
