package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"rte/entry"
)

// Site is one content site entries and values are scoped to.
type Site struct {
	ID       int64
	Handle   string
	Language string
	GroupID  int64
	Primary  bool
}

// Sites lists all sites ordered by id.
func (s *Store) Sites(ctx context.Context) ([]Site, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sites: %w", err)
	}
	defer s.pool.Put(conn)

	var res []Site
	err = sqlitex.Execute(conn, `SELECT id, handle, language, group_id, primary_site FROM sites ORDER BY id`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			res = append(res, Site{
				ID:       stmt.ColumnInt64(0),
				Handle:   stmt.ColumnText(1),
				Language: stmt.ColumnText(2),
				GroupID:  stmt.ColumnInt64(3),
				Primary:  stmt.ColumnInt64(4) != 0,
			})
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("listing sites: %w", err)
	}
	return res, nil
}

// SiteByHandle resolves a site handle, nil when unknown.
func (s *Store) SiteByHandle(ctx context.Context, handle string) (*Site, error) {
	sites, err := s.Sites(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sites {
		if sites[i].Handle == handle {
			return &sites[i], nil
		}
	}
	return nil, nil
}

// SyncSites upserts the configured sites by handle. Site ids are assigned
// on first sight and stay stable afterwards.
func (s *Store) SyncSites(ctx context.Context, sites []Site) (err error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("syncing sites: %w", err)
	}
	defer s.pool.Put(conn)
	defer sqlitex.Save(conn)(&err)

	for _, site := range sites {
		primary := 0
		if site.Primary {
			primary = 1
		}
		err = sqlitex.Execute(conn, `INSERT INTO sites (handle, language, group_id, primary_site)
VALUES (?, ?, ?, ?)
ON CONFLICT (handle) DO UPDATE SET language = excluded.language, group_id = excluded.group_id, primary_site = excluded.primary_site`, &sqlitex.ExecOptions{
			Args: []any{site.Handle, site.Language, site.GroupID, primary},
		})
		if err != nil {
			return fmt.Errorf("syncing site %s: %w", site.Handle, err)
		}
	}
	s.log.Debug("Synced sites", zap.Int("count", len(sites)))
	return nil
}

// Types returns the entry type catalog ordered by name.
func (s *Store) Types(ctx context.Context) ([]entry.Type, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing entry types: %w", err)
	}
	defer s.pool.Put(conn)

	var res []entry.Type
	err = sqlitex.Execute(conn, `SELECT handle, name, template, use_template_in_editor, has_title, icon FROM entry_types ORDER BY name, handle`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			res = append(res, entry.Type{
				Handle:              stmt.ColumnText(0),
				Name:                stmt.ColumnText(1),
				Template:            stmt.ColumnText(2),
				UseTemplateInEditor: stmt.ColumnInt64(3) != 0,
				HasTitle:            stmt.ColumnInt64(4) != 0,
				Icon:                stmt.ColumnText(5),
			})
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("listing entry types: %w", err)
	}
	return res, nil
}

// SyncTypes upserts the configured entry types by handle.
func (s *Store) SyncTypes(ctx context.Context, types []entry.Type) (err error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("syncing entry types: %w", err)
	}
	defer s.pool.Put(conn)
	defer sqlitex.Save(conn)(&err)

	for _, t := range types {
		useTmpl, hasTitle := 0, 0
		if t.UseTemplateInEditor {
			useTmpl = 1
		}
		if t.HasTitle {
			hasTitle = 1
		}
		err = sqlitex.Execute(conn, `INSERT INTO entry_types (handle, name, template, use_template_in_editor, has_title, icon)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (handle) DO UPDATE SET name = excluded.name, template = excluded.template,
use_template_in_editor = excluded.use_template_in_editor, has_title = excluded.has_title, icon = excluded.icon`, &sqlitex.ExecOptions{
			Args: []any{t.Handle, t.Name, t.Template, useTmpl, hasTitle, t.Icon},
		})
		if err != nil {
			return fmt.Errorf("syncing entry type %s: %w", t.Handle, err)
		}
	}
	s.log.Debug("Synced entry types", zap.Int("count", len(types)))
	return nil
}
