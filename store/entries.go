package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"rte/common"
	"rte/entry"
)

const entryColumns = `e.id, e.uid, e.type, e.field_id, e.owner_id, e.site_id, e.title, e.status, e.image, e.summary, e.draft_name, e.revision_of, e.date_updated`

func scanEntry(stmt *sqlite.Stmt) *entry.Entry {
	e := &entry.Entry{
		ID:         stmt.ColumnInt64(0),
		UID:        stmt.ColumnText(1),
		Type:       stmt.ColumnText(2),
		FieldID:    stmt.ColumnInt64(3),
		OwnerID:    stmt.ColumnInt64(4),
		SiteID:     stmt.ColumnInt64(5),
		Title:      stmt.ColumnText(6),
		Status:     common.EntryStatus(stmt.ColumnText(7)),
		Image:      stmt.ColumnText(8),
		Summary:    stmt.ColumnText(9),
		DraftName:  stmt.ColumnText(10),
		RevisionOf: stmt.ColumnInt64(11),
	}
	if ts := stmt.ColumnText(12); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			e.Updated = t
		}
	}
	return e
}

// ByID loads one entry by id for a site. A missing entry comes back as nil
// without an error, display paths substitute a placeholder for it.
func (s *Store) ByID(ctx context.Context, id, siteID int64, opts entry.LookupOptions) (*entry.Entry, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading entry %d: %w", id, err)
	}
	defer s.pool.Put(conn)

	q := `SELECT ` + entryColumns + ` FROM entries e WHERE e.id = ? AND e.site_id = ? AND e.deleted = 0`
	if !opts.Revisions {
		q += ` AND e.revision_of = 0`
	}
	if !opts.Drafts {
		q += ` AND e.draft_name = ''`
	}
	var found *entry.Entry
	err = sqlitex.Execute(conn, q, &sqlitex.ExecOptions{
		Args: []any{id, siteID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = scanEntry(stmt)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("loading entry %d: %w", id, err)
	}
	return found, nil
}

// ByOwner loads the nested entries of one owner field. With IDs set the
// result is limited to those ids, OrderByIDs additionally makes the result
// follow the id list instead of the stored sort order.
func (s *Store) ByOwner(ctx context.Context, q entry.OwnerQuery) ([]*entry.Entry, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading entries of owner %d: %w", q.OwnerID, err)
	}
	defer s.pool.Put(conn)

	var sb strings.Builder
	sb.WriteString(`SELECT ` + entryColumns + `
FROM entries e
LEFT JOIN entry_ownership o ON o.element_id = e.id AND o.owner_id = e.owner_id AND o.site_id = e.site_id
WHERE e.owner_id = ? AND e.site_id = ? AND e.field_id = ? AND e.deleted = 0`)
	args := []any{q.OwnerID, q.SiteID, q.FieldID}
	if len(q.IDs) > 0 {
		sb.WriteString(` AND e.id IN (` + placeholders(len(q.IDs)) + `)`)
		for _, id := range q.IDs {
			args = append(args, id)
		}
	}
	if q.OrderByIDs && len(q.IDs) > 0 {
		// the requested id order has no column to sort on, spell it out
		sb.WriteString(` ORDER BY CASE e.id`)
		for i, id := range q.IDs {
			fmt.Fprintf(&sb, ` WHEN %d THEN %d`, id, i)
		}
		fmt.Fprintf(&sb, ` ELSE %d END`, len(q.IDs))
	} else {
		sb.WriteString(` ORDER BY COALESCE(o.sort_order, 1000000), e.id`)
	}

	var res []*entry.Entry
	err = sqlitex.Execute(conn, sb.String(), &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			res = append(res, scanEntry(stmt))
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("loading entries of owner %d: %w", q.OwnerID, err)
	}
	return res, nil
}

// CreateRequest describes a nested entry to create inside a field.
type CreateRequest struct {
	Type    string
	FieldID int64
	OwnerID int64
	SiteID  int64
	Title   string
	Status  common.EntryStatus
	Image   string
	Summary string
}

// CreateNested inserts a nested entry together with its ownership row,
// appended at the next free sort position of the owner field. Authored
// content gets its ownership rows here and nowhere else, reconciliation
// afterwards only deletes and renumbers.
func (s *Store) CreateNested(ctx context.Context, req CreateRequest) (created *entry.Entry, err error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating nested entry: %w", err)
	}
	defer s.pool.Put(conn)
	defer sqlitex.Save(conn)(&err)

	status := req.Status
	if status == "" {
		status = common.EntryStatusLive
	}
	now := time.Now().UTC()
	stamp := now.Format(time.RFC3339)
	uid, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("creating nested entry: %w", err)
	}
	err = sqlitex.Execute(conn, `INSERT INTO entries (uid, type, field_id, owner_id, site_id, title, status, image, summary, date_created, date_updated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, &sqlitex.ExecOptions{
		Args: []any{uid.String(), req.Type, req.FieldID, req.OwnerID, req.SiteID, req.Title, string(status), req.Image, req.Summary, stamp, stamp},
	})
	if err != nil {
		return nil, fmt.Errorf("creating nested entry: %w", err)
	}
	id := conn.LastInsertRowID()

	next, err := s.nextSortOrder(conn, req.OwnerID, req.SiteID, req.FieldID)
	if err != nil {
		return nil, fmt.Errorf("creating nested entry: %w", err)
	}
	err = sqlitex.Execute(conn, `INSERT INTO entry_ownership (element_id, owner_id, site_id, sort_order) VALUES (?, ?, ?, ?)`, &sqlitex.ExecOptions{
		Args: []any{id, req.OwnerID, req.SiteID, next},
	})
	if err != nil {
		return nil, fmt.Errorf("creating nested entry: %w", err)
	}

	s.log.Debug("Created nested entry",
		zap.Int64("id", id),
		zap.String("type", req.Type),
		zap.Int64("owner", req.OwnerID),
		zap.Int64("site", req.SiteID),
		zap.Int("sort", next))

	return &entry.Entry{
		ID:      id,
		UID:     uid,
		Type:    req.Type,
		FieldID: req.FieldID,
		OwnerID: req.OwnerID,
		SiteID:  req.SiteID,
		Title:   req.Title,
		Status:  status,
		Image:   req.Image,
		Summary: req.Summary,
		Updated: now,
	}, nil
}

// OwnerRequest describes a top level entry to create, the kind whose field
// values own nested entries.
type OwnerRequest struct {
	Type    string
	SiteID  int64
	Title   string
	Status  common.EntryStatus
	Image   string
	Summary string
}

// CreateOwner inserts a top level entry. It carries no ownership row, those
// belong to nested entries only.
func (s *Store) CreateOwner(ctx context.Context, req OwnerRequest) (*entry.Entry, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating entry: %w", err)
	}
	defer s.pool.Put(conn)

	status := req.Status
	if status == "" {
		status = common.EntryStatusLive
	}
	now := time.Now().UTC()
	stamp := now.Format(time.RFC3339)
	uid, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("creating entry: %w", err)
	}
	err = sqlitex.Execute(conn, `INSERT INTO entries (uid, type, field_id, owner_id, site_id, title, status, image, summary, date_created, date_updated)
VALUES (?, ?, 0, 0, ?, ?, ?, ?, ?, ?, ?)`, &sqlitex.ExecOptions{
		Args: []any{uid.String(), req.Type, req.SiteID, req.Title, string(status), req.Image, req.Summary, stamp, stamp},
	})
	if err != nil {
		return nil, fmt.Errorf("creating entry: %w", err)
	}
	id := conn.LastInsertRowID()

	s.log.Debug("Created entry",
		zap.Int64("id", id),
		zap.String("type", req.Type),
		zap.Int64("site", req.SiteID))

	return &entry.Entry{
		ID:      id,
		UID:     uid,
		Type:    req.Type,
		SiteID:  req.SiteID,
		Title:   req.Title,
		Status:  status,
		Image:   req.Image,
		Summary: req.Summary,
		Updated: now,
	}, nil
}

func (s *Store) nextSortOrder(conn *sqlite.Conn, ownerID, siteID, fieldID int64) (int, error) {
	next := 1
	err := sqlitex.Execute(conn, `SELECT COALESCE(MAX(o.sort_order), 0) + 1
FROM entry_ownership o
JOIN entries e ON e.id = o.element_id
WHERE o.owner_id = ? AND o.site_id = ? AND e.field_id = ?`, &sqlitex.ExecOptions{
		Args: []any{ownerID, siteID, fieldID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			next = stmt.ColumnInt(0)
			return nil
		},
	})
	return next, err
}
