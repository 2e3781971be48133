package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"rte/entry"
)

// Duplicate copies entries into a new owner scope, returning the new ids in
// input order. Each copy gets its own ownership row appended after the
// scope's current positions, content reconciliation fixes the order against
// the value afterwards.
func (s *Store) Duplicate(ctx context.Context, ids []int64, ownerID, siteID int64) (newIDs []int64, err error) {
	if len(ids) == 0 {
		return nil, nil
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("duplicating entries for owner %d: %w", ownerID, err)
	}
	defer s.pool.Put(conn)
	defer sqlitex.Save(conn)(&err)

	stamp := time.Now().UTC().Format(time.RFC3339)
	for _, id := range ids {
		var src *entry.Entry
		err = sqlitex.Execute(conn, `SELECT `+entryColumns+` FROM entries e WHERE e.id = ? AND e.deleted = 0`, &sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				src = scanEntry(stmt)
				return nil
			},
		})
		if err != nil {
			return nil, fmt.Errorf("duplicating entry %d: %w", id, err)
		}
		if src == nil {
			return nil, fmt.Errorf("duplicating entry %d: %w", id, entry.ErrNotFound)
		}

		uid, uerr := uuid.NewV7()
		if uerr != nil {
			return nil, fmt.Errorf("duplicating entry %d: %w", id, uerr)
		}
		err = sqlitex.Execute(conn, `INSERT INTO entries (uid, type, field_id, owner_id, site_id, title, status, image, summary, date_created, date_updated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, &sqlitex.ExecOptions{
			Args: []any{uid.String(), src.Type, src.FieldID, ownerID, siteID, src.Title, string(src.Status), src.Image, src.Summary, stamp, stamp},
		})
		if err != nil {
			return nil, fmt.Errorf("duplicating entry %d: %w", id, err)
		}
		newID := conn.LastInsertRowID()

		next, serr := s.nextSortOrder(conn, ownerID, siteID, src.FieldID)
		if serr != nil {
			return nil, fmt.Errorf("duplicating entry %d: %w", id, serr)
		}
		err = sqlitex.Execute(conn, `INSERT INTO entry_ownership (element_id, owner_id, site_id, sort_order) VALUES (?, ?, ?, ?)`, &sqlitex.ExecOptions{
			Args: []any{newID, ownerID, siteID, next},
		})
		if err != nil {
			return nil, fmt.Errorf("duplicating entry %d: %w", id, err)
		}
		newIDs = append(newIDs, newID)
	}

	s.log.Debug("Duplicated nested entries",
		zap.Int64s("from", ids),
		zap.Int64s("to", newIDs),
		zap.Int64("owner", ownerID),
		zap.Int64("site", siteID))
	return newIDs, nil
}

// DeleteOwned soft deletes the nested entries an owner exclusively owns in
// one field. Entries that also appear under another owner stay visible.
func (s *Store) DeleteOwned(ctx context.Context, ownerID, fieldID int64) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("deleting entries owned by %d: %w", ownerID, err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, `UPDATE entries SET deleted = 1, date_updated = ?
WHERE owner_id = ? AND field_id = ? AND deleted = 0
AND NOT EXISTS (SELECT 1 FROM entry_ownership o WHERE o.element_id = entries.id AND o.owner_id <> entries.owner_id)`, &sqlitex.ExecOptions{
		Args: []any{time.Now().UTC().Format(time.RFC3339), ownerID, fieldID},
	})
	if err != nil {
		return fmt.Errorf("deleting entries owned by %d: %w", ownerID, err)
	}
	s.log.Debug("Soft deleted owned entries", zap.Int64("owner", ownerID), zap.Int64("field", fieldID), zap.Int("count", conn.Changes()))
	return nil
}

// RestoreOwned brings the soft deleted nested entries of one owner field
// back.
func (s *Store) RestoreOwned(ctx context.Context, ownerID, fieldID int64) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("restoring entries owned by %d: %w", ownerID, err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, `UPDATE entries SET deleted = 0, date_updated = ?
WHERE owner_id = ? AND field_id = ? AND deleted = 1`, &sqlitex.ExecOptions{
		Args: []any{time.Now().UTC().Format(time.RFC3339), ownerID, fieldID},
	})
	if err != nil {
		return fmt.Errorf("restoring entries owned by %d: %w", ownerID, err)
	}
	s.log.Debug("Restored owned entries", zap.Int64("owner", ownerID), zap.Int64("field", fieldID), zap.Int("count", conn.Changes()))
	return nil
}
