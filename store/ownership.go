package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"rte/entry"
)

// List returns the ownership rows of one owner field on a site in stored
// sort order. The field scope comes from the owned element, ownership rows
// themselves do not carry it.
func (s *Store) List(ctx context.Context, ownerID, siteID, fieldID int64) ([]entry.OwnershipRow, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing ownership of owner %d: %w", ownerID, err)
	}
	defer s.pool.Put(conn)

	var rows []entry.OwnershipRow
	err = sqlitex.Execute(conn, `SELECT o.element_id, o.owner_id, o.site_id, o.sort_order
FROM entry_ownership o
JOIN entries e ON e.id = o.element_id
WHERE o.owner_id = ? AND o.site_id = ? AND e.field_id = ?
ORDER BY o.sort_order, o.element_id`, &sqlitex.ExecOptions{
		Args: []any{ownerID, siteID, fieldID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rows = append(rows, entry.OwnershipRow{
				ElementID: stmt.ColumnInt64(0),
				OwnerID:   stmt.ColumnInt64(1),
				SiteID:    stmt.ColumnInt64(2),
				SortOrder: stmt.ColumnInt(3),
			})
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("listing ownership of owner %d: %w", ownerID, err)
	}
	return rows, nil
}

// Delete removes ownership rows of the given elements under one owner
// across all sites.
func (s *Store) Delete(ctx context.Context, elementIDs []int64, ownerID int64) error {
	if len(elementIDs) == 0 {
		return nil
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("deleting ownership rows of owner %d: %w", ownerID, err)
	}
	defer s.pool.Put(conn)

	args := make([]any, 0, len(elementIDs)+1)
	for _, id := range elementIDs {
		args = append(args, id)
	}
	args = append(args, ownerID)
	err = sqlitex.Execute(conn, `DELETE FROM entry_ownership WHERE element_id IN (`+placeholders(len(elementIDs))+`) AND owner_id = ?`, &sqlitex.ExecOptions{Args: args})
	if err != nil {
		return fmt.Errorf("deleting ownership rows of owner %d: %w", ownerID, err)
	}
	s.log.Debug("Deleted ownership rows", zap.Int64s("elements", elementIDs), zap.Int64("owner", ownerID), zap.Int("count", conn.Changes()))
	return nil
}

// SetSortOrder moves one ownership row to a new position.
func (s *Store) SetSortOrder(ctx context.Context, elementID, ownerID, siteID int64, sort int) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("renumbering ownership of owner %d: %w", ownerID, err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, `UPDATE entry_ownership SET sort_order = ? WHERE element_id = ? AND owner_id = ? AND site_id = ?`, &sqlitex.ExecOptions{
		Args: []any{sort, elementID, ownerID, siteID},
	})
	if err != nil {
		return fmt.Errorf("renumbering ownership of owner %d: %w", ownerID, err)
	}
	return nil
}
