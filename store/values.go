package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"rte/entry"
)

// Value loads one stored field value. Absent values read as empty.
func (s *Store) Value(ctx context.Context, ownerID, siteID, fieldID int64) (string, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return "", fmt.Errorf("loading value of owner %d: %w", ownerID, err)
	}
	defer s.pool.Put(conn)

	var value string
	err = sqlitex.Execute(conn, `SELECT value FROM field_values WHERE owner_id = ? AND site_id = ? AND field_id = ?`, &sqlitex.ExecOptions{
		Args: []any{ownerID, siteID, fieldID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = stmt.ColumnText(0)
			return nil
		},
	})
	if err != nil {
		return "", fmt.Errorf("loading value of owner %d: %w", ownerID, err)
	}
	return value, nil
}

// Save upserts one field value. The options describe how the save entered
// the pipeline, plain persistence only records them.
func (s *Store) Save(ctx context.Context, ownerID, siteID, fieldID int64, value string, opts entry.SaveOptions) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("saving value of owner %d: %w", ownerID, err)
	}
	defer s.pool.Put(conn)

	stamp := time.Now().UTC().Format(time.RFC3339)
	err = sqlitex.Execute(conn, `INSERT INTO field_values (owner_id, site_id, field_id, value, date_updated)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (owner_id, site_id, field_id) DO UPDATE SET value = excluded.value, date_updated = excluded.date_updated`, &sqlitex.ExecOptions{
		Args: []any{ownerID, siteID, fieldID, value, stamp},
	})
	if err != nil {
		return fmt.Errorf("saving value of owner %d: %w", ownerID, err)
	}
	s.log.Debug("Saved field value",
		zap.Int64("owner", ownerID),
		zap.Int64("site", siteID),
		zap.Int64("field", fieldID),
		zap.Int("size", len(value)),
		zap.Bool("merging", opts.MergingCanonical))
	return nil
}

// ValueRow is one stored field value with its coordinates.
type ValueRow struct {
	OwnerID int64
	SiteID  int64
	FieldID int64
	Value   string
}

// Values lists stored values of one field, optionally limited to a site.
// Zero siteID means every site.
func (s *Store) Values(ctx context.Context, fieldID, siteID int64) ([]ValueRow, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing values of field %d: %w", fieldID, err)
	}
	defer s.pool.Put(conn)

	q := `SELECT owner_id, site_id, field_id, value FROM field_values WHERE field_id = ?`
	args := []any{fieldID}
	if siteID != 0 {
		q += ` AND site_id = ?`
		args = append(args, siteID)
	}
	q += ` ORDER BY site_id, owner_id`

	var rows []ValueRow
	err = sqlitex.Execute(conn, q, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rows = append(rows, ValueRow{
				OwnerID: stmt.ColumnInt64(0),
				SiteID:  stmt.ColumnInt64(1),
				FieldID: stmt.ColumnInt64(2),
				Value:   stmt.ColumnText(3),
			})
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("listing values of field %d: %w", fieldID, err)
	}
	return rows, nil
}
