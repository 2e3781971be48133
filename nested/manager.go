// Package nested keeps the nested entries referenced by a rich text value in
// step with their persisted ownership rows, and carries owner level
// workflows (duplication, propagation, deletion, restore) over to the owned
// entries.
package nested

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"go.uber.org/zap"

	"rte/common"
	"rte/entry"
	"rte/markup"
)

// ErrIDListMismatch reports old and new id lists of different lengths, for
// which positional substitution is undefined.
var ErrIDListMismatch = errors.New("old and new id lists differ in length")

// Manager aligns ownership rows with the markers actually present in a
// field value. The value string is the source of truth for membership and
// order, rows only follow it.
type Manager struct {
	ownership entry.OwnershipStore
	lifecycle entry.Lifecycle
	values    entry.ValueStore
	log       *zap.Logger
}

func NewManager(ownership entry.OwnershipStore, lifecycle entry.Lifecycle, values entry.ValueStore, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		ownership: ownership,
		lifecycle: lifecycle,
		values:    values,
		log:       log.Named("nested"),
	}
}

// ReconcileRequest names the owner, site and field whose value was just
// saved.
type ReconcileRequest struct {
	OwnerID int64
	SiteID  int64
	FieldID int64
	Value   string
}

// Reconcile deletes ownership rows for entries the value no longer
// references and renumbers the remaining rows to contiguous document order.
// It never inserts rows, that is the job of the entry creation workflow.
// Running it twice over an unchanged value performs no writes on the second
// run. Store errors abort the enclosing save, nothing is retried here.
func (m *Manager) Reconcile(ctx context.Context, r ReconcileRequest) error {
	used := markup.FirstUse(markup.ExtractIDs(r.Value))

	pos := make(map[int64]int, len(used))
	for i, id := range used {
		pos[id] = i
	}

	rows, err := m.ownership.List(ctx, r.OwnerID, r.SiteID, r.FieldID)
	if err != nil {
		return fmt.Errorf("listing ownership for owner %d: %w", r.OwnerID, err)
	}

	var stale []int64
	for _, row := range rows {
		if _, ok := pos[row.ElementID]; !ok {
			stale = append(stale, row.ElementID)
		}
	}
	if len(stale) > 0 {
		if err := m.ownership.Delete(ctx, stale, r.OwnerID); err != nil {
			return fmt.Errorf("deleting stale ownership for owner %d: %w", r.OwnerID, err)
		}
		m.log.Debug("Deleted stale ownership rows",
			zap.Int64("owner", r.OwnerID), zap.Int64("site", r.SiteID), zap.Int64s("ids", stale))
		rows, err = m.ownership.List(ctx, r.OwnerID, r.SiteID, r.FieldID)
		if err != nil {
			return fmt.Errorf("listing ownership for owner %d: %w", r.OwnerID, err)
		}
	}

	// Document order of the first marker occurrence wins over whatever
	// order rows came back in.
	sort.SliceStable(rows, func(i, j int) bool {
		return pos[rows[i].ElementID] < pos[rows[j].ElementID]
	})

	for i, row := range rows {
		want := i + 1
		if row.SortOrder == want {
			continue
		}
		if err := m.ownership.SetSortOrder(ctx, row.ElementID, r.OwnerID, r.SiteID, want); err != nil {
			return fmt.Errorf("renumbering ownership for owner %d: %w", r.OwnerID, err)
		}
	}
	return nil
}

// Remap substitutes marker ids in value, replacing each id found in oldIDs
// with the newIDs element at the same position. Ids outside oldIDs stay
// untouched, concurrent edits may legitimately leave some behind. Empty or
// identical lists mean there is nothing to substitute and return the value
// as is, that case is checked before the length contract so a caller with
// no new ids does not trip it.
func (m *Manager) Remap(value string, oldIDs, newIDs []int64) (string, error) {
	if len(oldIDs) == 0 || len(newIDs) == 0 || slices.Equal(oldIDs, newIDs) {
		return value, nil
	}
	if len(oldIDs) != len(newIDs) {
		return "", fmt.Errorf("remapping %d ids to %d: %w", len(oldIDs), len(newIDs), ErrIDListMismatch)
	}

	subst := make(map[int64]int64, len(oldIDs))
	for i, old := range oldIDs {
		if _, ok := subst[old]; ok {
			continue
		}
		subst[old] = newIDs[i]
	}

	return markup.Rewrite(value, func(mk markup.Marker) (string, bool) {
		id, ok := subst[mk.ID]
		if !ok || id == mk.ID {
			return "", false
		}
		return mk.WithID(id), true
	}), nil
}

// SaveRequest describes one completed owner save in one site. The
// propagation fields are decided by the caller's save workflow, the manager
// never infers them from ambient state.
type SaveRequest struct {
	OwnerID int64
	SiteID  int64
	FieldID int64
	Value   string

	// IsInitialPropagation marks the first save of a freshly duplicated or
	// propagated owner. Only that save duplicates nested entries, later
	// saves of the same owner must not remap again.
	IsInitialPropagation bool
	Translatable         bool
	MultiSite            bool
	Propagation          common.PropagationMethod
}

// AfterSave runs the post-save pipeline for one owner and site: on the
// initial propagation of a duplicated owner it copies the referenced
// entries, rewrites the value to the new ids and stores it back, then in
// every case aligns ownership rows with the final value.
func (m *Manager) AfterSave(ctx context.Context, r SaveRequest) error {
	value := r.Value
	if m.shouldPropagate(r) {
		rewritten, err := m.propagate(ctx, r)
		if err != nil {
			return err
		}
		value = rewritten
	}
	return m.Reconcile(ctx, ReconcileRequest{
		OwnerID: r.OwnerID,
		SiteID:  r.SiteID,
		FieldID: r.FieldID,
		Value:   value,
	})
}

func (m *Manager) shouldPropagate(r SaveRequest) bool {
	return r.IsInitialPropagation && r.MultiSite && r.Translatable && r.Propagation.Propagates()
}

func (m *Manager) propagate(ctx context.Context, r SaveRequest) (string, error) {
	oldIDs := markup.FirstUse(markup.ExtractIDs(r.Value))
	if len(oldIDs) == 0 {
		return r.Value, nil
	}

	newIDs, err := m.lifecycle.Duplicate(ctx, oldIDs, r.OwnerID, r.SiteID)
	if err != nil {
		return "", fmt.Errorf("duplicating nested entries for owner %d: %w", r.OwnerID, err)
	}

	value, err := m.Remap(r.Value, oldIDs, newIDs)
	if err != nil {
		return "", err
	}
	if value == r.Value {
		return value, nil
	}

	m.log.Debug("Rewrote nested entry ids after duplication",
		zap.Int64("owner", r.OwnerID), zap.Int64("site", r.SiteID), zap.Int("entries", len(oldIDs)))

	// The rewrite merges canonical changes and skips validation so the
	// write does not spawn another revision, and it must not propagate
	// again or every site would duplicate the children once more.
	err = m.values.Save(ctx, r.OwnerID, r.SiteID, r.FieldID, value, entry.SaveOptions{
		SkipValidation:   true,
		MergingCanonical: true,
		NoPropagate:      true,
	})
	if err != nil {
		return "", fmt.Errorf("saving remapped value for owner %d: %w", r.OwnerID, err)
	}
	return value, nil
}

// DeleteOwned soft deletes the nested entries of a deleted owner. Whether a
// child shared with other owners survives is decided by the store.
func (m *Manager) DeleteOwned(ctx context.Context, ownerID, fieldID int64) error {
	if err := m.lifecycle.DeleteOwned(ctx, ownerID, fieldID); err != nil {
		return fmt.Errorf("deleting owned entries of owner %d: %w", ownerID, err)
	}
	return nil
}

// RestoreOwned brings the nested entries of a restored owner back.
func (m *Manager) RestoreOwned(ctx context.Context, ownerID, fieldID int64) error {
	if err := m.lifecycle.RestoreOwned(ctx, ownerID, fieldID); err != nil {
		return fmt.Errorf("restoring owned entries of owner %d: %w", ownerID, err)
	}
	return nil
}
