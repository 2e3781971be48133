package entry

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores for lookups that require the target to
// exist. Display path lookups return (nil, nil) instead, a dangling
// reference there is a normal outcome.
var ErrNotFound = errors.New("entry not found")

// LookupOptions widen a ByID lookup beyond current content.
type LookupOptions struct {
	Revisions bool
	Drafts    bool
}

// OwnerQuery selects the nested entries of one owner's field.
type OwnerQuery struct {
	OwnerID int64
	SiteID  int64
	FieldID int64
	// IDs filters the result; with OrderByIDs set the result follows this
	// sequence exactly instead of the stored sort order.
	IDs        []int64
	OrderByIDs bool
}

// Source finds entries.
type Source interface {
	ByID(ctx context.Context, id, siteID int64, opts LookupOptions) (*Entry, error)
	ByOwner(ctx context.Context, q OwnerQuery) ([]*Entry, error)
}

// TypeSource lists the configured entry types.
type TypeSource interface {
	Types(ctx context.Context) ([]Type, error)
}

// OwnershipRow mirrors one row of the ownership relation backing inline
// references.
type OwnershipRow struct {
	ElementID int64
	OwnerID   int64
	SiteID    int64
	SortOrder int
}

// OwnershipStore maintains ownership rows. Reconciliation only deletes and
// renumbers, inserting rows belongs to the nested entry creation workflow.
type OwnershipStore interface {
	List(ctx context.Context, ownerID, siteID, fieldID int64) ([]OwnershipRow, error)
	// Delete removes ownership of the given children across all sites of
	// the owner.
	Delete(ctx context.Context, elementIDs []int64, ownerID int64) error
	SetSortOrder(ctx context.Context, elementID, ownerID, siteID int64, sort int) error
}

// SaveOptions control how a rewritten value is written back during
// propagation.
type SaveOptions struct {
	SkipValidation   bool
	MergingCanonical bool
	NoPropagate      bool
}

// ValueStore reads and writes stored field values.
type ValueStore interface {
	Value(ctx context.Context, ownerID, siteID, fieldID int64) (string, error)
	Save(ctx context.Context, ownerID, siteID, fieldID int64, value string, opts SaveOptions) error
}

// Lifecycle mirrors owner level workflows onto owned children.
type Lifecycle interface {
	// Duplicate copies the children into the target owner and site,
	// returning the new ids positionally aligned with ids.
	Duplicate(ctx context.Context, ids []int64, ownerID, siteID int64) ([]int64, error)
	DeleteOwned(ctx context.Context, ownerID, fieldID int64) error
	RestoreOwned(ctx context.Context, ownerID, fieldID int64) error
}
