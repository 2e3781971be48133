package main

import (
	"context"
	"fmt"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"rte/entry"
	"rte/field"
	"rte/nested"
	"rte/state"
)

func runResave(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("resave")

	env.DryRun = cmd.Bool("dry-run")

	if err := env.OpenStore(ctx); err != nil {
		return fmt.Errorf("unable to open store: %w", err)
	}
	defer func() {
		if er := env.Store.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close store: %w", er))
		}
	}()

	f := env.Field()

	fieldID := f.ID
	if id := cmd.Int64("field"); id != 0 {
		fieldID = id
	}

	// zero means every site
	var siteID int64
	if handle := cmd.String("site"); len(handle) > 0 {
		site, err := env.Store.SiteByHandle(ctx, handle)
		if err != nil {
			return err
		}
		if site == nil {
			return fmt.Errorf("unknown site handle (%s)", handle)
		}
		siteID = site.ID
	}

	log.Info("Processing starting", zap.Int64("field", fieldID), zap.Int64("site", siteID), zap.Bool("dry-run", env.DryRun))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return resaveValues(ctx, f, fieldID, siteID, log)
}

// resaveValues walks every stored value of the field, re-runs the save
// normalization pipeline over it and reconciles nested entry ownership
// against the markers the normalized value still carries. In dry run mode
// nothing is written, changes are only counted and logged.
func resaveValues(ctx context.Context, f *field.Field, fieldID, siteID int64, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)
	m := env.Manager()

	rows, err := env.Store.Values(ctx, fieldID, siteID)
	if err != nil {
		return err
	}

	changed := 0
	defer func() {
		if len(rows) == 0 {
			log.Debug("Nothing to process", zap.Int64("field", fieldID))
			return
		}
		log.Info("Values processed", zap.Int("total", len(rows)), zap.Int("changed", changed))
	}()

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		normalized := f.NormalizeValue(row.Value)
		if normalized != row.Value {
			changed++
			log.Debug("Value normalization changed stored value",
				zap.Int64("owner", row.OwnerID), zap.Int64("site", row.SiteID),
				zap.Int("before", len(row.Value)), zap.Int("after", len(normalized)))
		}

		if env.DryRun {
			continue
		}

		if normalized != row.Value {
			// every site row is visited individually, propagation would
			// only overwrite values this same walk is about to process
			if err := env.Store.Save(ctx, row.OwnerID, row.SiteID, fieldID, normalized, entry.SaveOptions{NoPropagate: true}); err != nil {
				log.Error("Unable to save normalized value", zap.Int64("owner", row.OwnerID), zap.Int64("site", row.SiteID), zap.Error(err))
				continue
			}
		}

		if err := m.Reconcile(ctx, nested.ReconcileRequest{
			OwnerID: row.OwnerID,
			SiteID:  row.SiteID,
			FieldID: fieldID,
			Value:   normalized,
		}); err != nil {
			log.Error("Unable to reconcile ownership", zap.Int64("owner", row.OwnerID), zap.Int64("site", row.SiteID), zap.Error(err))
		}
	}
	return nil
}
