package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"rte/render"
	"rte/state"
	"rte/store"
)

func runRender(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("render")

	arg := cmd.Args().Get(0)
	if len(arg) == 0 {
		return errors.New("no owner entry id has been specified")
	}
	ownerID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return fmt.Errorf("owner entry id is not numeric (%s): %w", arg, err)
	}

	fname := cmd.Args().Get(1)
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Editing = cmd.Bool("editing")

	if err := env.OpenStore(ctx); err != nil {
		return fmt.Errorf("unable to open store: %w", err)
	}
	defer func() {
		if er := env.Store.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close store: %w", er))
		}
	}()

	fieldID := env.Cfg.Field.ID
	if id := cmd.Int64("field"); id != 0 {
		fieldID = id
	}

	site, err := resolveSite(ctx, cmd.String("site"))
	if err != nil {
		return err
	}

	log.Info("Rendering starting",
		zap.Int64("owner", ownerID), zap.Int64("site", site.ID), zap.Int64("field", fieldID),
		zap.Bool("editing", env.Editing), zap.Bool("static", cmd.Bool("static")))
	defer func(start time.Time) {
		log.Info("Rendering completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	value, err := env.Store.Value(ctx, ownerID, site.ID, fieldID)
	if err != nil {
		return err
	}
	if len(value) == 0 {
		log.Warn("Owner has no stored value, rendering empty field",
			zap.Int64("owner", ownerID), zap.Int64("site", site.ID), zap.Int64("field", fieldID))
	}

	html, err := env.Resolver().Display(ctx, value, render.DisplayContext{
		OwnerID: ownerID,
		SiteID:  site.ID,
		FieldID: fieldID,
		Editing: env.Editing,
		Static:  cmd.Bool("static"),
	})
	if err != nil {
		return fmt.Errorf("unable to resolve field value: %w", err)
	}

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}
	if _, err := out.Write([]byte(html)); err != nil {
		return fmt.Errorf("unable to write rendering: %w", err)
	}
	return nil
}

// resolveSite picks the site to operate on. Empty handle selects the
// primary site, falling back to the first one known to the store.
func resolveSite(ctx context.Context, handle string) (*store.Site, error) {
	env := state.EnvFromContext(ctx)

	if len(handle) > 0 {
		site, err := env.Store.SiteByHandle(ctx, handle)
		if err != nil {
			return nil, err
		}
		if site == nil {
			return nil, fmt.Errorf("unknown site handle (%s)", handle)
		}
		return site, nil
	}

	sites, err := env.Store.Sites(ctx)
	if err != nil {
		return nil, err
	}
	if len(sites) == 0 {
		return nil, errors.New("store has no sites, check configuration")
	}
	for i := range sites {
		if sites[i].Primary {
			return &sites[i], nil
		}
	}
	return &sites[0], nil
}
