package main

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/h2non/filetype"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/ianaindex"

	"rte/archive"
	"rte/entry"
	"rte/field"
	"rte/markup"
	"rte/nested"
	"rte/state"
	"rte/store"
)

func runImport(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("import")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Mailformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	cp := cmd.String("force-zip-cp")
	if len(cp) > 0 {
		env.ForceZipCP, err = ianaindex.IANA.Encoding(cp)
		if err != nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.ForceZipCP = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.ForceZipCP)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	if err := env.OpenStore(ctx); err != nil {
		return fmt.Errorf("unable to open store: %w", err)
	}
	defer func() {
		if er := env.Store.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close store: %w", er))
		}
	}()

	site, err := resolveSite(ctx, cmd.String("site"))
	if err != nil {
		return err
	}

	typeHandle := cmd.String("type")
	if len(typeHandle) == 0 {
		return errors.New("no entry type has been specified")
	}

	log.Info("Processing starting", zap.String("source", src), zap.Int64("site", site.ID), zap.String("type", typeHandle))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return importSource(ctx, src, env.Field(), site.ID, typeHandle, log)
}

// importSource handles the core import logic independently of CLI framework.
// It determines the input type (directory, archive, or single document) and
// processes accordingly.
func importSource(ctx context.Context, src string, f *field.Field, siteID int64, typeHandle string, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := importDir(ctx, head, f, siteID, typeHandle, log); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		arc, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if arc {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := importArchive(ctx, head, tail, f, siteID, typeHandle, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		if isDocumentFile(head) && len(tail) == 0 {
			file, err := os.Open(head)
			if err != nil {
				return fmt.Errorf("unable to open document (%s): %w", head, err)
			}
			defer file.Close()
			if err := importDocument(ctx, file, filepath.Base(head), f, siteID, typeHandle, log); err != nil {
				return fmt.Errorf("unable to process document (%s): %w", head, err)
			}
			break
		}
		return fmt.Errorf("input was not recognized as HTML document (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// importDir walks directory tree finding documents and imports them. Per
// document failures are logged and collected, the walk itself continues.
func importDir(ctx context.Context, dir string, f *field.Field, siteID int64, typeHandle string, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	var errs error
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		arc, err := isArchiveFile(path)
		if err != nil {
			// checking format - but cannot open target file
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if arc {
			if err := importArchive(ctx, path, "", f, siteID, typeHandle, log); err != nil {
				log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
				errs = multierr.Append(errs, err)
			}
			return nil
		}

		if !isDocumentFile(path) {
			log.Debug("Skipping file, not recognized as document or archive", zap.String("file", path))
			return nil
		}

		count++

		file, err := os.Open(path)
		if err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			errs = multierr.Append(errs, err)
			return nil
		}
		defer file.Close()

		src := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		if err := importDocument(ctx, file, src, f, siteID, typeHandle, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
		return nil
	})
	return multierr.Append(err, errs)
}

// importArchive walks all files inside archive, finds documents under
// "pathIn" and imports them.
func importArchive(ctx context.Context, path, pathIn string, fld *field.Field, siteID int64, typeHandle string, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	var errs error
	err = archive.Walk(path, pathIn, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !isDocumentFile(f.FileHeader.Name) {
			log.Debug("Skipping file, not recognized as document", zap.String("archive", arc), zap.String("file", f.FileHeader.Name))
			return nil
		}

		count++

		r, err := f.Open()
		if err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
			errs = multierr.Append(errs, err)
			return nil
		}
		defer r.Close()

		name, er := archive.DecodeName(f, state.EnvFromContext(ctx).ForceZipCP)
		if er != nil {
			log.Warn("Unable to convert archive name from specified encoding", zap.Error(er))
		}

		if err := importDocument(ctx, r, name, fld, siteID, typeHandle, log); err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
		return nil
	})
	return multierr.Append(err, errs)
}

// importDocument imports a single document. "src" is part of the source path
// relative to the original path (always including file name), it backs the
// entry title when the document itself offers none. The document body goes
// through the regular save pipeline before it is stored.
func importDocument(ctx context.Context, r io.Reader, src string, f *field.Field, siteID int64, typeHandle string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var (
		entryID int64
		title   string
	)

	log.Info("Import starting", zap.String("from", src))
	defer func(start time.Time) {
		// NOTE: one mailformed document should not stop a bulk import
		if r := recover(); r != nil {
			log.Error("Import ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("import panic: %v", r)
		} else {
			log.Info("Import completed", zap.Duration("elapsed", time.Since(start)), zap.Int64("entry", entryID), zap.String("title", title))
		}
	}(time.Now())

	cr, err := charset.NewReader(r, "")
	if err != nil {
		return fmt.Errorf("unable to detect document character set (%s): %w", src, err)
	}
	data, err := io.ReadAll(cr)
	if err != nil {
		return fmt.Errorf("unable to read document (%s): %w", src, err)
	}
	doc := string(data)

	title = markup.DocumentTitle(doc)
	if len(title) == 0 {
		title = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	}

	value := f.NormalizeValue(markup.DocumentBody(doc))

	created, err := env.Store.CreateOwner(ctx, store.OwnerRequest{
		Type:   typeHandle,
		SiteID: siteID,
		Title:  title,
	})
	if err != nil {
		return fmt.Errorf("unable to create entry (%s): %w", src, err)
	}
	entryID = created.ID

	if err := env.Store.Save(ctx, created.ID, siteID, f.ID, value, entry.SaveOptions{}); err != nil {
		return fmt.Errorf("unable to save field value (%s): %w", src, err)
	}
	if err := env.Manager().AfterSave(ctx, nested.SaveRequest{
		OwnerID: created.ID,
		SiteID:  siteID,
		FieldID: f.ID,
		Value:   value,
	}); err != nil {
		return fmt.Errorf("unable to reconcile ownership (%s): %w", src, err)
	}
	return nil
}

// isArchiveFile sniffs whether path is a zip archive. Only the zip extension
// is considered at all, content decides the rest.
func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}

func isDocumentFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}
