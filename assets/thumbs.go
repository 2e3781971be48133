// Package assets turns entry preview images into the small inline
// thumbnails shown on entry cards.
package assets

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"rte/entry"
)

//go:embed default.svg
var defaultThumbSVG []byte

// Transformer builds inline thumbnail data URIs from entry preview assets.
// An unreadable or broken preview renders the neutral placeholder artwork
// instead of failing the card.
type Transformer struct {
	dir     string
	size    int
	quality int
	log     *zap.Logger
}

// NewTransformer resolves preview paths against dir. Thumbnails fit a
// size x size box, raster output is JPEG at the given quality except for
// sources with transparency.
func NewTransformer(dir string, size, quality int, log *zap.Logger) *Transformer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Transformer{dir: dir, size: size, quality: quality, log: log.Named("assets")}
}

// Thumb returns an inline preview for the entry image. False means the
// entry has no preview asset configured at all.
func (t *Transformer) Thumb(e *entry.Entry) (string, bool) {
	if e.Image == "" {
		return "", false
	}
	data, err := os.ReadFile(filepath.Join(t.dir, e.Image))
	if err != nil {
		t.log.Warn("Unable to read preview asset", zap.String("path", e.Image), zap.Error(err))
		return t.placeholder(), true
	}
	uri, err := t.encode(data, strings.EqualFold(filepath.Ext(e.Image), ".svg"))
	if err != nil {
		t.log.Warn("Unable to build thumbnail", zap.String("path", e.Image), zap.Error(err))
		return t.placeholder(), true
	}
	return uri, true
}

func (t *Transformer) encode(data []byte, svg bool) (string, error) {
	if svg || looksLikeSVG(data) {
		img, err := rasterizeSVG(data, t.size, t.size)
		if err != nil {
			return "", fmt.Errorf("rasterizing svg: %w", err)
		}
		return encodePNG(img)
	}
	if !filetype.IsImage(data) {
		return "", errors.New("not an image")
	}
	img, kind, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}
	thumb := imaging.Fit(img, t.size, t.size, imaging.Lanczos)
	if kind == "png" {
		return encodePNG(thumb)
	}
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, thumb, imaging.JPEG, imaging.JPEGQuality(t.quality)); err != nil {
		return "", fmt.Errorf("encoding thumbnail: %w", err)
	}
	return dataURI("image/jpeg", buf.Bytes()), nil
}

func (t *Transformer) placeholder() string {
	return dataURI("image/svg+xml", defaultThumbSVG)
}

func encodePNG(img image.Image) (string, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return "", fmt.Errorf("encoding thumbnail: %w", err)
	}
	return dataURI("image/png", buf.Bytes()), nil
}

func looksLikeSVG(data []byte) bool {
	return bytes.Contains(data[:min(len(data), 512)], []byte("<svg"))
}

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
