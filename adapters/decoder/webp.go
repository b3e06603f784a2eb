package decoder

import (
	"context"
	"image"
	"io"

	"golang.org/x/image/webp"

	"github.com/Skryldev/image-acquire/core"
	apperrors "github.com/Skryldev/image-acquire/errors"
)

// WebP decodes WebP images using golang.org/x/image/webp.
// NOTE: golang.org/x/image/webp only supports lossy WebP decoding.
// For lossless or animated WebP, register the vips backend instead.
type WebP struct{}

// NewWebP returns an initialised WebP decoder.
func NewWebP() *WebP { return &WebP{} }

func (w *WebP) CanDecode(format core.Format) bool {
	return format == core.FormatWebP
}

func (w *WebP) Decode(ctx context.Context, r io.Reader) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryCompression, "webp.decode", err)
	}
	img, err := webp.Decode(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryCompression, "webp.decode", err)
	}
	return img, nil
}
