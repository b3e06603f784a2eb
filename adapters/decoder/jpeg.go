// Package decoder provides format-specific image decoders.
package decoder

import (
	"context"
	"image"
	"image/jpeg"
	"io"

	"github.com/Skryldev/image-acquire/core"
	apperrors "github.com/Skryldev/image-acquire/errors"
)

// JPEG decodes JPEG images using the standard library.
type JPEG struct{}

// NewJPEG returns an initialised JPEG decoder.
func NewJPEG() *JPEG { return &JPEG{} }

func (j *JPEG) CanDecode(format core.Format) bool {
	return format == core.FormatJPEG || format == core.FormatUnknown
}

func (j *JPEG) Decode(ctx context.Context, r io.Reader) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryCompression, "jpeg.decode", err)
	}
	img, err := jpeg.Decode(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryCompression, "jpeg.decode", err)
	}
	return img, nil
}
