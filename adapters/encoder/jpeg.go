// Package encoder provides format-specific image encoders.  Finalization
// re-encodes everything as baseline JPEG, so JPEG is the only built-in.
package encoder

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"

	"github.com/Skryldev/image-acquire/core"
	apperrors "github.com/Skryldev/image-acquire/errors"
)

// JPEG encodes pixel buffers as baseline JPEG.
type JPEG struct {
	DefaultQuality int // used when the requested quality is 0
}

func NewJPEG(defaultQuality int) *JPEG {
	if defaultQuality <= 0 {
		defaultQuality = 80
	}
	return &JPEG{DefaultQuality: defaultQuality}
}

func (j *JPEG) CanEncode(format core.Format) bool {
	return format == core.FormatJPEG
}

func (j *JPEG) Encode(ctx context.Context, img image.Image, quality int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryCompression, "jpeg.encode", err)
	}
	if img == nil {
		return nil, apperrors.New(apperrors.CategoryCompression, "jpeg.encode", apperrors.ErrEmptyInput)
	}
	if quality <= 0 {
		quality = j.DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryCompression, "jpeg.encode", err)
	}
	return buf.Bytes(), nil
}
