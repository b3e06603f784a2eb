package decoder

import (
	"context"
	"image"
	"image/png"
	"io"

	"github.com/Skryldev/image-acquire/core"
	apperrors "github.com/Skryldev/image-acquire/errors"
)

// PNG decodes PNG images using the standard library.
type PNG struct{}

// NewPNG returns an initialised PNG decoder.
func NewPNG() *PNG { return &PNG{} }

func (p *PNG) CanDecode(format core.Format) bool {
	return format == core.FormatPNG
}

func (p *PNG) Decode(ctx context.Context, r io.Reader) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryCompression, "png.decode", err)
	}
	img, err := png.Decode(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryCompression, "png.decode", err)
	}
	return img, nil
}
