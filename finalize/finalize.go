// Package finalize turns a raw acquisition outcome into the Result delivered
// to the caller: pass-through, or decode / bound / re-encode as baseline JPEG.
package finalize

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	"github.com/Skryldev/image-acquire/config"
	"github.com/Skryldev/image-acquire/core"
	apperrors "github.com/Skryldev/image-acquire/errors"
	"github.com/Skryldev/image-acquire/utils"
)

// Finalizer implements core.Finalizer.  Compression failures never fail the
// acquisition: the original locator is returned unchanged so the caller always
// gets an image when one was captured.
type Finalizer struct {
	cfg        config.Config
	storage    core.Storage
	registry   core.Registry
	transcoder core.Transcoder
	logger     core.Logger
}

// New creates a Finalizer backed by the given storage and codec registry.
func New(cfg config.Config, storage core.Storage, reg core.Registry) *Finalizer {
	return &Finalizer{cfg: cfg, storage: storage, registry: reg}
}

// SetLogger attaches a structured logger.
func (f *Finalizer) SetLogger(l core.Logger) { f.logger = l }

// SetTranscoder installs a one-pass backend (e.g. adapters/vips) used in
// preference to the registry decode/encode path.
func (f *Finalizer) SetTranscoder(t core.Transcoder) { f.transcoder = t }

// Finalize resolves the raw locator into a Result.
//
//   - nil raw (cancelled / failed): Result with nil locator, no compression.
//   - compression disabled: raw passes through unchanged.
//   - compression enabled: re-encoded copy in an ephemeral location; any
//     failure on that path degrades to the original locator (fail-open).
func (f *Finalizer) Finalize(ctx context.Context, acq core.AcquisitionConfig, raw *core.Locator) core.Result {
	if raw == nil {
		return core.Result{RequestID: acq.RequestID}
	}
	if !acq.Compress {
		return core.Result{RequestID: acq.RequestID, Locator: raw}
	}

	out, err := f.compress(ctx, *raw)
	if err != nil {
		if f.logger != nil {
			f.logger.Warn("finalize.compress.fallback",
				"locator", string(*raw),
				"request_id", acq.RequestID,
				"error", err.Error(),
			)
		}
		return core.Result{RequestID: acq.RequestID, Locator: raw}
	}
	return core.Result{RequestID: acq.RequestID, Locator: &out}
}

// compress decodes raw, optionally bounds its longest side, re-encodes as
// baseline JPEG, and writes the bytes to a fresh ephemeral location.
func (f *Finalizer) compress(ctx context.Context, raw core.Locator) (core.Locator, error) {
	rc, err := f.storage.Open(ctx, raw)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var r io.Reader = rc
	if f.cfg.MaxImageBytes > 0 {
		r = &utils.LimitedReader{R: rc, Max: f.cfg.MaxImageBytes}
	}
	buf, err := utils.DrainReader(ctx, r, 0)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CategoryCompression, "finalize.read", err)
	}
	data := utils.CloneBytes(buf.Bytes())
	utils.ReleaseBuffer(buf)
	if len(data) == 0 {
		return "", apperrors.New(apperrors.CategoryCompression, "finalize.read", apperrors.ErrEmptyInput)
	}

	encoded, err := f.reencode(ctx, data)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("compressed_%s.jpg", uuid.NewString())
	loc, w, err := f.storage.CreateEphemeral(ctx, name)
	if err != nil {
		return "", err
	}
	if _, err := w.Write(encoded); err != nil {
		w.Close()
		_ = f.storage.RemoveEphemeral(ctx, loc)
		return "", apperrors.Wrap(apperrors.CategoryCompression, "finalize.write", err)
	}
	if err := w.Close(); err != nil {
		_ = f.storage.RemoveEphemeral(ctx, loc)
		return "", apperrors.Wrap(apperrors.CategoryCompression, "finalize.write", err)
	}
	return loc, nil
}

// reencode produces baseline JPEG bytes from encoded source data, through the
// transcoder when one is installed, otherwise through the codec registry.
func (f *Finalizer) reencode(ctx context.Context, data []byte) ([]byte, error) {
	if f.transcoder != nil {
		out, err := f.transcoder.TranscodeJPEG(ctx, data, f.cfg.JPEGQuality, f.cfg.MaxDimension)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryCompression, "finalize.transcode", err)
		}
		return out, nil
	}

	format := core.Format(utils.DetectFormat(data))
	dec, ok := f.registry.DecoderFor(format)
	if !ok {
		return nil, apperrors.New(apperrors.CategoryCompression, "finalize.decode",
			fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, format))
	}
	img, err := dec.Decode(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	img = bound(img, f.cfg.MaxDimension)

	enc, ok := f.registry.EncoderFor(core.FormatJPEG)
	if !ok {
		return nil, apperrors.New(apperrors.CategoryCompression, "finalize.encode",
			fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, core.FormatJPEG))
	}
	return enc.Encode(ctx, img, f.cfg.JPEGQuality)
}

// bound shrinks img so its longest side does not exceed max.  max <= 0 or an
// image already within the bound passes through untouched.
func bound(img image.Image, max int) image.Image {
	srcB := img.Bounds()
	dstW, dstH := utils.BoundDimensions(srcB.Dx(), srcB.Dy(), max)
	if dstW == srcB.Dx() && dstH == srcB.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, srcB, xdraw.Over, nil)
	return dst
}
