//go:build cgo

// Package vips provides a libvips-powered core.Transcoder for hosts where
// CGO is acceptable and throughput matters more than a pure-Go build.
package vips

import (
	"context"
	"runtime"

	govips "github.com/davidbyttow/govips/v2/vips"

	apperrors "github.com/Skryldev/image-acquire/errors"
	"github.com/Skryldev/image-acquire/utils"
)

// BackendConfig configures the libvips backend.
type BackendConfig struct {
	DefaultQuality int
	MaxCacheSize   int
	MaxWorkers     int
	ReportLeaks    bool
}

// Backend implements core.Transcoder on libvips.  The decoded bitmap never
// crosses into Go; decode, bound, and JPEG export happen inside vips.
// Safe for concurrent use across goroutines.
type Backend struct {
	cfg BackendConfig
}

// NewBackend initialises libvips and returns a ready Backend.
// Call Shutdown() when the process exits.
func NewBackend(cfg BackendConfig) *Backend {
	if cfg.DefaultQuality <= 0 {
		cfg.DefaultQuality = 80
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	govips.Startup(&govips.Config{
		ConcurrencyLevel: cfg.MaxWorkers,
		MaxCacheSize:     cfg.MaxCacheSize,
		ReportLeaks:      cfg.ReportLeaks,
		CollectStats:     true,
	})
	return &Backend{cfg: cfg}
}

// Shutdown releases all libvips resources. Call once at process exit.
func (b *Backend) Shutdown() {
	govips.Shutdown()
}

// TranscodeJPEG re-encodes data as baseline JPEG at the given quality,
// shrinking the longest side to maxDim when it exceeds the bound.
func (b *Backend) TranscodeJPEG(ctx context.Context, data []byte, quality, maxDim int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryCompression, "vips.transcode", err)
	}
	if len(data) == 0 {
		return nil, apperrors.New(apperrors.CategoryCompression, "vips.transcode", apperrors.ErrEmptyInput)
	}
	if quality <= 0 {
		quality = b.cfg.DefaultQuality
	}

	ref, err := govips.NewImageFromBuffer(data)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryCompression, "vips.transcode.decode", err)
	}
	defer ref.Close()

	w, h := ref.Width(), ref.Height()
	dstW, dstH := utils.BoundDimensions(w, h, maxDim)
	if dstW != w || dstH != h {
		scale := float64(dstW) / float64(w)
		if err := ref.Resize(scale, govips.KernelLanczos3); err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryCompression, "vips.transcode.resize", err)
		}
	}

	ep := govips.NewJpegExportParams()
	ep.Quality = quality
	ep.StripMetadata = true
	out, _, err := ref.ExportJpeg(ep)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryCompression, "vips.transcode.encode", err)
	}
	return out, nil
}
