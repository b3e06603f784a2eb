package core

import (
	"context"
	"image"
	"io"
	"time"
)

// ModernPicker launches the permissionless system photo picker.  The picked
// resource arrives later through Router.Complete.
// Implementations are host glue and live outside this module.
type ModernPicker interface {
	Launch(ctx context.Context, filter MediaFilter) error
}

// LegacyPicker launches the pre-picker gallery chooser.
type LegacyPicker interface {
	Launch(ctx context.Context) error
}

// CameraCapture launches the camera UI targeting dest.  Success or failure
// arrives later through Router.Complete as Outcome.Saved.
type CameraCapture interface {
	Launch(ctx context.Context, dest Locator) error
}

// PermissionRequester reflects and requests the storage-read permission.
// Granted is a synchronous check; Request shows the platform prompt, whose
// answer arrives later through Router.HandlePermissionResult.
type PermissionRequester interface {
	Granted(permission string) bool
	Request(ctx context.Context, permission string) error
}

// PlatformInfo reports the host OS version.  Queried on every gallery pick so
// the tier is never stale.
type PlatformInfo interface {
	OSVersion() int
}

// Storage abstracts the device media store.
// Implementations live in adapters/storage/.
type Storage interface {
	// Allocate creates a new writable image resource under the standard
	// pictures collection and returns its locator.
	Allocate(ctx context.Context, displayName, mimeType string) (Locator, error)
	// Open opens a locator for read/decode.
	Open(ctx context.Context, loc Locator) (io.ReadCloser, error)
	// CreateEphemeral creates a process-local scratch file, distinct from any
	// pictures-collection resource.  The host OS may clean these up.
	CreateEphemeral(ctx context.Context, name string) (Locator, io.WriteCloser, error)
	// RemoveEphemeral deletes a scratch file created by CreateEphemeral.
	RemoveEphemeral(ctx context.Context, loc Locator) error
}

// Decoder converts encoded bytes into a pixel buffer.
// Implementations live in adapters/decoder/.
type Decoder interface {
	Decode(ctx context.Context, r io.Reader) (image.Image, error)
	CanDecode(format Format) bool
}

// Encoder serialises a pixel buffer in a target format.
// Implementations live in adapters/encoder/.
type Encoder interface {
	Encode(ctx context.Context, img image.Image, quality int) ([]byte, error)
	CanEncode(format Format) bool
}

// Transcoder re-encodes encoded image bytes as baseline JPEG in one pass,
// without surfacing an intermediate pixel buffer.  Backends that keep the
// bitmap on their own side of the fence (libvips) implement this instead of
// Decoder/Encoder.  maxDim <= 0 disables the dimension bound.
type Transcoder interface {
	TranscodeJPEG(ctx context.Context, data []byte, quality, maxDim int) ([]byte, error)
}

// Registry maps Format values to Decoder/Encoder implementations.
type Registry interface {
	DecoderFor(format Format) (Decoder, bool)
	EncoderFor(format Format) (Encoder, bool)
	RegisterDecoder(format Format, d Decoder)
	RegisterEncoder(format Format, e Encoder)
}

// Finalizer post-processes a raw acquisition outcome into the Result handed
// to the caller.  finalize.Finalizer is the production implementation.
type Finalizer interface {
	Finalize(ctx context.Context, cfg AcquisitionConfig, raw *Locator) Result
}

// Logger is a minimal structured logging interface.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// Hook is an optional observer invoked around router stages.
type Hook interface {
	BeforeStage(ctx context.Context, stage string, token PendingToken)
	AfterStage(ctx context.Context, stage string, token PendingToken, d time.Duration, err error)
}
