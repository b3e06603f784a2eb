// Package imageacquire routes platform image-acquisition flows (gallery pick,
// camera capture) behind a two-phase token protocol and post-processes the
// acquired image.  Platform pickers, the camera, and the permission prompt are
// injected capabilities; hosts feed their asynchronous outcomes back through
// Complete and HandlePermissionResult.
package imageacquire

import (
	"context"

	"github.com/Skryldev/image-acquire/adapters/decoder"
	"github.com/Skryldev/image-acquire/adapters/encoder"
	"github.com/Skryldev/image-acquire/config"
	"github.com/Skryldev/image-acquire/core"
	"github.com/Skryldev/image-acquire/finalize"
)

// Re-export Format and Tier constants for convenience.
const (
	JPEG = core.FormatJPEG
	PNG  = core.FormatPNG
	WebP = core.FormatWebP

	TierModernPicker         = core.TierModernPicker
	TierLegacyPermissioned   = core.TierLegacyPermissioned
	TierLegacyUnpermissioned = core.TierLegacyUnpermissioned
)

// DefaultConfig returns a sensible production configuration.
func DefaultConfig() config.Config { return config.Default() }

// ClassifyTier re-exports the pure tier classification for hosts that want to
// inspect the decision without a Router.
func ClassifyTier(osVersion int, permissionGranted bool, modernMin, permissionFreeMin int) core.Tier {
	return core.ClassifyTier(osVersion, permissionGranted, modernMin, permissionFreeMin)
}

// Router is the primary entry point.
type Router struct {
	inner *core.Router
	fin   *finalize.Finalizer
	reg   *core.DefaultRegistry
}

// New creates a fully wired Router with the default JPEG, PNG, and WebP codecs
// registered for finalization.  Pass a custom config.Config to override
// defaults.
func New(cfg config.Config, acq core.AcquisitionConfig, caps core.Capabilities) (*Router, error) {
	reg := core.NewRegistry()
	// Register built-in codecs.
	reg.RegisterDecoder(core.FormatJPEG, decoder.NewJPEG())
	reg.RegisterDecoder(core.FormatPNG, decoder.NewPNG())
	reg.RegisterDecoder(core.FormatWebP, decoder.NewWebP())
	reg.RegisterEncoder(core.FormatJPEG, encoder.NewJPEG(cfg.JPEGQuality))

	fin := finalize.New(cfg, caps.Storage, reg)
	inner, err := core.NewRouter(cfg, acq, caps, fin)
	if err != nil {
		return nil, err
	}
	return &Router{inner: inner, fin: fin, reg: reg}, nil
}

// SetLogger attaches a structured logger to the router and the finalizer.
func (r *Router) SetLogger(l core.Logger) {
	r.inner.SetLogger(l)
	r.fin.SetLogger(l)
}

// AddHook registers an observer for acquisition stage events.
func (r *Router) AddHook(h core.Hook) { r.inner.AddHook(h) }

// OnResult registers the terminal result callback.
func (r *Router) OnResult(fn core.ResultFunc) { r.inner.OnResult(fn) }

// OnDenied registers the permission-denial callback.
func (r *Router) OnDenied(fn core.DeniedFunc) { r.inner.OnDenied(fn) }

// RegisterDecoder registers a custom decoder for the given format.
func (r *Router) RegisterDecoder(f core.Format, d core.Decoder) { r.reg.RegisterDecoder(f, d) }

// RegisterEncoder registers a custom encoder for the given format.
func (r *Router) RegisterEncoder(f core.Format, e core.Encoder) { r.reg.RegisterEncoder(f, e) }

// SetTranscoder installs a one-pass re-encode backend (e.g. adapters/vips)
// in place of the registry codecs.
func (r *Router) SetTranscoder(t core.Transcoder) { r.fin.SetTranscoder(t) }

// PickFromGallery initiates a gallery pick.  Exactly one of {modern picker
// launch, permission request, legacy picker launch} occurs.
func (r *Router) PickFromGallery(ctx context.Context) (core.PendingToken, error) {
	return r.inner.PickFromGallery(ctx)
}

// PickFromCamera allocates a capture destination and launches the camera.
func (r *Router) PickFromCamera(ctx context.Context) (core.PendingToken, error) {
	return r.inner.PickFromCamera(ctx)
}

// HandlePermissionResult resumes a gallery pick deferred on a permission
// prompt.
func (r *Router) HandlePermissionResult(ctx context.Context, granted bool) error {
	return r.inner.HandlePermissionResult(ctx, granted)
}

// Complete feeds the platform outcome back under the token issued by the
// initiate call and returns the finalized Result.
func (r *Router) Complete(ctx context.Context, token core.PendingToken, outcome core.Outcome) (core.Result, error) {
	return r.inner.Complete(ctx, token, outcome)
}

// State returns the current acquisition phase.
func (r *Router) State() core.State { return r.inner.State() }

// Stats returns lightweight acquisition statistics.
func (r *Router) Stats() (resolved, failures int64) {
	return r.inner.ResolvedCount(), r.inner.FailureCount()
}

// Loc is a convenience constructor for optional locator values.
func Loc(s string) *core.Locator {
	l := core.Locator(s)
	return &l
}
