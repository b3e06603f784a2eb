package core

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Skryldev/image-acquire/config"
	apperrors "github.com/Skryldev/image-acquire/errors"
	"github.com/Skryldev/image-acquire/utils"
)

// Capabilities bundles the host-supplied collaborators the Router delegates to.
type Capabilities struct {
	Modern      ModernPicker
	Legacy      LegacyPicker
	Camera      CameraCapture
	Permissions PermissionRequester
	Platform    PlatformInfo
	Storage     Storage
}

// Router is the central acquisition orchestrator.  Each public operation
// either completes synchronously or hands off to exactly one platform flow
// whose outcome the host feeds back via Complete or HandlePermissionResult.
//
// A single mutex guards the state machine, the pending capture destination,
// and callback dispatch, so multi-threaded hosts are safe.  Overlapping
// acquisitions are still unsupported: a new initiate call supersedes the
// previous one (last writer wins on the pending destination) and invalidates
// its token.
type Router struct {
	cfg       config.Config
	acq       AcquisitionConfig
	caps      Capabilities
	finalizer Finalizer
	logger    Logger
	hooks     []Hook

	mu          sync.Mutex
	state       State
	tokenSeq    uint64
	token       PendingToken
	pendingDest Locator

	onResult ResultFunc
	onDenied DeniedFunc

	// Atomic counters for lightweight internal metrics.
	resolvedCount int64
	failureCount  int64
}

// NewRouter wires a Router.  All capabilities and the finalizer are required.
func NewRouter(cfg config.Config, acq AcquisitionConfig, caps Capabilities, fin Finalizer) (*Router, error) {
	if caps.Modern == nil || caps.Legacy == nil || caps.Camera == nil ||
		caps.Permissions == nil || caps.Platform == nil || caps.Storage == nil {
		return nil, apperrors.New(apperrors.CategoryInput, "router.new", apperrors.ErrEmptyInput)
	}
	if fin == nil {
		return nil, apperrors.New(apperrors.CategoryInput, "router.new", apperrors.ErrEmptyInput)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryInput, "router.new", err)
	}
	return &Router{
		cfg:       cfg,
		acq:       acq,
		caps:      caps,
		finalizer: fin,
		state:     StateIdle,
	}, nil
}

// SetLogger attaches a structured logger.
func (r *Router) SetLogger(l Logger) { r.logger = l }

// AddHook registers a stage observer.
func (r *Router) AddHook(h Hook) { r.hooks = append(r.hooks, h) }

// OnResult registers the terminal result callback.
func (r *Router) OnResult(fn ResultFunc) { r.onResult = fn }

// OnDenied registers the permission-denial callback.
func (r *Router) OnDenied(fn DeniedFunc) { r.onDenied = fn }

// Config returns the immutable acquisition policy.
func (r *Router) Config() AcquisitionConfig { return r.acq }

// State returns the current acquisition phase.
func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// PickFromGallery classifies the platform tier and performs exactly one side
// effect: a modern picker launch, a permission request, or a legacy picker
// launch.  The returned token is redeemed by Complete (pick flows) or kept
// alive across HandlePermissionResult (permission flow).
func (r *Router) PickFromGallery(ctx context.Context) (PendingToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token := r.issueToken()

	start := time.Now()
	r.notifyBefore(ctx, StageClassify, token)
	tier := ClassifyTier(
		r.caps.Platform.OSVersion(),
		r.caps.Permissions.Granted(r.cfg.Permission),
		r.cfg.ModernPickerMinVersion,
		r.cfg.PermissionFreeMinVersion,
	)
	r.notifyAfter(ctx, StageClassify, token, time.Since(start), nil)
	r.logDebug("gallery.classify", "tier", string(tier), "request_id", r.acq.RequestID)

	var err error
	start = time.Now()
	switch tier {
	case TierModernPicker:
		r.notifyBefore(ctx, StageLaunch, token)
		err = r.caps.Modern.Launch(ctx, FilterImagesOnly)
		r.notifyAfter(ctx, StageLaunch, token, time.Since(start), err)
		if err == nil {
			r.state = StateAwaitingPick
		}
	case TierLegacyUnpermissioned:
		r.notifyBefore(ctx, StageLaunch, token)
		err = r.caps.Legacy.Launch(ctx)
		r.notifyAfter(ctx, StageLaunch, token, time.Since(start), err)
		if err == nil {
			r.state = StateAwaitingPick
		}
	case TierLegacyPermissioned:
		r.notifyBefore(ctx, StagePermission, token)
		err = r.caps.Permissions.Request(ctx, r.cfg.Permission)
		r.notifyAfter(ctx, StagePermission, token, time.Since(start), err)
		if err == nil {
			r.state = StateAwaitingPermission
		}
	}
	if err != nil {
		atomic.AddInt64(&r.failureCount, 1)
		r.state = StateIdle
		r.logError("gallery.launch", "tier", string(tier), "error", err.Error())
		return 0, apperrors.Wrap(apperrors.CategoryLaunch, "gallery."+string(tier), err)
	}
	return token, nil
}

// PickFromCamera allocates a writable destination in the pictures collection
// and launches the camera UI targeting it.  Allocation failure aborts the
// call synchronously; no callback fires and nothing is retried.
func (r *Router) PickFromCamera(ctx context.Context) (PendingToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token := r.issueToken()

	name := r.acq.FileName
	if name == "" {
		name = utils.GenerateFileName(r.cfg.CapturePrefix)
	}

	dest, err := r.caps.Storage.Allocate(ctx, name, r.cfg.CaptureMIMEType)
	if err != nil {
		atomic.AddInt64(&r.failureCount, 1)
		r.state = StateIdle
		r.logError("camera.allocate", "name", name, "error", err.Error())
		return 0, apperrors.Wrap(apperrors.CategoryAllocation, "camera.allocate", err)
	}
	r.pendingDest = dest

	start := time.Now()
	r.notifyBefore(ctx, StageLaunch, token)
	err = r.caps.Camera.Launch(ctx, dest)
	r.notifyAfter(ctx, StageLaunch, token, time.Since(start), err)
	if err != nil {
		atomic.AddInt64(&r.failureCount, 1)
		r.state = StateIdle
		r.logError("camera.launch", "dest", string(dest), "error", err.Error())
		return 0, apperrors.Wrap(apperrors.CategoryLaunch, "camera.launch", err)
	}
	r.state = StateAwaitingCapture
	r.logDebug("camera.launched", "dest", string(dest), "request_id", r.acq.RequestID)
	return token, nil
}

// HandlePermissionResult resumes a gallery pick deferred on a permission
// prompt.  A grant launches the legacy picker under the same token; a denial
// fires the denial callback and ends the attempt with no result delivered.
func (r *Router) HandlePermissionResult(ctx context.Context, granted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateAwaitingPermission {
		return apperrors.New(apperrors.CategoryState, "permission.result", apperrors.ErrInvalidState)
	}

	if !granted {
		r.state = StateIdle
		r.logInfo("permission.denied", "request_id", r.acq.RequestID)
		if r.onDenied != nil {
			r.onDenied()
		}
		return nil
	}

	start := time.Now()
	r.notifyBefore(ctx, StageLaunch, r.token)
	err := r.caps.Legacy.Launch(ctx)
	r.notifyAfter(ctx, StageLaunch, r.token, time.Since(start), err)
	if err != nil {
		atomic.AddInt64(&r.failureCount, 1)
		r.state = StateIdle
		return apperrors.Wrap(apperrors.CategoryLaunch, "gallery.legacy", err)
	}
	r.state = StateAwaitingPick
	return nil
}

// Complete is the second phase of the protocol: the host feeds the platform
// outcome back under the token issued by the initiate call.  It finalizes the
// raw locator, dispatches the result callback exactly once, and resolves the
// state machine back to Idle.
func (r *Router) Complete(ctx context.Context, token PendingToken, outcome Outcome) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token != r.token {
		return Result{}, apperrors.New(apperrors.CategoryState, "complete", apperrors.ErrStaleToken)
	}
	if r.state != StateAwaitingPick && r.state != StateAwaitingCapture {
		return Result{}, apperrors.New(apperrors.CategoryState, "complete", apperrors.ErrInvalidState)
	}

	var raw *Locator
	switch r.state {
	case StateAwaitingPick:
		raw = outcome.Locator
	case StateAwaitingCapture:
		if outcome.Saved {
			dest := r.pendingDest
			raw = &dest
		}
	}
	r.state = StateIdle

	start := time.Now()
	r.notifyBefore(ctx, StageFinalize, token)
	res := r.finalizer.Finalize(ctx, r.acq, raw)
	r.notifyAfter(ctx, StageFinalize, token, time.Since(start), nil)

	atomic.AddInt64(&r.resolvedCount, 1)
	if r.onResult != nil {
		r.onResult(res)
	}
	return res, nil
}

// ResolvedCount returns the total number of resolved acquisitions.
func (r *Router) ResolvedCount() int64 { return atomic.LoadInt64(&r.resolvedCount) }

// FailureCount returns the total number of synchronous failures.
func (r *Router) FailureCount() int64 { return atomic.LoadInt64(&r.failureCount) }

// issueToken invalidates any in-flight acquisition and starts a new one.
// Callers must hold r.mu.
func (r *Router) issueToken() PendingToken {
	r.tokenSeq++
	r.token = PendingToken(r.tokenSeq)
	return r.token
}

func (r *Router) notifyBefore(ctx context.Context, stage string, token PendingToken) {
	for _, h := range r.hooks {
		h.BeforeStage(ctx, stage, token)
	}
}

func (r *Router) notifyAfter(ctx context.Context, stage string, token PendingToken, d time.Duration, err error) {
	for _, h := range r.hooks {
		h.AfterStage(ctx, stage, token, d, err)
	}
}

func (r *Router) logDebug(msg string, fields ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, fields...)
	}
}

func (r *Router) logInfo(msg string, fields ...interface{}) {
	if r.logger != nil {
		r.logger.Info(msg, fields...)
	}
}

func (r *Router) logError(msg string, fields ...interface{}) {
	if r.logger != nil {
		r.logger.Error(msg, fields...)
	}
}
