package core

// Locator is an opaque handle to an image resource (a file path, a content
// URI, an in-memory key).  The router never dereferences it; only Storage
// implementations and the finalizer resolve it.
type Locator string

// MediaFilter narrows what the modern picker offers the user.
type MediaFilter string

const (
	FilterImagesOnly MediaFilter = "images"
	FilterAnyVisual  MediaFilter = "visual"
)

// Format identifies an image codec.
type Format string

const (
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatWebP    Format = "webp"
	FormatUnknown Format = "unknown"
)

// Tier is the platform-capability classification governing which acquisition
// mechanism a gallery pick uses.  It is recomputed on every call, never stored.
type Tier string

const (
	// TierModernPicker: the OS ships a system photo picker that needs no
	// storage permission.
	TierModernPicker Tier = "modern_picker"
	// TierLegacyPermissioned: the legacy picker is the only option and the
	// storage-read permission has not been granted yet.
	TierLegacyPermissioned Tier = "legacy_permissioned"
	// TierLegacyUnpermissioned: the legacy picker can be launched directly,
	// either because the permission is already granted or because the OS is
	// new enough to not require one.
	TierLegacyUnpermissioned Tier = "legacy_unpermissioned"
)

// AcquisitionConfig is the immutable per-router acquisition policy, fixed at
// construction time for the lifetime of the owning screen.
type AcquisitionConfig struct {
	// RequestID tags every Result delivered by this router.
	RequestID int
	// Compress re-encodes acquired images as baseline JPEG before delivery.
	Compress bool
	// FileName names camera captures.  Empty = generate a timestamp name.
	FileName string
}

// Result is delivered once per acquisition attempt.  A nil Locator means the
// user cancelled or the flow failed; the two are indistinguishable by design.
type Result struct {
	RequestID int
	Locator   *Locator
}

// PendingToken identifies one in-flight acquisition.  A later initiate call
// on the same router invalidates all earlier tokens (last writer wins).
type PendingToken uint64

// Outcome carries the platform completion payload into Complete.
type Outcome struct {
	// Locator is the resource picked in a gallery flow; nil = cancelled.
	Locator *Locator
	// Saved reports whether a camera flow wrote to its destination.
	Saved bool
}

// State is the per-acquisition phase.
type State string

const (
	StateIdle               State = "idle"
	StateAwaitingPermission State = "awaiting_permission"
	StateAwaitingPick       State = "awaiting_pick"
	StateAwaitingCapture    State = "awaiting_capture"
)

// Stage names the router phases observed by hooks.
const (
	StageClassify   = "classify"
	StageLaunch     = "launch"
	StagePermission = "permission"
	StageFinalize   = "finalize"
)

// ResultFunc receives the terminal Result of an acquisition.
type ResultFunc func(Result)

// DeniedFunc is invoked when the user declines the storage permission.
type DeniedFunc func()
