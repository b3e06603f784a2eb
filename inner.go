package imageacquire

import "github.com/Skryldev/image-acquire/core"

// Inner exposes the underlying core.Router for advanced use (e.g., direct
// state inspection in tests).  Prefer the high-level API for normal usage.
func (r *Router) Inner() *core.Router { return r.inner }
