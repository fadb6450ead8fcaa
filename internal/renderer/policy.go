package renderer

import (
	"bytes"
)

// scriptMarker is the tag whose absence suggests a server-rendered page
// would not need one, while client-rendered shells always carry it.
const scriptMarker = "<script"

// FallbackPolicy decides whether a static body is insufficient and the
// headless render should run instead.
type FallbackPolicy interface {
	ShouldFallback(html []byte) bool
}

// SizeMarkerPolicy is the default heuristic: a body below a fixed size
// threshold, or one without any script tag, is treated as a client-side
// rendering shell.
type SizeMarkerPolicy struct {
	// MinBytes is the minimum static body size accepted without fallback.
	MinBytes int
}

// ShouldFallback reports whether the static body looks like an unrendered
// shell. Known to mis-fire on legitimately small static pages and to
// under-fire on large dynamic shells.
func (p SizeMarkerPolicy) ShouldFallback(html []byte) bool {
	if len(html) < p.MinBytes {
		return true
	}
	return !bytes.Contains(bytes.ToLower(html), []byte(scriptMarker))
}
