package providers

// AcquireState reports the outcome of a MapLibraryProvider poll
type AcquireState int

const (
	// AcquirePending means the library is not available yet; poll again
	AcquirePending AcquireState = iota

	// AcquireReady means the library handle is usable
	AcquireReady

	// AcquireFailed means the library will never become available
	AcquireFailed
)

// MapLibraryProvider models a lazily-available external map capability.
// The library loads out-of-band, so readiness can only be observed by
// polling TryAcquire until it reports ready or failed.
type MapLibraryProvider interface {
	TryAcquire() (MapLibrary, AcquireState)
}

// MapLibrary constructs map widgets
type MapLibrary interface {
	// NewMap builds a map widget inside the named container with a fixed
	// center and zoom.
	NewMap(containerID string, centerLat, centerLng float64, zoom int) (MapWidget, error)
}

// MapWidget is the imperative handle for an embedded map.
// It is owned by exactly one mapview machine and never shared.
type MapWidget interface {
	// AddMarker places a marker at the given coordinates
	AddMarker(lat, lng float64, title string) (MapMarker, error)

	// Remove releases the widget and everything it owns
	Remove()
}

// RGB is a marker color triplet
type RGB struct {
	R, G, B uint8
}

// MarkerAppearance is the visual state applied to a marker
type MarkerAppearance struct {
	Scale float64
	Color RGB
}

// MapMarker is the imperative handle for one marker on a map
type MapMarker interface {
	// SetAppearance repaints the marker without recreating it
	SetAppearance(appearance MarkerAppearance) error

	// OnClick registers the click callback. The machine calls this at
	// most once per marker.
	OnClick(fn func())

	// Remove removes the marker from its map
	Remove()
}
