// Package mapview keeps an embedded map widget's markers in one-to-one
// correspondence with a location collection. The map library loads
// out-of-band, so the machine walks through polling states before it can
// touch the widget, and every wait is a scheduled callback rather than a
// blocking call.
package mapview

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tabilog/tabilog/backend/internal/domain/providers"
)

// State is the lifecycle phase of one machine.
type State string

const (
	StateUninitialized       State = "uninitialized"
	StateWaitingForContainer State = "waiting_for_container"
	StateWaitingForLibrary   State = "waiting_for_library"
	StateReady               State = "ready"
	StateDisposed            State = "disposed"
	StateErrored             State = "errored"
)

// Marker colors and scales. Selection is a repaint, never a recreate.
var (
	selectedAppearance   = providers.MarkerAppearance{Scale: 1.2, Color: providers.RGB{R: 234, G: 67, B: 53}}
	unselectedAppearance = providers.MarkerAppearance{Scale: 1.0, Color: providers.RGB{R: 66, G: 133, B: 244}}
)

// Location is the minimal shape the machine needs per marker.
type Location struct {
	ID        int64
	Name      string
	Latitude  float64
	Longitude float64
}

// Config fixes the map construction parameters and the retry budgets.
// Both waiting phases are bounded; exhausting either budget moves the
// machine to StateErrored.
type Config struct {
	ContainerID       string
	CenterLatitude    float64
	CenterLongitude   float64
	Zoom              int
	PollInterval      time.Duration
	ContainerAttempts int
	LibraryAttempts   int
	SettleDelay       time.Duration
}

// Callbacks report machine events to the owner. All are optional.
type Callbacks struct {
	// OnReady fires once after the map settles.
	OnReady func()

	// OnSelect reports a marker click. The owner decides whether to
	// call Select in response.
	OnSelect func(locationID int64)

	// OnError fires when a terminal failure is reached.
	OnError func(err error)
}

type markerRecord struct {
	marker          providers.MapMarker
	handlerAttached bool
}

// Machine drives the widget lifecycle and the marker sub-protocol.
type Machine struct {
	mu             sync.Mutex
	cfg            Config
	provider       providers.MapLibraryProvider
	containerReady func() bool
	clock          Clock
	callbacks      Callbacks

	state       State
	widget      providers.MapWidget
	markers     map[int64]*markerRecord
	locations   []Location
	fingerprint string
	selectedID  *int64
	pending     Timer
}

// NewMachine creates a machine in StateUninitialized. containerReady
// reports whether the rendering surface exists yet.
func NewMachine(cfg Config, provider providers.MapLibraryProvider, containerReady func() bool, clock Clock, callbacks Callbacks) *Machine {
	if clock == nil {
		clock = NewRealClock()
	}
	return &Machine{
		cfg:            cfg,
		provider:       provider,
		containerReady: containerReady,
		clock:          clock,
		callbacks:      callbacks,
		state:          StateUninitialized,
		markers:        map[int64]*markerRecord{},
	}
}

// State returns the current lifecycle phase.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start begins the container polling phase. Calling Start more than once
// is a no-op.
func (m *Machine) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateUninitialized {
		return
	}
	m.state = StateWaitingForContainer
	m.pollContainerLocked(0)
}

func (m *Machine) pollContainerLocked(attempt int) {
	if m.containerReady() {
		m.state = StateWaitingForLibrary
		m.pollLibraryLocked(0)
		return
	}
	if attempt+1 >= m.cfg.ContainerAttempts {
		m.failLocked(fmt.Errorf("map container %q did not appear after %d attempts", m.cfg.ContainerID, m.cfg.ContainerAttempts))
		return
	}
	m.pending = m.clock.AfterFunc(m.cfg.PollInterval, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.state != StateWaitingForContainer {
			return
		}
		m.pollContainerLocked(attempt + 1)
	})
}

func (m *Machine) pollLibraryLocked(attempt int) {
	lib, acquireState := m.provider.TryAcquire()
	switch acquireState {
	case providers.AcquireReady:
		m.buildMapLocked(lib)
		return
	case providers.AcquireFailed:
		m.failLocked(fmt.Errorf("map library reported permanent load failure"))
		return
	}
	if attempt+1 >= m.cfg.LibraryAttempts {
		m.failLocked(fmt.Errorf("map library not available after %d attempts", m.cfg.LibraryAttempts))
		return
	}
	m.pending = m.clock.AfterFunc(m.cfg.PollInterval, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.state != StateWaitingForLibrary {
			return
		}
		m.pollLibraryLocked(attempt + 1)
	})
}

func (m *Machine) buildMapLocked(lib providers.MapLibrary) {
	widget, err := lib.NewMap(m.cfg.ContainerID, m.cfg.CenterLatitude, m.cfg.CenterLongitude, m.cfg.Zoom)
	if err != nil {
		m.failLocked(fmt.Errorf("failed to construct map: %w", err))
		return
	}
	m.widget = widget

	// The widget loads tiles asynchronously with no completion signal,
	// so readiness is declared after a fixed settle delay.
	m.pending = m.clock.AfterFunc(m.cfg.SettleDelay, func() {
		m.mu.Lock()
		if m.state != StateWaitingForLibrary {
			m.mu.Unlock()
			return
		}
		m.state = StateReady
		m.syncMarkersLocked(true)
		onReady := m.callbacks.OnReady
		m.mu.Unlock()
		if onReady != nil {
			onReady()
		}
	})
}

func (m *Machine) failLocked(err error) {
	m.state = StateErrored
	log.Error().Err(err).Str("container", m.cfg.ContainerID).Msg("map initialization failed")
	if m.callbacks.OnError != nil {
		go m.callbacks.OnError(err)
	}
}

// SetLocations replaces the location collection. While Ready, markers are
// torn down and recreated only when the collection content actually
// changed; an identical collection is a no-op regardless of how it was
// produced.
func (m *Machine) SetLocations(locations []Location) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations = locations
	if m.state == StateReady {
		m.syncMarkersLocked(false)
	}
}

// Select changes the highlighted location. Passing nil clears the
// selection. Markers are only repainted, never recreated.
func (m *Machine) Select(locationID *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectedID = locationID
	if m.state == StateReady {
		m.repaintLocked()
	}
}

// Dispose releases the widget, its markers and any pending timer. The
// machine cannot be restarted afterwards.
func (m *Machine) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateDisposed {
		return
	}
	if m.pending != nil {
		m.pending.Stop()
		m.pending = nil
	}
	m.removeMarkersLocked()
	if m.widget != nil {
		m.widget.Remove()
		m.widget = nil
	}
	m.state = StateDisposed
}

// MarkerCount returns the number of live markers.
func (m *Machine) MarkerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.markers)
}

func contentFingerprint(locations []Location) string {
	var b strings.Builder
	for _, loc := range locations {
		b.WriteString(strconv.FormatInt(loc.ID, 10))
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
		b.WriteByte(':')
		b.WriteString(loc.Name)
		b.WriteByte(';')
	}
	return b.String()
}

// syncMarkersLocked rebuilds the marker set when the collection content
// changed. The previous generation is removed in full before the next is
// created so no duplicate or orphaned markers survive.
func (m *Machine) syncMarkersLocked(force bool) {
	fingerprint := contentFingerprint(m.locations)
	if !force && fingerprint == m.fingerprint {
		return
	}
	m.fingerprint = fingerprint

	m.removeMarkersLocked()
	for _, loc := range m.locations {
		marker, err := m.widget.AddMarker(loc.Latitude, loc.Longitude, loc.Name)
		if err != nil {
			// A single bad marker must not take down the map.
			log.Warn().Err(err).Int64("location_id", loc.ID).Msg("failed to create marker, skipping")
			continue
		}
		record := &markerRecord{marker: marker}
		m.markers[loc.ID] = record
		m.attachHandlerLocked(loc.ID, record)
	}
	m.repaintLocked()
}

func (m *Machine) attachHandlerLocked(locationID int64, record *markerRecord) {
	if record.handlerAttached {
		return
	}
	record.handlerAttached = true
	record.marker.OnClick(func() {
		if m.callbacks.OnSelect != nil {
			m.callbacks.OnSelect(locationID)
		}
	})
}

func (m *Machine) repaintLocked() {
	for id, record := range m.markers {
		appearance := unselectedAppearance
		if m.selectedID != nil && *m.selectedID == id {
			appearance = selectedAppearance
		}
		if err := record.marker.SetAppearance(appearance); err != nil {
			log.Warn().Err(err).Int64("location_id", id).Msg("failed to repaint marker")
		}
	}
}

func (m *Machine) removeMarkersLocked() {
	for _, record := range m.markers {
		record.marker.Remove()
	}
	m.markers = map[int64]*markerRecord{}
}
