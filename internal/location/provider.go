// Package location tracks the device position reported by the client and
// exposes it as the origin for proximity sorting.
package location

import (
	"sync"

	"dishfeed/internal/geo"
)

// Status is the state of the location permission flow
type Status string

const (
	StatusIdle       Status = "idle"
	StatusRequesting Status = "requesting"
	StatusGranted    Status = "granted"
	StatusDenied     Status = "denied"
	StatusError      Status = "error"
)

// State is a snapshot of the provider
type State struct {
	Status   Status           `json:"status"`
	Location *geo.Coordinates `json:"location,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// Provider holds the last known device position
type Provider struct {
	mu    sync.RWMutex
	state State
}

// NewProvider creates a provider in the idle state
func NewProvider() *Provider {
	return &Provider{state: State{Status: StatusIdle}}
}

// Begin marks a location request as in flight
func (p *Provider) Begin() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Status = StatusRequesting
	p.state.Error = ""
}

// Grant records a fix from the device
func (p *Provider) Grant(c geo.Coordinates) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = State{Status: StatusGranted, Location: &c}
}

// Deny records a refused permission. The last known position is kept, as
// the device would keep showing it.
func (p *Provider) Deny(reason string) {
	if reason == "" {
		reason = "Location permission not granted."
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Status = StatusDenied
	p.state.Error = reason
}

// Fail records an error while reading the position
func (p *Provider) Fail(err error) {
	msg := "Failed to get location."
	if err != nil {
		msg = err.Error()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Status = StatusError
	p.state.Error = msg
}

// Clear forgets the position and returns to idle
func (p *Provider) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = State{Status: StatusIdle}
}

// State returns a copy of the current state
func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()

	st := p.state
	if st.Location != nil {
		loc := *st.Location
		st.Location = &loc
	}
	return st
}

// Origin returns the last known position, if any
func (p *Provider) Origin() (geo.Coordinates, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.state.Location == nil {
		return geo.Coordinates{}, false
	}
	return *p.state.Location, true
}
