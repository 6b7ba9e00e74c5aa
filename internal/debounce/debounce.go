// Package debounce coalesces bursts of edits into a single save per field.
//
// Nothing here owns a timer. Schedule hands out a Ticket and the caller
// arranges for it to come back after Delay (tea.Tick in the TUI). Only the
// newest ticket for a field is Ready, so every earlier keystroke's save is
// dropped when it fires.
package debounce

import (
	"sync"
	"time"
)

type Ticket struct {
	Field string
	Gen   uint64
}

type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	gen     uint64
	pending map[string]uint64
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		pending: make(map[string]uint64),
	}
}

func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule replaces any pending save for field with a new one.
func (d *Debouncer) Schedule(field string) Ticket {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.pending[field] = d.gen
	return Ticket{Field: field, Gen: d.gen}
}

// Ready reports whether ticket is still the latest for its field. A ready
// ticket is consumed, so it fires at most once.
func (d *Debouncer) Ready(ticket Ticket) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen, ok := d.pending[ticket.Field]; ok && gen == ticket.Gen {
		delete(d.pending, ticket.Field)
		return true
	}
	return false
}

func (d *Debouncer) Cancel(field string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pending, field)
}

func (d *Debouncer) Pending(field string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[field]
	return ok
}

// Flush consumes the pending save for field, if any, and reports whether
// there was one. Used when an editor closes before its delay has elapsed.
func (d *Debouncer) Flush(field string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[field]
	delete(d.pending, field)
	return ok
}
