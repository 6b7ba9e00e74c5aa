package debounce

import (
	"testing"
	"time"
)

func TestLatestTicketWins(t *testing.T) {
	d := New(500 * time.Millisecond)

	first := d.Schedule("notes")
	second := d.Schedule("notes")

	if d.Ready(first) {
		t.Error("superseded ticket should not be ready")
	}
	if !d.Ready(second) {
		t.Error("latest ticket should be ready")
	}
	if d.Ready(second) {
		t.Error("ticket should fire only once")
	}
	if d.Pending("notes") {
		t.Error("nothing should be pending after firing")
	}
}

func TestFieldsAreIndependent(t *testing.T) {
	d := New(time.Millisecond)

	a := d.Schedule("countdown:1")
	b := d.Schedule("project:2")

	if !d.Ready(a) || !d.Ready(b) {
		t.Error("tickets for different fields should not cancel each other")
	}
}

func TestCancelAndFlush(t *testing.T) {
	d := New(time.Millisecond)

	ticket := d.Schedule("notes")
	d.Cancel("notes")
	if d.Ready(ticket) {
		t.Error("canceled ticket should not be ready")
	}

	ticket = d.Schedule("notes")
	if !d.Flush("notes") {
		t.Error("expected a pending save to flush")
	}
	if d.Ready(ticket) || d.Flush("notes") {
		t.Error("flushed save should not fire again")
	}
}
