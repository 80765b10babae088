package app

import (
	"errors"
	"testing"
)

func TestNewOperation(t *testing.T) {
	op := NewOperation("commit")

	if op.Operation != "commit" {
		t.Errorf("Operation = %q, want commit", op.Operation)
	}
	if op.Status != StatusSuccess {
		t.Errorf("Status = %q, want %q", op.Status, StatusSuccess)
	}
	if op.Persisted() {
		t.Error("new operation reports persisted")
	}
}

func TestOperation_Persisted(t *testing.T) {
	tests := []struct {
		name string
		id   int64
		want bool
	}{
		{name: "not persisted when ID is 0", id: 0, want: false},
		{name: "persisted when ID is positive", id: 1, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := &Operation{ID: tt.id}
			if got := op.Persisted(); got != tt.want {
				t.Errorf("Persisted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOperation_Track(t *testing.T) {
	op := NewOperation("checkout")

	if err := op.Track(nil); err != nil || op.Status != StatusSuccess {
		t.Errorf("Track(nil) = %v, status %q", err, op.Status)
	}

	boom := errors.New("boom")
	if err := op.Track(boom); err != boom {
		t.Errorf("Track() returned %v, want the same error", err)
	}
	if op.Status != StatusError {
		t.Errorf("Status = %q, want %q", op.Status, StatusError)
	}

	op.Track(nil)
	if op.Status != StatusError {
		t.Error("a later success must not clear a failure")
	}
}
