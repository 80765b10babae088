package vcs_test

import (
	"errors"
	"testing"

	"novel-go/internal/vcs"
)

func TestService_History(t *testing.T) {
	t.Run("newest first and limited", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		for _, op := range []string{"init", "commit", "checkout"} {
			id, err := f.store.CreateOperation("run-1", op, "")
			if err != nil {
				t.Fatalf("CreateOperation() error = %v", err)
			}
			if err := f.store.FinishOperation(id, "success"); err != nil {
				t.Fatalf("FinishOperation() error = %v", err)
			}
		}

		ops, err := f.svc.History(2)
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if len(ops) != 2 {
			t.Fatalf("History(2) returned %d operations", len(ops))
		}
		if ops[0].Operation != "checkout" || ops[1].Operation != "commit" {
			t.Errorf("History(2) = %s, %s", ops[0].Operation, ops[1].Operation)
		}
		if ops[0].Status != "success" || ops[0].FinishedAt == nil {
			t.Errorf("operation not finished: %+v", ops[0])
		}
	})

	t.Run("empty journal", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ops, err := f.svc.History(10)
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if len(ops) != 0 {
			t.Errorf("History() = %v, want none", ops)
		}
	})

	t.Run("rejects non-positive limit", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		for _, n := range []int{0, -1} {
			if _, err := f.svc.History(n); !errors.Is(err, vcs.ErrInvalidInput) {
				t.Errorf("History(%d) error = %v, want ErrInvalidInput", n, err)
			}
		}
	})
}
