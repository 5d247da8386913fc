package microtask

import (
	"errors"
	"testing"
)

func TestDrainRunsJobsInFIFOOrder(t *testing.T) {
	q := New()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		q.Enqueue(func() error {
			order = append(order, i)
			return nil
		})
	}
	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}
	if err := q.Drain(); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if q.Len() != 0 {
		t.Fatalf("Len() after Drain = %d, want 0", q.Len())
	}
	want := []int{0, 1, 2}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestDrainStopsAtFirstError(t *testing.T) {
	q := New()
	ran := 0
	boom := errors.New("boom")
	q.Enqueue(func() error { ran++; return nil })
	q.Enqueue(func() error { ran++; return boom })
	q.Enqueue(func() error { ran++; return nil })

	err := q.Drain()
	if err != boom {
		t.Fatalf("Drain() error = %v, want %v", err, boom)
	}
	if ran != 2 {
		t.Fatalf("ran = %d jobs, want 2 (third should not run after an error)", ran)
	}
}

func TestJobEnqueuedDuringDrainAlsoRuns(t *testing.T) {
	q := New()
	ran := 0
	q.Enqueue(func() error {
		ran++
		q.Enqueue(func() error { ran++; return nil })
		return nil
	})
	if err := q.Drain(); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if ran != 2 {
		t.Fatalf("ran = %d, want 2 (a job enqueued mid-drain should still run)", ran)
	}
}
