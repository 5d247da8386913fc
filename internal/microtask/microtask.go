// Package microtask implements the Promise-reaction job queue spec §5
// names: a plain FIFO of zero-argument jobs, drained to completion
// between top-level invocations (ECMA-262's "run jobs" loop, minus the
// macrotask/timer half that spec explicitly scopes out — see
// internal/runtime for where Drain is actually called).
package microtask

// Job is one queued microtask: typically a Promise reaction (the
// resolve/reject handler passed to .then) or a resolve/reject
// notification that needs to run after the synchronous call that
// produced it returns, per ECMA-262 25.6's "NewPromiseReactionJob". It
// is a plain alias (not a defined type) so callers across package
// boundaries — notably internal/interp's own microtaskQueue interface —
// can satisfy Enqueue's signature without importing this package.
type Job = func() error

// Queue is a FIFO of pending jobs. It is not safe for concurrent use —
// spec §5 and §9 are explicit that a single runtime instance runs single-
// threaded, so every enqueue/drain happens from the one interpreter
// goroutine that owns it.
type Queue struct {
	jobs []Job
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Enqueue appends job to the back of the queue.
func (q *Queue) Enqueue(job Job) {
	q.jobs = append(q.jobs, job)
}

// Len reports how many jobs are still pending.
func (q *Queue) Len() int {
	return len(q.jobs)
}

// Drain runs jobs in FIFO order until the queue is empty, including any
// jobs a running job itself enqueues (a .then callback that calls
// .then again). It stops at the first job that returns a non-nil error
// — matching an uncaught exception inside a reaction job, which
// ECMA-262 25.6's HostEnqueuePromiseJob treats as an unhandled rejection
// reported to the host rather than silently swallowed — but the queue
// keeps whatever jobs remained unrun so a caller can inspect or resume
// it.
func (q *Queue) Drain() error {
	for len(q.jobs) > 0 {
		job := q.jobs[0]
		q.jobs = q.jobs[1:]
		if err := job(); err != nil {
			return err
		}
	}
	return nil
}
