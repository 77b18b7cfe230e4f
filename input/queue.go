package input

// BufferWindow is how long, in seconds, a pushed action stays drainable.
const BufferWindow = 0.2

type queued struct {
	t      float64
	action Action
}

// Queue buffers actions for a short window and hands them out once.
type Queue struct {
	now    float64
	events []queued
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Push(a Action) {
	if q == nil || a == "" {
		return
	}
	q.events = append(q.events, queued{t: q.now, action: a})
}

// Update advances the queue clock and expires stale entries.
func (q *Queue) Update(dt float64) {
	if q == nil {
		return
	}
	q.now += dt
	out := q.events[:0]
	for _, ev := range q.events {
		if q.now-ev.t <= BufferWindow {
			out = append(out, ev)
		}
	}
	q.events = out
}

// Drain returns every buffered action in push order and empties the queue.
func (q *Queue) Drain() []Action {
	if q == nil || len(q.events) == 0 {
		return nil
	}
	out := make([]Action, len(q.events))
	for i, ev := range q.events {
		out[i] = ev.action
	}
	q.events = q.events[:0]
	return out
}

func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.events)
}

// Now returns the queue clock in seconds.
func (q *Queue) Now() float64 {
	if q == nil {
		return 0
	}
	return q.now
}
