package sandbox

import (
	"sort"
	"time"

	"github.com/dop251/goja"
)

// scheduler implements virtual time for the runtime's setTimeout shim.
// Scripts schedule against a clock that only moves when the host calls
// Advance, which makes debounce and recheck schedules deterministic.
type scheduler struct {
	now    time.Duration
	nextID int64
	seq    int64
	tasks  []*task
}

type task struct {
	id  int64
	due time.Duration
	seq int64 // insertion order breaks due-time ties
	fn  goja.Callable
}

func newScheduler() *scheduler {
	return &scheduler{nextID: 1}
}

// millis converts a script-supplied millisecond count to a duration.
func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// schedule registers a callback due after delay of virtual time.
func (s *scheduler) schedule(delay time.Duration, fn goja.Callable) int64 {
	if delay < 0 {
		delay = 0
	}
	id := s.nextID
	s.nextID++
	s.seq++
	s.tasks = append(s.tasks, &task{
		id:  id,
		due: s.now + delay,
		seq: s.seq,
		fn:  fn,
	})
	return id
}

// cancel removes a pending task. Unknown ids are ignored.
func (s *scheduler) cancel(id int64) {
	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// advance moves the clock to target, running every due task in (due, seq)
// order. Callbacks may schedule or cancel further tasks; newly due ones run
// within the same advance.
func (s *scheduler) advance(target time.Duration, run func(fn goja.Callable)) {
	for {
		next := s.takeDue(target)
		if next == nil {
			break
		}
		s.now = next.due
		run(next.fn)
	}
	s.now = target
}

// takeDue removes and returns the earliest task due at or before target.
func (s *scheduler) takeDue(target time.Duration) *task {
	if len(s.tasks) == 0 {
		return nil
	}
	sort.SliceStable(s.tasks, func(i, j int) bool {
		if s.tasks[i].due != s.tasks[j].due {
			return s.tasks[i].due < s.tasks[j].due
		}
		return s.tasks[i].seq < s.tasks[j].seq
	})
	if s.tasks[0].due > target {
		return nil
	}
	next := s.tasks[0]
	s.tasks = s.tasks[1:]
	return next
}

// reset drops all pending tasks and rewinds the clock.
func (s *scheduler) reset() {
	s.now = 0
	s.tasks = nil
}
