package js

import (
	"time"

	"github.com/dop251/goja"
)

// minInterval is the shortest repeat period of setInterval, and the
// shortest delay of a timeout nested maxNesting levels deep.
const minInterval = 4 * time.Millisecond

// maxNesting is the timeout nesting level from which delays are clamped.
const maxNesting = 5

// timer is a pending setTimeout or setInterval callback.
type timer struct {
	id       int
	seq      int // scheduling order, breaks ties between equal due times
	callback goja.Callable
	args     []goja.Value
	due      time.Duration // on the virtual clock
	interval time.Duration // 0 for setTimeout
	nesting  int           // how many timer callbacks deep it was scheduled
}

// timerQueue holds timers against a virtual clock that only moves when the
// runtime settles. It is only touched on the VM goroutine.
type timerQueue struct {
	timers map[int]*timer
	nextID int
	seq    int
	now    time.Duration

	running *timer // the timer whose callback is on the stack, if any
}

func newTimerQueue() *timerQueue {
	return &timerQueue{
		timers: make(map[int]*timer),
		nextID: 1,
	}
}

func (q *timerQueue) add(callback goja.Callable, delay, interval time.Duration, args []goja.Value) int {
	if delay < 0 {
		delay = 0
	}
	nesting := 0
	if q.running != nil {
		nesting = q.running.nesting + 1
	}
	if nesting >= maxNesting && delay < minInterval {
		delay = minInterval
	}
	id := q.nextID
	q.nextID++
	q.timers[id] = &timer{
		id:       id,
		seq:      q.nextSeq(),
		callback: callback,
		args:     args,
		due:      q.now + delay,
		interval: interval,
		nesting:  nesting,
	}
	return id
}

func (q *timerQueue) nextSeq() int {
	q.seq++
	return q.seq
}

func (q *timerQueue) clear(id int) {
	delete(q.timers, id)
}

// next returns the earliest due timer, or nil.
func (q *timerQueue) next() *timer {
	var first *timer
	for _, t := range q.timers {
		if first == nil || t.due < first.due || t.due == first.due && t.seq < first.seq {
			first = t
		}
	}
	return first
}

// fired reschedules an interval timer and drops a one-shot one. A timer
// cleared by its own callback stays cleared.
func (q *timerQueue) fired(t *timer) {
	if _, ok := q.timers[t.id]; !ok {
		return
	}
	if t.interval == 0 {
		delete(q.timers, t.id)
		return
	}
	t.due += t.interval
	t.seq = q.nextSeq()
}

// setupTimers installs setTimeout, setInterval, their clear functions and
// queueMicrotask.
func (r *Runtime) setupTimers() {
	schedule := func(repeat bool) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			fn, ok := goja.AssertFunction(call.Argument(0))
			if !ok {
				panic(r.vm.NewTypeError("timer callback is not a function"))
			}
			delay := time.Duration(call.Argument(1).ToInteger()) * time.Millisecond
			var interval time.Duration
			if repeat {
				interval = max(delay, minInterval)
				delay = interval
			}
			var args []goja.Value
			if len(call.Arguments) > 2 {
				args = append(args, call.Arguments[2:]...)
			}
			return r.vm.ToValue(r.loop.timers.add(fn, delay, interval, args))
		}
	}
	clearTimer := func(call goja.FunctionCall) goja.Value {
		r.loop.timers.clear(int(call.Argument(0).ToInteger()))
		return goja.Undefined()
	}

	r.vm.Set("setTimeout", schedule(false))
	r.vm.Set("setInterval", schedule(true))
	r.vm.Set("clearTimeout", clearTimer)
	r.vm.Set("clearInterval", clearTimer)
	r.vm.Set("queueMicrotask", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(r.vm.NewTypeError("queueMicrotask argument is not a function"))
		}
		r.loop.queueMicrotask(fn, nil)
		return goja.Undefined()
	})
}
