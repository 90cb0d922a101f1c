package js

import (
	"context"
	"fmt"
	"time"

	"github.com/dop251/goja"
)

// task is a queued callback.
type task struct {
	callback goja.Callable
	args     []goja.Value
}

// eventLoop holds the microtask queue and the timers. It is only touched on
// the VM goroutine.
type eventLoop struct {
	microtasks []task
	timers     *timerQueue
}

func newEventLoop() *eventLoop {
	return &eventLoop{timers: newTimerQueue()}
}

func (el *eventLoop) queueMicrotask(callback goja.Callable, args []goja.Value) {
	el.microtasks = append(el.microtasks, task{callback: callback, args: args})
}

// call runs one callback, recording anything it throws.
func (r *Runtime) call(fn goja.Callable, args []goja.Value) {
	if _, err := fn(goja.Undefined(), args...); err != nil {
		r.recordError(err)
	}
}

// runMicrotasks drains the microtask queue, including microtasks queued
// while draining.
func (r *Runtime) runMicrotasks() {
	for len(r.loop.microtasks) > 0 {
		t := r.loop.microtasks[0]
		r.loop.microtasks = r.loop.microtasks[1:]
		r.call(t.callback, t.args)
	}
}

// PendingTimers returns the number of scheduled timers.
func (r *Runtime) PendingTimers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.loop.timers.timers)
}

// Settle advances the virtual clock by budget, running every timer that
// falls due on the way in due order, with microtasks drained after each
// one. It returns the number of timer callbacks run. Timeouts scheduled
// from deeply nested timer callbacks are clamped to at least 4ms, so a
// callback that keeps rearming itself cannot pin the clock. Nothing sleeps: a
// setTimeout of one minute fires as soon as a budget of one minute is
// settled.
func (r *Runtime) Settle(ctx context.Context, budget time.Duration) (ran int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("timer panic: %v", p)
			r.recordError(err)
		}
	}()

	q := r.loop.timers
	defer func() { q.running = nil }()
	end := q.now + budget
	r.runMicrotasks()
	for {
		if err := ctx.Err(); err != nil {
			return ran, err
		}
		t := q.next()
		if t == nil || t.due > end {
			break
		}
		q.now = t.due
		q.running = t
		r.call(t.callback, t.args)
		q.fired(t)
		r.runMicrotasks()
		q.running = nil
		ran++
	}
	q.now = end
	return ran, nil
}
