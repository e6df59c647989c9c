package ackhandler

import (
	"sync"
	"time"

	"github.com/protocol7/quincy/internal/utils"
)

// The timerScheduler runs each task on its own goroutine, driven by a timer
// that is re-armed after every run. Cancelling the handle stops the goroutine.
type timerScheduler struct{}

// NewScheduler creates a Scheduler backed by the runtime's timers.
func NewScheduler() Scheduler {
	return &timerScheduler{}
}

func (s *timerScheduler) ScheduleAtFixedRate(task func(), initialDelay, period time.Duration) TimerHandle {
	h := &schedulerHandle{done: make(chan struct{})}
	go func() {
		timer := utils.NewTimer()
		defer timer.Stop()
		deadline := time.Now().Add(initialDelay)
		for {
			timer.Reset(deadline)
			select {
			case <-timer.Chan():
				timer.SetRead()
			case <-h.done:
				return
			}
			task()
			deadline = deadline.Add(period)
		}
	}()
	return h
}

type schedulerHandle struct {
	once sync.Once
	done chan struct{}
}

func (h *schedulerHandle) Cancel() {
	h.once.Do(func() { close(h.done) })
}
