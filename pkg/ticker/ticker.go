// SPDX-License-Identifier: GPL-3.0-or-later

package ticker

import "time"

type (
	// Ticker holds a channel that delivers ticks of a clock at intervals.
	// The ticks are aligned to interval boundaries.
	Ticker struct {
		C        <-chan int
		done     chan struct{}
		stopped  chan struct{}
		interval time.Duration
	}
)

// New returns a Ticker whose channel delivers an increasing clock value every interval.
// Ticks are dropped when the receiver is not ready.
// The duration must be greater than zero; if not, New will panic. Stop the Ticker to release associated resources.
func New(interval time.Duration) *Ticker {
	if interval <= 0 {
		panic("non-positive interval for ticker.New")
	}

	c := make(chan int)

	t := &Ticker{
		C:        c,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		interval: interval,
	}

	go t.start(c)

	return t
}

func (t *Ticker) start(c chan int) {
	defer close(t.stopped)

	timer := time.NewTimer(t.untilNext())
	defer timer.Stop()

	for clock := 0; ; clock++ {
		select {
		case <-t.done:
			return
		case <-timer.C:
		}

		select {
		case c <- clock:
		case <-t.done:
			return
		default:
			// receiver is busy, the tick is lost
		}

		timer.Reset(t.untilNext())
	}
}

func (t *Ticker) untilNext() time.Duration {
	now := time.Now()
	return now.Truncate(t.interval).Add(t.interval).Sub(now)
}

// Stop turns off a Ticker and waits for its goroutine to exit.
// After Stop, no more ticks will be sent.
func (t *Ticker) Stop() {
	select {
	case <-t.done:
	default:
		close(t.done)
	}
	<-t.stopped
}
