package bench

import (
	"time"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

var SystemClock Clock = systemClock{}

func measure(clock Clock, fn func() error) (time.Duration, error) {
	start := clock.Now()
	err := fn()
	return clock.Now().Sub(start), err
}
