package upload

import (
	"strconv"
	"time"

	"dualcam/logger"
)

const recheckInterval = time.Hour

// Scheduler gates a sweep function on the configured upload window,
// sleeping and rechecking outside it. The clock and sleep are fields so
// the gating is testable without real time.
type Scheduler struct {
	window Window
	sweep  func() error
	logger *logger.Logger

	now   func() time.Time
	sleep func(time.Duration)
}

func NewScheduler(window Window, sweep func() error, logman *logger.Logger) *Scheduler {
	return &Scheduler{
		window: window,
		sweep:  sweep,
		logger: logman,
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// Tick runs one scheduling decision and reports whether the sweep ran.
func (s *Scheduler) Tick() bool {
	hour := s.now().Hour()

	if !s.window.Contains(hour) {
		s.logger.LogInfo("Outside upload window, sleeping", "hour", strconv.Itoa(hour))
		return false
	}

	s.logger.LogInfo("Inside upload window, sweeping recordings", "hour", strconv.Itoa(hour))

	if err := s.sweep(); err != nil {
		s.logger.LogError(err, "Error sweeping recordings")
	}

	return true
}

// Run ticks until stop is closed. Best effort only: a failed sweep is
// logged and retried on the next tick.
func (s *Scheduler) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		s.Tick()
		s.sleep(recheckInterval)
	}
}
