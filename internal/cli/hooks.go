package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/knaptrace/knaptrace/pkg/observability"
)

// solveLogger narrates a running search through the solver hooks: the
// first incumbent, every improvement, and a periodic heartbeat so long
// searches show signs of life. When a status sink is attached, progress
// goes to that single status line instead of the log stream, so spinner
// output stays clean. It maintains internal state for logging and is not
// safe for concurrent use.
type solveLogger struct {
	observability.NoopSolverHooks

	logger   *log.Logger
	status   func(string)
	best     float64
	haveBest bool
	visited  int
	start    time.Time
	lastLog  time.Time
}

// heartbeatEvery is how often the heartbeat line is emitted while no
// improvement happens.
const heartbeatEvery = 10 * time.Second

// statusEvery is the node-count stride between status line updates.
const statusEvery = 500

// installSolveLogging registers a solveLogger as the global solver hooks
// and returns a restore function for the caller to defer. A non-nil
// status sink receives short progress strings instead of log records.
func installSolveLogging(logger *log.Logger, status func(string)) func() {
	observability.SetSolverHooks(&solveLogger{logger: logger, status: status})
	return observability.Reset
}

// OnSolveStart resets the logging state for a new search.
func (s *solveLogger) OnSolveStart(ctx context.Context, title string, items int) {
	s.best, s.haveBest, s.visited = 0, false, 0
	s.start = time.Now()
	s.lastLog = s.start
	s.logger.Debugf("Search started: %q (%d items)", title, items)
}

// OnNodeVisited counts nodes and reports progress, either to the status
// line every statusEvery nodes or as a log heartbeat when nothing else
// has been logged for a while.
func (s *solveLogger) OnNodeVisited(ctx context.Context, label string, depth int, infeasible bool) {
	s.visited++
	if s.status != nil {
		if s.visited%statusEvery == 0 {
			s.status(s.statusText())
		}
		return
	}
	if time.Since(s.lastLog) < heartbeatEvery {
		return
	}
	elapsed := time.Since(s.start).Truncate(time.Second)
	if s.haveBest {
		s.logger.Infof("Searching... %d nodes in %v, best value %.3f", s.visited, elapsed, s.best)
	} else {
		s.logger.Infof("Searching... %d nodes in %v, no integral solution yet", s.visited, elapsed)
	}
	s.lastLog = time.Now()
}

// OnBestFound records the initial incumbent and every improvement.
func (s *solveLogger) OnBestFound(ctx context.Context, label string, value float64) {
	prevBest, hadBest := s.best, s.haveBest
	s.best, s.haveBest = value, true
	s.lastLog = time.Now()
	if s.status != nil {
		s.status(s.statusText())
		s.logger.Debugf("Best value %.3f at %s", value, label)
		return
	}
	if !hadBest {
		s.logger.Infof("Initial: value %.3f at %s", value, label)
	} else {
		s.logger.Infof("Improved: value %.3f at %s (+%.3f)", value, label, value-prevBest)
	}
}

// statusText renders the short progress string for the status line.
func (s *solveLogger) statusText() string {
	if s.haveBest {
		return fmt.Sprintf("%d nodes, best %.3f", s.visited, s.best)
	}
	return fmt.Sprintf("%d nodes", s.visited)
}

// OnSolveComplete logs the final search outcome.
func (s *solveLogger) OnSolveComplete(ctx context.Context, title string, nodes int, duration time.Duration, err error) {
	if err != nil {
		s.logger.Warnf("Search stopped after %d nodes: %v", nodes, err)
		return
	}
	s.logger.Debugf("Search finished: %d nodes in %s", nodes, duration.Round(time.Millisecond))
}
