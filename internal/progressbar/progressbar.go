// Package progressbar wraps schollz/progressbar/v3 with enabled/disabled
// handling so the CLI can show walk progress without every call site
// checking a boolean first.
package progressbar

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
)

const updateInterval = 50 * time.Millisecond

// Bar wraps progressbar with enabled/disabled handling. All methods are
// no-ops when disabled.
type Bar struct {
	bar *progressbar.ProgressBar
}

// New creates a progress bar in spinner mode (total is unknown for a
// streaming walk). If enabled is false, returns a Bar where all methods
// are no-ops.
func New(enabled bool) *Bar {
	if !enabled {
		return &Bar{}
	}
	opts := []progressbar.Option{
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(updateInterval),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(false),
	}
	return &Bar{bar: progressbar.NewOptions(-1, opts...)}
}

// Describe updates the progress bar description.
func (b *Bar) Describe(s fmt.Stringer) {
	if b.bar != nil {
		b.bar.Describe(s.String())
	}
}

// Finish completes the progress bar and prints a final summary line.
func (b *Bar) Finish(s fmt.Stringer) {
	if b.bar != nil {
		_ = b.bar.Finish()
		fmt.Fprintln(os.Stderr, "done: "+s.String())
	}
}

// Stats tracks walk progress with atomic counters, so any goroutine can
// update them lock-free.
type Stats struct {
	Visited   atomic.Int64
	Matched   atomic.Int64
	Bytes     atomic.Int64
	StartTime time.Time
}

// NewStats returns a Stats with StartTime set to the current time.
func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

func (s *Stats) String() string {
	return fmt.Sprintf("visited %d, matched %d (%s) in %s",
		s.Visited.Load(), s.Matched.Load(),
		humanize.IBytes(uint64(s.Bytes.Load())),
		time.Since(s.StartTime).Round(10*time.Millisecond))
}
