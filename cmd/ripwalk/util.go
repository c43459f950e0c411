package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
)

// parseSize parses a human-readable size string ("100", "1K", "10MiB")
// into a byte count, for --min-size/--max-size.
func parseSize(s string) (int64, error) {
	b, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	return int64(b), nil
}

// parseTime parses a time bound for --mtime-after/--mtime-before and their
// atime/ctime counterparts. It accepts an RFC3339 timestamp, or a relative
// age such as "2h", "3d", "1w" meaning "that long before now". Units are
// s/m/h/d/w; anything else is delegated to time.ParseDuration.
func parseTime(s string) (int64, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Unix(), nil
	}

	if dur, err := parseRelativeAge(s); err == nil {
		return time.Now().Add(-dur).Unix(), nil
	}

	return 0, fmt.Errorf("time %q: want RFC3339 timestamp or relative age like 3d, 2h", s)
}

func parseRelativeAge(s string) (time.Duration, error) {
	if s == "" {
		return 0, errors.New("empty")
	}
	unit := s[len(s)-1]
	var scale time.Duration
	switch unit {
	case 's':
		scale = time.Second
	case 'm':
		scale = time.Minute
	case 'h':
		scale = time.Hour
	case 'd':
		scale = 24 * time.Hour
	case 'w':
		scale = 7 * 24 * time.Hour
	default:
		return time.ParseDuration(s)
	}
	n, err := strconv.ParseFloat(strings.TrimSuffix(s, string(unit)), 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(n * float64(scale)), nil
}

// isBrokenPipe reports whether err originated from writing to a closed
// pipe (e.g. piping into `head`), which should exit quietly rather than
// as a failure.
func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE)
}
