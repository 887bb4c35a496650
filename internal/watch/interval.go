// Package watch drives repeated monitor runs on a fixed interval.
package watch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"modelwatch/internal/errors"
)

var intervalRegex = regexp.MustCompile(`^every\s+(\d+)\s*(s|m|h|d|seconds?|minutes?|hours?|days?)$`)

// ParseInterval parses an interval expression such as "every 30m" or
// "every 6 hours". The minimum accepted interval is one minute.
func ParseInterval(expr string) (time.Duration, error) {
	matches := intervalRegex.FindStringSubmatch(strings.TrimSpace(strings.ToLower(expr)))
	if matches == nil {
		return 0, errors.Newf(errors.ConfigInvalid, nil, "unrecognized interval expression: %s", expr)
	}

	value, _ := strconv.Atoi(matches[1])
	var duration time.Duration
	switch {
	case strings.HasPrefix(matches[2], "s"):
		duration = time.Duration(value) * time.Second
	case strings.HasPrefix(matches[2], "m"):
		duration = time.Duration(value) * time.Minute
	case strings.HasPrefix(matches[2], "h"):
		duration = time.Duration(value) * time.Hour
	case strings.HasPrefix(matches[2], "d"):
		duration = time.Duration(value) * 24 * time.Hour
	}

	if duration < time.Minute {
		return 0, errors.New(errors.ConfigInvalid, "minimum interval is 1 minute", nil)
	}
	return duration, nil
}

// FormatDuration formats a duration for display: "30m", "6h", "2d".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}
