package branchwatch

import (
	"strings"
	"time"
)

// CheckInterval names how often the periodic check runs.
// Unrecognized values are kept as written and behave like CheckIntervalOneMinute.
type CheckInterval string

// Supported check intervals.
const (
	CheckIntervalThirtySeconds CheckInterval = "30sec"
	CheckIntervalOneMinute     CheckInterval = "1min"
	CheckIntervalFiveMinutes   CheckInterval = "5min"
)

// DefaultCheckInterval is used when no interval is configured.
const DefaultCheckInterval = CheckIntervalOneMinute

var checkIntervalDurations = map[CheckInterval]time.Duration{
	CheckIntervalThirtySeconds: 30 * time.Second,
	CheckIntervalOneMinute:     time.Minute,
	CheckIntervalFiveMinutes:   5 * time.Minute,
}

// CheckIntervalChoices lists the supported interval names in ascending order.
func CheckIntervalChoices() []string {
	return []string{string(CheckIntervalThirtySeconds), string(CheckIntervalOneMinute), string(CheckIntervalFiveMinutes)}
}

// Duration maps the interval to its period. Matching is exact.
func (interval CheckInterval) Duration() time.Duration {
	if duration, recognized := checkIntervalDurations[interval]; recognized {
		return duration
	}
	return checkIntervalDurations[DefaultCheckInterval]
}

// Recognized reports whether the interval is one of the supported names.
func (interval CheckInterval) Recognized() bool {
	_, recognized := checkIntervalDurations[interval]
	return recognized
}

// Settings drive the periodic check schedule.
type Settings struct {
	Enabled       bool
	CheckInterval CheckInterval
}

func normalizeCheckInterval(raw CheckInterval) CheckInterval {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return DefaultCheckInterval
	}
	return raw
}
