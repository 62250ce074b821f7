package constants

import "time"

const (
	AppName = "weekplan"

	// DayOpenHour is the whole hour new blocks are stacked from when a day
	// has nothing scheduled yet.
	DayOpenHour = 8

	DefaultWorkStart      = "08:00"
	DefaultWorkEnd        = "17:00"
	DefaultBufferFraction = 0.4

	// CalibrationWindow is how many recent completed subtasks feed the
	// actual-vs-estimate multiplier.
	CalibrationWindow = 20
	// CalibrationMinSamples gates the calibration insight.
	CalibrationMinSamples = 3

	BoundaryPollInterval = 30 * time.Second

	MinSubtaskMinutes  = 30
	MaxSubtaskMinutes  = 240
	MaxSubtasksPerItem = 8

	// DefaultKeyringUser identifies the decomposition service API key in
	// the OS keyring.
	DefaultKeyringUser = "decompose-api-key"
)

// EstimateBuckets are the only durations a subtask estimate may take.
// Untrusted estimates (e.g. from the decomposition service) are snapped to
// the nearest bucket before use.
var EstimateBuckets = []int{30, 60, 90, 120, 180, 240}

// IsEstimateBucket reports whether minutes is an allowed estimate value.
func IsEstimateBucket(minutes int) bool {
	for _, b := range EstimateBuckets {
		if minutes == b {
			return true
		}
	}
	return false
}
