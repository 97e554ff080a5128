package metrics

import "time"

// Sample is one aggregated datapoint of a metric series.
type Sample struct {
	Timestamp time.Time
	Average   float64
}
