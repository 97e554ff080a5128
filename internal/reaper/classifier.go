package reaper

import awsmetrics "tasnim.dev/aws-reaper/internal/aws/metrics"

// Policy decides when a CPU series counts as underutilized.
//
// A sample is low when its average is below SampleThreshold. The instance is
// underutilized when the percentage of low samples is below
// MaxLowPercentage. Both default to the same value (10), which is the
// long-standing behaviour; keep them equal unless deliberately changing it.
type Policy struct {
	SampleThreshold  float64
	MaxLowPercentage float64
}

// LegacyPolicy uses one threshold for both comparisons.
func LegacyPolicy(threshold float64) Policy {
	return Policy{SampleThreshold: threshold, MaxLowPercentage: threshold}
}

// Verdict is the classification of one series. NoData is set for an empty
// series, which is never underutilized.
type Verdict struct {
	Samples       int
	LowSamples    int
	LowPercentage float64
	NoData        bool
	Underutilized bool
}

// Classify reduces a sample series to a verdict.
func Classify(samples []awsmetrics.Sample, p Policy) Verdict {
	if len(samples) == 0 {
		return Verdict{NoData: true}
	}

	low := 0
	for _, s := range samples {
		if s.Average < p.SampleThreshold {
			low++
		}
	}
	pct := float64(low) / float64(len(samples)) * 100

	return Verdict{
		Samples:       len(samples),
		LowSamples:    low,
		LowPercentage: pct,
		Underutilized: pct < p.MaxLowPercentage,
	}
}
