package replicate

import "github.com/montanaflynn/stats"

const defaultJitterWindow = 128

// JitterTracker keeps a sliding window of snapshot inter-arrival intervals.
// Because snapshots are re-stamped on arrival, buffered spacing reflects
// network jitter rather than sender pacing; these statistics tell an
// embedder whether the configured interpolation delay absorbs it.
type JitterTracker struct {
	window  int
	samples []float64
}

// JitterSummary aggregates observed inter-arrival intervals, in seconds.
type JitterSummary struct {
	Mean    float64
	StdDev  float64
	P95     float64
	Samples int
}

func NewJitterTracker(window int) *JitterTracker {
	if window <= 0 {
		window = defaultJitterWindow
	}
	return &JitterTracker{window: window}
}

// Record adds one inter-arrival interval, evicting the oldest past the window.
func (t *JitterTracker) Record(interval float64) {
	if len(t.samples) == t.window {
		copy(t.samples, t.samples[1:])
		t.samples = t.samples[:len(t.samples)-1]
	}
	t.samples = append(t.samples, interval)
}

func (t *JitterTracker) Count() int {
	return len(t.samples)
}

// Summary computes aggregate statistics over the current window. Errors only
// when no samples have been recorded yet.
func (t *JitterTracker) Summary() (JitterSummary, error) {
	data := stats.Float64Data(t.samples)
	mean, err := stats.Mean(data)
	if err != nil {
		return JitterSummary{}, err
	}
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return JitterSummary{}, err
	}
	p95, err := stats.Percentile(data, 95)
	if err != nil {
		return JitterSummary{}, err
	}
	return JitterSummary{Mean: mean, StdDev: stdDev, P95: p95, Samples: len(t.samples)}, nil
}
