package blobmarket

import "time"

// BaselineWindow is the fixed reference window shorter windows are
// compared against.
var BaselineWindow = WindowSpec{Name: "7d", Duration: 7 * 24 * time.Hour}

// WindowSpec names a trailing time window [now-Duration, now].
type WindowSpec struct {
	Name     string
	Duration time.Duration
}

// WindowSummary holds the per-window aggregates. Average fields are nil
// for windows without any member blocks, so "no blocks observed" can never
// be confused with "zero blobs observed".
type WindowSummary struct {
	Window            WindowSpec
	BlockCount        uint64
	AvgBlobsPerBlock  *float64
	AvgGasPrice       *float64
	AvgUtilizationPct *float64
	AvgSaturationPct  *float64
	RegimeCounts      map[Regime]uint64
}

// WindowComparison is the percent-change of a window against the baseline.
// Change fields are nil when the comparison is undefined (zero or empty
// baseline, empty window) - never Inf or NaN.
type WindowComparison struct {
	Summary           *WindowSummary
	BlobsChangePct    *float64
	GasPriceChangePct *float64
}

// RollingStats is the result of one rolling aggregation pass.
type RollingStats struct {
	Baseline *WindowSummary
	Windows  []*WindowComparison
}

// AggregateWindows computes a WindowSummary for each requested window plus
// the baseline window, then compares every window against the baseline.
// Windows are independent overlapping views over the same sample set, not a
// partition: a block in the last hour is also counted in the last 24 hours
// and in the baseline.
func AggregateWindows(samples []*BlockSample, windows []WindowSpec, now time.Time, params ProtocolParameters) (*RollingStats, error) {
	if err := validateSamples(samples); err != nil {
		return nil, err
	}

	baseline := summarizeWindow(samples, BaselineWindow, now, params)

	stats := &RollingStats{
		Baseline: baseline,
		Windows:  make([]*WindowComparison, 0, len(windows)),
	}

	for _, window := range windows {
		summary := summarizeWindow(samples, window, now, params)
		stats.Windows = append(stats.Windows, &WindowComparison{
			Summary:           summary,
			BlobsChangePct:    percentChange(summary.AvgBlobsPerBlock, baseline.AvgBlobsPerBlock),
			GasPriceChangePct: percentChange(summary.AvgGasPrice, baseline.AvgGasPrice),
		})
	}

	return stats, nil
}

func summarizeWindow(samples []*BlockSample, window WindowSpec, now time.Time, params ProtocolParameters) *WindowSummary {
	summary := &WindowSummary{
		Window:       window,
		RegimeCounts: map[Regime]uint64{},
	}

	windowStart := uint64(0)
	if start := now.Add(-window.Duration).Unix(); start > 0 {
		windowStart = uint64(start)
	}
	windowEnd := uint64(now.Unix())

	var blobSum, gasSum uint64
	var utilizationSum, saturationSum float64

	for _, sample := range samples {
		if sample.Timestamp < windowStart || sample.Timestamp > windowEnd {
			continue
		}

		utilization := TargetUtilization(sample.BlobCount, params)

		summary.BlockCount++
		blobSum += sample.BlobCount
		gasSum += sample.GasPrice
		utilizationSum += utilization
		saturationSum += SaturationIndex(sample.BlobCount, params)
		summary.RegimeCounts[ClassifyRegime(utilization)]++
	}

	if summary.BlockCount == 0 {
		return summary
	}

	count := float64(summary.BlockCount)
	summary.AvgBlobsPerBlock = float64Ptr(float64(blobSum) / count)
	summary.AvgGasPrice = float64Ptr(float64(gasSum) / count)
	// mean of per-block percentages, not percentage of the mean - these
	// differ whenever blob counts vary within the window
	summary.AvgUtilizationPct = float64Ptr(utilizationSum / count)
	summary.AvgSaturationPct = float64Ptr(saturationSum / count)

	return summary
}

func percentChange(current *float64, baseline *float64) *float64 {
	if current == nil || baseline == nil || *baseline == 0 {
		return nil
	}
	return float64Ptr((*current - *baseline) / *baseline * 100)
}

func float64Ptr(v float64) *float64 {
	return &v
}
