package blobmarket

import "math"

// SeriesPoint is one chart-bound (label, value) pair. Labels are block
// numbers in every current call site.
type SeriesPoint struct {
	Label uint64
	Value float64
}

// DownsampleAverage reduces an ordered series to at most maxBuckets points
// by averaging consecutive chunks. The chunk label is the label of the last
// member, keeping the right edge of the chart aligned with the most recent
// block. Averages are rounded to 2 decimal places. A series that already
// fits is returned unchanged, which makes the reduction idempotent.
func DownsampleAverage(points []SeriesPoint, maxBuckets int) []SeriesPoint {
	if maxBuckets < 1 || len(points) <= maxBuckets {
		return points
	}

	bucketSize := int(math.Ceil(float64(len(points)) / float64(maxBuckets)))
	result := make([]SeriesPoint, 0, maxBuckets)

	for start := 0; start < len(points); start += bucketSize {
		end := start + bucketSize
		if end > len(points) {
			end = len(points)
		}
		chunk := points[start:end]

		sum := float64(0)
		for _, point := range chunk {
			sum += point.Value
		}

		result = append(result, SeriesPoint{
			Label: chunk[len(chunk)-1].Label,
			Value: math.Round(sum/float64(len(chunk))*100) / 100,
		})
	}

	return result
}

// StrideFor returns the sampling stride for a window of windowSize points
// rendered against a point threshold. The stride is computed against half
// the threshold, which keeps the rendered density of the original charts.
// Stride 1 means every point is kept. Callers that can thin at the source
// (like the all-time chart query) use this directly instead of loading the
// full series through DownsampleStride.
func StrideFor(windowSize uint64, threshold uint64) uint64 {
	if threshold == 0 || windowSize <= threshold {
		return 1
	}
	return uint64(math.Ceil(float64(windowSize) / (float64(threshold) / 2)))
}

// DownsampleStride decimates a series by keeping every stride-th element,
// preserving original values and labels. windowSize is the size of the
// originally requested window and threshold the point count above which
// sampling kicks in.
func DownsampleStride(points []SeriesPoint, windowSize uint64, threshold uint64) []SeriesPoint {
	stride := StrideFor(windowSize, threshold)
	if stride <= 1 || uint64(len(points)) <= threshold {
		return points
	}

	result := make([]SeriesPoint, 0, uint64(len(points))/stride+1)
	for idx, point := range points {
		if uint64(idx)%stride == 0 {
			result = append(result, point)
		}
	}

	return result
}
