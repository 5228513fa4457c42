package blobmarket

import "time"

// HeatmapWindow is the trailing time range the congestion heatmap covers.
const HeatmapWindow = 7 * 24 * time.Hour

// HeatmapCell aggregates the blocks observed in one (weekday, hour) slot.
// Only populated cells exist in a Heatmap - a missing cell means "no data",
// which downstream rendering must distinguish from low-but-nonzero cells.
type HeatmapCell struct {
	DayOfWeek         int // 0=Sunday .. 6=Saturday, UTC
	Hour              int // 0..23, UTC
	BlockCount        uint64
	AvgUtilizationPct float64
	AvgSaturationPct  float64
	AvgGasPrice       float64
}

// Heatmap is the 7x24 congestion grid plus utilization extremes over the
// populated cells.
type Heatmap struct {
	Cells             []*HeatmapCell
	MinUtilizationPct float64
	AvgUtilizationPct float64
	MaxUtilizationPct float64
}

type heatmapAccumulator struct {
	blockCount     uint64
	utilizationSum float64
	saturationSum  float64
	gasPriceSum    float64
}

// BuildHeatmap groups blocks from the trailing heatmap window by UTC
// weekday and hour and averages utilization, saturation and gas price per
// cell. Cells are emitted in grid order (day-major).
func BuildHeatmap(samples []*BlockSample, now time.Time, params ProtocolParameters) (*Heatmap, error) {
	if err := validateSamples(samples); err != nil {
		return nil, err
	}

	windowStart := uint64(0)
	if start := now.Add(-HeatmapWindow).Unix(); start > 0 {
		windowStart = uint64(start)
	}

	var cells [7][24]*heatmapAccumulator
	for _, sample := range samples {
		if sample.Timestamp < windowStart {
			continue
		}

		blockTime := time.Unix(int64(sample.Timestamp), 0).UTC()
		day := int(blockTime.Weekday())
		hour := blockTime.Hour()

		cell := cells[day][hour]
		if cell == nil {
			cell = &heatmapAccumulator{}
			cells[day][hour] = cell
		}

		cell.blockCount++
		cell.utilizationSum += TargetUtilization(sample.BlobCount, params)
		cell.saturationSum += SaturationIndex(sample.BlobCount, params)
		cell.gasPriceSum += float64(sample.GasPrice)
	}

	heatmap := &Heatmap{}
	utilizationSum := float64(0)

	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			acc := cells[day][hour]
			if acc == nil {
				continue
			}

			count := float64(acc.blockCount)
			cell := &HeatmapCell{
				DayOfWeek:         day,
				Hour:              hour,
				BlockCount:        acc.blockCount,
				AvgUtilizationPct: acc.utilizationSum / count,
				AvgSaturationPct:  acc.saturationSum / count,
				AvgGasPrice:       acc.gasPriceSum / count,
			}
			heatmap.Cells = append(heatmap.Cells, cell)

			utilizationSum += cell.AvgUtilizationPct
			if len(heatmap.Cells) == 1 || cell.AvgUtilizationPct < heatmap.MinUtilizationPct {
				heatmap.MinUtilizationPct = cell.AvgUtilizationPct
			}
			if cell.AvgUtilizationPct > heatmap.MaxUtilizationPct {
				heatmap.MaxUtilizationPct = cell.AvgUtilizationPct
			}
		}
	}

	if len(heatmap.Cells) > 0 {
		heatmap.AvgUtilizationPct = utilizationSum / float64(len(heatmap.Cells))
	}

	return heatmap, nil
}
