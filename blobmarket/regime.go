package blobmarket

// Regime is a discrete congestion classification derived from target
// utilization, ordered by ascending congestion.
type Regime uint8

const (
	RegimeAbundant Regime = iota
	RegimeNormal
	RegimePressured
	RegimeCongested
	RegimeSaturated
)

var regimeNames = []string{"abundant", "normal", "pressured", "congested", "saturated"}

func (r Regime) String() string {
	if int(r) >= len(regimeNames) {
		return "unknown"
	}
	return regimeNames[r]
}

// RegimeInfo is display metadata for a regime. Purely descriptive, no
// computational role.
type RegimeInfo struct {
	Label       string
	ColorToken  string
	Description string
}

var regimeInfos = map[Regime]*RegimeInfo{
	RegimeAbundant: {
		Label:       "Abundant",
		ColorToken:  "success",
		Description: "Blob space is plentiful, demand well below target",
	},
	RegimeNormal: {
		Label:       "Normal",
		ColorToken:  "info",
		Description: "Demand tracks the protocol target",
	},
	RegimePressured: {
		Label:       "Pressured",
		ColorToken:  "warning",
		Description: "Demand slightly above target, prices trending up",
	},
	RegimeCongested: {
		Label:       "Congested",
		ColorToken:  "orange",
		Description: "Sustained demand well above target",
	},
	RegimeSaturated: {
		Label:       "Saturated",
		ColorToken:  "danger",
		Description: "Blocks near the hard blob limit, heavy fee pressure",
	},
}

// GetRegimeInfo returns the display metadata for a regime.
func GetRegimeInfo(r Regime) *RegimeInfo {
	return regimeInfos[r]
}

// ClassifyRegime maps a target utilization percentage to exactly one regime.
// Band boundaries are inclusive on the upper end: exactly 50% is abundant,
// exactly 90% is normal, exactly 120% is pressured, exactly 150% is congested.
func ClassifyRegime(utilizationPct float64) Regime {
	switch {
	case utilizationPct <= 50:
		return RegimeAbundant
	case utilizationPct <= 90:
		return RegimeNormal
	case utilizationPct <= 120:
		return RegimePressured
	case utilizationPct <= 150:
		return RegimeCongested
	default:
		return RegimeSaturated
	}
}

// DominantRegime returns the regime with the highest count in a regime
// histogram. Ties are broken towards the more congested regime, so a window
// split evenly between calm and congested blocks reports the congested side.
// Returns false if the histogram is empty.
func DominantRegime(counts map[Regime]uint64) (Regime, bool) {
	dominant := RegimeAbundant
	dominantCount := uint64(0)
	for regime := RegimeSaturated; ; regime-- {
		if counts[regime] > dominantCount {
			dominant = regime
			dominantCount = counts[regime]
		}
		if regime == RegimeAbundant {
			break
		}
	}
	return dominant, dominantCount > 0
}
