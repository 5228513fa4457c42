package blobmarket

import "testing"

func TestClassifyRegimeBoundaries(t *testing.T) {
	tests := []struct {
		utilization float64
		expected    Regime
	}{
		{0, RegimeAbundant},
		{25, RegimeAbundant},
		{50.0, RegimeAbundant},
		{50.0001, RegimeNormal},
		{75, RegimeNormal},
		{90.0, RegimeNormal},
		{90.0001, RegimePressured},
		{100, RegimePressured},
		{120.0, RegimePressured},
		{120.0001, RegimeCongested},
		{150.0, RegimeCongested},
		{150.0001, RegimeSaturated},
		{400, RegimeSaturated},
	}

	for _, tt := range tests {
		if result := ClassifyRegime(tt.utilization); result != tt.expected {
			t.Errorf("ClassifyRegime(%v) = %v, want %v", tt.utilization, result, tt.expected)
		}
	}
}

// the five bands must partition [0, inf) with no gaps - sweep a fine grid
// and check every value lands in exactly one well-formed regime
func TestClassifyRegimeTotal(t *testing.T) {
	for utilization := float64(0); utilization <= 300; utilization += 0.125 {
		regime := ClassifyRegime(utilization)
		if regime > RegimeSaturated {
			t.Fatalf("ClassifyRegime(%v) returned out-of-range regime %d", utilization, regime)
		}
		if GetRegimeInfo(regime) == nil {
			t.Fatalf("no metadata for regime %v", regime)
		}
	}
}

func TestRegimeMetadata(t *testing.T) {
	for regime := RegimeAbundant; regime <= RegimeSaturated; regime++ {
		info := GetRegimeInfo(regime)
		if info == nil {
			t.Fatalf("missing metadata for %v", regime)
		}
		if info.Label == "" || info.ColorToken == "" || info.Description == "" {
			t.Errorf("incomplete metadata for %v: %+v", regime, info)
		}
	}
}

func TestDominantRegime(t *testing.T) {
	tests := []struct {
		name     string
		counts   map[Regime]uint64
		expected Regime
		ok       bool
	}{
		{
			name:   "empty histogram",
			counts: map[Regime]uint64{},
			ok:     false,
		},
		{
			name:     "single regime",
			counts:   map[Regime]uint64{RegimeNormal: 12},
			expected: RegimeNormal,
			ok:       true,
		},
		{
			name:     "clear majority",
			counts:   map[Regime]uint64{RegimeAbundant: 3, RegimePressured: 9, RegimeSaturated: 1},
			expected: RegimePressured,
			ok:       true,
		},
		{
			name:     "tie prefers more congested",
			counts:   map[Regime]uint64{RegimeAbundant: 5, RegimeCongested: 5},
			expected: RegimeCongested,
			ok:       true,
		},
		{
			name:     "three way tie",
			counts:   map[Regime]uint64{RegimeAbundant: 2, RegimeNormal: 2, RegimeSaturated: 2},
			expected: RegimeSaturated,
			ok:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := DominantRegime(tt.counts)
			if ok != tt.ok {
				t.Fatalf("DominantRegime() ok = %v, want %v", ok, tt.ok)
			}
			if ok && result != tt.expected {
				t.Errorf("DominantRegime() = %v, want %v", result, tt.expected)
			}
		})
	}
}
