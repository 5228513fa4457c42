package blobmarket

// TargetUtilization returns the blob count as a percentage of the protocol
// target capacity. Values above 100% are legitimate and indicate demand
// beyond the steady-state target.
func TargetUtilization(blobCount uint64, params ProtocolParameters) float64 {
	return float64(blobCount) / float64(params.TargetBlobsPerBlock) * 100
}

// SaturationIndex returns the blob count as a percentage of the hard
// per-block maximum. Not clamped here - callers clamp for display only.
func SaturationIndex(blobCount uint64, params ProtocolParameters) float64 {
	return float64(blobCount) / float64(params.MaxBlobsPerBlock) * 100
}
