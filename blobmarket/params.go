package blobmarket

import "fmt"

// Default capacity parameters for the currently active fork.
// These are defaults for config loading only - the engine always
// receives its parameters as input, so a future blob parameter
// upgrade is a config change, not a code change.
const (
	DefaultTargetBlobsPerBlock   = 10
	DefaultMaxBlobsPerBlock      = 15
	DefaultBytesPerBlob          = 131072
	DefaultBaseFeeUpdateFraction = 5007716
)

// ProtocolParameters describes the protocol blob capacity model.
type ProtocolParameters struct {
	TargetBlobsPerBlock   uint64 `yaml:"targetBlobsPerBlock" envconfig:"PROTOCOL_TARGET_BLOBS_PER_BLOCK"`
	MaxBlobsPerBlock      uint64 `yaml:"maxBlobsPerBlock" envconfig:"PROTOCOL_MAX_BLOBS_PER_BLOCK"`
	BytesPerBlob          uint64 `yaml:"bytesPerBlob" envconfig:"PROTOCOL_BYTES_PER_BLOB"`
	BaseFeeUpdateFraction uint64 `yaml:"baseFeeUpdateFraction" envconfig:"PROTOCOL_BASE_FEE_UPDATE_FRACTION"`
}

// DefaultProtocolParameters returns the capacity model of the active fork.
func DefaultProtocolParameters() ProtocolParameters {
	return ProtocolParameters{
		TargetBlobsPerBlock:   DefaultTargetBlobsPerBlock,
		MaxBlobsPerBlock:      DefaultMaxBlobsPerBlock,
		BytesPerBlob:          DefaultBytesPerBlob,
		BaseFeeUpdateFraction: DefaultBaseFeeUpdateFraction,
	}
}

// Validate checks the protocol invariants. Called once at config load,
// which lets the per-block math below skip zero checks.
func (p ProtocolParameters) Validate() error {
	if p.TargetBlobsPerBlock == 0 {
		return &InvalidParametersError{Reason: "targetBlobsPerBlock must be positive"}
	}
	if p.MaxBlobsPerBlock == 0 {
		return &InvalidParametersError{Reason: "maxBlobsPerBlock must be positive"}
	}
	if p.BytesPerBlob == 0 {
		return &InvalidParametersError{Reason: "bytesPerBlob must be positive"}
	}
	if p.TargetBlobsPerBlock >= p.MaxBlobsPerBlock {
		return &InvalidParametersError{
			Reason: fmt.Sprintf("targetBlobsPerBlock (%v) must be below maxBlobsPerBlock (%v)", p.TargetBlobsPerBlock, p.MaxBlobsPerBlock),
		}
	}
	return nil
}
