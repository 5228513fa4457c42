package blobmarket

// BlockSample is one observed block as delivered by the query layer.
// Samples are immutable once produced - the engine only derives values
// from them.
type BlockSample struct {
	BlockNumber   uint64
	Timestamp     uint64
	BlobCount     uint64
	GasPrice      uint64
	ExcessBlobGas *uint64
}

// Validate rejects samples that would corrupt aggregates if they were
// silently zero-filled.
func (s *BlockSample) Validate() error {
	if s.BlockNumber == 0 {
		return &MalformedSampleError{BlockNumber: s.BlockNumber, Reason: "missing block number"}
	}
	if s.Timestamp == 0 {
		return &MalformedSampleError{BlockNumber: s.BlockNumber, Reason: "missing timestamp"}
	}
	return nil
}

func validateSamples(samples []*BlockSample) error {
	for _, sample := range samples {
		if err := sample.Validate(); err != nil {
			return err
		}
	}
	return nil
}
