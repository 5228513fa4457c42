package blobmarket

import "math/big"

// MinBaseFeePerBlobGas is the EIP-4844 MIN_BASE_FEE_PER_BLOB_GAS.
const MinBaseFeePerBlobGas = 1

// BlobBaseFee computes the base fee per blob gas from the excess blob gas
// using the EIP-4844 fake exponential:
//
//	fee = MIN_BASE_FEE_PER_BLOB_GAS * e**(excessBlobGas / updateFraction)
func BlobBaseFee(excessBlobGas uint64, updateFraction uint64) *big.Int {
	if updateFraction == 0 {
		return big.NewInt(0)
	}

	minBase := big.NewInt(MinBaseFeePerBlobGas)
	numerator := new(big.Int).SetUint64(excessBlobGas)
	denominator := new(big.Int).SetUint64(updateFraction)

	i := big.NewInt(1)
	output := new(big.Int)
	numeratorAccum := new(big.Int).Mul(minBase, denominator)

	tmp := new(big.Int)
	for numeratorAccum.Sign() > 0 {
		output.Add(output, numeratorAccum)

		// numerator_accum = (numerator_accum * numerator) // (denominator * i)
		tmp.Mul(denominator, i)
		numeratorAccum.Mul(numeratorAccum, numerator)
		numeratorAccum.Div(numeratorAccum, tmp)

		i.Add(i, big.NewInt(1))
	}

	return output.Div(output, denominator)
}
