package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var gweiFactor = decimal.NewFromInt(1000000000)

// WeiToGwei converts a wei amount to gwei without the float drift a plain
// division would pick up on large values.
func WeiToGwei(wei uint64) float64 {
	gwei, _ := decimal.NewFromUint64(wei).Div(gweiFactor).Float64()
	return gwei
}

// FormatGweiPrice renders a wei price as a gwei display string.
func FormatGweiPrice(wei uint64) string {
	return decimal.NewFromUint64(wei).Div(gweiFactor).Round(4).String() + " Gwei"
}

// FormatBlobSize renders a blob payload size in a human unit.
func FormatBlobSize(bytes uint64) string {
	switch {
	case bytes >= 1024*1024*1024:
		return fmt.Sprintf("%.2f GiB", float64(bytes)/(1024*1024*1024))
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.2f MiB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.2f KiB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%v B", bytes)
	}
}
