package utils

import (
	"math/big"
)

// BalanceDecimals is the fixed display precision for balances and shares.
const BalanceDecimals = 4

var weiPerEther = big.NewFloat(1e18)

// WeiToBalance converts a raw wei amount into the fixed 4-decimal string the
// UI displays. A nil amount formats as "0".
func WeiToBalance(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	f := new(big.Float).SetInt(wei)
	f.Quo(f, weiPerEther)
	return FormatBigFloat(f, BalanceDecimals)
}

// FormatBigFloat renders f with a fixed number of fractional digits.
func FormatBigFloat(f *big.Float, decimals int) string {
	if f == nil {
		return "0"
	}
	return f.Text('f', decimals)
}

// FormatAmount renders a float amount at the standard balance precision.
func FormatAmount(v float64) string {
	return FormatBigFloat(big.NewFloat(v), BalanceDecimals)
}

// TruncateAddress shortens a hex address for display: 0x1234...5678.
func TruncateAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
