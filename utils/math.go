package utils

import (
	"math"

	"github.com/shopspring/decimal"
	tdb_types "github.com/tigerbeetle/tigerbeetle-go/pkg/types"
)

// TaxRate is the fraction of the account balance due at the tax stage.
const TaxRate = "0.01"

// TaxAmount derives the tax-stage amount from a balance: 1% rounded half away
// from zero to 2 decimal places, so a balance of 49.995 derives 0.50.
func TaxAmount(balance float64) float64 {
	amount, _ := decimal.NewFromFloat(balance).
		Mul(decimal.RequireFromString(TaxRate)).
		Round(2).
		Float64()
	return amount
}

// ApproximateAmount truncates a ledger balance to cents for display.
func ApproximateAmount(amount float64) float64 {
	return math.Floor(amount*100) / 100
}

func ToAmount(val float64) tdb_types.Uint128 {
	return tdb_types.ToUint128(uint64(math.Floor(val * 1e9)))
}

func FromAmount(amount tdb_types.Uint128) float64 {
	val := amount.BigInt()
	return float64(val.Uint64()) * 1e-9
}
