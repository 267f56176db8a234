package common //nolint:revive // var-naming: This is an internal package for common code that is shared between chains.

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatUnits renders an amount of base units (lamports, wei, octas, ...) in the display unit
// that has the given number of decimals, e.g. FormatUnits(10000, 9) == "0.00001".
func FormatUnits(amount uint64, decimals int32) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -decimals).String()
}

// FormatBigUnits is FormatUnits for amounts that do not fit in a uint64. A nil amount formats
// as "0".
func FormatBigUnits(amount *big.Int, decimals int32) string {
	if amount == nil {
		return "0"
	}

	return decimal.NewFromBigInt(amount, -decimals).String()
}

// ParseUnits parses a decimal string of base units, as returned by REST and JSON APIs that
// encode large integers as strings, and formats it like FormatBigUnits.
func ParseUnits(amount string, decimals int32) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if !d.IsInteger() || d.IsNegative() {
		return "", fmt.Errorf("invalid amount %q: not a whole number of base units", amount)
	}

	return d.Shift(-decimals).String(), nil
}
