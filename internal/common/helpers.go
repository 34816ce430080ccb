package common

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	SOLDecimals = 9 // SOL has 9 decimals (lamports)
)

var (
	// ErrEmptyAmount is returned for blank amount strings.
	ErrEmptyAmount = errors.New("amount is empty")
	// ErrNonPositiveAmount is returned for zero and negative amounts.
	ErrNonPositiveAmount = errors.New("amount must be positive")
	// ErrAmountPrecision is returned when an amount is finer than one lamport.
	ErrAmountPrecision = errors.New("amount has more than 9 decimal places")
	// ErrAmountTooLarge is returned when an amount does not fit in uint64 lamports.
	ErrAmountTooLarge = errors.New("amount is too large")
	// ErrInvalidAmount is returned for anything that is not a plain decimal number.
	ErrInvalidAmount = errors.New("amount must be a plain decimal number")
)

// maxAmountLen bounds the digits handed to decimal; exponent forms are refused
// outright since decimal expands them into big integers.
const maxAmountLen = 64

var plainDecimal = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)$`)

// parseDecimal parses a plain decimal string such as "12", "-0.5" or ".25".
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if len(s) > maxAmountLen || !plainDecimal.MatchString(s) {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return decimal.NewFromString(s)
}

var maxLamports = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// LamportsToSOL converts lamports to SOL string without float precision loss
// Example: LamportsToSOL(24981836) = "0.024981836"
func LamportsToSOL(lamports uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -SOLDecimals).StringFixed(SOLDecimals)
}

// SOLToLamports converts a positive SOL decimal string to lamports without float precision loss.
// Zero, negative, non-numeric and sub-lamport amounts are rejected.
func SOLToLamports(sol string) (uint64, error) {
	sol = strings.TrimSpace(sol)
	if sol == "" {
		return 0, ErrEmptyAmount
	}

	d, err := parseDecimal(sol)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", sol, err)
	}
	if !d.IsPositive() {
		return 0, ErrNonPositiveAmount
	}

	lamports := d.Shift(SOLDecimals)
	if !lamports.Equal(lamports.Truncate(0)) {
		return 0, ErrAmountPrecision
	}
	if lamports.GreaterThan(maxLamports) {
		return 0, ErrAmountTooLarge
	}

	return lamports.BigInt().Uint64(), nil
}

// CompareSOLAmounts compares two SOL decimal string amounts without float precision loss.
// Returns: -1 if a < b, 0 if a == b, 1 if a > b, and error if parsing fails
func CompareSOLAmounts(a, b string) (int, error) {
	aVal, err := parseDecimal(a)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", a, err)
	}

	bVal, err := parseDecimal(b)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", b, err)
	}

	return aVal.Cmp(bVal), nil
}

// SumSOL adds SOL decimal strings and returns the total with 9 decimals.
// Unparseable entries are skipped.
func SumSOL(amounts ...string) string {
	total := decimal.Zero
	for _, a := range amounts {
		d, err := parseDecimal(a)
		if err != nil {
			continue
		}
		total = total.Add(d)
	}
	return total.StringFixed(SOLDecimals)
}

// MultiplyRate multiplies a SOL amount by a fiat rate and rounds to cents.
func MultiplyRate(sol, rate string) (string, error) {
	s, err := parseDecimal(sol)
	if err != nil {
		return "", fmt.Errorf("failed to parse amount '%s': %w", sol, err)
	}
	r, err := parseDecimal(rate)
	if err != nil {
		return "", fmt.Errorf("failed to parse rate '%s': %w", rate, err)
	}
	return s.Mul(r).StringFixed(2), nil
}
