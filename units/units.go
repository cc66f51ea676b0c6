// Package units converts between human-readable decimal amounts and a
// chain's smallest integer unit. All arithmetic is exact big-integer math;
// amounts never pass through a binary floating type, which matters for
// high-decimal chains such as NEAR (24 decimals).
package units

import (
	"fmt"
	"math/big"
	"strings"
)

// InvalidAmountError is returned for amounts that do not parse as a
// non-negative decimal, or that carry more fractional digits than the
// token has decimals.
type InvalidAmountError struct {
	Amount string
	Reason string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %q: %s", e.Amount, e.Reason)
}

// ToSmallestUnit converts a decimal string like "1.5" to the token's
// smallest unit, e.g. ToSmallestUnit("1.5", 18) = 1500000000000000000.
func ToSmallestUnit(amount string, decimals int) (*big.Int, error) {
	if decimals < 0 || decimals > 30 {
		return nil, &InvalidAmountError{Amount: amount, Reason: fmt.Sprintf("unsupported decimals %d", decimals)}
	}

	s := strings.TrimSpace(amount)
	if s == "" {
		return nil, &InvalidAmountError{Amount: amount, Reason: "empty"}
	}
	if strings.HasPrefix(s, "-") {
		return nil, &InvalidAmountError{Amount: amount, Reason: "negative"}
	}
	if strings.Count(s, ".") > 1 {
		return nil, &InvalidAmountError{Amount: amount, Reason: "multiple decimal points"}
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if whole == "0" && frac == "" && strings.Contains(s, ".") {
		return nil, &InvalidAmountError{Amount: amount, Reason: "lone decimal point"}
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return nil, &InvalidAmountError{Amount: amount, Reason: "not a decimal number"}
	}
	if len(frac) > decimals {
		// Refuse silently truncating sub-unit dust.
		trimmed := strings.TrimRight(frac[decimals:], "0")
		if trimmed != "" {
			return nil, &InvalidAmountError{
				Amount: amount,
				Reason: fmt.Sprintf("more than %d fractional digits", decimals),
			}
		}
		frac = frac[:decimals]
	}

	// whole*10^decimals + frac padded to decimals digits
	padded := frac + strings.Repeat("0", decimals-len(frac))
	v, ok := new(big.Int).SetString(whole+padded, 10)
	if !ok {
		return nil, &InvalidAmountError{Amount: amount, Reason: "not a decimal number"}
	}
	return v, nil
}

// FromSmallestUnit renders a smallest-unit value as a decimal string with
// trailing zeros trimmed, e.g. FromSmallestUnit(20000000, 8) = "0.2".
func FromSmallestUnit(v *big.Int, decimals int) string {
	if v == nil {
		return "0"
	}
	digits := v.String()
	if decimals == 0 {
		return digits
	}
	if len(digits) <= decimals {
		digits = strings.Repeat("0", decimals-len(digits)+1) + digits
	}
	cut := len(digits) - decimals
	whole, frac := digits[:cut], digits[cut:]
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// ParsePositive parses a decimal amount and rejects zero. Swap amounts
// must be strictly positive.
func ParsePositive(amount string, decimals int) (*big.Int, error) {
	v, err := ToSmallestUnit(amount, decimals)
	if err != nil {
		return nil, err
	}
	if v.Sign() <= 0 {
		return nil, &InvalidAmountError{Amount: amount, Reason: "must be positive"}
	}
	return v, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
