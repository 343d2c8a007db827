package runtime

import (
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
)

// Precision is the number of significant digits kept when formatting results.
// It absorbs floating point noise such as 0.1+0.2.
const Precision = 10

// Shortest decimal renderings switch to exponent notation outside this range.
const (
	expUpper = 1e21
	expLower = 1e-6
)

// Format converts a numeric result into display text.
// Non-finite values yield domain.ErrNonFinite.
func Format(x float64) (string, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "", domain.ErrNonFinite
	}

	r, err := round(x)
	if err != nil {
		return "", err
	}
	if r == 0 {
		// Also folds negative zero.
		return "0", nil
	}

	abs := math.Abs(r)
	if abs >= expUpper || abs < expLower {
		return exponent(r), nil
	}
	if r == math.Trunc(r) {
		return strconv.FormatFloat(r, 'f', 0, 64), nil
	}
	return strconv.FormatFloat(r, 'f', -1, 64), nil
}

// round keeps Precision significant digits. Values within rounding distance of
// math.MaxFloat64 round past it and overflow to domain.ErrNonFinite.
func round(x float64) (float64, error) {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'e', Precision-1, 64), 64)
	if err != nil || math.IsInf(r, 0) {
		return 0, domain.ErrNonFinite
	}
	return r, nil
}

// exponent renders r as "1.5e-7" / "1e+21": shortest mantissa, no zero padding in the exponent.
func exponent(r float64) string {
	s := strconv.FormatFloat(r, 'e', -1, 64)
	mantissa, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}

// ParseOperand reads the numeric value of a display or operand string.
// A trailing decimal point ("5.") is accepted.
func ParseOperand(s string) (float64, error) {
	if s == "" || s == domain.ErrorMarker {
		return 0, domain.ErrInvalidInput
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, domain.ErrInvalidInput
	}
	return v, nil
}

// normalize renders an operand the way it would display as a result ("0." becomes "0").
func normalize(s string) string {
	v, err := ParseOperand(s)
	if err != nil {
		return s
	}
	out, err := Format(v)
	if err != nil {
		return s
	}
	return out
}
