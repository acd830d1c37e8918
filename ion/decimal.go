/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package ion

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// A ParseError reports that a string handed to ParseDecimal isn't a valid
// Ion decimal.
type ParseError struct {
	Num string
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ion: ParseDecimal(%v): %v", e.Num, e.Msg)
}

// Decimal is an Ion decimal: an arbitrary-precision coefficient times ten
// to the power of a signed exponent, stored as coefficient * 10^(-scale).
// Two decimals can be numerically equal yet carry different exponents
// (1d2 and 10d1 both mean 100); Cmp ignores that distinction, Equal does
// not.
type Decimal struct {
	n         *big.Int
	scale     int32
	isNegZero bool
}

// NewDecimal builds a decimal equal to n * 10^exp.
func NewDecimal(n *big.Int, exp int32, negZero bool) *Decimal {
	return &Decimal{
		n:         n,
		scale:     -exp,
		isNegZero: negZero,
	}
}

// NewDecimalInt builds a decimal equal to the integer n, at scale zero.
func NewDecimalInt(n int64) *Decimal {
	return NewDecimal(big.NewInt(n), 0, false)
}

// MustParseDecimal is ParseDecimal, panicking instead of erroring.
func MustParseDecimal(in string) *Decimal {
	d, err := ParseDecimal(in)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDecimal parses Ion decimal text ("1.20", "12d-2", "-0.") into a
// Decimal, preserving the exact coefficient and exponent the text spells
// out rather than normalizing them.
func ParseDecimal(in string) (*Decimal, error) {
	if len(in) == 0 {
		return nil, &ParseError{in, "empty string"}
	}

	exponent, body, err := splitExponent(in)
	if err != nil {
		return nil, err
	}

	body, fracDigits := splitFraction(body)
	exponent -= int32(fracDigits)

	n, ok := new(big.Int).SetString(body, 10)
	if !ok {
		return nil, &ParseError{in, "cannot parse coefficient"}
	}

	negZero := n.Sign() == 0 && body != "" && body[0] == '-'
	return NewDecimal(n, exponent, negZero), nil
}

// splitExponent pulls a trailing "d" or "D" exponent marker off in,
// returning the exponent (0 if there was none) and the remaining digits.
func splitExponent(in string) (int32, string, error) {
	d := strings.IndexAny(in, "Dd")
	if d == -1 {
		return 0, in, nil
	}

	exp := in[d+1:]
	if exp == "" {
		return 0, "", &ParseError{in, "unexpected end of input after d"}
	}

	n, err := strconv.ParseInt(exp, 10, 32)
	if err != nil {
		return 0, "", &ParseError{in, err.Error()}
	}

	return int32(n), in[:d], nil
}

// splitFraction removes a decimal point from in, returning the digits with
// the point closed up and the count of digits that followed it (each of
// which lowers the effective exponent by one).
func splitFraction(in string) (string, int) {
	d := strings.Index(in, ".")
	if d == -1 {
		return in, 0
	}
	frac := in[d+1:]
	return in[:d] + frac, len(frac)
}

// CoEx returns the decimal's coefficient and exponent such that the
// decimal's value is coefficient * 10^exponent.
func (d *Decimal) CoEx() (*big.Int, int32) {
	return d.n, -d.scale
}

// Abs returns |d|.
func (d *Decimal) Abs() *Decimal {
	return &Decimal{n: new(big.Int).Abs(d.n), scale: d.scale}
}

// Add returns d + o.
func (d *Decimal) Add(o *Decimal) *Decimal {
	dd, oo := rescale(d, o)
	return &Decimal{n: new(big.Int).Add(dd.n, oo.n), scale: dd.scale}
}

// Sub returns d - o.
func (d *Decimal) Sub(o *Decimal) *Decimal {
	dd, oo := rescale(d, o)
	return &Decimal{n: new(big.Int).Sub(dd.n, oo.n), scale: dd.scale}
}

// Neg returns -d.
func (d *Decimal) Neg() *Decimal {
	return &Decimal{n: new(big.Int).Neg(d.n), scale: d.scale}
}

// Mul returns d * o. Coefficients multiply and exponents add:
// (a*10^x) * (b*10^y) = (a*b)*10^(x+y).
func (d *Decimal) Mul(o *Decimal) *Decimal {
	scale := int64(d.scale) + int64(o.scale)
	mustFitInt32(scale)
	return &Decimal{n: new(big.Int).Mul(d.n, o.n), scale: int32(scale)}
}

// ShiftL returns d * 10^shift without touching the coefficient; it's a
// cheap way to move the decimal point right.
func (d *Decimal) ShiftL(shift int) *Decimal {
	scale := int64(d.scale) - int64(shift)
	mustFitInt32(scale)
	return &Decimal{n: d.n, scale: int32(scale)}
}

// ShiftR returns d / 10^shift without touching the coefficient; it's a
// cheap way to move the decimal point left.
func (d *Decimal) ShiftR(shift int) *Decimal {
	scale := int64(d.scale) + int64(shift)
	mustFitInt32(scale)
	return &Decimal{n: d.n, scale: int32(scale)}
}

func mustFitInt32(scale int64) {
	if scale > math.MaxInt32 || scale < math.MinInt32 {
		panic("exponent out of bounds")
	}
}

// Sign returns -1, 0, or +1 as d's coefficient is negative, zero, or
// positive.
func (d *Decimal) Sign() int {
	return d.n.Sign()
}

// Cmp orders d and o by numeric value, treating decimals with the same
// value at different exponents (1d1 and 10d0) as equal. Use Equal instead
// when the declared exponent itself matters.
func (d *Decimal) Cmp(o *Decimal) int {
	dd, oo := rescale(d, o)
	return dd.n.Cmp(oo.n)
}

// Equal reports whether d and o are the same Ion decimal: same numeric
// value *and* the same declared exponent, so 0d0 and 0d-1 — equal in
// value, different in precision — are not Equal even though Cmp treats
// them as the same number. Negative zero is likewise distinguished from
// positive zero at the same exponent.
func (d *Decimal) Equal(o *Decimal) bool {
	if d.scale != o.scale {
		return false
	}
	if d.isNegZero != o.isNegZero {
		return false
	}
	return d.n.Cmp(o.n) == 0
}

// rescale brings a and b to a common scale (the larger of the two),
// multiplying whichever has fewer fractional digits so their coefficients
// become directly comparable.
func rescale(a, b *Decimal) (*Decimal, *Decimal) {
	switch {
	case a.scale < b.scale:
		return a.upscale(b.scale), b
	case a.scale > b.scale:
		return a, b.upscale(a.scale)
	default:
		return a, b
	}
}

// upscale grows the coefficient so the decimal can be expressed at a
// larger scale (more fractional digits) without changing its value:
// 1d100 becomes 10d99 at scale 1 smaller exponent.
func (d *Decimal) upscale(scale int32) *Decimal {
	diff := int64(scale) - int64(d.scale)
	if diff < 0 {
		panic("can't upscale to a smaller scale")
	}

	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(diff), nil)
	return &Decimal{n: new(big.Int).Mul(d.n, pow), scale: scale}
}

// normalizeForIntConversion upscales d to a non-negative scale so trunc
// and round can walk its decimal string directly; huge negative scales are
// rejected before they balloon into unusable amounts of memory.
func (d *Decimal) normalizeForIntConversion() (*Decimal, error) {
	if d.scale >= 0 {
		return d, nil
	}
	if d.scale < -20 {
		return d, &strconv.NumError{Func: "ParseInt", Num: d.String(), Err: strconv.ErrRange}
	}
	return d.upscale(0), nil
}

// trunc converts d to an int64, dropping any fractional digits.
func (d *Decimal) trunc() (int64, error) {
	ud, err := d.normalizeForIntConversion()
	if err != nil {
		return 0, err
	}

	str := ud.n.String()
	cut := len(str) - int(ud.scale)
	if cut <= 0 {
		return 0, nil
	}
	return strconv.ParseInt(str[:cut], 10, 64)
}

// round converts d to an int64, rounding any fractional digits.
func (d *Decimal) round() (int64, error) {
	ud, err := d.normalizeForIntConversion()
	if err != nil {
		return 0, err
	}

	asFloat := float64(ud.n.Int64()) / math.Pow10(int(ud.scale))
	return int64(math.Round(asFloat)), nil
}

// Truncate returns d cut down to precision significant digits. It
// truncates rather than rounds, so Truncate(1) on 19 gives 1d1, not 2d1.
func (d *Decimal) Truncate(precision int) *Decimal {
	if precision <= 0 {
		panic("precision must be positive")
	}

	str := d.n.String()
	digitBudget := precision
	if str[0] == '-' {
		digitBudget++
	}

	drop := len(str) - digitBudget
	if drop <= 0 {
		return d
	}

	n, ok := new(big.Int).SetString(str[:digitBudget], 10)
	if !ok {
		panic("failed to parse integer")
	}

	scale := int64(d.scale) - int64(drop)
	if scale < math.MinInt32 {
		panic("exponent out of range")
	}

	return &Decimal{n: n, scale: int32(scale)}
}

// String formats d in Ion decimal text: a plain "123." when scale is
// zero, "123d45" when upscaled past the integers, and "1.23" (with a "d"
// exponent tacked on if the point doesn't land inside the digits)
// otherwise.
func (d *Decimal) String() string {
	switch {
	case d.scale == 0:
		if d.isNegZero {
			return "-0."
		}
		return d.n.String() + "."

	case d.scale < 0:
		if d.isNegZero {
			return "-0d" + strconv.Itoa(int(-d.scale))
		}
		return d.n.String() + "d" + strconv.Itoa(int(-d.scale))

	default:
		return d.stringWithFraction()
	}
}

func (d *Decimal) stringWithFraction() string {
	digits := d.n.String()
	if d.isNegZero {
		digits = "-0"
	}

	pointIdx := len(digits) - int(d.scale)

	signWidth := 1
	if len(digits) > 0 && digits[0] == '-' {
		signWidth++
	}

	if pointIdx >= signWidth {
		return digits[:pointIdx] + "." + digits[pointIdx:]
	}

	var b strings.Builder
	b.WriteString(digits[:signWidth])
	if len(digits) > signWidth {
		b.WriteByte('.')
		b.WriteString(digits[signWidth:])
	}
	b.WriteByte('d')
	b.WriteString(strconv.Itoa(pointIdx - signWidth))
	return b.String()
}

// UnmarshalJSON implements json.Unmarshaler, accepting either "e" or "d" as
// the exponent marker since JSON numbers spell it the C way.
func (d *Decimal) UnmarshalJSON(decimalBytes []byte) error {
	str := string(decimalBytes)
	if str == "null" {
		return nil
	}
	str = strings.Replace(str, "E", "D", 1)
	str = strings.Replace(str, "e", "d", 1)

	parsed, err := ParseDecimal(str)
	if err != nil {
		return fmt.Errorf("error unmarshalling decimal '%s': %w", str, err)
	}
	*d = *parsed
	return nil
}

// MarshalJSON implements json.Marshaler, rendering d as a plain JSON
// number (no "d" exponent marker, since JSON doesn't have one).
func (d *Decimal) MarshalJSON() ([]byte, error) {
	digits := new(big.Int).Abs(d.n).String()
	scale := int(-d.scale)

	var str string
	switch {
	case scale == 0:
		str = digits
	case scale > 0:
		str = digits + strings.Repeat("0", scale)
	default:
		str = padFraction(digits, -scale)
	}

	if d.n.Sign() == -1 {
		str = "-" + str
	}
	return []byte(str), nil
}

// padFraction inserts a decimal point width digits from the right of
// digits, padding with leading zeros if digits is shorter than width, and
// trims any resulting trailing zeros (and a bare trailing point).
func padFraction(digits string, width int) string {
	var str string
	if width >= len(digits) {
		str = "0." + strings.Repeat("0", width-len(digits)) + digits
	} else {
		str = digits[:len(digits)-width] + "." + digits[len(digits)-width:]
	}
	str = strings.TrimRight(str, "0")
	return strings.TrimSuffix(str, ".")
}
