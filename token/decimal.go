package token

import (
	"fmt"
	"math/big"
	"strings"
)

const (
	decimalScaleShift = 16
	decimalScaleMask  = 0x00FF0000
	decimalSignMask   = 0x80000000

	// MaxDecimalScale is the largest number of fractional digits a Decimal holds.
	MaxDecimalScale = 28
)

var decimalLimit = new(big.Int).Lsh(big.NewInt(1), 96)

// Decimal is a 128-bit decimal: a 96-bit unsigned magnitude split into three
// 32-bit words, and a flags word holding the scale in bits 16-23 and the sign
// in bit 31.
type Decimal struct {
	Lo, Mid, Hi uint32
	Flags       uint32
}

// NewDecimal builds a Decimal worth unscaled × 10^-scale.
func NewDecimal(unscaled *big.Int, scale int) (Decimal, error) {
	if scale < 0 || scale > MaxDecimalScale {
		return Decimal{}, fmt.Errorf("%w: scale %d", ErrInvalidDecimal, scale)
	}
	mag := new(big.Int).Abs(unscaled)
	if mag.Cmp(decimalLimit) >= 0 {
		return Decimal{}, fmt.Errorf("%w: magnitude exceeds 96 bits", ErrInvalidDecimal)
	}

	var words [12]byte
	mag.FillBytes(words[:])
	d := Decimal{
		Hi:    uint32(words[0])<<24 | uint32(words[1])<<16 | uint32(words[2])<<8 | uint32(words[3]),
		Mid:   uint32(words[4])<<24 | uint32(words[5])<<16 | uint32(words[6])<<8 | uint32(words[7]),
		Lo:    uint32(words[8])<<24 | uint32(words[9])<<16 | uint32(words[10])<<8 | uint32(words[11]),
		Flags: uint32(scale) << decimalScaleShift,
	}
	if unscaled.Sign() < 0 {
		d.Flags |= decimalSignMask
	}
	return d, nil
}

// DecimalFromInt64 builds a Decimal worth v × 10^-scale.
func DecimalFromInt64(v int64, scale int) (Decimal, error) {
	return NewDecimal(big.NewInt(v), scale)
}

// ParseDecimal parses a plain decimal literal such as "-123.4500".
// The number of fractional digits becomes the scale.
func ParseDecimal(s string) (Decimal, error) {
	in := s
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg, s = true, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	digits := intPart + fracPart
	if digits == "" {
		return Decimal{}, fmt.Errorf("%w: %q", ErrInvalidDecimal, in)
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Decimal{}, fmt.Errorf("%w: %q", ErrInvalidDecimal, in)
		}
	}

	unscaled, _ := new(big.Int).SetString(digits, 10)
	if neg {
		unscaled.Neg(unscaled)
	}
	d, err := NewDecimal(unscaled, len(fracPart))
	if err != nil {
		return Decimal{}, err
	}
	// keep "-0.00" distinguishable from "0.00"
	if neg {
		d.Flags |= decimalSignMask
	}
	return d, nil
}

// Scale returns the number of fractional digits.
func (d Decimal) Scale() int {
	return int(d.Flags&decimalScaleMask) >> decimalScaleShift
}

// Negative reports whether the sign bit is set.
func (d Decimal) Negative() bool {
	return d.Flags&decimalSignMask != 0
}

// Unscaled returns the signed integer magnitude.
func (d Decimal) Unscaled() *big.Int {
	n := new(big.Int).SetUint64(uint64(d.Hi))
	n.Lsh(n, 32).Or(n, new(big.Int).SetUint64(uint64(d.Mid)))
	n.Lsh(n, 32).Or(n, new(big.Int).SetUint64(uint64(d.Lo)))
	if d.Negative() {
		n.Neg(n)
	}
	return n
}

// Valid reports whether the flags word only uses the scale and sign bits and
// the scale is within range.
func (d Decimal) Valid() bool {
	return d.Flags&^(decimalScaleMask|decimalSignMask) == 0 && d.Scale() <= MaxDecimalScale
}

// String formats d with exactly Scale() fractional digits.
func (d Decimal) String() string {
	mag := d.Unscaled()
	mag.Abs(mag)
	digits := mag.String()

	scale := d.Scale()
	if scale > 0 {
		if len(digits) <= scale {
			digits = strings.Repeat("0", scale-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-scale] + "." + digits[len(digits)-scale:]
	}
	if d.Negative() {
		return "-" + digits
	}
	return digits
}
