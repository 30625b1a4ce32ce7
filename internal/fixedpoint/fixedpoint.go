// Package fixedpoint provides the checked integer arithmetic shared by the
// reward and reflection accrual engines. All operations either return an
// exact result or an error; nothing silently wraps or clamps, because a
// silent wrap in balance math is a fund-loss vector.
package fixedpoint

import (
	"errors"
	"math/bits"
)

// Precision scales the per-token accumulators. A stake's earned delta is
// amount * (accumulator difference) / Precision.
const Precision = 1_000_000_000

// Arithmetic errors. Both abort the surrounding operation.
var (
	ErrOverflow     = errors.New("fixedpoint: overflow")
	ErrDivideByZero = errors.New("fixedpoint: division by zero")
)

// Add returns a+b or ErrOverflow.
func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// Sub returns a-b or ErrOverflow when b > a.
func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrOverflow
	}
	return diff, nil
}

// SubSat returns a-b, saturating at zero.
func SubSat(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// Mul returns a*b or ErrOverflow.
func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}

// MulDiv returns floor(a*b/div) using a 128-bit intermediate product.
// Returns ErrDivideByZero when div is zero and ErrOverflow when the
// quotient does not fit in 64 bits.
func MulDiv(a, b, div uint64) (uint64, error) {
	if div == 0 {
		return 0, ErrDivideByZero
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= div {
		// bits.Div64 panics on quotient overflow; reject first.
		return 0, ErrOverflow
	}
	quo, _ := bits.Div64(hi, lo, div)
	return quo, nil
}
