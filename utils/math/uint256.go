// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package math

import "github.com/holiman/uint256"

// The 256-bit helpers never mutate their arguments and always return a fresh
// value, so callers can pass values read straight out of storage.

// Add256 returns a + b or ErrOverflow.
func Add256(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Sub256 returns a - b or ErrUnderflow.
func Sub256(a, b *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, ErrUnderflow
	}
	return z, nil
}

// Mul256 returns a * b or ErrOverflow.
func Mul256(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// MulDiv returns floor(a * b / d). The product is computed at 512 bits, so
// only a quotient that does not fit in 256 bits overflows. A zero divisor is
// reported as ErrOverflow.
func MulDiv(a, b, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrOverflow
	}
	z, overflow := new(uint256.Int).MulDivOverflow(a, b, d)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Min256 returns a copy of the smaller of a and b.
func Min256(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return new(uint256.Int).Set(a)
	}
	return new(uint256.Int).Set(b)
}

// Sqrt256 returns floor(sqrt(n)).
func Sqrt256(n *uint256.Int) *uint256.Int {
	if n.IsUint64() {
		return uint256.NewInt(Sqrt(n.Uint64()))
	}
	return new(uint256.Int).Sqrt(n)
}
