// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package math provides the checked integer arithmetic used for all pool
// accounting. Nothing in here ever rounds through floating point.
package math

import (
	"errors"
)

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

var (
	ErrOverflow  = errors.New("overflow")
	ErrUnderflow = errors.New("underflow")
)

// MaxUint returns the maximum value of an unsigned integer of type T.
func MaxUint[T Unsigned]() T {
	return ^T(0)
}

// Add returns:
// 1) a + b
// 2) If there is overflow, an error
func Add[T Unsigned](a, b T) (T, error) {
	if a > MaxUint[T]()-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// Sub returns:
// 1) a - b
// 2) If there is underflow, an error
func Sub[T Unsigned](a, b T) (T, error) {
	if a < b {
		return 0, ErrUnderflow
	}
	return a - b, nil
}

// Mul returns:
// 1) a * b
// 2) If there is overflow, an error
func Mul[T Unsigned](a, b T) (T, error) {
	if b != 0 && a > MaxUint[T]()/b {
		return 0, ErrOverflow
	}
	return a * b, nil
}

// Min returns the smaller of a and b.
func Min[T Unsigned](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Sqrt returns the largest r such that r*r <= n.
//
// Babylonian iteration started above the root; every step strictly decreases
// the estimate until it reaches floor(sqrt(n)).
func Sqrt[T Unsigned](n T) T {
	if n <= 3 {
		if n == 0 {
			return 0
		}
		return 1
	}
	z := n
	x := n/2 + 1
	for x < z {
		z = x
		x = (n/x + x) / 2
	}
	return z
}
