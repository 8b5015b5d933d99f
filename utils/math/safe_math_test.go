// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package math

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

const maxUint64 uint64 = math.MaxUint64

func TestMaxUint(t *testing.T) {
	require := require.New(t)
	require.Equal(uint(math.MaxUint), MaxUint[uint]())
	require.Equal(uint8(math.MaxUint8), MaxUint[uint8]())
	require.Equal(uint64(math.MaxUint64), MaxUint[uint64]())
}

func TestAdd(t *testing.T) {
	require := require.New(t)

	sum, err := Add(maxUint64, 0)
	require.NoError(err)
	require.Equal(maxUint64, sum)

	sum, err = Add(maxUint64/2, maxUint64/2)
	require.NoError(err)
	require.Equal(maxUint64-1, sum)

	_, err = Add(maxUint64, 1)
	require.ErrorIs(err, ErrOverflow)

	_, err = Add(uint8(200), uint8(56))
	require.ErrorIs(err, ErrOverflow)
}

func TestSub(t *testing.T) {
	require := require.New(t)

	got, err := Sub(uint64(2), 1)
	require.NoError(err)
	require.Equal(uint64(1), got)

	got, err = Sub(uint64(7), 7)
	require.NoError(err)
	require.Zero(got)

	_, err = Sub(uint64(1), 2)
	require.ErrorIs(err, ErrUnderflow)
}

func TestMul(t *testing.T) {
	require := require.New(t)

	got, err := Mul(maxUint64, 0)
	require.NoError(err)
	require.Zero(got)

	got, err = Mul(maxUint64/2, 2)
	require.NoError(err)
	require.Equal(maxUint64-1, got)

	_, err = Mul(maxUint64, 2)
	require.ErrorIs(err, ErrOverflow)
}

func TestMin(t *testing.T) {
	tests := []struct {
		a, b, want uint64
	}{
		{a: 0, b: 1, want: 0},
		{a: 2, b: 1, want: 1},
		{a: 2, b: 2, want: 2},
		{a: maxUint64, b: 3, want: 3},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Min(tt.a, tt.b))
	}
}

func TestSqrt(t *testing.T) {
	require := require.New(t)

	for _, n := range []uint64{0, 1, 2, 3, 4, 5, 10, 99, 100, 1234, 5678, 999999} {
		r := Sqrt(n)
		require.LessOrEqual(r*r, n, "n=%d", n)
		require.Greater((r+1)*(r+1), n, "n=%d", n)
	}

	require.Equal(uint64(math.MaxUint32), Sqrt(maxUint64))
	require.Equal(uint64(60000), Sqrt(uint64(40000*90000)))
	require.Equal(uint64(59000), Sqrt(uint64(40000*90000))-1000)
	require.Equal(uint8(15), Sqrt(uint8(255)))
}

func TestSqrtPerfectSquares(t *testing.T) {
	require := require.New(t)

	for i := uint64(0); i < 5000; i++ {
		require.Equal(i, Sqrt(i*i))
		if i > 0 {
			require.Equal(i-1, Sqrt(i*i-1))
		}
	}
}

func TestAdd256(t *testing.T) {
	require := require.New(t)

	got, err := Add256(uint256.NewInt(2), uint256.NewInt(3))
	require.NoError(err)
	require.Equal(uint256.NewInt(5), got)

	max := new(uint256.Int).SetAllOne()
	_, err = Add256(max, uint256.NewInt(1))
	require.ErrorIs(err, ErrOverflow)
}

func TestSub256(t *testing.T) {
	require := require.New(t)

	a := uint256.NewInt(10)
	got, err := Sub256(a, uint256.NewInt(4))
	require.NoError(err)
	require.Equal(uint256.NewInt(6), got)
	require.Equal(uint256.NewInt(10), a)

	_, err = Sub256(uint256.NewInt(4), uint256.NewInt(10))
	require.ErrorIs(err, ErrUnderflow)
}

func TestMul256(t *testing.T) {
	require := require.New(t)

	got, err := Mul256(uint256.NewInt(40000), uint256.NewInt(90000))
	require.NoError(err)
	require.Equal(uint256.NewInt(3_600_000_000), got)

	half := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	_, err = Mul256(half, half)
	require.ErrorIs(err, ErrOverflow)
}

func TestMulDiv(t *testing.T) {
	require := require.New(t)

	got, err := MulDiv(uint256.NewInt(7), uint256.NewInt(10), uint256.NewInt(3))
	require.NoError(err)
	require.Equal(uint256.NewInt(23), got)

	// The intermediate product exceeds 256 bits but the quotient does not.
	big := new(uint256.Int).Lsh(uint256.NewInt(1), 200)
	got, err = MulDiv(big, big, big)
	require.NoError(err)
	require.Equal(big, got)

	_, err = MulDiv(big, big, uint256.NewInt(1))
	require.ErrorIs(err, ErrOverflow)

	_, err = MulDiv(uint256.NewInt(1), uint256.NewInt(1), new(uint256.Int))
	require.ErrorIs(err, ErrOverflow)
}

func TestMin256(t *testing.T) {
	require := require.New(t)

	a, b := uint256.NewInt(2), uint256.NewInt(1)
	got := Min256(a, b)
	require.Equal(uint256.NewInt(1), got)

	got.SetUint64(100)
	require.Equal(uint256.NewInt(1), b)
}

func TestSqrt256(t *testing.T) {
	require := require.New(t)

	root := Sqrt256(uint256.NewInt(40000 * 90000))
	require.Equal(uint256.NewInt(60000), root)
	shares, err := Sub256(root, uint256.NewInt(1000))
	require.NoError(err)
	require.Equal(uint256.NewInt(59000), shares)
	require.Equal(uint256.NewInt(999), Sqrt256(uint256.NewInt(999*999)))

	max := new(uint256.Int).SetAllOne()
	r := Sqrt256(max)
	sq, err := Mul256(r, r)
	require.NoError(err)
	require.True(sq.Cmp(max) <= 0)

	next := new(uint256.Int).AddUint64(r, 1)
	_, err = Mul256(next, next)
	require.ErrorIs(err, ErrOverflow)
}
