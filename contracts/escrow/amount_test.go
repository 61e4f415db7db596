package escrow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAmountArithmetic(t *testing.T) {
	a := newAmount(30000, testSymbol)
	b := newAmount(12500, testSymbol)

	require.Equal(t, 42500, a.add(b).Value)
	require.Equal(t, 17500, a.sub(b).Value)
	require.True(t, b.lessThan(a))
	require.False(t, a.lessThan(b))
	require.False(t, a.lessThan(a))

	require.True(t, newAmount(0, testSymbol).isZero())
	require.False(t, a.isZero())
}

func TestAmountNeverGoesNegative(t *testing.T) {
	require.Panics(t, func() { newAmount(-1, testSymbol) })

	a := newAmount(100, testSymbol)
	b := newAmount(101, testSymbol)
	require.Panics(t, func() { a.sub(b) })
}

func TestAmountSymbolChecked(t *testing.T) {
	a := newAmount(100, testSymbol)
	b := newAmount(100, "NEO")

	require.Panics(t, func() { a.add(b) })
	require.Panics(t, func() { a.sub(b) })
	require.Panics(t, func() { a.lessThan(b) })
}

func TestAmountScalePercent(t *testing.T) {
	a := newAmount(100000, testSymbol)

	require.Equal(t, 60000, a.scalePercent(60).Value)
	require.Equal(t, 0, a.scalePercent(0).Value)
	require.Equal(t, 100000, a.scalePercent(100).Value)

	// Integer division drops the fraction.
	require.Equal(t, 33, newAmount(101, testSymbol).scalePercent(33).Value)

	require.Panics(t, func() { a.scalePercent(101) })
	require.Panics(t, func() { a.scalePercent(-1) })
}
