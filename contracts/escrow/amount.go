package escrow

import (
	"github.com/openrights/escrow-contract/contracts/escrow/escrowconst"
)

// Amount is a fixed-point quantity of the escrow token tagged with its
// currency symbol. All arithmetic is exact and symbol-checked: combining
// amounts of different symbols aborts the transaction, this always indicates
// a defect in the caller.
type Amount struct {
	Value  int
	Symbol string
}

func newAmount(value int, symbol string) Amount {
	if value < 0 {
		panic(escrowconst.ErrNegativeAmount)
	}
	return Amount{Value: value, Symbol: symbol}
}

func (a Amount) checkSymbol(b Amount) {
	if a.Symbol != b.Symbol {
		panic(escrowconst.ErrSymbolMismatch + ": " + a.Symbol + " vs " + b.Symbol)
	}
}

func (a Amount) add(b Amount) Amount {
	a.checkSymbol(b)
	return Amount{Value: a.Value + b.Value, Symbol: a.Symbol}
}

// sub never produces a negative amount, overdraft checks must happen before
// the actual debit.
func (a Amount) sub(b Amount) Amount {
	a.checkSymbol(b)
	if b.Value > a.Value {
		panic(escrowconst.ErrNegativeAmount)
	}
	return Amount{Value: a.Value - b.Value, Symbol: a.Symbol}
}

func (a Amount) lessThan(b Amount) bool {
	a.checkSymbol(b)
	return a.Value < b.Value
}

// scalePercent returns pct/100 of the amount rounded down. The fractional
// remainder stays unassigned.
func (a Amount) scalePercent(pct int) Amount {
	if pct < 0 || pct > escrowconst.MaxRAMPercent {
		panic(escrowconst.ErrNegativeAmount)
	}
	return Amount{Value: a.Value * pct / escrowconst.MaxRAMPercent, Symbol: a.Symbol}
}

func (a Amount) isZero() bool {
	return a.Value == 0
}
