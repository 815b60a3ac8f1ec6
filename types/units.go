package types

import (
	"strings"

	"github.com/beatoz/beatoz-vesting/types/xerrors"
	"github.com/holiman/uint256"
)

const (
	DECIMAL int16 = 18
)

var (
	oneTokenUnits = uint256.NewInt(1_000_000_000_000_000_000)
)

// ToBaseUnits converts whole tokens into base units (10^-DECIMAL of a token).
func ToBaseUnits(tokens *uint256.Int) (*uint256.Int, xerrors.XError) {
	ret, overflow := new(uint256.Int).MulOverflow(tokens, oneTokenUnits)
	if overflow {
		return nil, xerrors.ErrOverflow.Wrapf("%v tokens in base units", tokens.Dec())
	}
	return ret, nil
}

// from base units to whole tokens and remain
func FromBaseUnitsRem(units *uint256.Int) (*uint256.Int, *uint256.Int) {
	r := new(uint256.Int)
	q, r := new(uint256.Int).DivMod(units, oneTokenUnits, r)
	return q, r
}

func FormattedString(units *uint256.Int) string {
	q, r := FromBaseUnitsRem(units)
	frac := r.Dec()
	return q.Dec() + "." + strings.Repeat("0", int(DECIMAL)-len(frac)) + frac
}
