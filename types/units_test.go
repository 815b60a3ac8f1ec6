package types_test

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/beatoz/beatoz-vesting/types"
	"github.com/beatoz/beatoz-vesting/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestConvertUnits(t *testing.T) {
	r := rand.Int63()
	units, xerr := types.ToBaseUnits(uint256.NewInt(uint64(r)))
	require.NoError(t, xerr)
	require.Equal(t, strconv.FormatInt(r, 10)+"000000000000000000", units.Dec())

	q, rem := types.FromBaseUnitsRem(units)
	require.Equal(t, uint64(r), q.Uint64())
	require.True(t, rem.IsZero())

	_, xerr = types.ToBaseUnits(new(uint256.Int).SetAllOne())
	require.True(t, xerr.Contains(xerrors.ErrOverflow))
}

func TestFormattedString(t *testing.T) {
	require.Equal(t, "0.000000000000000000", types.FormattedString(uint256.NewInt(0)))
	require.Equal(t, "0.000000000000000007", types.FormattedString(uint256.NewInt(7)))
	require.Equal(t, "1000.000000000000000000", types.FormattedString(uint256.MustFromDecimal("1000000000000000000000")))
	require.Equal(t, "3.500000000000000000", types.FormattedString(uint256.MustFromDecimal("3500000000000000000")))
}
