package commands

import (
	"fmt"
	"io"

	"github.com/beatoz/beatoz-vesting/ctrlers/supply"
	"github.com/beatoz/beatoz-vesting/ctrlers/vesting"
	"github.com/beatoz/beatoz-vesting/libs/fxnum"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const secondsPerDay = 86_400

var (
	flagPrecision uint
	flagMaxSupply string
	flagFrom      int64
	flagStep      int64
	flagCount     int
)

type curveRow struct {
	Batch   uint64 `json:"batch"`
	Seconds int64  `json:"seconds"`
	Days    string `json:"days"`
}

type log2Result struct {
	Input     string `json:"input"`
	Precision uint   `json:"precision"`
	Log2      string `json:"log2"`
	Rounded   string `json:"rounded"`
	IntPart   int64  `json:"int_part"`
	FracPart  uint64 `json:"frac_part"`
}

func NewCurveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "curve",
		Short: "Print the threshold of every batch of the built-in curve",
		RunE: func(cmd *cobra.Command, args []string) error {
			curve, xerr := vesting.NewThresholdCurve()
			if xerr != nil {
				return xerr
			}
			return printCurve(cmd.OutOrStdout(), curve)
		},
	}
}

func NewLog2Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log2 [decimal]",
		Short: "Evaluate the fixed-point log2",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printLog2(cmd.OutOrStdout(), args[0], flagPrecision)
		},
	}
	cmd.Flags().UintVar(&flagPrecision, "precision", fxnum.FracBits, "the number of fractional bits to compute")
	return cmd
}

func NewEmissionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emission",
		Short: "Forecast the cumulative emission under exponential decay",
		RunE: func(cmd *cobra.Command, args []string) error {
			maxSupply, err := uint256.FromDecimal(flagMaxSupply)
			if err != nil {
				return fmt.Errorf("invalid max supply %q: %w", flagMaxSupply, err)
			}
			points, xerr := supply.Forecast(maxSupply, flagFrom, flagStep, flagCount)
			if xerr != nil {
				return xerr
			}
			return printJSON(cmd.OutOrStdout(), points)
		},
	}
	cmd.Flags().StringVar(&flagMaxSupply, "max-supply", "1000000", "the total supply in base units")
	cmd.Flags().Int64Var(&flagFrom, "from", 0, "the first elapsed time in seconds")
	cmd.Flags().Int64Var(&flagStep, "step", supply.EmissionHalfLifeSeconds/4, "seconds between points")
	cmd.Flags().IntVar(&flagCount, "count", 17, "the number of points")
	return cmd
}

func printCurve(w io.Writer, curve vesting.Curve) error {
	table, xerr := vesting.Table(curve)
	if xerr != nil {
		return xerr
	}

	rows := make([]*curveRow, len(table))
	for n, th := range table {
		days, xerr := fxnum.FromRatio(th, secondsPerDay)
		if xerr != nil {
			return xerr
		}
		fdays, xerr := days.ToFixed()
		if xerr != nil {
			return xerr
		}
		rows[n] = &curveRow{
			Batch:   uint64(n),
			Seconds: th,
			Days:    fdays.StringN(2),
		}
	}
	return printJSON(w, rows)
}

func printLog2(w io.Writer, input string, precision uint) error {
	d, err := decimal.NewFromString(input)
	if err != nil {
		return fmt.Errorf("invalid decimal %q: %w", input, err)
	}
	x, xerr := fxnum.FromDecimal(d)
	if xerr != nil {
		return xerr
	}
	ret, xerr := fxnum.Log2Approx(x, precision)
	if xerr != nil {
		return xerr
	}
	rounded, xerr := ret.ToFixed()
	if xerr != nil {
		return xerr
	}
	return printJSON(w, &log2Result{
		Input:     x.String(),
		Precision: precision,
		Log2:      ret.String(),
		Rounded:   rounded.String(),
		IntPart:   ret.IntPart(),
		FracPart:  ret.FracPart(),
	})
}
