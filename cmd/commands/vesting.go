package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	cfg "github.com/beatoz/beatoz-vesting/cmd/config"
	ctrlertypes "github.com/beatoz/beatoz-vesting/ctrlers/types"
	"github.com/beatoz/beatoz-vesting/ctrlers/vesting"
	"github.com/beatoz/beatoz-vesting/libs/jsonx"
	"github.com/beatoz/beatoz-vesting/types"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
)

var (
	flagNow            int64
	flagStart          int64
	flagThresholds     []int64
	flagHeight         int64
	flagTokensPerBatch string
	flagFormatted      bool
)

type progressResult struct {
	Height      int64        `json:"height"`
	Now         int64        `json:"now"`
	FullBatches uint64       `json:"full_batches"`
	Fraction    *uint256.Int `json:"fraction"`
}

func addNowFlag(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&flagNow, "now", 0, "the invocation time in unix seconds (default: current time)")
}

// invocationTime is the only place the wall clock is read.
func invocationTime(cmd *cobra.Command) int64 {
	if cmd.Flags().Changed("now") {
		return flagNow
	}
	return time.Now().Unix()
}

func NewScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Set the vesting schedule, or show it when --start is omitted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("start") {
				return showSchedule(rootConfig, cmd.OutOrStdout())
			}
			var ths []int64
			if cmd.Flags().Changed("thresholds") {
				ths = flagThresholds
				if ths == nil {
					ths = []int64{}
				}
			}
			return setSchedule(rootConfig, cmd.OutOrStdout(), invocationTime(cmd), flagStart, ths)
		},
	}
	cmd.Flags().Int64Var(&flagStart, "start", 0, "the vesting start time in unix seconds")
	cmd.Flags().Int64SliceVar(&flagThresholds, "thresholds", nil, "explicit thresholds in seconds for batch 1, 2, ... (default: the built-in curve)")
	addNowFlag(cmd)
	return cmd
}

func NewProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show fully vested batches and the fraction of the next batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showProgress(rootConfig, cmd.OutOrStdout(), invocationTime(cmd), flagHeight)
		},
	}
	cmd.Flags().Int64Var(&flagHeight, "height", 0, "query the state committed at this height (default: latest)")
	addNowFlag(cmd)
	return cmd
}

func NewRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Store the current progress in the batch cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return refreshCache(rootConfig, cmd.OutOrStdout(), invocationTime(cmd))
		},
	}
	addNowFlag(cmd)
	return cmd
}

func NewOverrideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "override [batches]",
		Short: "Declare the number of fully vested batches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid batches %q: %w", args[0], err)
			}
			return overrideFullyVested(rootConfig, cmd.OutOrStdout(), invocationTime(cmd), n)
		},
	}
	addNowFlag(cmd)
	return cmd
}

func NewVestedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vested",
		Short: "Show the vested amount in base units (10^-18)",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := uint256.FromDecimal(flagTokensPerBatch)
			if err != nil {
				return fmt.Errorf("invalid tokens per batch %q: %w", flagTokensPerBatch, err)
			}
			return showVestedAmount(rootConfig, cmd.OutOrStdout(), invocationTime(cmd), tokens, flagFormatted)
		},
	}
	cmd.Flags().StringVar(&flagTokensPerBatch, "tokens-per-batch", "1", "whole tokens released per batch")
	cmd.Flags().BoolVar(&flagFormatted, "formatted", false, "print the amount in whole tokens with 18 decimals")
	addNowFlag(cmd)
	return cmd
}

func withVestingCtrler(config *cfg.Config, commit bool, fn func(*vesting.VestingCtrler) error) (err error) {
	ctrler, xerr := vesting.NewVestingCtrler(config, logger)
	if xerr != nil {
		return xerr
	}
	defer func() {
		if xerr := ctrler.Close(); xerr != nil && err == nil {
			err = xerr
		}
	}()

	if err = fn(ctrler); err != nil {
		return err
	}
	if commit {
		if _, _, xerr := ctrler.Commit(); xerr != nil {
			return xerr
		}
	}
	return nil
}

func nextBlockContext(config *cfg.Config, ctrler *vesting.VestingCtrler, now int64) *ctrlertypes.BlockContext {
	return ctrlertypes.TempBlockContext(config.Vesting.ChainID, ctrler.LastHeight()+1, time.Unix(now, 0), ctrler)
}

func printJSON(w io.Writer, v any) error {
	bz, err := jsonx.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(bz))
	return err
}

func printProgress(w io.Writer, height, now int64, p *vesting.Progress) error {
	return printJSON(w, &progressResult{
		Height:      height,
		Now:         now,
		FullBatches: p.FullBatches,
		Fraction:    p.Fraction,
	})
}

func setSchedule(config *cfg.Config, w io.Writer, now, start int64, thresholds []int64) error {
	return withVestingCtrler(config, true, func(ctrler *vesting.VestingCtrler) error {
		if xerr := ctrler.SetVestingSchedule(nextBlockContext(config, ctrler, now), start, thresholds); xerr != nil {
			return xerr
		}
		sched, xerr := ctrler.Schedule()
		if xerr != nil {
			return xerr
		}
		return printJSON(w, sched)
	})
}

func showSchedule(config *cfg.Config, w io.Writer) error {
	return withVestingCtrler(config, false, func(ctrler *vesting.VestingCtrler) error {
		sched, xerr := ctrler.Schedule()
		if xerr != nil {
			return xerr
		}
		return printJSON(w, sched)
	})
}

func showProgress(config *cfg.Config, w io.Writer, now, height int64) error {
	return withVestingCtrler(config, false, func(ctrler *vesting.VestingCtrler) error {
		if height > 0 {
			p, xerr := ctrler.ProgressAt(height, now)
			if xerr != nil {
				return xerr
			}
			return printProgress(w, height, now, p)
		}

		bctx := nextBlockContext(config, ctrler, now)
		p, xerr := ctrler.CurrentProgress(bctx)
		if xerr != nil {
			return xerr
		}
		return printProgress(w, ctrler.LastHeight(), now, p)
	})
}

func refreshCache(config *cfg.Config, w io.Writer, now int64) error {
	return withVestingCtrler(config, true, func(ctrler *vesting.VestingCtrler) error {
		bctx := nextBlockContext(config, ctrler, now)
		p, xerr := ctrler.RefreshCache(bctx)
		if xerr != nil {
			return xerr
		}
		return printProgress(w, bctx.Height(), now, p)
	})
}

func overrideFullyVested(config *cfg.Config, w io.Writer, now int64, n uint64) error {
	return withVestingCtrler(config, true, func(ctrler *vesting.VestingCtrler) error {
		bctx := nextBlockContext(config, ctrler, now)
		if xerr := ctrler.OverrideFullyVested(bctx, n); xerr != nil {
			return xerr
		}
		p, xerr := ctrler.CurrentProgress(bctx)
		if xerr != nil {
			return xerr
		}
		return printProgress(w, bctx.Height(), now, p)
	})
}

func showVestedAmount(config *cfg.Config, w io.Writer, now int64, tokensPerBatch *uint256.Int, formatted bool) error {
	return withVestingCtrler(config, false, func(ctrler *vesting.VestingCtrler) error {
		bctx := nextBlockContext(config, ctrler, now)
		amt, xerr := bctx.VestingHandler.VestedAmount(bctx, tokensPerBatch)
		if xerr != nil {
			return xerr
		}
		if formatted {
			_, err := fmt.Fprintln(w, types.FormattedString(amt))
			return err
		}
		_, err := fmt.Fprintln(w, amt.Dec())
		return err
	})
}
