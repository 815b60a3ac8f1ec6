package main

import (
	"os"

	"github.com/beatoz/beatoz-vesting/cmd/commands"
	"github.com/tendermint/tendermint/libs/cli"
)

func main() {
	commands.RootCmd.AddCommand(
		commands.NewScheduleCmd(),
		commands.NewProgressCmd(),
		commands.NewRefreshCmd(),
		commands.NewOverrideCmd(),
		commands.NewVestedCmd(),
		commands.NewCurveCmd(),
		commands.NewLog2Cmd(),
		commands.NewEmissionCmd(),
		commands.VersionCmd,
	)

	executor := cli.PrepareBaseCmd(commands.RootCmd, "VESTING", os.ExpandEnv("$HOME/.vesting"))
	if err := executor.Execute(); err != nil {
		panic(err)
	}
}
