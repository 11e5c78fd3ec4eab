package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var cli struct {
	Debug bool `help:"enable debug logging"`

	Train TrainCmd `cmd:"" help:"run CFR training and emit a blueprint"`
	Eval  EvalCmd  `cmd:"" help:"compute exploitability of a saved blueprint"`
}

type TrainCmd struct {
	Game            string `help:"game to train (kuhn|rps)" enum:"kuhn,rps" default:"kuhn"`
	Config          string `help:"path to an HCL run-config file"`
	Out             string `help:"path to write the blueprint" required:""`
	Iterations      int    `help:"override config iterations" default:"0"`
	Seed            int64  `help:"override config seed" default:"0"`
	CheckpointPath  string `help:"path to write periodic checkpoints"`
	CheckpointEvery int    `help:"checkpoint interval in iterations (0 disables)" default:"0"`
	ResumeFrom      string `help:"resume training from a checkpoint file"`
}

type EvalCmd struct {
	Game      string `help:"game the blueprint was trained on (kuhn|rps)" enum:"kuhn,rps" default:"kuhn"`
	Blueprint string `help:"path to a saved blueprint" required:""`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("cfrtrain"),
		kong.Description("Extensive-form CFR training and exploitability tooling"),
		kong.UsageOnError(),
	)

	setupLogger(cli.Debug)

	var err error
	switch ctx.Command() {
	case "train":
		err = cli.Train.Run()
	case "eval":
		err = cli.Eval.Run()
	default:
		err = fmt.Errorf("unknown command: %s", ctx.Command())
	}
	if err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func setupLogger(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}
