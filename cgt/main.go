package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/capgains/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion. Complete() handles the completion request and exits,
	// or returns immediately on a normal run.
	taxFlags := map[string]complete.Predictor{
		"c":         predict.Set{"EUR", "USD", "GBP", "NOK"},
		"rate":      predict.Something,
		"allowance": predict.Something,
		"lots":      predict.Nothing,
	}
	simulateFlags := map[string]complete.Predictor{
		"q": predict.Files("*.jsonl"),
		"m": predict.Files("*.json"),
	}
	for name, p := range taxFlags {
		simulateFlags[name] = p
	}
	completion := &complete.Command{
		Flags: map[string]complete.Predictor{
			"trades-file": predict.Files("*.jsonl"),
			"rates-file":  predict.Files("*.jsonl"),
		},
		Sub: map[string]*complete.Command{
			"gains":    {Flags: taxFlags},
			"simulate": {Flags: simulateFlags},
			"fmt":      {Flags: map[string]complete.Predictor{"o": predict.Files("*.jsonl")}},
			"topic":    {},
		},
	}
	completion.Complete("cgt")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "documentation")
	commander.Register(commander.FlagsCommand(), "documentation")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
