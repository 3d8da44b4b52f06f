package cmd

import (
	"flag"

	"github.com/etnz/papertrade/quote"
	"github.com/etnz/papertrade/store"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion tree of the CLI, built from the
// flags of every subcommand.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub: map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{
			"account":   predict.Something,
			"data-dir":  predict.Dirs("*"),
			"store":     predict.Set{string(store.BackendJSONL), string(store.BackendSQLite)},
			"log-level": predict.Set{"debug", "info", "warn", "error"},
		},
	}
	for _, cmds := range Commands() {
		for _, c := range cmds {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			sub := &complete.Command{Flags: map[string]complete.Predictor{}}
			fs.VisitAll(func(f *flag.Flag) { sub.Flags[f.Name] = predictor(f) })
			root.Sub[c.Name()] = sub
		}
	}
	return root
}

// predictor guesses the values of a subcommand flag.
func predictor(f *flag.Flag) complete.Predictor {
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	if f.Name == "s" {
		return predict.Set(quote.Demo().Symbols())
	}
	return predict.Something
}
