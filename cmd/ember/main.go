package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/emberlang/ember"
	"github.com/emberlang/ember/internal/engine"
	"github.com/emberlang/ember/internal/errkit"
	"github.com/emberlang/ember/internal/text"
)

func main() {
	os.Exit(doMain(os.Stdout, os.Stderr))
}

// doMain is separated out for the purpose of unit testing.
func doMain(stdOut, stdErr io.Writer) int {
	flag.CommandLine.SetOutput(stdErr)

	var help bool
	flag.BoolVar(&help, "h", false, "Prints usage.")

	flag.Parse()

	if help || flag.NArg() == 0 {
		printUsage(stdErr)
		return 0
	}

	switch flag.Arg(0) {
	case "run":
		return doRun(flag.Args()[1:], stdOut, stdErr)
	case "check":
		return doCheck(flag.Args()[1:], stdErr)
	default:
		fmt.Fprintln(stdErr, "invalid command")
		printUsage(stdErr)
		return 1
	}
}

func doRun(args []string, stdOut, stdErr io.Writer) int {
	flags := flag.NewFlagSet("run", flag.ExitOnError)
	flags.SetOutput(stdErr)

	var strict bool
	flags.BoolVar(&strict, "strict", false, "Evaluates the script in strict mode.")

	var printResult bool
	flags.BoolVar(&printResult, "print", false, "Prints the script's result value.")

	var maxDepth int
	flags.IntVar(&maxDepth, "max-call-depth", 0, "Overrides the call-depth ceiling (0 keeps the default).")

	_ = flags.Parse(args)
	if flags.NArg() < 1 {
		fmt.Fprintln(stdErr, "missing path to script file")
		return 1
	}
	path := flags.Arg(0)

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdErr, "error reading script:", err)
		return 1
	}

	ctx := context.Background()
	rt := ember.NewRuntime(ctx, ember.Config{MaxCallDepth: maxDepth})
	defer rt.Close(ctx)

	rt.InstallFunc("print", func(ectx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		for i, a := range args {
			if i > 0 {
				fmt.Fprint(stdOut, " ")
			}
			fmt.Fprint(stdOut, engine.ToGoString(engine.CoercePrimitive(ectx, a)))
		}
		fmt.Fprintln(stdOut)
		return engine.Undefined(), nil
	})

	opts := []ember.EvalOption{ember.WithGlobalThis()}
	if strict {
		opts = append(opts, ember.WithStrictMode())
	}

	result, err := rt.Eval(ctx, text.NewInput(path, src), opts...)
	if err != nil {
		printEngineError(stdErr, err)
		return 1
	}
	if printResult {
		fmt.Fprintln(stdOut, engine.ToGoString(engine.CoercePrimitive(rt.Context(), result)))
	}
	return 0
}

func doCheck(args []string, stdErr io.Writer) int {
	flags := flag.NewFlagSet("check", flag.ExitOnError)
	flags.SetOutput(stdErr)

	var strict bool
	flags.BoolVar(&strict, "strict", false, "Checks the script as strict-mode code.")

	_ = flags.Parse(args)
	if flags.NArg() < 1 {
		fmt.Fprintln(stdErr, "missing path to script file")
		return 1
	}
	path := flags.Arg(0)

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdErr, "error reading script:", err)
		return 1
	}

	ctx := context.Background()
	rt := ember.NewRuntime(ctx, ember.Config{})
	defer rt.Close(ctx)

	var opts []ember.EvalOption
	if strict {
		opts = append(opts, ember.WithStrictMode())
	}
	if _, err := rt.CompileModule(ctx, text.NewInput(path, src), opts...); err != nil {
		printEngineError(stdErr, err)
		return 1
	}
	return 0
}

// printEngineError renders the error with the offending source line and
// a caret under the blamed column, when the error carries a position.
func printEngineError(stdErr io.Writer, err error) {
	fmt.Fprintln(stdErr, err.Error())
	var ee *errkit.EngineError
	if errors.As(err, &ee) {
		if caret := ee.Caret(); caret != "" {
			fmt.Fprintln(stdErr, caret)
		}
	}
}

func printUsage(stdErr io.Writer) {
	fmt.Fprintln(stdErr, "ember CLI")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Usage:\n  ember <command>")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Commands:")
	fmt.Fprintln(stdErr, "  run\tRuns a script file")
	fmt.Fprintln(stdErr, "  check\tParses a script file without running it")
}
