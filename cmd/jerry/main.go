// Command jerry is the CLI entry point spec.md §6 describes: run a
// script, drop into the REPL, or exercise a fixture directory, with
// flags controlling snapshot save/load, strictness, and diagnostic
// output. Subcommand/alias dispatch follows the teacher's
// cmd/sentra/main.go pattern (a small alias table resolved before the
// flag set is parsed), generalized down to the handful of subcommands
// this runtime actually needs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jerryscript-project/jerryscript-sub014/internal/bytecode"
	"github.com/jerryscript-project/jerryscript-sub014/internal/diag"
	"github.com/jerryscript-project/jerryscript-sub014/internal/repl"
	"github.com/jerryscript-project/jerryscript-sub014/internal/runtime"
	"github.com/jerryscript-project/jerryscript-sub014/internal/snapshot"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

var commandAliases = map[string]string{
	"r": "run",
	"i": "repl",
	"t": "test",
}

func main() {
	logger := diag.New(os.Stderr)

	args := os.Args[1:]
	if len(args) == 0 {
		showUsage(logger)
		os.Exit(1)
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}
	rest := args[1:]

	var err error
	switch cmd {
	case "run":
		err = runCommand(logger, rest)
	case "repl":
		err = replCommand(logger, rest)
	case "test":
		err = testCommand(logger, rest)
	case "--help", "-h", "help":
		showUsage(logger)
		return
	default:
		logger.Error("unknown command %q", cmd)
		showUsage(logger)
		os.Exit(1)
	}
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func showUsage(logger *diag.Logger) {
	logger.Info("usage: jerry <run|repl|test> [flags] [args]")
	logger.Info("  run <file.js>        compile and execute a script")
	logger.Info("  repl                 start an interactive session")
	logger.Info("  test <dir>           run every *.js fixture under dir concurrently")
}

func runCommand(logger *diag.Logger, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	strict := fs.Bool("strict", false, "compile and run under implicit strict mode")
	heapSize := fs.Int("heap-size", runtime.DefaultHeapSize, "heap region size in bytes")
	parseOnly := fs.Bool("parse-only", false, "parse and compile only, don't execute")
	showOpcodes := fs.Bool("show-opcodes", false, "print the compiled bytecode listing before running")
	memStats := fs.Bool("mem-stats", false, "print heap occupancy after running")
	snapshotSave := fs.String("snapshot-save", "", "write a snapshot file instead of running, to this path")
	snapshotLoad := fs.String("snapshot-load", "", "run from a snapshot file instead of compiling source")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, err := runtime.New(runtime.Options{HeapSize: *heapSize, Strict: *strict})
	if err != nil {
		return fmt.Errorf("jerry run: %w", err)
	}

	var code *value.CompiledCode
	scriptPath := ""
	if *snapshotLoad != "" {
		f, err := os.Open(*snapshotLoad)
		if err != nil {
			return fmt.Errorf("jerry run: open snapshot: %w", err)
		}
		defer f.Close()
		code, err = snapshot.Load(f, ctx.Lits, ctx.Arena)
		if err != nil {
			return fmt.Errorf("jerry run: load snapshot: %w", err)
		}
	} else {
		if fs.NArg() < 1 {
			return fmt.Errorf("jerry run: missing script path")
		}
		scriptPath = fs.Arg(0)
		src, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("jerry run: %w", err)
		}
		code, err = ctx.Compile(string(src), scriptPath)
		if err != nil {
			logger.Diagnostic(err)
			return fmt.Errorf("jerry run: compile failed")
		}
	}

	if *showOpcodes {
		fmt.Fprint(os.Stdout, bytecode.Dump(code.Chunk, scriptPath))
	}

	if *snapshotSave != "" {
		f, err := os.Create(*snapshotSave)
		if err != nil {
			return fmt.Errorf("jerry run: create snapshot: %w", err)
		}
		defer f.Close()
		if err := snapshot.Save(f, ctx.Lits, code, ctx.Arena); err != nil {
			return fmt.Errorf("jerry run: save snapshot: %w", err)
		}
		return nil
	}

	if *parseOnly {
		logger.Info("parsed and compiled ok")
		return nil
	}

	result, err := ctx.VM.Run(code)
	if err != nil {
		logger.Diagnostic(err)
		return fmt.Errorf("jerry run: runtime error")
	}
	if err := ctx.Microtasks.Drain(); err != nil {
		logger.Diagnostic(err)
		return fmt.Errorf("jerry run: unhandled promise rejection")
	}
	if text, ok := ctx.Arena.ToStringText(result); ok {
		fmt.Fprintln(os.Stdout, text)
	}

	if *memStats {
		logger.MemStats(ctx.Stats())
	}
	return nil
}

func replCommand(logger *diag.Logger, args []string) error {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	strict := fs.Bool("strict", false, "compile and run under implicit strict mode")
	heapSize := fs.Int("heap-size", runtime.DefaultHeapSize, "heap region size in bytes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return repl.Start(repl.Options{
		In:      os.Stdin,
		Out:     os.Stdout,
		Logger:  logger,
		Runtime: runtime.Options{HeapSize: *heapSize, Strict: *strict},
	})
}

func testCommand(logger *diag.Logger, args []string) error {
	fs := flag.NewFlagSet("test", flag.ExitOnError)
	heapSize := fs.Int("heap-size", runtime.DefaultHeapSize, "heap region size per fixture")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("jerry test: missing fixture directory")
	}

	results, runErr := runtime.RunFixtures(context.Background(), fs.Arg(0), func() runtime.Options {
		return runtime.Options{HeapSize: *heapSize}
	})
	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
			logger.Warn("FAIL %s: %v", r.Path, r.Err)
		} else {
			logger.Info("ok   %s", r.Path)
		}
	}
	logger.Info("%d/%d fixtures passed", len(results)-failures, len(results))
	if runErr != nil || failures > 0 {
		return fmt.Errorf("jerry test: %d fixture(s) failed", failures)
	}
	return nil
}
