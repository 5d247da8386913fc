// Package repl is the interactive read-eval-print loop cmd/jerry's
// "repl" mode drives: one runtime.Context lives for the whole session,
// so declarations and globals a line introduces stay visible to every
// line after it, the way the teacher's Sentra REPL kept one *vm.VM
// alive across lines rather than rebuilding it per input.
package repl

import (
	"bufio"
	"fmt"
	"io"

	"github.com/mattn/go-isatty"

	"github.com/jerryscript-project/jerryscript-sub014/internal/diag"
	"github.com/jerryscript-project/jerryscript-sub014/internal/runtime"
)

// Options configures a Start call.
type Options struct {
	In      io.Reader
	Out     io.Writer
	Logger  *diag.Logger
	Runtime runtime.Options
}

// Start runs the loop until in reaches EOF or a line reading exactly
// "exit" or ".exit" is entered, printing a banner and a ">>> " prompt
// only when Out is a real terminal (so piping a script into the REPL
// by mistake doesn't litter its output with prompts).
func Start(opts Options) error {
	ctx, err := runtime.New(opts.Runtime)
	if err != nil {
		return fmt.Errorf("repl: %w", err)
	}

	interactive := false
	if f, ok := opts.Out.(interface{ Fd() uintptr }); ok {
		interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	if interactive {
		fmt.Fprintln(opts.Out, "jerryscript-sub014 REPL | type 'exit' to quit")
	}

	scanner := bufio.NewScanner(opts.In)
	for {
		if interactive {
			fmt.Fprint(opts.Out, ">>> ")
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "exit" || line == ".exit" {
			break
		}
		if line == "" {
			continue
		}

		result, err := ctx.Eval(line, "<repl>")
		if err != nil {
			opts.Logger.Diagnostic(err)
			fmt.Fprintln(opts.Out)
			continue
		}
		text, _ := ctx.Arena.ToStringText(result)
		fmt.Fprintln(opts.Out, text)
	}
	return scanner.Err()
}
