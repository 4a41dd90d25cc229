package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kestrel-lang/tapec/pkg/vm"
)

var (
	tapeSize int
	trace    bool
	dumpTape int
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "execute a primitive-stream file against the reference tape interpreter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		cfg, err := loadRunConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		size := cfg.TapeSize
		if cmd.Flags().Changed("tape-size") {
			size = tapeSize
		}

		v := vm.NewVm(size)
		if trace {
			v.Debug = os.Stderr
		}

		restore := enableRawStdin()
		defer restore()

		if err := v.Exec(cmd.Context(), string(code), os.Stdin, os.Stdout); err != nil {
			return fmt.Errorf("running %s: %w", args[0], err)
		}

		if dumpTape > 0 {
			dumpTapeCells(os.Stderr, v, dumpTape)
		}

		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&tapeSize, "tape-size", 10000, "tape size in bytes (overrides TAPEC_TAPE_SIZE)")
	runCmd.Flags().BoolVar(&trace, "trace", false, "write ':' debug-hook dumps to stderr")
	runCmd.Flags().IntVar(&dumpTape, "dump-tape", 0, "print the first N tape cells to stderr after execution")
}

// enableRawStdin switches a terminal stdin into raw mode for the
// duration of Exec, so a program reading input one byte at a time via
// ',' sees keystrokes immediately rather than after a line is buffered
// and echoed. It returns a restore func that is always safe to call,
// including when stdin isn't a terminal.
func enableRawStdin() func() {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() {}
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return func() {}
	}
	return func() { term.Restore(fd, old) }
}

func dumpTapeCells(w io.Writer, v *vm.Vm, n int) {
	for i := 0; i < n; i++ {
		fmt.Fprintf(w, "%d, ", v.Get(i))
	}
	fmt.Fprintln(w)
}
