// Command tapec runs a primitive-stream program against the reference
// tape interpreter.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kestrel-lang/tapec/pkg/version"
	"github.com/spf13/cobra"
)

var (
	showVersion     bool
	showVersionFull bool
)

var rootCmd = &cobra.Command{
	Use:   "tapec",
	Short: "tapec " + version.GetVersion(),
	Long: `tapec executes primitive-stream programs ('+' '-' '<' '>' '.' ',' '[' ']')
against a fixed-size tape, the same target a HIR→LIR→emitter pipeline
compiles down to.

EXAMPLES:
  tapec run prog.bf                  # run a stream from a file
  echo A | tapec run echo.bf         # stdin feeds the program's ',' input
  tapec run prog.bf --tape-size 256  # use a smaller tape
  tapec run prog.bf --trace          # write ':' tape dumps to stderr`,
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Println(version.GetVersion())
			return
		}
		if showVersionFull {
			fmt.Println(version.GetFullVersion())
			return
		}
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "show version")
	rootCmd.PersistentFlags().BoolVar(&showVersionFull, "version-full", false, "show full version info")
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
