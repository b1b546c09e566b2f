// Command csvlate translates folders of CSV localization files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ZaguanLabs/csvlate"
	"github.com/ZaguanLabs/csvlate/config"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitGeneral   = 1
	ExitUsage     = 2
	ExitPreflight = 3
	ExitAuth      = 4
	ExitInterrupt = 130
)

func main() {
	// Load .env file if present.
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		cancel()
		os.Exit(exitCode(err))
	}
}

// run executes the command line args with the given output streams.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configPath string
	verbose    bool
}

func (g *globalOptions) load() (*config.File, error) {
	if g.configPath != "" {
		return config.LoadPath(g.configPath)
	}
	return config.Load(".")
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   csvlate.Name,
		Short: csvlate.Description,
		Long: `Fill empty target-language cells of CSV localization tables using a
machine translation service.

Every .csv file in the input folder is read, its language columns are
detected from the header row and missing translations are requested for the
text in the source column. Results are written under the same file name to
the output folder.`,
		Version:       csvlate.FullVersion(),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Project file (default: ./"+config.FileName+")")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show per-cell progress")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newVerifyCmd(opts))
	root.AddCommand(newLanguagesCmd())
	root.AddCommand(newKeyCmd(opts))
	root.AddCommand(newVersionCmd())

	return root
}

// exitCode maps errors to process exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}
	if errors.Is(err, csvlate.ErrAuth) {
		return ExitAuth
	}

	var pf *csvlate.PreflightError
	if errors.As(err, &pf) || errors.Is(err, csvlate.ErrNoCredential) {
		return ExitPreflight
	}
	if isUsageError(err) {
		return ExitUsage
	}
	return ExitGeneral
}

// usageErrorPatterns are substrings of cobra's flag and argument errors.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand",
	"unknown command",
	"flag needs an argument",
	"invalid argument",
	"accepts ",
	"requires at least",
}

func isUsageError(err error) bool {
	msg := err.Error()
	for _, p := range usageErrorPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
