// komodo — static contract-annotation verifier.
//
// komodo reads source files, extracts @tag annotations from leading comment
// blocks, and verifies the code against them, reporting a four-valued
// verdict per spec. Verification is structural and heuristic; it never
// proves value-level correctness.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose      bool
	settingsRoot string

	logger *zap.Logger
)

// errViolations signals a clean run that found VIOLATED results; the
// process exits 1 without an error trace.
var errViolations = errors.New("contract violations found")

var rootCmd = &cobra.Command{
	Use:   "komodo",
	Short: "komodo - static contract-annotation verifier",
	Long: `komodo attaches machine-checkable contracts to source declarations via
tagged comments (@invariant, @pre, @post, @access, @calls, @state, ...)
and statically verifies the code against them.

Verdicts are four-valued: VERIFIED, UNVERIFIED, VIOLATED, MISSING.
Checks are structural, not semantic proofs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&settingsRoot, "settings-root", ".", "directory containing .komodo/settings.yaml")

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(workspaceCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errViolations) {
			fmt.Fprintf(os.Stderr, "komodo: %v\n", err)
		}
		os.Exit(1)
	}
}
