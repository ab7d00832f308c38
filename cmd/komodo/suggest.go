package main

// suggest.go — the suggest command: derive starter annotations from code
// patterns and print paste-ready comment blocks.

import (
	"fmt"

	"github.com/spf13/cobra"

	"komodo/internal/evidence"
	"komodo/internal/settings"
	"komodo/internal/suggest"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <paths...>",
	Short: "Propose starter annotations from code patterns",
	Long: `Scan the given files or directories and propose annotations the code
appears to warrant: access levels from sender checks, CEI markers from
call/write mixes, preconditions from guards, invariant stubs from stored
fields.

The output is a draft to edit, not a verdict.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg, err := settings.Load(settingsRoot)
	if err != nil {
		return err
	}
	units, err := loadUnits(args, cfg)
	if err != nil {
		return err
	}

	vocab := cfg.Vocab()
	suggestions := suggest.Generate(units, evidence.New(vocab), vocab)
	if len(suggestions) == 0 {
		fmt.Println("nothing to suggest")
		return nil
	}
	fmt.Print(suggest.Render(suggestions))
	return nil
}
