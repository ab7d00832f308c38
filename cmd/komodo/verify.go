package main

// verify.go — the verify command: collect files, parse, build spec trees,
// run the engine, render. Exits non-zero when any result is VIOLATED.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"komodo/internal/evidence"
	"komodo/internal/lang"
	"komodo/internal/report"
	"komodo/internal/settings"
	"komodo/internal/source"
	"komodo/internal/spec"
	"komodo/internal/verify"
)

var (
	jsonOut      string
	vaultOut     string
	providerName string
)

var verifyCmd = &cobra.Command{
	Use:   "verify <paths...>",
	Short: "Verify contract annotations against the code",
	Long: `Parse the given files or directories, extract @tag annotations, and run
every spec through its per-tag verifier.

Outputs a styled terminal summary; --json and --vault add a canonical JSON
artifact and a markdown bundle. The exit status is 1 if any spec is
VIOLATED.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&jsonOut, "json", "", "write the JSON artifact to this path")
	verifyCmd.Flags().StringVar(&vaultOut, "vault", "", "write the markdown bundle to this directory")
	verifyCmd.Flags().StringVar(&providerName, "provider", "", "force a provider instead of selecting by extension")
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := settings.Load(settingsRoot)
	if err != nil {
		return err
	}

	units, err := loadUnits(args, cfg)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		return fmt.Errorf("no parsable source files under %s", strings.Join(args, ", "))
	}
	logger.Debug("parsed units", zap.Int("count", len(units)))

	var trees []*spec.SpecTree
	for _, u := range units {
		trees = append(trees, spec.Build(u))
	}

	vocab := cfg.Vocab()
	engine := verify.New(evidence.New(vocab), vocab)
	reports := engine.Verify(trees, units)
	artifact := report.BuildArtifact(reports, units)

	fmt.Print(report.RenderTerminal(artifact))
	for _, tree := range trees {
		for _, orphan := range tree.Unassociated {
			fmt.Printf("orphaned annotation @%s at %s:%d (no contract to attach to)\n",
				orphan.Tag, orphan.File, orphan.Line)
		}
	}

	if jsonOut != "" {
		if err := report.WriteJSON(artifact, jsonOut); err != nil {
			return err
		}
		logger.Debug("wrote artifact", zap.String("path", jsonOut))
	}
	if vaultOut != "" {
		if err := report.WriteBundle(report.GenerateBundle(artifact), vaultOut); err != nil {
			return err
		}
		logger.Debug("wrote bundle", zap.String("dir", vaultOut))
	}

	if verify.AnyViolations(reports) {
		return errViolations
	}
	return nil
}

// loadUnits parses every file reachable from the given paths, honoring the
// settings deny list and the provider selection.
func loadUnits(paths []string, cfg *settings.Settings) ([]*lang.Unit, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		root := p
		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == "node_modules" || strings.HasPrefix(d.Name(), ".") && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			rel, rerr := filepath.Rel(root, path)
			if rerr != nil {
				rel = path
			}
			if cfg.IsDenied(filepath.ToSlash(rel)) {
				return nil
			}
			if _, perr := source.ForFile(path); perr == nil {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	var units []*lang.Unit
	for _, f := range files {
		p, err := pickProvider(f)
		if err != nil {
			return nil, err
		}
		content, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		u, err := p.Parse(f, content)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

// pickProvider honors --provider, falling back to extension detection.
func pickProvider(path string) (source.Provider, error) {
	if providerName != "" {
		return source.ByName(providerName)
	}
	return source.ForFile(path)
}
