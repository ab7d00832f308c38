package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFixture writes a contract source under a scratch dir and returns the
// dir.
func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// run executes the root command with args, resetting per-run flag state.
func run(t *testing.T, args ...string) error {
	t.Helper()
	jsonOut, vaultOut, providerName = "", "", ""
	settingsRoot = "."
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

const cleanTS = `/**
 * @invariant this.total.value >= 0
 */
class Ledger {
  total = GlobalStateKey<uint64>({ key: 'total' });

  /**
   * @access anyone
   */
  add(n: uint64): void {
    assert(n > 0);
    this.total.value = this.total.value + n;
  }
}
`

const violatingTS = `class Drain {
  total = GlobalStateKey<uint64>({ key: 'total' });

  /**
   * @ensures CEI
   */
  withdraw(n: uint64): void {
    sendMethodCall(this.receiver, n);
    this.total.value = this.total.value - n;
  }
}
`

func TestVerifyCleanRun(t *testing.T) {
	dir := writeFixture(t, "ledger.ts", cleanTS)
	if err := run(t, "verify", dir); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyViolationExit(t *testing.T) {
	dir := writeFixture(t, "drain.ts", violatingTS)
	err := run(t, "verify", dir)
	if !errors.Is(err, errViolations) {
		t.Fatalf("verify err = %v, want errViolations", err)
	}
}

func TestVerifyJSONArtifact(t *testing.T) {
	dir := writeFixture(t, "ledger.ts", cleanTS)
	out := filepath.Join(t.TempDir(), "report.json")
	if err := run(t, "verify", "--json", out, dir); err != nil {
		t.Fatalf("verify: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	for _, want := range []string{`"contractName": "Ledger"`, `"inputsSha256"`, `"totals"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("artifact missing %s", want)
		}
	}
}

func TestVerifyVaultBundle(t *testing.T) {
	dir := writeFixture(t, "ledger.ts", cleanTS)
	vault := filepath.Join(t.TempDir(), "vault")
	if err := run(t, "verify", "--vault", vault, dir); err != nil {
		t.Fatalf("verify: %v", err)
	}
	for _, p := range []string{"index.md", "contracts/Ledger.md"} {
		if _, err := os.Stat(filepath.Join(vault, filepath.FromSlash(p))); err != nil {
			t.Errorf("bundle missing %s: %v", p, err)
		}
	}
}

func TestVerifyNoSources(t *testing.T) {
	if err := run(t, "verify", t.TempDir()); err == nil {
		t.Fatal("expected error for a directory without parsable sources")
	}
}

func TestVerifyUnknownProvider(t *testing.T) {
	dir := writeFixture(t, "ledger.ts", cleanTS)
	if err := run(t, "verify", "--provider", "cobol", dir); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestVerifyHonorsDenyList(t *testing.T) {
	dir := writeFixture(t, "drain.ts", violatingTS)
	if err := os.MkdirAll(filepath.Join(dir, ".komodo"), 0o755); err != nil {
		t.Fatal(err)
	}
	settings := "permissions:\n  deny:\n    - \"drain.ts\"\n"
	if err := os.WriteFile(filepath.Join(dir, ".komodo", "settings.yaml"), []byte(settings), 0o644); err != nil {
		t.Fatal(err)
	}

	jsonOut, vaultOut, providerName = "", "", ""
	settingsRoot = dir
	rootCmd.SetArgs([]string{"verify", "--settings-root", dir, dir})
	err := rootCmd.Execute()
	if err == nil || errors.Is(err, errViolations) {
		t.Fatalf("err = %v, want a no-sources error once the only file is denied", err)
	}
}

func TestSuggest(t *testing.T) {
	dir := writeFixture(t, "drain.ts", violatingTS)
	if err := run(t, "suggest", dir); err != nil {
		t.Fatalf("suggest: %v", err)
	}
}
