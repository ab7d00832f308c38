package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSettings(t *testing.T, root, content string) {
	t.Helper()
	dir := filepath.Join(root, ".komodo")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMissing(t *testing.T) {
	s, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s != nil {
		t.Errorf("got %+v, want nil for absent settings", s)
	}
}

func TestLoadMalformed(t *testing.T) {
	root := t.TempDir()
	writeSettings(t, root, "permissions: [not: a: map")
	if _, err := Load(root); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestIsDenied(t *testing.T) {
	root := t.TempDir()
	writeSettings(t, root, `
permissions:
  deny:
    - "Verify(./artifacts/**)"
    - "*.gen.ts"
    - "vendor/**"
`)
	s, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"artifacts/build.json", true},
		{"artifacts", true},
		{"artifacts/nested/deep.ts", true},
		{"vault.gen.ts", true},
		{"vendor/pkg/mod.ts", true},
		{"src/vault.ts", false},
		{"artifactsx/file.ts", false},
		{"src/vault.gen.ts", false}, // single * does not cross /
	}
	for _, tt := range tests {
		if got := s.IsDenied(tt.path); got != tt.want {
			t.Errorf("IsDenied(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsDeniedNilReceiver(t *testing.T) {
	var s *Settings
	if s.IsDenied("anything") {
		t.Error("nil settings must deny nothing")
	}
}

func TestVocabMerge(t *testing.T) {
	root := t.TempDir()
	writeSettings(t, root, `
vocabulary:
  guardHelpers:
    - requireAuth
  wrapperTypes:
    - ScratchKey
`)
	s, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	v := s.Vocab()
	if !v.HasGuardHelper("requireAuth(sender)") {
		t.Error("extension guard helper not merged")
	}
	if !v.HasGuardHelper("assert(x)") {
		t.Error("built-in guard helper lost in merge")
	}
	if _, ok := v.IsWrapperType("ScratchKey<uint64>"); !ok {
		t.Error("extension wrapper type not merged")
	}
}

func TestVocabNilReceiver(t *testing.T) {
	var s *Settings
	v := s.Vocab()
	if v.CallSentinel != "sendMethodCall" {
		t.Errorf("nil settings must yield the built-in vocabulary, got sentinel %q", v.CallSentinel)
	}
}

func TestParseDenyRule(t *testing.T) {
	tests := []struct{ rule, want string }{
		{"Verify(./artifacts/**)", "artifacts/**"},
		{"Verify(dist/**)", "dist/**"},
		{"./node_modules/**", "node_modules/**"},
		{"*.gen.ts", "*.gen.ts"},
	}
	for _, tt := range tests {
		if got := parseDenyRule(tt.rule); got != tt.want {
			t.Errorf("parseDenyRule(%q) = %q, want %q", tt.rule, got, tt.want)
		}
	}
}
