package source

import "testing"

func TestByName(t *testing.T) {
	for _, name := range []string{"ts", "go"} {
		p, err := ByName(name)
		if err != nil {
			t.Errorf("ByName(%q): %v", name, err)
			continue
		}
		if p.Name() != name {
			t.Errorf("ByName(%q).Name() = %q", name, p.Name())
		}
	}
	if _, err := ByName("rust"); err == nil {
		t.Error("ByName(rust): expected error")
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"contracts/vault.ts", "ts", true},
		{"contracts/vault.MTS", "ts", true},
		{"pkg/vault.go", "go", true},
		{"vault.sol", "", false},
		{"Makefile", "", false},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.path)
		if tt.ok != (err == nil) {
			t.Errorf("ForFile(%q): err = %v, want ok=%v", tt.path, err, tt.ok)
			continue
		}
		if tt.ok && p.Name() != tt.want {
			t.Errorf("ForFile(%q) = %q, want %q", tt.path, p.Name(), tt.want)
		}
	}
}
