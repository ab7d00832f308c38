package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

// setHome points the workspace base at a scratch home directory.
func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestInitAndOpen(t *testing.T) {
	home := setHome(t)

	if err := Init("audit"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".komodo", "audit")); err != nil {
		t.Fatalf("workspace dir missing: %v", err)
	}
	if err := Init("audit"); err == nil {
		t.Fatal("second Init must fail")
	}

	w, err := Open("audit")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if w.Dir != filepath.Join(home, ".komodo", "audit") {
		t.Errorf("Dir = %q", w.Dir)
	}

	if _, err := Open("ghost"); err == nil {
		t.Fatal("Open of unknown workspace must fail")
	}
}

func TestListAndRemove(t *testing.T) {
	setHome(t)

	names, err := List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("fresh home lists %v", names)
	}

	for _, n := range []string{"alpha", "beta"} {
		if err := Init(n); err != nil {
			t.Fatalf("Init %s: %v", n, err)
		}
	}
	names, err = List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("List = %v, want two workspaces", names)
	}

	if err := Remove("alpha"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := Remove("alpha"); err == nil {
		t.Fatal("Remove of missing workspace must fail")
	}
}

func TestProjects(t *testing.T) {
	setHome(t)
	if err := Init("audit"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	w, err := Open("audit")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	cfg := ProjectConfig{
		Providers: map[string]map[string]string{
			"ts": {"dir": "/src/sale"},
		},
	}
	if err := w.AddProject("sale", cfg); err != nil {
		t.Fatalf("AddProject: %v", err)
	}
	if err := w.AddProject("sale", cfg); err == nil {
		t.Fatal("duplicate AddProject must fail")
	}

	loaded, err := w.LoadProject("sale")
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if loaded.Providers["ts"]["dir"] != "/src/sale" {
		t.Errorf("loaded config = %+v", loaded)
	}

	projects, err := w.ListProjects()
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 1 || projects[0] != "sale" {
		t.Errorf("ListProjects = %v", projects)
	}

	dir, err := w.ReportDir("sale", "ts")
	if err != nil {
		t.Fatalf("ReportDir: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("report dir missing: %v", err)
	}

	if err := w.RemoveProject("sale"); err != nil {
		t.Fatalf("RemoveProject: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("report dir must be removed with the project")
	}
	if err := w.RemoveProject("sale"); err == nil {
		t.Fatal("RemoveProject of missing project must fail")
	}
}
