// Package workspace manages the ~/.komodo/ directory hierarchy.
//
// Directory layout:
//
//	~/.komodo/<workspace>/
//	    <project>.yaml           # project config: provider name -> key/value map
//	    <project>/<provider>/    # report artifacts produced for that project
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Workspace represents a named komodo workspace directory (~/.komodo/<name>/).
type Workspace struct {
	Dir string
}

// ProjectConfig stores per-provider configuration for a project.
// Keys are provider names; values are config key/value maps.
type ProjectConfig struct {
	Providers map[string]map[string]string `yaml:"providers"`
}

// baseDir returns the base ~/.komodo directory.
func baseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, ".komodo"), nil
}

// Init creates ~/.komodo/<name>/ and errors if it already exists.
func Init(name string) error {
	base, err := baseDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(base, name)
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("workspace %q already exists at %s", name, dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	return nil
}

// Open opens an existing workspace directory. Returns an error if not found.
func Open(name string) (*Workspace, error) {
	base, err := baseDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(base, name)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("workspace %q not found (run 'komodo workspace init %s' first)", name, name)
	}
	return &Workspace{Dir: dir}, nil
}

// List returns the names of all workspaces under ~/.komodo/.
func List() ([]string, error) {
	base, err := baseDir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read komodo dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Remove deletes a workspace and all its contents.
func Remove(name string) error {
	base, err := baseDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(base, name)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("workspace %q not found", name)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove workspace: %w", err)
	}
	return nil
}

// projectPath returns the path to <project>.yaml inside the workspace.
func (w *Workspace) projectPath(name string) string {
	return filepath.Join(w.Dir, name+".yaml")
}

// AddProject writes a project config file. Errors if it already exists.
func (w *Workspace) AddProject(name string, config ProjectConfig) error {
	path := w.projectPath(name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("project %q already exists in workspace", name)
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal project config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write project config: %w", err)
	}
	return nil
}

// LoadProject reads and parses a project config file.
func (w *Workspace) LoadProject(name string) (*ProjectConfig, error) {
	data, err := os.ReadFile(w.projectPath(name))
	if err != nil {
		return nil, fmt.Errorf("read project %q: %w", name, err)
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse project %q: %w", name, err)
	}
	return &cfg, nil
}

// ListProjects returns project names derived from *.yaml files in the
// workspace.
func (w *Workspace) ListProjects() ([]string, error) {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return nil, fmt.Errorf("read workspace dir: %w", err)
	}
	var projects []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yaml") {
			projects = append(projects, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	return projects, nil
}

// RemoveProject removes a project's config file and report directory.
func (w *Workspace) RemoveProject(name string) error {
	path := w.projectPath(name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("project %q not found in workspace", name)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove project config: %w", err)
	}
	reportDir := filepath.Join(w.Dir, name)
	if _, err := os.Stat(reportDir); err == nil {
		if err := os.RemoveAll(reportDir); err != nil {
			return fmt.Errorf("remove project reports: %w", err)
		}
	}
	return nil
}

// ReportDir returns (and creates) the report output directory for one
// project/provider pair.
func (w *Workspace) ReportDir(project, provider string) (string, error) {
	dir := filepath.Join(w.Dir, project, provider)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	return dir, nil
}
