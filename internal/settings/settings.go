// Package settings loads komodo configuration from .komodo/settings.yaml.
//
// The settings file carries two sections: a permission model (a deny list
// of glob patterns controlling which source files komodo reads; patterns
// may be bare globs or wrapped in a Verify() verb) and vocabulary
// extensions merged into the built-in token lists the verifiers match
// against.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"komodo/internal/evidence"
)

// Settings holds komodo configuration from .komodo/settings.yaml.
type Settings struct {
	Permissions Permissions `yaml:"permissions"`
	Vocabulary  VocabExt    `yaml:"vocabulary"`
}

// Permissions controls which files komodo reads.
type Permissions struct {
	// Deny is a list of glob patterns for files komodo should not read.
	// Patterns may be bare globs or wrapped in Verify(...).
	// Example: ["Verify(./artifacts/**)"]
	Deny []string `yaml:"deny"`
}

// VocabExt extends the built-in verifier vocabulary. Every list is
// appended to its built-in counterpart; nothing can be removed.
type VocabExt struct {
	WrapperTypes       []string `yaml:"wrapperTypes"`
	Receivers          []string `yaml:"receivers"`
	RevertMarkers      []string `yaml:"revertMarkers"`
	GuardHelpers       []string `yaml:"guardHelpers"`
	AccessGuardHelpers []string `yaml:"accessGuardHelpers"`
	SenderTokens       []string `yaml:"senderTokens"`
	AuthorityTokens    []string `yaml:"authorityTokens"`
}

// Load reads .komodo/settings.yaml relative to root.
// Returns nil (not an error) if the file does not exist.
func Load(root string) (*Settings, error) {
	path := filepath.Join(root, ".komodo", "settings.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return &s, nil
}

// IsDenied reports whether relPath (forward-slash, relative to root)
// matches any deny rule. Safe to call on a nil *Settings receiver.
func (s *Settings) IsDenied(relPath string) bool {
	if s == nil {
		return false
	}
	for _, rule := range s.Permissions.Deny {
		if matchDenyPattern(parseDenyRule(rule), relPath) {
			return true
		}
	}
	return false
}

// Vocab returns the built-in vocabulary extended by the settings. Safe to
// call on a nil *Settings receiver.
func (s *Settings) Vocab() evidence.Vocabulary {
	v := evidence.Default()
	if s == nil {
		return v
	}
	ext := s.Vocabulary
	v.WrapperTypes = append(v.WrapperTypes, ext.WrapperTypes...)
	v.Receivers = append(v.Receivers, ext.Receivers...)
	v.RevertMarkers = append(v.RevertMarkers, ext.RevertMarkers...)
	v.GuardHelpers = append(v.GuardHelpers, ext.GuardHelpers...)
	v.AccessGuardHelpers = append(v.AccessGuardHelpers, ext.AccessGuardHelpers...)
	v.SenderTokens = append(v.SenderTokens, ext.SenderTokens...)
	v.AuthorityTokens = append(v.AuthorityTokens, ext.AuthorityTokens...)
	return v
}

// parseDenyRule extracts the path glob from a deny rule.
//
//	"Verify(./artifacts/**)" → "artifacts/**"
//	"artifacts/**"           → "artifacts/**"
func parseDenyRule(rule string) string {
	if strings.HasPrefix(rule, "Verify(") && strings.HasSuffix(rule, ")") {
		rule = rule[7 : len(rule)-1]
	}
	return strings.TrimPrefix(rule, "./")
}

// matchDenyPattern reports whether path matches a deny glob pattern.
//
// "prefix/**" matches the prefix directory itself and every path beneath
// it. All other patterns use filepath.Match semantics (single * does not
// cross /).
func matchDenyPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/**") {
		prefix := strings.TrimSuffix(pattern, "/**")
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	matched, _ := filepath.Match(pattern, path)
	return matched
}
