// Package source produces the read-only declaration trees the verifier
// consumes. Each provider owns one source language; selection is by file
// extension.
package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"komodo/internal/lang"
)

// Provider parses source files into declaration trees.
type Provider interface {
	// Name returns the provider's canonical short identifier (e.g. "ts").
	Name() string

	// Extensions returns the file extensions the provider handles,
	// including the leading dot.
	Extensions() []string

	// Parse builds the unit for one file's content.
	Parse(path string, content []byte) (*lang.Unit, error)
}

// Providers returns all built-in providers.
func Providers() []Provider {
	return []Provider{NewTypeScript(), NewGo()}
}

// ByName returns the named provider.
func ByName(name string) (Provider, error) {
	for _, p := range Providers() {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown provider %q", name)
}

// ForFile selects a provider by the file's extension.
func ForFile(path string) (Provider, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, p := range Providers() {
		for _, e := range p.Extensions() {
			if e == ext {
				return p, nil
			}
		}
	}
	return nil, fmt.Errorf("no provider for extension %q", ext)
}
