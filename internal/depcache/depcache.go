// Package depcache stores git submodule dependencies the user chose to keep
// for reuse across projects.
//
// Cache layout:
//
//	<CMM_HOME>/
//	  dependencies.yaml   # git_submodules: [{name, submodule}]
package depcache

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cmakemake/cmm/internal/config"
	"github.com/cmakemake/cmm/internal/util/file"
)

// Submodule is everything needed to replay a submodule dependency.
type Submodule struct {
	Repo       string                 `yaml:"repo"`
	Tag        string                 `yaml:"tag,omitempty"`
	Branch     string                 `yaml:"branch,omitempty"`
	LocalSetup config.LocalDependency `yaml:"local_setup"`
}

// DisplayName renders s as "<name>[ - tags/<tag>][ - branch/<branch>]"
// where name is derived from the repository URL.
func (s Submodule) DisplayName() string {
	var b strings.Builder
	b.WriteString(DeriveName(s.Repo))
	if s.Tag != "" {
		b.WriteString(" - tags/" + s.Tag)
	}
	if s.Branch != "" {
		b.WriteString(" - branch/" + s.Branch)
	}
	return b.String()
}

// Entry is a cached submodule under the name it is listed with.
type Entry struct {
	Name      string    `yaml:"name"`
	Submodule Submodule `yaml:"submodule"`
}

type document struct {
	GitSubmodules []Entry `yaml:"git_submodules"`
}

// Store is the dependency cache backed by a single YAML file.
type Store struct {
	path string
	doc  document
}

// Open loads the cache at path. A missing file yields an empty store that
// is created on the first Add.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dependency cache: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("failed to parse dependency cache %s: %w", path, err)
	}
	return s, nil
}

// Path returns the file backing s.
func (s *Store) Path() string { return s.path }

// Entries returns the cached submodules in insertion order.
func (s *Store) Entries() []Entry {
	return append([]Entry(nil), s.doc.GitSubmodules...)
}

// Add caches sub under its display name and persists the store. On a write
// failure the store is left unchanged.
func (s *Store) Add(sub Submodule) (Entry, error) {
	sub.LocalSetup = sub.LocalSetup.Clone()
	entry := Entry{Name: sub.DisplayName(), Submodule: sub}

	next := document{GitSubmodules: append(s.Entries(), entry)}
	if err := write(s.path, next); err != nil {
		return Entry{}, err
	}
	s.doc = next
	return entry, nil
}

func write(path string, doc document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode dependency cache: %w", err)
	}
	if err := file.WriteAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write dependency cache: %w", err)
	}
	return nil
}

// DeriveName returns the name a repository URL is checked out under: the
// final path segment cut at its first '.'.
//
//	https://github.com/org/Lib.Name.git  ->  Lib
func DeriveName(repo string) string {
	repo = strings.TrimRight(repo, "/")
	if i := strings.LastIndexByte(repo, '/'); i >= 0 {
		repo = repo[i+1:]
	}
	if i := strings.IndexByte(repo, '.'); i >= 0 {
		repo = repo[:i]
	}
	return repo
}
