// Package config defines the CMakeMake.toml project document: project
// identity, build settings, file-selection rules and dependency declarations.
package config

import (
	"math"
	"strconv"
)

// FileName is the project document looked up in the project root.
const FileName = "CMakeMake.toml"

// FetchContentMinimumToolVersion is the first cmake release providing
// FetchContent_MakeAvailable.
const FetchContentMinimumToolVersion = OrderedFloat(3.14)

const (
	DefaultName               = "Unnamed Project"
	DefaultVersion            = OrderedFloat(1.0)
	DefaultMinimumToolVersion = OrderedFloat(3.15)
)

// OrderedFloat is a float64 with a total order and a canonical bit pattern,
// so version fields hash and compare bit-for-bit.
type OrderedFloat float64

// Bits returns the canonical IEEE-754 bits: -0 is folded into +0 and every
// NaN into one quiet NaN.
func (f OrderedFloat) Bits() uint64 {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return 0x7ff8000000000001
	case v == 0:
		return 0
	}
	return math.Float64bits(v)
}

// Compare orders f and g; NaN sorts after every number.
func (f OrderedFloat) Compare(g OrderedFloat) int {
	a, b := float64(f), float64(g)
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return 0
	case math.IsNaN(a):
		return 1
	case math.IsNaN(b):
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// String formats f with the fewest digits that round-trip ("3.15", "1").
func (f OrderedFloat) String() string {
	return strconv.FormatFloat(float64(f), 'f', -1, 64)
}

// Project is the root of the project document.
type Project struct {
	Project      Identity     `toml:"project" yaml:"project"`
	Build        Build        `toml:"build" yaml:"build"`
	Dependencies Dependencies `toml:"dependencies" yaml:"dependencies"`
}

// Identity names the project.
type Identity struct {
	Name    string       `toml:"name" yaml:"name"`
	Version OrderedFloat `toml:"version" yaml:"version"`
}

// Build carries the generated script's settings.
type Build struct {
	MinimumToolVersion OrderedFloat `toml:"minimum_tool_version" yaml:"minimum_tool_version"`
	Files              Files        `toml:"files" yaml:"files"`
}

// Dependencies lists everything the project pulls in. ProjectDependencies
// names the targets linked into the executable; they are expected to match a
// Located or Local name but this is not enforced.
type Dependencies struct {
	Located             []LocatedDependency `toml:"located" yaml:"located"`
	Local               []LocalDependency   `toml:"local" yaml:"local"`
	FetchContent        []FetchDependency   `toml:"fetch_content" yaml:"fetch_content"`
	ProjectDependencies []string            `toml:"project_dependencies" yaml:"project_dependencies"`
}

// LocatedDependency is resolved by cmake's find_package.
type LocatedDependency struct {
	Name     string `toml:"name" yaml:"name"`
	Required bool   `toml:"required" yaml:"required"`
	// LinkName, when set, is the target name used at link time instead of Name.
	LinkName string `toml:"link_name_override,omitempty" yaml:"link_name_override,omitempty"`
}

// LocalDependency is a directory already present relative to the project.
type LocalDependency struct {
	Path      string       `toml:"path" yaml:"path"`
	Name      string       `toml:"name" yaml:"name"`
	Kind      LocalKind    `toml:"kind" yaml:"kind"`
	Source    *SourceSetup `toml:"source,omitempty" yaml:"source,omitempty"`
	Variables []Variable   `toml:"variables" yaml:"variables"`
}

// FetchDependency is downloaded by cmake itself at configure time.
// Tag and Branch are optional; a tag wins when both are set.
type FetchDependency struct {
	Name      string     `toml:"name" yaml:"name"`
	Repo      string     `toml:"repo" yaml:"repo"`
	Tag       string     `toml:"tag,omitempty" yaml:"tag,omitempty"`
	Branch    string     `toml:"branch,omitempty" yaml:"branch,omitempty"`
	Variables []Variable `toml:"variables" yaml:"variables"`
}

// SourceSetup describes a Source dependency compiled inline as a library.
type SourceSetup struct {
	Files       Files    `toml:"files" yaml:"files"`
	LinkAgainst []string `toml:"link_against" yaml:"link_against"`
}

// Variable is a cmake variable assigned before a dependency's statements.
type Variable struct {
	Name  string `toml:"name" yaml:"name"`
	Value string `toml:"value" yaml:"value"`
}

// Files is a declarative file-selection rule.
type Files struct {
	SourceFiles  []SourceGroup  `toml:"source_files" yaml:"source_files"`
	IncludeDirs  []IncludeGroup `toml:"include_dirs" yaml:"include_dirs"`
	ExcludeFiles []string       `toml:"exclude_files" yaml:"exclude_files"`
}

// SourceGroup selects source paths with one discovery mode.
type SourceGroup struct {
	Mode  SourceMode `toml:"mode" yaml:"mode"`
	Paths []string   `toml:"paths" yaml:"paths"`
}

// IncludeGroup declares include directories with one visibility.
type IncludeGroup struct {
	Visibility Visibility `toml:"visibility" yaml:"visibility"`
	Paths      []string   `toml:"paths" yaml:"paths"`
}

// AllFiles globs the root recursively and exposes it as a public include.
func AllFiles() Files {
	return Files{
		SourceFiles:  []SourceGroup{{Mode: GlobRecursive, Paths: []string{"."}}},
		IncludeDirs:  []IncludeGroup{{Visibility: Public, Paths: []string{"."}}},
		ExcludeFiles: []string{},
	}
}

// RootOnlyFiles globs the root without descending into subdirectories.
func RootOnlyFiles() Files {
	return Files{
		SourceFiles:  []SourceGroup{{Mode: Glob, Paths: []string{"."}}},
		IncludeDirs:  []IncludeGroup{{Visibility: Public, Paths: []string{"."}}},
		ExcludeFiles: []string{},
	}
}

// HeaderOnlyFiles compiles nothing and exposes the root to consumers only.
func HeaderOnlyFiles() Files {
	return Files{
		SourceFiles:  []SourceGroup{},
		IncludeDirs:  []IncludeGroup{{Visibility: InterfaceOnly, Paths: []string{"."}}},
		ExcludeFiles: []string{},
	}
}

// Default returns the document every missing field falls back to.
func Default() *Project {
	return &Project{
		Project: Identity{
			Name:    DefaultName,
			Version: DefaultVersion,
		},
		Build: Build{
			MinimumToolVersion: DefaultMinimumToolVersion,
			Files:              AllFiles(),
		},
		Dependencies: Dependencies{
			Located:             []LocatedDependency{},
			Local:               []LocalDependency{},
			FetchContent:        []FetchDependency{},
			ProjectDependencies: []string{},
		},
	}
}

// New returns a fresh project document named name.
func New(name string) *Project {
	p := Default()
	if name != "" {
		p.Project.Name = name
	}
	return p
}

// Validate checks the invariants a loaded document must hold.
func (p *Project) Validate() error {
	if p.Project.Name == "" {
		return errEmptyName
	}
	return nil
}

// AddLocated appends a find_package dependency.
func (p *Project) AddLocated(dep LocatedDependency) {
	p.Dependencies.Located = append(p.Dependencies.Located, dep)
}

// AddLocal appends a local dependency.
func (p *Project) AddLocal(dep LocalDependency) {
	p.Dependencies.Local = append(p.Dependencies.Local, dep.Clone())
}

// AddFetch appends a FetchContent dependency.
func (p *Project) AddFetch(dep FetchDependency) {
	dep.Variables = append([]Variable{}, dep.Variables...)
	p.Dependencies.FetchContent = append(p.Dependencies.FetchContent, dep)
}

// LinkProject records name as linked into the executable.
func (p *Project) LinkProject(name string) {
	p.Dependencies.ProjectDependencies = append(p.Dependencies.ProjectDependencies, name)
}

// DanglingProjectDependencies returns the project dependency names that match
// no located or local dependency, in declared order.
func (p *Project) DanglingProjectDependencies() []string {
	known := make(map[string]bool)
	for _, dep := range p.Dependencies.Located {
		known[dep.Name] = true
	}
	for _, dep := range p.Dependencies.Local {
		known[dep.Name] = true
	}
	for _, dep := range p.Dependencies.FetchContent {
		known[dep.Name] = true
	}
	var dangling []string
	for _, name := range p.Dependencies.ProjectDependencies {
		if !known[name] {
			dangling = append(dangling, name)
		}
	}
	return dangling
}

// RequiredToolVersion returns the lowest cmake version the declared
// dependencies need and whether minimum_tool_version is below it.
func (p *Project) RequiredToolVersion() (OrderedFloat, bool) {
	if len(p.Dependencies.FetchContent) == 0 {
		return p.Build.MinimumToolVersion, false
	}
	return FetchContentMinimumToolVersion, p.Build.MinimumToolVersion.Compare(FetchContentMinimumToolVersion) < 0
}

// LinkName returns the name a project dependency is linked under.
func (p *Project) LinkName(name string) string {
	for _, dep := range p.Dependencies.Located {
		if dep.Name == name && dep.LinkName != "" {
			return dep.LinkName
		}
	}
	return name
}

// Clone returns a deep copy of d.
func (d LocalDependency) Clone() LocalDependency {
	out := d
	out.Variables = append([]Variable{}, d.Variables...)
	if d.Source != nil {
		src := SourceSetup{
			Files:       d.Source.Files.Clone(),
			LinkAgainst: append([]string{}, d.Source.LinkAgainst...),
		}
		out.Source = &src
	}
	return out
}

// Clone returns a deep copy of f.
func (f Files) Clone() Files {
	out := Files{
		SourceFiles:  make([]SourceGroup, len(f.SourceFiles)),
		IncludeDirs:  make([]IncludeGroup, len(f.IncludeDirs)),
		ExcludeFiles: append([]string{}, f.ExcludeFiles...),
	}
	for i, g := range f.SourceFiles {
		out.SourceFiles[i] = SourceGroup{Mode: g.Mode, Paths: append([]string{}, g.Paths...)}
	}
	for i, g := range f.IncludeDirs {
		out.IncludeDirs[i] = IncludeGroup{Visibility: g.Visibility, Paths: append([]string{}, g.Paths...)}
	}
	return out
}

// isUnset reports whether no field of f was present in the document.
func (f Files) isUnset() bool {
	return f.SourceFiles == nil && f.IncludeDirs == nil && f.ExcludeFiles == nil
}

// normalize fills defaults that decoding leaves as zero values.
func (p *Project) normalize() {
	if p.Dependencies.Located == nil {
		p.Dependencies.Located = []LocatedDependency{}
	}
	if p.Dependencies.Local == nil {
		p.Dependencies.Local = []LocalDependency{}
	}
	if p.Dependencies.FetchContent == nil {
		p.Dependencies.FetchContent = []FetchDependency{}
	}
	if p.Dependencies.ProjectDependencies == nil {
		p.Dependencies.ProjectDependencies = []string{}
	}
	if p.Build.Files.isUnset() {
		p.Build.Files = AllFiles()
	}
	p.Build.Files.normalize()
	for i := range p.Dependencies.Local {
		p.Dependencies.Local[i].normalize()
	}
	for i := range p.Dependencies.FetchContent {
		if p.Dependencies.FetchContent[i].Variables == nil {
			p.Dependencies.FetchContent[i].Variables = []Variable{}
		}
	}
}

func (d *LocalDependency) normalize() {
	if d.Variables == nil {
		d.Variables = []Variable{}
	}
	switch d.Kind {
	case ExternalBuildScript:
		d.Source = nil
	case Source:
		if d.Source == nil {
			d.Source = &SourceSetup{}
		}
		if d.Source.Files.isUnset() {
			d.Source.Files = AllFiles()
		}
		d.Source.Files.normalize()
		if d.Source.LinkAgainst == nil {
			d.Source.LinkAgainst = []string{}
		}
	}
}

func (f *Files) normalize() {
	if f.SourceFiles == nil {
		f.SourceFiles = []SourceGroup{}
	}
	if f.IncludeDirs == nil {
		f.IncludeDirs = []IncludeGroup{}
	}
	if f.ExcludeFiles == nil {
		f.ExcludeFiles = []string{}
	}
	for i := range f.SourceFiles {
		if f.SourceFiles[i].Paths == nil {
			f.SourceFiles[i].Paths = []string{}
		}
	}
	for i := range f.IncludeDirs {
		if f.IncludeDirs[i].Paths == nil {
			f.IncludeDirs[i].Paths = []string{}
		}
	}
}
