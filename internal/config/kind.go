package config

import "fmt"

// SourceMode selects how a source group's paths are turned into files.
type SourceMode int

const (
	SingleFile SourceMode = iota
	Glob
	GlobRecursive
)

var sourceModeNames = map[SourceMode]string{
	SingleFile:    "single_file",
	Glob:          "glob",
	GlobRecursive: "glob_recursive",
}

func (m SourceMode) String() string {
	if s, ok := sourceModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("SourceMode(%d)", int(m))
}

func (m SourceMode) MarshalText() ([]byte, error) {
	s, ok := sourceModeNames[m]
	if !ok {
		return nil, fmt.Errorf("invalid source mode %d", int(m))
	}
	return []byte(s), nil
}

func (m *SourceMode) UnmarshalText(text []byte) error {
	for k, v := range sourceModeNames {
		if v == string(text) {
			*m = k
			return nil
		}
	}
	return fmt.Errorf("unknown source mode %q", text)
}

// Visibility is the include-directory scope.
type Visibility int

const (
	Public Visibility = iota
	InterfaceOnly
)

var visibilityNames = map[Visibility]string{
	Public:        "public",
	InterfaceOnly: "interface",
}

func (v Visibility) String() string {
	if s, ok := visibilityNames[v]; ok {
		return s
	}
	return fmt.Sprintf("Visibility(%d)", int(v))
}

func (v Visibility) MarshalText() ([]byte, error) {
	s, ok := visibilityNames[v]
	if !ok {
		return nil, fmt.Errorf("invalid visibility %d", int(v))
	}
	return []byte(s), nil
}

func (v *Visibility) UnmarshalText(text []byte) error {
	for k, name := range visibilityNames {
		if name == string(text) {
			*v = k
			return nil
		}
	}
	return fmt.Errorf("unknown visibility %q", text)
}

// LocalKind tells how a local dependency is built.
type LocalKind int

const (
	// ExternalBuildScript dependencies ship their own CMakeLists.txt.
	ExternalBuildScript LocalKind = iota
	// Source dependencies are globbed and compiled as a library target.
	Source
)

var localKindNames = map[LocalKind]string{
	ExternalBuildScript: "cmake",
	Source:              "source",
}

func (k LocalKind) String() string {
	if s, ok := localKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("LocalKind(%d)", int(k))
}

func (k LocalKind) MarshalText() ([]byte, error) {
	s, ok := localKindNames[k]
	if !ok {
		return nil, fmt.Errorf("invalid local dependency kind %d", int(k))
	}
	return []byte(s), nil
}

func (k *LocalKind) UnmarshalText(text []byte) error {
	for kind, name := range localKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown local dependency kind %q", text)
}
