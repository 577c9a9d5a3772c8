// Package cmakegen compiles a project document into a CMakeLists.txt and
// decides when a previously generated script is out of date.
package cmakegen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cmakemake/cmm/internal/config"
	"github.com/cmakemake/cmm/internal/util/file"
)

// ScriptName is the generated build script.
const ScriptName = "CMakeLists.txt"

// HashLine is the first line of the script generated for p.
func HashLine(p *config.Project) string {
	return fmt.Sprintf("# %d", p.Hash())
}

// Compile renders the build script for p. The output is a pure function of
// p, including the hash on its first line.
func Compile(p *config.Project) string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line(HashLine(p))
	line("")
	line(fmt.Sprintf("cmake_minimum_required(VERSION %s)", p.Build.MinimumToolVersion))
	line(fmt.Sprintf("project(%s)", quote(p.Project.Name)))

	line("")
	line("#Project Config Flags:")
	if len(p.Dependencies.FetchContent) > 0 {
		line("include(FetchContent)")
	}
	line("set(CMAKE_BUILD_TYPE Debug)")
	line("set(CMAKE_EXPORT_COMPILE_COMMANDS ON)")

	line("")
	line("#Project Dependencies:")
	for _, s := range EmitDependencies(p) {
		line(s)
	}

	line("#Project Files:")
	for _, s := range EmitProject(p) {
		line(s)
	}
	return b.String()
}

// Write compiles p into dir/CMakeLists.txt and returns the script path.
func Write(dir string, p *config.Project) (string, error) {
	path := filepath.Join(dir, ScriptName)
	if err := file.WriteAtomic(path, []byte(Compile(p)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
