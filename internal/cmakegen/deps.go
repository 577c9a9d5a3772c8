package cmakegen

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cmakemake/cmm/internal/config"
)

// ProjectSources is the variable bound to the executable's sources.
const ProjectSources = "SOURCES"

// ProjectSourceDir is the base directory of the executable's sources.
const ProjectSourceDir = "src"

// EmitDependencies renders the located dependencies, then each local
// dependency and then each FetchContent dependency in declared order. A blank
// entry follows every block.
func EmitDependencies(p *config.Project) []string {
	var out []string
	for _, dep := range p.Dependencies.Located {
		if dep.Required {
			out = append(out, fmt.Sprintf("find_package(%s REQUIRED)", arg(dep.Name)))
		} else {
			out = append(out, fmt.Sprintf("find_package(%s)", arg(dep.Name)))
		}
	}
	if len(out) > 0 {
		out = append(out, "")
	}
	for i := range p.Dependencies.Local {
		out = append(out, emitLocal(p, &p.Dependencies.Local[i])...)
		out = append(out, "")
	}
	for _, dep := range p.Dependencies.FetchContent {
		out = append(out, emitFetch(dep)...)
		out = append(out, "")
	}
	return out
}

func emitVariables(vars []config.Variable) []string {
	out := make([]string, 0, len(vars))
	for _, v := range vars {
		out = append(out, fmt.Sprintf("set(%s %s)", v.Name, v.Value))
	}
	return out
}

func emitFetch(dep config.FetchDependency) []string {
	name := arg(dep.Name)
	out := emitVariables(dep.Variables)
	out = append(out,
		"FetchContent_Declare("+name,
		"  GIT_REPOSITORY "+arg(dep.Repo),
	)
	switch {
	case dep.Tag != "":
		out = append(out, "  GIT_TAG "+arg(dep.Tag))
	case dep.Branch != "":
		out = append(out, "  GIT_TAG "+arg(dep.Branch))
	}
	return append(out,
		"  GIT_SHALLOW TRUE",
		"  GIT_PROGRESS TRUE",
		")",
		"FetchContent_MakeAvailable("+name+")",
	)
}

func emitLocal(p *config.Project, dep *config.LocalDependency) []string {
	out := emitVariables(dep.Variables)

	switch dep.Kind {
	case config.ExternalBuildScript:
		out = append(out, fmt.Sprintf("add_subdirectory(%s)", arg(dep.Path)))
	case config.Source:
		var setup config.SourceSetup
		if dep.Source != nil {
			setup = *dep.Source
		}
		name := arg(dep.Name)
		srcVar := SourceVariable(dep.Name)

		sources := ResolveSources(setup.Files, dep.Path, srcVar)
		iface := len(sources) == 0
		out = append(out, sources...)
		if iface {
			out = append(out, fmt.Sprintf("add_library(%s INTERFACE)", name))
		} else {
			out = append(out, fmt.Sprintf("add_library(%s ${%s})", name, srcVar))
		}
		out = append(out, ResolveIncludes(setup.Files, dep.Path, dep.Name, iface)...)

		if len(setup.LinkAgainst) > 0 {
			scope := "PUBLIC"
			if iface {
				scope = "INTERFACE"
			}
			out = append(out, fmt.Sprintf("target_link_libraries(%s %s %s)", name, scope, linkList(p, setup.LinkAgainst)))
		}
	}
	return out
}

// EmitProject renders the executable: its sources bound to SOURCES, its
// include directories, the add_executable statement and, only when the
// project has dependencies to link, the link statement.
func EmitProject(p *config.Project) []string {
	out := ResolveSources(p.Build.Files, ProjectSourceDir, ProjectSources)
	out = append(out, ResolveIncludes(p.Build.Files, ProjectSourceDir, "", false)...)
	out = append(out, fmt.Sprintf(`add_executable("${PROJECT_NAME}" ${%s})`, ProjectSources))
	if deps := p.Dependencies.ProjectDependencies; len(deps) > 0 {
		out = append(out, fmt.Sprintf(`target_link_libraries("${PROJECT_NAME}" PRIVATE %s)`, linkList(p, deps)))
	}
	return out
}

// SourceVariable returns the sources variable of a library target,
// "<NAME>_SOURCES" with characters cmake rejects in identifiers replaced.
func SourceVariable(name string) string {
	upper := strings.Map(func(r rune) rune {
		if r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToUpper(r)
		}
		return '_'
	}, name)
	return upper + "_SOURCES"
}

func linkList(p *config.Project, names []string) string {
	args := make([]string, len(names))
	for i, n := range names {
		args[i] = arg(p.LinkName(n))
	}
	return strings.Join(args, " ")
}
