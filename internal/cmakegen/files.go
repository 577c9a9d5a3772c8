package cmakegen

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/cmakemake/cmm/internal/config"
)

// sourceExtensions are the file kinds picked up by glob discovery.
var sourceExtensions = []string{"c", "cpp", "h", "hpp"}

const sourceDirVar = "${CMAKE_CURRENT_SOURCE_DIR}"

// ResolveSources returns the statements that bind variable to the source
// files selected by files, with every path taken relative to base. The
// result is empty when files selects no sources, which callers treat as a
// header-only target.
//
// Single files become one literal list, and Glob and GlobRecursive paths are
// merged into one discovery statement per mode. The first statement binds
// variable; later ones bind a numbered helper and append it. Excluded files
// are removed after discovery.
func ResolveSources(files config.Files, base, variable string) []string {
	var singles, flat, recursive []string
	for _, g := range files.SourceFiles {
		switch g.Mode {
		case config.SingleFile:
			for _, p := range g.Paths {
				singles = append(singles, quote(sourceDirVar+"/"+join(base, p)))
			}
		case config.Glob:
			flat = append(flat, globs(base, g.Paths)...)
		case config.GlobRecursive:
			recursive = append(recursive, globs(base, g.Paths)...)
		}
	}

	var stmts []string
	helpers := 0
	bind := func(command string, args []string) {
		if len(args) == 0 {
			return
		}
		if len(stmts) == 0 {
			stmts = append(stmts, statement(command, variable, args))
			return
		}
		helpers++
		helper := fmt.Sprintf("%s_%d", variable, helpers)
		stmts = append(stmts,
			statement(command, helper, args),
			fmt.Sprintf("list(APPEND %s ${%s})", variable, helper),
		)
	}
	bind("set(", singles)
	bind("file(GLOB ", flat)
	bind("file(GLOB_RECURSE ", recursive)

	if len(stmts) > 0 && len(files.ExcludeFiles) > 0 {
		excluded := make([]string, len(files.ExcludeFiles))
		for i, p := range files.ExcludeFiles {
			excluded[i] = quote(sourceDirVar + "/" + join(base, p))
		}
		stmts = append(stmts, statement("list(REMOVE_ITEM ", variable, excluded))
	}
	return stmts
}

// ResolveIncludes returns one statement per non-empty visibility group.
// With a target the statements are target_include_directories, using
// INTERFACE for both groups when iface is set (INTERFACE libraries accept no
// other scope). Without a target they are directory-wide include_directories.
func ResolveIncludes(files config.Files, base, target string, iface bool) []string {
	var public, interfaceOnly []string
	for _, g := range files.IncludeDirs {
		dirs := make([]string, len(g.Paths))
		for i, p := range g.Paths {
			dirs[i] = arg(join(base, p))
		}
		switch g.Visibility {
		case config.Public:
			public = append(public, dirs...)
		case config.InterfaceOnly:
			interfaceOnly = append(interfaceOnly, dirs...)
		}
	}

	var stmts []string
	emit := func(scope string, dirs []string) {
		if len(dirs) == 0 {
			return
		}
		if target == "" {
			stmts = append(stmts, "include_directories("+strings.Join(dirs, " ")+")")
			return
		}
		if iface {
			scope = "INTERFACE"
		}
		stmts = append(stmts, fmt.Sprintf("target_include_directories(%s %s %s)", arg(target), scope, strings.Join(dirs, " ")))
	}
	emit("PUBLIC", public)
	emit("INTERFACE", interfaceOnly)
	return stmts
}

// join resolves p against base using forward slashes; "." is base itself.
func join(base, p string) string {
	p = filepath.ToSlash(p)
	if p == "" || p == "." {
		return base
	}
	if base == "" {
		return path.Clean(p)
	}
	return path.Join(base, p)
}

func globs(base string, dirs []string) []string {
	out := make([]string, 0, len(dirs)*len(sourceExtensions))
	for _, d := range dirs {
		dir := join(base, d)
		for _, ext := range sourceExtensions {
			out = append(out, quote(dir+"/*."+ext))
		}
	}
	return out
}

func statement(command, variable string, args []string) string {
	return command + variable + " " + strings.Join(args, " ") + ")"
}

// quote renders s as a cmake quoted argument.
func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

// arg renders s bare unless cmake would split or misread it.
func arg(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n;()#\"\\") {
		return quote(s)
	}
	return s
}
