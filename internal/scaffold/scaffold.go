// Package scaffold lays out new projects and maintains their .gitignore.
package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cmakemake/cmm/internal/config"
	"github.com/cmakemake/cmm/internal/errs"
	"github.com/cmakemake/cmm/internal/util/file"
	"github.com/cmakemake/cmm/internal/vcs"
)

// MainFile is the program a new project starts with.
const MainFile = `#include <iostream>

int main(void)
{
    std::cout << "Hello World!";
    return 0;
}
`

// GitIgnore is the ignore file maintained by Ignore.
const GitIgnore = ".gitignore"

// Create lays out a new project named name under parent:
//
//	<name>/
//	  .git/
//	  .gitignore        # build directory
//	  CMakeMake.toml
//	  src/main.cpp
//
// It returns the project directory.
func Create(ctx context.Context, git vcs.Git, parent, name, buildDir string) (string, error) {
	if name == "" {
		return "", errs.New(errs.MissingRequiredInput, nil)
	}
	dir := filepath.Join(parent, name)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", errs.WithPath(errs.DirectoryCreationFailed, dir, err)
	}
	if err := git.Init(ctx, dir); err != nil {
		return "", errs.WithPath(errs.VersionControlInitFailed, dir, err)
	}
	if err := writeNew(filepath.Join(dir, GitIgnore), buildDir+"\n"); err != nil {
		return "", err
	}
	if err := config.Save(dir, config.New(name)); err != nil {
		return "", err
	}
	src := filepath.Join(dir, "src")
	if err := os.Mkdir(src, 0o755); err != nil {
		return "", errs.WithPath(errs.DirectoryCreationFailed, src, err)
	}
	if err := writeNew(filepath.Join(src, "main.cpp"), MainFile); err != nil {
		return "", err
	}
	return dir, nil
}

func writeNew(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errs.WithPath(errs.FileCreationFailed, path, err)
	}
	_, err = f.WriteString(content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errs.WithPath(errs.FileCreationFailed, path, err)
	}
	return nil
}

// IgnoreEntries returns the paths a project keeps out of version control:
// the build directory and the generated script's artefacts.
func IgnoreEntries(buildDir string) []string {
	return []string{buildDir, "CMakeLists.txt", "compile_commands.json", ".cache"}
}

// Ignore appends every entry missing from dir/.gitignore and returns the
// ones it added. Existing lines are kept as they are.
func Ignore(dir string, entries []string) ([]string, error) {
	path := filepath.Join(dir, GitIgnore)
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errs.WithPath(errs.FileOpenOrParseFailed, path, err)
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		present[line] = true
		present[strings.Trim(line, "/")] = true
	}

	var added []string
	for _, e := range entries {
		if !present[e] && !present[strings.Trim(e, "/")] {
			added = append(added, e)
			present[e] = true
		}
	}
	if len(added) == 0 {
		return nil, nil
	}

	content := string(data)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += strings.Join(added, "\n") + "\n"
	if err := file.WriteAtomic(path, []byte(content), 0o644); err != nil {
		return nil, errs.WithPath(errs.FileCreationFailed, path, err)
	}
	return added, nil
}
