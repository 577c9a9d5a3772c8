// Package deps implements the interactive workflows that add dependencies
// to a project document.
package deps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	qerrors "github.com/qiniu/x/errors"
	"github.com/rs/zerolog"
	"golang.org/x/mod/semver"

	"github.com/cmakemake/cmm/internal/config"
	"github.com/cmakemake/cmm/internal/depcache"
	"github.com/cmakemake/cmm/internal/errs"
	"github.com/cmakemake/cmm/internal/prompt"
	"github.com/cmakemake/cmm/internal/term"
	"github.com/cmakemake/cmm/internal/vcs"
)

// ExternalDir is where submodule dependencies are checked out, relative to
// the project root.
const ExternalDir = "external"

// Kinds offered by Add, in menu order.
var Kinds = []string{
	"Pre-Cached",
	"Git Submodule",
	"Local",
	"Fetch Git (CMake)",
	"Find Package",
}

// File presets offered for Source dependencies, in menu order.
var presets = []string{
	"All (recursive)",
	"All",
	"Headers only",
	"All (recursive, exclude files)",
}

// Workflow adds dependencies to the project rooted at Dir.
type Workflow struct {
	Git    vcs.Git
	Prompt prompt.Prompter
	Cache  *depcache.Store
	Dir    string
	Out    io.Writer
	Log    zerolog.Logger
}

// Add asks for the kind of dependency and runs the matching workflow.
func (w *Workflow) Add(ctx context.Context, cfg *config.Project) error {
	kind, err := w.Prompt.Select("Choose the Dependency Type:", Kinds)
	if err != nil {
		return err
	}
	switch kind {
	case 0:
		return w.AddCached(ctx, cfg)
	case 1:
		return w.AddGitSubmodule(ctx, cfg)
	case 2:
		_, err := w.AddLocal(cfg)
		return err
	case 3:
		return w.AddFetch(cfg)
	case 4:
		return w.AddLocated(cfg)
	}
	return fmt.Errorf("unknown dependency type %d", kind)
}

// AddSubmodule checks repo out under external/<name> as a git submodule and
// pins it to tag and branch when given. Creating external/ and "submodule
// add" are fatal; update and pin failures are logged. It returns the checkout path
// relative to Dir.
func (w *Workflow) AddSubmodule(ctx context.Context, repo, tag, branch string) (string, error) {
	if err := os.MkdirAll(filepath.Join(w.Dir, ExternalDir), 0o755); err != nil {
		return "", errs.WithPath(errs.DirectoryCreationFailed, ExternalDir, err)
	}
	rel := path.Join(ExternalDir, depcache.DeriveName(repo))

	if err := w.Git.SubmoduleAdd(ctx, w.Dir, repo, rel); err != nil {
		return "", err
	}
	if err := w.Git.SubmoduleUpdate(ctx, w.Dir); err != nil {
		w.Log.Warn().Err(err).Msg("failed to update submodules")
	}

	if args := pinArgs(tag, branch); args != nil {
		switch {
		case tag != "" && branch != "":
			term.Step(w.Out, "Switching to 'tags/%s' on branch '%s'", tag, branch)
		case tag != "":
			term.Step(w.Out, "Switching to 'tags/%s'", tag)
		default:
			term.Step(w.Out, "Switching to branch '%s'", branch)
		}
		if err := w.Git.Checkout(ctx, filepath.Join(w.Dir, filepath.FromSlash(rel)), args...); err != nil {
			w.Log.Warn().Err(err).Str("path", rel).Msg("failed to pin submodule")
		}
	}
	return rel, nil
}

// pinArgs returns the checkout arguments pinning a submodule, or nil when
// neither tag nor branch is set.
func pinArgs(tag, branch string) []string {
	switch {
	case tag != "" && branch != "":
		return []string{"tags/" + tag, "-b", branch}
	case tag != "":
		return []string{"tags/" + tag}
	case branch != "":
		return []string{"-b", branch}
	}
	return nil
}

// AddGitSubmodule asks for a repository and optional tag and branch, fetches
// it as a submodule, registers it as a local dependency and offers to cache
// it for later projects.
func (w *Workflow) AddGitSubmodule(ctx context.Context, cfg *config.Project) error {
	repo, err := prompt.Required(w.Prompt, "Fetch Git Repo:", "")
	if err != nil {
		return err
	}
	tag, err := w.Prompt.Text("Git Tag (optional):", "")
	if err != nil {
		return err
	}
	branch, err := w.Prompt.Text("Git Branch (optional):", "")
	if err != nil {
		return err
	}
	if tag != "" {
		w.checkTag(ctx, repo, tag)
	}

	rel, err := w.AddSubmodule(ctx, repo, tag, branch)
	if err != nil {
		return err
	}
	setup, err := w.AddLocalPath(cfg, rel)
	if err != nil {
		return err
	}

	save, err := w.Prompt.Confirm("Save dependency to cache?", true)
	if err != nil || !save {
		return err
	}
	entry, err := w.Cache.Add(depcache.Submodule{
		Repo:       repo,
		Tag:        tag,
		Branch:     branch,
		LocalSetup: setup,
	})
	if err != nil {
		return err
	}
	term.Success(w.Out, "cached %s", entry.Name)
	return nil
}

// checkTag warns when tag is not among the remote's tags. A failed lookup
// is not an error; the checkout reports the real problem.
func (w *Workflow) checkTag(ctx context.Context, repo, tag string) {
	tags, err := w.Git.Tags(ctx, repo)
	if err != nil {
		w.Log.Debug().Err(err).Str("repo", repo).Msg("cannot list remote tags")
		return
	}
	for _, t := range tags {
		if t == tag {
			return
		}
	}
	ev := w.Log.Warn().Str("repo", repo).Str("tag", tag)
	if latest := latestTag(tags); latest != "" {
		ev = ev.Str("latest", latest)
	}
	ev.Msg("tag not found on remote")
}

// latestTag returns the highest semantic version among tags, accepting
// tags with or without the "v" prefix. Other tags are ignored.
func latestTag(tags []string) string {
	var latest, latestV string
	for _, t := range tags {
		v := t
		if !strings.HasPrefix(v, "v") {
			v = "v" + v
		}
		if !semver.IsValid(v) || semver.Prerelease(v) != "" {
			continue
		}
		if latestV == "" || semver.Compare(v, latestV) > 0 {
			latest, latestV = t, v
		}
	}
	return latest
}

// AddCached offers the cached submodules and replays each selected one:
// fetch and pin, then append its stored local setup. Every selected entry
// is attempted; failures are returned together.
func (w *Workflow) AddCached(ctx context.Context, cfg *config.Project) error {
	entries := w.Cache.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(w.Out, "No cached dependencies available.")
		return nil
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	picked, err := w.Prompt.MultiSelect("Choose a dependency:", names)
	if err != nil {
		return err
	}

	var failed qerrors.List
	for _, i := range picked {
		sub := entries[i].Submodule
		if _, err := w.AddSubmodule(ctx, sub.Repo, sub.Tag, sub.Branch); err != nil {
			failed.Add(fmt.Errorf("failed to add %s: %w", entries[i].Name, err))
			continue
		}
		cfg.AddLocal(sub.LocalSetup)
		if err := w.offerProjectLink(cfg, sub.LocalSetup.Name); err != nil {
			failed.Add(err)
			break
		}
	}
	return failed.ToError()
}

// AddLocal asks for a directory inside the project and registers it as a
// local dependency.
func (w *Workflow) AddLocal(cfg *config.Project) (config.LocalDependency, error) {
	for {
		p, err := prompt.Required(w.Prompt, "Path:", "")
		if err != nil {
			return config.LocalDependency{}, err
		}
		rel, err := w.localPath(p)
		if err != nil {
			fmt.Fprintln(w.Out, term.Hint(err.Error()))
			continue
		}
		return w.AddLocalPath(cfg, rel)
	}
}

// localPath validates p as an existing directory other than the project
// root and returns it relative to Dir with forward slashes.
func (w *Workflow) localPath(p string) (string, error) {
	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(w.Dir, p)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%s does not exist", p)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", p)
	}
	rel, err := filepath.Rel(w.Dir, abs)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", fmt.Errorf("%s is the project directory", p)
	}
	return filepath.ToSlash(rel), nil
}

// AddLocalPath asks how the directory at rel is built and appends the
// resulting local dependency to cfg.
func (w *Workflow) AddLocalPath(cfg *config.Project, rel string) (config.LocalDependency, error) {
	var dep config.LocalDependency
	name, err := prompt.Required(w.Prompt, "Dependency Name:", path.Base(rel))
	if err != nil {
		return dep, err
	}
	vars, err := w.variables()
	if err != nil {
		return dep, err
	}

	dep = config.LocalDependency{Path: rel, Name: name, Kind: config.ExternalBuildScript, Variables: vars}
	usesCMake, err := w.Prompt.Confirm("Dependency uses CMake?", true)
	if err != nil {
		return dep, err
	}
	if !usesCMake {
		files, err := w.files()
		if err != nil {
			return dep, err
		}
		fmt.Fprintln(w.Out, "Library dependencies")
		link, err := prompt.Lines(w.Prompt, " >")
		if err != nil {
			return dep, err
		}
		dep.Kind = config.Source
		dep.Source = &config.SourceSetup{Files: files, LinkAgainst: nonNil(link)}
	}

	cfg.AddLocal(dep)
	return dep, w.offerProjectLink(cfg, name)
}

// variables reads "NAME VALUE..." lines until an empty one.
func (w *Workflow) variables() ([]config.Variable, error) {
	fmt.Fprintln(w.Out, "Any variables/flags")
	vars := []config.Variable{}
	for {
		line, err := w.Prompt.Text(" >", "")
		if err != nil && !errors.Is(err, prompt.ErrCancelled) {
			return nil, err
		}
		if line == "" {
			return vars, nil
		}
		v, ok := ParseVariable(line)
		if !ok {
			fmt.Fprintln(w.Out, term.Hint("expected NAME VALUE..."))
			continue
		}
		vars = append(vars, v)
	}
}

// ParseVariable splits "NAME VALUE..." into a variable. The value is the
// rest of the line after the name.
func ParseVariable(line string) (config.Variable, bool) {
	line = strings.TrimSpace(line)
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return config.Variable{}, false
	}
	return config.Variable{Name: line[:i], Value: strings.TrimSpace(line[i:])}, true
}

func (w *Workflow) files() (config.Files, error) {
	preset, err := w.Prompt.Select("Included files", presets)
	if err != nil {
		return config.Files{}, err
	}
	switch preset {
	case 1:
		return config.RootOnlyFiles(), nil
	case 2:
		return config.HeaderOnlyFiles(), nil
	case 3:
		files := config.AllFiles()
		fmt.Fprintln(w.Out, "Excluded files")
		excluded, err := prompt.Lines(w.Prompt, " >")
		if err != nil {
			return files, err
		}
		files.ExcludeFiles = nonNil(excluded)
		return files, nil
	}
	return config.AllFiles(), nil
}

// AddLocated asks for a find_package dependency.
func (w *Workflow) AddLocated(cfg *config.Project) error {
	name, err := prompt.Required(w.Prompt, "Dependency Name:", "")
	if err != nil {
		return err
	}
	required, err := w.Prompt.Confirm("Dependency required?", true)
	if err != nil {
		return err
	}
	link, err := w.Prompt.Text("Link target (optional):", "")
	if err != nil {
		return err
	}
	cfg.AddLocated(config.LocatedDependency{Name: name, Required: required, LinkName: link})
	return w.offerProjectLink(cfg, name)
}

// AddFetch asks for a repository cmake downloads itself at configure time.
func (w *Workflow) AddFetch(cfg *config.Project) error {
	repo, err := prompt.Required(w.Prompt, "Fetch Git Repo:", "")
	if err != nil {
		return err
	}
	name, err := prompt.Required(w.Prompt, "Dependency Name:", depcache.DeriveName(repo))
	if err != nil {
		return err
	}
	tag, err := w.Prompt.Text("Git Tag (optional):", "")
	if err != nil {
		return err
	}
	var branch string
	if tag == "" {
		if branch, err = w.Prompt.Text("Git Branch (optional):", ""); err != nil {
			return err
		}
	}
	vars, err := w.variables()
	if err != nil {
		return err
	}
	cfg.AddFetch(config.FetchDependency{Name: name, Repo: repo, Tag: tag, Branch: branch, Variables: vars})
	return w.offerProjectLink(cfg, name)
}

func (w *Workflow) offerProjectLink(cfg *config.Project, name string) error {
	link, err := w.Prompt.Confirm("Add as project dependency?", true)
	if err != nil {
		return err
	}
	if link {
		cfg.LinkProject(name)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
