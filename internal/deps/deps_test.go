package deps

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmakemake/cmm/internal/config"
	"github.com/cmakemake/cmm/internal/depcache"
	"github.com/cmakemake/cmm/internal/errs"
	"github.com/cmakemake/cmm/internal/prompt"
)

type fixture struct {
	w   *Workflow
	git *mockGit
	out *bytes.Buffer
	log *bytes.Buffer
}

func newFixture(t *testing.T, p *scriptedPrompter) *fixture {
	t.Helper()
	cache, err := depcache.Open(filepath.Join(t.TempDir(), "dependencies.yaml"))
	require.NoError(t, err)

	f := &fixture{git: &mockGit{}, out: &bytes.Buffer{}, log: &bytes.Buffer{}}
	f.w = &Workflow{
		Git:    f.git,
		Prompt: p,
		Cache:  cache,
		Dir:    t.TempDir(),
		Out:    f.out,
		Log:    zerolog.New(f.log),
	}
	return f
}

func TestPinArgs(t *testing.T) {
	tests := []struct {
		tag, branch string
		want        []string
	}{
		{"v1.0", "stable", []string{"tags/v1.0", "-b", "stable"}},
		{"v1.0", "", []string{"tags/v1.0"}},
		{"", "stable", []string{"-b", "stable"}},
		{"", "", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pinArgs(tt.tag, tt.branch), "%q/%q", tt.tag, tt.branch)
	}
}

func TestParseVariable(t *testing.T) {
	tests := []struct {
		line string
		want config.Variable
		ok   bool
	}{
		{"GLFW_BUILD_DOCS OFF", config.Variable{Name: "GLFW_BUILD_DOCS", Value: "OFF"}, true},
		{"  LIST a;b  c ", config.Variable{Name: "LIST", Value: "a;b  c"}, true},
		{"NAME\tvalue", config.Variable{Name: "NAME", Value: "value"}, true},
		{"ONLY", config.Variable{}, false},
		{"", config.Variable{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseVariable(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}
}

func TestAddSubmodule(t *testing.T) {
	f := newFixture(t, script())
	ctx := context.Background()

	rel, err := f.w.AddSubmodule(ctx, "https://github.com/org/Lib.Name.git", "v1.0", "pinned")
	require.NoError(t, err)
	assert.Equal(t, "external/Lib", rel)
	assert.DirExists(t, filepath.Join(f.w.Dir, ExternalDir))

	require.Equal(t, []string{"submodule add", "submodule update", "checkout"}, f.git.ops())
	add := f.git.calls[0]
	assert.Equal(t, f.w.Dir, add.dir)
	assert.Equal(t, []string{"https://github.com/org/Lib.Name.git", "external/Lib"}, add.args)
	checkout := f.git.calls[2]
	assert.Equal(t, filepath.Join(f.w.Dir, "external", "Lib"), checkout.dir)
	assert.Equal(t, []string{"tags/v1.0", "-b", "pinned"}, checkout.args)
	assert.Contains(t, f.out.String(), "Switching to 'tags/v1.0' on branch 'pinned'")
}

func TestAddSubmoduleNoPin(t *testing.T) {
	f := newFixture(t, script())
	_, err := f.w.AddSubmodule(context.Background(), "https://host/path/lib", "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"submodule add", "submodule update"}, f.git.ops())
}

func TestAddSubmoduleAddFails(t *testing.T) {
	f := newFixture(t, script())
	f.git.addErr = func(string) error { return errors.New("exit status 128") }

	_, err := f.w.AddSubmodule(context.Background(), "https://host/lib.git", "v1", "")
	require.Error(t, err)
	assert.Equal(t, []string{"submodule add"}, f.git.ops())
}

func TestAddSubmoduleExternalDirBlocked(t *testing.T) {
	f := newFixture(t, script())
	require.NoError(t, os.WriteFile(filepath.Join(f.w.Dir, ExternalDir), nil, 0o644))

	_, err := f.w.AddSubmodule(context.Background(), "https://host/lib.git", "", "")
	assert.True(t, errors.Is(err, errs.DirectoryCreationFailed), "%v", err)
	assert.Empty(t, f.git.ops(), "git must not run without external/")
}

func TestAddSubmoduleWarnings(t *testing.T) {
	f := newFixture(t, script())
	f.git.updateErr = errors.New("update failed")
	f.git.checkoutErr = errors.New("checkout failed")

	rel, err := f.w.AddSubmodule(context.Background(), "https://host/lib.git", "", "dev")
	require.NoError(t, err)
	assert.Equal(t, "external/lib", rel)
	assert.Contains(t, f.log.String(), "failed to update submodules")
	assert.Contains(t, f.log.String(), "failed to pin submodule")
	assert.Contains(t, f.log.String(), `"level":"warn"`)
}

func TestAddGitSubmodule(t *testing.T) {
	p := script(
		"https://github.com/glfw/glfw.git", // repo
		"3.4",                              // tag
		"",                                 // branch
		"",                                 // name, default glfw
		"GLFW_BUILD_DOCS OFF",
		"broken",
		"",
		true, // uses cmake
		true, // project dependency
		true, // cache
	)
	f := newFixture(t, p)
	f.git.tags = []string{"3.3", "3.4"}
	cfg := config.New("app")

	require.NoError(t, f.w.AddGitSubmodule(context.Background(), cfg))

	want := config.LocalDependency{
		Path:      "external/glfw",
		Name:      "glfw",
		Kind:      config.ExternalBuildScript,
		Variables: []config.Variable{{Name: "GLFW_BUILD_DOCS", Value: "OFF"}},
	}
	require.Len(t, cfg.Dependencies.Local, 1)
	assert.Equal(t, want, cfg.Dependencies.Local[0])
	assert.Equal(t, []string{"glfw"}, cfg.Dependencies.ProjectDependencies)
	assert.Contains(t, f.out.String(), "expected NAME VALUE")
	assert.NotContains(t, f.log.String(), "tag not found")

	reopened, err := depcache.Open(f.w.Cache.Path())
	require.NoError(t, err)
	entries := reopened.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "glfw - tags/3.4", entries[0].Name)
	assert.Equal(t, want, entries[0].Submodule.LocalSetup)
}

func TestAddGitSubmoduleUnknownTag(t *testing.T) {
	p := script("https://github.com/glfw/glfw.git", "9.9", "", "", "", true, false, false)
	f := newFixture(t, p)
	f.git.tags = []string{"3.4"}
	cfg := config.New("app")

	require.NoError(t, f.w.AddGitSubmodule(context.Background(), cfg))
	assert.Contains(t, f.log.String(), "tag not found on remote")
	assert.Contains(t, f.log.String(), `"latest":"3.4"`)
	assert.Empty(t, cfg.Dependencies.ProjectDependencies)
	assert.Empty(t, f.w.Cache.Entries())
}

func TestLatestTag(t *testing.T) {
	tests := []struct {
		tags []string
		want string
	}{
		{[]string{"3.3", "3.4", "3.10"}, "3.10"},
		{[]string{"v1.2.0", "v1.10.0-rc1", "v1.9.9"}, "v1.9.9"},
		{[]string{"latest", "nightly"}, ""},
		{nil, ""},
		{[]string{"release-1", "v2"}, "v2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, latestTag(tt.tags), "%v", tt.tags)
	}
}

func TestAddLocalPathSource(t *testing.T) {
	tests := []struct {
		name   string
		preset []any
		want   config.Files
	}{
		{"recursive", []any{0}, config.AllFiles()},
		{"root", []any{1}, config.RootOnlyFiles()},
		{"headers", []any{2}, config.HeaderOnlyFiles()},
		{"exclude", []any{3, "legacy.cpp", "test/main.cpp", ""}, func() config.Files {
			f := config.AllFiles()
			f.ExcludeFiles = []string{"legacy.cpp", "test/main.cpp"}
			return f
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := []any{"imgui", "", false}
			answers = append(answers, tt.preset...)
			answers = append(answers, "glfw", "OpenGL::GL", "", false)
			f := newFixture(t, script(answers...))
			cfg := config.New("app")

			dep, err := f.w.AddLocalPath(cfg, "external/imgui")
			require.NoError(t, err)
			assert.Equal(t, config.Source, dep.Kind)
			require.NotNil(t, dep.Source)
			assert.Equal(t, tt.want, dep.Source.Files)
			assert.Equal(t, []string{"glfw", "OpenGL::GL"}, dep.Source.LinkAgainst)
			assert.Equal(t, []config.Variable{}, dep.Variables)
			assert.Equal(t, []config.LocalDependency{dep}, cfg.Dependencies.Local)
			assert.Empty(t, cfg.Dependencies.ProjectDependencies)
		})
	}
}

func TestAddLocalValidatesPath(t *testing.T) {
	p := script("missing", ".", "file.txt", "libs/foo", "", "", true, true)
	f := newFixture(t, p)
	require.NoError(t, os.MkdirAll(filepath.Join(f.w.Dir, "libs", "foo"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.w.Dir, "file.txt"), nil, 0o644))
	cfg := config.New("app")

	dep, err := f.w.AddLocal(cfg)
	require.NoError(t, err)
	assert.Equal(t, "libs/foo", dep.Path)
	assert.Equal(t, "foo", dep.Name)
	assert.Equal(t, []string{"foo"}, cfg.Dependencies.ProjectDependencies)

	out := f.out.String()
	assert.Contains(t, out, "missing does not exist")
	assert.Contains(t, out, ". is the project directory")
	assert.Contains(t, out, "file.txt is not a directory")
}

func TestAddCached(t *testing.T) {
	f := newFixture(t, script([]int{0, 1, 2}, true, false))
	for _, sub := range []depcache.Submodule{
		{Repo: "https://github.com/glfw/glfw.git", Tag: "3.4", LocalSetup: config.LocalDependency{
			Path: "external/glfw", Name: "glfw", Kind: config.ExternalBuildScript, Variables: []config.Variable{},
		}},
		{Repo: "https://host/broken.git", LocalSetup: config.LocalDependency{
			Path: "external/broken", Name: "broken", Kind: config.ExternalBuildScript, Variables: []config.Variable{},
		}},
		{Repo: "https://host/fmt.git", Branch: "dev", LocalSetup: config.LocalDependency{
			Path: "external/fmt", Name: "fmt", Kind: config.ExternalBuildScript, Variables: []config.Variable{},
		}},
	} {
		_, err := f.w.Cache.Add(sub)
		require.NoError(t, err)
	}
	f.git.addErr = func(repo string) error {
		if repo == "https://host/broken.git" {
			return errors.New("clone failed")
		}
		return nil
	}
	cfg := config.New("app")

	err := f.w.AddCached(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to add broken")

	require.Len(t, cfg.Dependencies.Local, 2)
	assert.Equal(t, "glfw", cfg.Dependencies.Local[0].Name)
	assert.Equal(t, "fmt", cfg.Dependencies.Local[1].Name)
	assert.Equal(t, []string{"glfw"}, cfg.Dependencies.ProjectDependencies)

	var pins [][]string
	for _, c := range f.git.calls {
		if c.op == "checkout" {
			pins = append(pins, c.args)
		}
	}
	assert.Equal(t, [][]string{{"tags/3.4"}, {"-b", "dev"}}, pins)
}

func TestAddCachedEmpty(t *testing.T) {
	f := newFixture(t, script())
	require.NoError(t, f.w.AddCached(context.Background(), config.New("app")))
	assert.Contains(t, f.out.String(), "No cached dependencies available.")
	assert.Empty(t, f.git.calls)
}

func TestAddLocated(t *testing.T) {
	f := newFixture(t, script("OpenGL", true, "OpenGL::GL", true))
	cfg := config.New("app")

	require.NoError(t, f.w.AddLocated(cfg))
	assert.Equal(t, []config.LocatedDependency{{Name: "OpenGL", Required: true, LinkName: "OpenGL::GL"}}, cfg.Dependencies.Located)
	assert.Equal(t, []string{"OpenGL"}, cfg.Dependencies.ProjectDependencies)
	assert.Equal(t, "OpenGL::GL", cfg.LinkName("OpenGL"))
}

func TestAddFetch(t *testing.T) {
	f := newFixture(t, script("https://github.com/fmtlib/fmt.git", "", "10.2.1", "FMT_DOC OFF", "", true))
	cfg := config.New("app")

	require.NoError(t, f.w.AddFetch(cfg))
	assert.Equal(t, []config.FetchDependency{{
		Name:      "fmt",
		Repo:      "https://github.com/fmtlib/fmt.git",
		Tag:       "10.2.1",
		Variables: []config.Variable{{Name: "FMT_DOC", Value: "OFF"}},
	}}, cfg.Dependencies.FetchContent)
	assert.Equal(t, []string{"fmt"}, cfg.Dependencies.ProjectDependencies)
	assert.Empty(t, f.git.calls)
}

func TestAddDispatch(t *testing.T) {
	f := newFixture(t, script(4, "Threads", false, "", false))
	cfg := config.New("app")

	require.NoError(t, f.w.Add(context.Background(), cfg))
	assert.Equal(t, []config.LocatedDependency{{Name: "Threads"}}, cfg.Dependencies.Located)
}

func TestAddCancelled(t *testing.T) {
	f := newFixture(t, script(1, "https://host/lib.git"))
	cfg := config.New("app")

	err := f.w.Add(context.Background(), cfg)
	assert.ErrorIs(t, err, prompt.ErrCancelled)
	assert.Empty(t, f.git.calls)
}
