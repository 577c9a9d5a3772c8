package vcs

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cmakemake/cmm/internal/errs"
)

// Git defines the git operations the dependency workflow needs.
type Git interface {
	// Init creates an empty repository in dir.
	Init(ctx context.Context, dir string) error

	// SubmoduleAdd registers repo as a submodule of the repository in dir,
	// checked out at path. Output is streamed.
	SubmoduleAdd(ctx context.Context, dir, repo, path string) error

	// SubmoduleUpdate initializes and updates submodules recursively.
	// Output is streamed.
	SubmoduleUpdate(ctx context.Context, dir string) error

	// Checkout runs "git checkout args..." in dir with output captured.
	Checkout(ctx context.Context, dir string, args ...string) error

	// Tags returns all tags of the remote repository.
	Tags(ctx context.Context, remote string) ([]string, error)
}

// gitVCS implements Git using the git executable.
type gitVCS struct {
	git string
	out io.Writer
	log zerolog.Logger
}

// GitOption configures gitVCS.
type GitOption func(*gitVCS)

// WithGitPath sets a custom git executable path.
func WithGitPath(path string) GitOption {
	return func(g *gitVCS) {
		if path != "" {
			g.git = path
		}
	}
}

// WithOutput sets where streamed command output goes. Default is os.Stdout.
func WithOutput(w io.Writer) GitOption {
	return func(g *gitVCS) {
		g.out = w
	}
}

// WithLogger sets the logger command lines are reported to.
func WithLogger(l zerolog.Logger) GitOption {
	return func(g *gitVCS) {
		g.log = l
	}
}

// NewGit creates a git-backed Git.
func NewGit(opts ...GitOption) Git {
	g := &gitVCS{git: "git", out: os.Stdout, log: log.Logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *gitVCS) Init(ctx context.Context, dir string) error {
	_, err := g.output(ctx, dir, "init")
	return err
}

func (g *gitVCS) SubmoduleAdd(ctx context.Context, dir, repo, path string) error {
	return g.stream(ctx, dir, "submodule", "add", repo, path)
}

func (g *gitVCS) SubmoduleUpdate(ctx context.Context, dir string) error {
	return g.stream(ctx, dir, "submodule", "update", "--init", "--recursive")
}

func (g *gitVCS) Checkout(ctx context.Context, dir string, args ...string) error {
	_, err := g.output(ctx, dir, append([]string{"checkout"}, args...)...)
	return err
}

func (g *gitVCS) Tags(ctx context.Context, remote string) ([]string, error) {
	output, err := g.output(ctx, "", "ls-remote", "--tags", "--refs", remote)
	if err != nil {
		return nil, err
	}

	output = strings.TrimSpace(output)
	if output == "" {
		return nil, nil
	}

	var tags []string
	for _, line := range strings.Split(output, "\n") {
		// format: <hash>\trefs/tags/<tag>
		parts := strings.Split(line, "\t")
		if len(parts) == 2 {
			tags = append(tags, strings.TrimPrefix(parts[1], "refs/tags/"))
		}
	}
	return tags, nil
}

func (g *gitVCS) command(ctx context.Context, dir string, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, g.git, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	g.log.Debug().Str("dir", dir).Strs("args", args).Msg("git")
	return cmd
}

func (g *gitVCS) stream(ctx context.Context, dir string, args ...string) error {
	cmd := g.command(ctx, dir, args)
	cmd.Stdout = g.out
	cmd.Stderr = g.out
	if err := cmd.Run(); err != nil {
		return errs.Process(commandLine(args), "", err)
	}
	return nil
}

func (g *gitVCS) output(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := g.command(ctx, dir, args)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", errs.Process(commandLine(args), strings.TrimSpace(stderr.String()), err)
	}
	return stdout.String(), nil
}

func commandLine(args []string) string {
	return "git " + strings.Join(args, " ")
}
