// Package cmake wraps the cmake configure/build workflow of a generated
// project.
package cmake

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cmakemake/cmm/internal/errs"
)

// CMake drives CMake-based builds.
type CMake struct {
	bin       string
	sourceDir string
	buildDir  string
	generator string
	defines   map[string]string
	out       io.Writer
	log       zerolog.Logger
}

// Option configures a CMake.
type Option func(*CMake)

// WithBinary sets a custom cmake executable path.
func WithBinary(path string) Option {
	return func(c *CMake) {
		if path != "" {
			c.bin = path
		}
	}
}

// WithOutput sets where cmake output is streamed. Default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *CMake) { c.out = w }
}

// WithLogger sets the logger command lines are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(c *CMake) { c.log = l }
}

// New returns a ready-to-use CMake for the project in sourceDir, building
// into buildDir.
func New(sourceDir, buildDir string, opts ...Option) *CMake {
	c := &CMake{
		bin:       "cmake",
		sourceDir: sourceDir,
		buildDir:  buildDir,
		defines:   make(map[string]string),
		out:       os.Stdout,
		log:       log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generator sets the CMake generator (e.g. "Ninja", "Unix Makefiles").
func (c *CMake) Generator(name string) { c.generator = name }

// Define adds a -D<key>:STRING=<value> definition.
func (c *CMake) Define(key, value string) { c.defines[key] = value }

// Configure runs "cmake -S <source> -B <build>" with all configured options.
// Extra args are appended at the end.
func (c *CMake) Configure(ctx context.Context, args ...string) error {
	cmakeArgs := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.generator != "" {
		cmakeArgs = append(cmakeArgs, "-G", c.generator)
	}
	cmakeArgs = append(cmakeArgs, c.definesArgs()...)
	cmakeArgs = append(cmakeArgs, args...)
	return c.run(ctx, cmakeArgs)
}

// Build runs "cmake --build <build>" with optional extra arguments.
func (c *CMake) Build(ctx context.Context, args ...string) error {
	cmakeArgs := []string{"--build", c.buildDir}
	cmakeArgs = append(cmakeArgs, args...)
	return c.run(ctx, cmakeArgs)
}

// Executable returns the path of the executable target name inside the
// build directory.
func (c *CMake) Executable(name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(c.buildDir, name)
}

func (c *CMake) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, c.bin, args...)
	cmd.Stdout = c.out
	cmd.Stderr = c.out
	c.log.Debug().Strs("args", args).Msg("cmake")
	if err := cmd.Run(); err != nil {
		return errs.Process("cmake "+strings.Join(args, " "), "", err)
	}
	return nil
}

func (c *CMake) definesArgs() []string {
	if len(c.defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.defines))
	for k := range c.defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		args = append(args, "-D"+k+":STRING="+c.defines[k])
	}
	return args
}
