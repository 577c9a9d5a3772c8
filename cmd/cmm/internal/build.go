package internal

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cmakemake/cmm/internal/cmakegen"
	"github.com/cmakemake/cmm/internal/config"
	"github.com/cmakemake/cmm/internal/errs"
	"github.com/cmakemake/cmm/internal/term"
	"github.com/cmakemake/cmm/internal/util/file"
	"github.com/cmakemake/cmm/x/cmake"
)

var buildDefines []string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build project code",
	Long: `Build regenerates CMakeLists.txt when it is missing or out of date, then
configures and compiles the project with cmake.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringArrayVarP(&buildDefines, "define", "D", nil, "Pass -D<NAME>=<VALUE> to cmake configure")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	dir, p, err := loadProject()
	if err != nil {
		return err
	}
	return build(cmd.Context(), cmd.OutOrStdout(), dir, p)
}

// build brings the script up to date and runs cmake configure and build.
func build(ctx context.Context, out io.Writer, dir string, p *config.Project) error {
	term.Step(out, "Building Project")

	script := filepath.Join(dir, cmakegen.ScriptName)
	stale, err := cmakegen.Stale(script, p)
	if err != nil {
		return errs.WithPath(errs.FileOpenOrParseFailed, script, err)
	}
	if stale {
		if file.Exists(script) {
			term.Warn(out, "%s out of date. Regenerating.", cmakegen.ScriptName)
		} else {
			term.Warn(out, "%s doesn't exist", cmakegen.ScriptName)
		}
		if err := generate(out, dir, p); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	c, err := newCMake(dir, out)
	if err != nil {
		return err
	}

	term.Step(out, "Generating CMake build system")
	start := time.Now()
	if err := c.Configure(ctx); err != nil {
		return err
	}

	fmt.Fprintln(out)
	term.Step(out, "Compiling c++ project")
	if err := c.Build(ctx); err != nil {
		return err
	}
	term.Finished(out, "building c++ project in %.3fs", time.Since(start).Seconds())
	return nil
}

func newCMake(dir string, out io.Writer) (*cmake.CMake, error) {
	c := cmake.New(dir, filepath.Join(dir, settings.BuildDir),
		cmake.WithBinary(settings.CMake),
		cmake.WithOutput(out),
		cmake.WithLogger(log.Logger),
	)
	if settings.Generator != "" {
		c.Generator(settings.Generator)
	}
	for _, d := range buildDefines {
		name, value, ok := strings.Cut(d, "=")
		if !ok || name == "" {
			return nil, errs.Unrecognized(d)
		}
		c.Define(name, value)
	}
	return c, nil
}
