package internal

import (
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmakemake/cmm/internal/cmakegen"
	"github.com/cmakemake/cmm/internal/config"
	"github.com/cmakemake/cmm/internal/term"
)

var cmakeCmd = &cobra.Command{
	Use:   "cmake",
	Short: "Generate cmake build script",
	Long:  `Cmake compiles CMakeMake.toml into CMakeLists.txt.`,
	Args:  cobra.NoArgs,
	RunE:  runCMake,
}

func init() {
	rootCmd.AddCommand(cmakeCmd)
}

func runCMake(cmd *cobra.Command, args []string) error {
	dir, p, err := loadProject()
	if err != nil {
		return err
	}
	return generate(cmd.OutOrStdout(), dir, p)
}

// generate writes dir/CMakeLists.txt for p.
func generate(out io.Writer, dir string, p *config.Project) error {
	term.Step(out, "Generating %s from config", cmakegen.ScriptName)
	start := time.Now()

	if dangling := p.DanglingProjectDependencies(); len(dangling) > 0 {
		term.Warn(out, "project dependencies without a matching dependency: %s", strings.Join(dangling, ", "))
	}
	if len(p.Build.Files.SourceFiles) == 0 {
		term.Warn(out, "no source files selected, cmake will reject the executable target")
	}
	if v, low := p.RequiredToolVersion(); low {
		term.Warn(out, "minimum_tool_version %s is below %s, required by FetchContent", p.Build.MinimumToolVersion, v)
	}
	if _, err := cmakegen.Write(dir, p); err != nil {
		return err
	}
	term.Finished(out, "creating %s in %.3fs", cmakegen.ScriptName, time.Since(start).Seconds())
	return nil
}
