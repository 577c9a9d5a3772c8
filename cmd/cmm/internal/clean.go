package internal

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cmakemake/cmm/internal/cmakegen"
	"github.com/cmakemake/cmm/internal/term"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [all]",
	Short: "Remove c++ build files (and optionally cmake files)",
	Long: `Clean removes the build directory. With all it also removes the generated
CMakeLists.txt.`,
	Args: optionalArg("all"),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	term.Step(out, "Cleaning build files")

	dir, _, err := loadProject()
	if err != nil {
		return err
	}

	buildDir := filepath.Join(dir, settings.BuildDir)
	if err := os.RemoveAll(buildDir); err != nil {
		term.Warn(out, "failed to remove folder '%s' with error: %v", settings.BuildDir, err)
	}

	if len(args) == 1 {
		term.Step(out, "Cleaning CMake Files")
		if err := os.Remove(filepath.Join(dir, cmakegen.ScriptName)); err != nil {
			term.Warn(out, "failed to remove file '%s' with error: %v", cmakegen.ScriptName, err)
		}
	}

	term.Finished(out, "removing build files")
	return nil
}
