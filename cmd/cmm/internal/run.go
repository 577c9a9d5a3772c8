package internal

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cmakemake/cmm/internal/errs"
	"github.com/cmakemake/cmm/internal/term"
)

var runCmd = &cobra.Command{
	Use:   "run [skip_build]",
	Short: "Build and run project code",
	Long: `Run builds the project, unless skip_build is given, and executes the
resulting program from the build directory.`,
	Args: optionalArg("skip_build"),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	dir, p, err := loadProject()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		if err := build(cmd.Context(), out, dir, p); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	c, err := newCMake(dir, out)
	if err != nil {
		return err
	}
	bin := c.Executable(p.Project.Name)
	log.Debug().Str("path", bin).Msg("run")

	prog := exec.CommandContext(cmd.Context(), bin)
	prog.Dir = dir
	prog.Stdin = os.Stdin
	prog.Stdout = out
	prog.Stderr = out
	if err := prog.Run(); err != nil {
		return errs.Process(bin, "", err)
	}

	fmt.Fprint(out, "\n\n")
	term.Finished(out, "program execution")
	return nil
}
