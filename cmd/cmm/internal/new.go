package internal

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cmakemake/cmm/internal/errs"
	"github.com/cmakemake/cmm/internal/scaffold"
	"github.com/cmakemake/cmm/internal/term"
	"github.com/cmakemake/cmm/internal/vcs"
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new project",
	Long: `New creates the directory <name> with a git repository, a .gitignore,
a CMakeMake.toml and a hello world src/main.cpp.`,
	Args: func(cmd *cobra.Command, args []string) error {
		switch {
		case len(args) == 0:
			return errs.New(errs.MissingRequiredInput, errors.New("project name"))
		case len(args) > 1:
			return errs.Unrecognized(args[1])
		}
		return nil
	},
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	git := vcs.NewGit(vcs.WithGitPath(settings.Git), vcs.WithOutput(cmd.OutOrStdout()))
	dir, err := scaffold.Create(cmd.Context(), git, ".", args[0], settings.BuildDir)
	if err != nil {
		return err
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	term.Finished(cmd.OutOrStdout(), "creating project at %s", dir)
	return nil
}
