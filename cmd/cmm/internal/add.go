package internal

import (
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cmakemake/cmm/internal/config"
	"github.com/cmakemake/cmm/internal/depcache"
	"github.com/cmakemake/cmm/internal/deps"
	"github.com/cmakemake/cmm/internal/prompt"
	"github.com/cmakemake/cmm/internal/term"
	"github.com/cmakemake/cmm/internal/vcs"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a dependency",
	Long: `Add interactively adds a dependency to CMakeMake.toml: a cached or new git
submodule, a local directory, a FetchContent repository or a find_package
lookup.`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	dir, p, err := loadProject()
	if err != nil {
		return err
	}
	cache, err := depcache.Open(settings.CacheFile())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := &deps.Workflow{
		Git:    vcs.NewGit(vcs.WithGitPath(settings.Git), vcs.WithOutput(out)),
		Prompt: prompt.NewTerminal(os.Stdin, out),
		Cache:  cache,
		Dir:    dir,
		Out:    out,
		Log:    log.Logger,
	}
	return addDependency(cmd, w, dir, p)
}

// addDependency runs the workflow and saves the document whenever it
// changed, even if some cached entries failed.
func addDependency(cmd *cobra.Command, w *deps.Workflow, dir string, p *config.Project) error {
	before := p.Hash()
	addErr := w.Add(cmd.Context(), p)
	if errors.Is(addErr, prompt.ErrCancelled) {
		return addErr
	}
	if p.Hash() != before {
		if err := config.Save(dir, p); err != nil {
			return err
		}
		if addErr == nil {
			term.Success(cmd.OutOrStdout(), "added dependency")
		}
	}
	return addErr
}
