package internal

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmakemake/cmm/internal/scaffold"
	"github.com/cmakemake/cmm/internal/term"
)

var ignoreCmd = &cobra.Command{
	Use:   "ignore",
	Short: "Keep build outputs out of git",
	Long: `Ignore adds the build directory and the generated build script artefacts
to the project's .gitignore.`,
	Args: cobra.NoArgs,
	RunE: runIgnore,
}

func init() {
	rootCmd.AddCommand(ignoreCmd)
}

func runIgnore(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	added, err := scaffold.Ignore(dir, scaffold.IgnoreEntries(settings.BuildDir))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(added) == 0 {
		term.Finished(out, "%s already up to date", scaffold.GitIgnore)
		return nil
	}
	term.Finished(out, "adding %s to %s", strings.Join(added, ", "), scaffold.GitIgnore)
	return nil
}
