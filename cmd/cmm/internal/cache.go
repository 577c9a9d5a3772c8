package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmakemake/cmm/internal/depcache"
	"github.com/cmakemake/cmm/internal/term"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the dependency cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached dependencies",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheList(cmd *cobra.Command, args []string) error {
	store, err := depcache.Open(settings.CacheFile())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	entries := store.Entries()
	if len(entries) == 0 {
		fmt.Fprintf(out, "No cached dependencies. Save one from %s.\n", term.Command("cmm add"))
		return nil
	}
	fmt.Fprintln(out, term.Label(store.Path()))
	for _, e := range entries {
		fmt.Fprintf(out, "%s\t%s\n", e.Name, term.Hint(e.Submodule.Repo))
	}
	return nil
}
