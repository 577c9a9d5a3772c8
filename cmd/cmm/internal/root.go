package internal

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cmakemake/cmm/internal/config"
	"github.com/cmakemake/cmm/internal/env"
	"github.com/cmakemake/cmm/internal/errs"
	"github.com/cmakemake/cmm/internal/term"
)

var (
	verbose  bool
	settings env.Settings
)

var rootCmd = &cobra.Command{
	Use:   "cmm",
	Short: "cmm is a C++ project setup tool",
	Long: `cmm creates C++ projects, manages their dependencies in CMakeMake.toml
and generates the CMakeLists.txt that builds them.`,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// setup runs after argument validation, so usage is only printed for
// argument errors.
func setup(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	s, err := env.Load()
	if err != nil {
		return err
	}
	settings = s
	log.Debug().
		Str("home", s.Home).
		Str("git", s.Git).
		Str("cmake", s.CMake).
		Str("build_dir", s.BuildDir).
		Msg("settings")
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		term.Error(os.Stderr, err)
		os.Exit(1)
	}
}

// loadProject loads the project document of the working directory.
func loadProject() (string, *config.Project, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", nil, err
	}
	p, err := config.Load(dir)
	if err != nil {
		return "", nil, err
	}
	return dir, p, nil
}

// optionalArg accepts no arguments or exactly the keyword word.
func optionalArg(word string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		for i, arg := range args {
			if i > 0 || arg != word {
				return errs.Unrecognized(arg)
			}
		}
		return nil
	}
}
