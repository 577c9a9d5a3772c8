// Package env resolves the tool's own settings: where the dependency cache
// lives and which external executables to run.
package env

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	envHome      = "CMM_HOME"
	envGit       = "CMM_GIT"
	envCMake     = "CMM_CMAKE"
	envBuildDir  = "CMM_BUILD_DIR"
	envGenerator = "CMM_GENERATOR"
)

const cacheFileName = "dependencies.yaml"

// Settings are the resolved tool settings for one invocation.
type Settings struct {
	Home      string // directory holding the dependency cache
	Git       string // git executable
	CMake     string // cmake executable
	BuildDir  string // cmake binary directory, relative to the project root
	Generator string // cmake generator, empty for cmake's default
}

// CacheFile returns the dependency cache document path.
func (s Settings) CacheFile() string {
	return filepath.Join(s.Home, cacheFileName)
}

// Load reads an optional .env file from the working directory and resolves
// Settings from the environment, falling back to defaults.
func Load() (Settings, error) {
	_ = godotenv.Load()

	home := lookup(envHome)
	if home == "" {
		dir, err := WorkDir()
		if err != nil {
			return Settings{}, err
		}
		home = dir
	}
	return Settings{
		Home:      home,
		Git:       firstNonEmpty(lookup(envGit), "git"),
		CMake:     firstNonEmpty(lookup(envCMake), "cmake"),
		BuildDir:  firstNonEmpty(lookup(envBuildDir), "build"),
		Generator: lookup(envGenerator),
	}, nil
}

// WorkDir returns the default per-user directory, <UserCacheDir>/.cmakemake.
func WorkDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, ".cmakemake"), nil
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
