package cmakegen

import (
	"os"

	"github.com/cmakemake/cmm/internal/config"
	"github.com/cmakemake/cmm/internal/util/file"
)

// IsStale reports whether a script whose first line is firstLine must be
// regenerated for p. Only an exact "# <hash>" match is current.
func IsStale(firstLine string, p *config.Project) bool {
	return firstLine != HashLine(p)
}

// Stale reports whether the script at path must be regenerated for p.
// A missing script is stale.
func Stale(path string, p *config.Project) (bool, error) {
	first, err := file.FirstLine(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return IsStale(first, p), nil
}
