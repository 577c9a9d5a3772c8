package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/cmakemake/cmm/internal/errs"
	"github.com/cmakemake/cmm/internal/util/file"
	"github.com/rs/zerolog/log"
)

var errEmptyName = errors.New("project name must not be empty")

// Load reads the project document from dir.
func Load(dir string) (*Project, error) {
	path := filepath.Join(dir, FileName)
	if !file.Exists(path) {
		return nil, errs.WithPath(errs.NotAProjectDirectory, FileName, nil)
	}
	p, err := Parse(path, nil)
	if err != nil {
		return nil, errs.WithPath(errs.FileOpenOrParseFailed, path, err)
	}
	return p, nil
}

// Parse decodes a project document from data, or from path when data is nil.
// Decoding starts from Default, so each key missing from the document keeps
// its default value independently of its siblings. The default file rule is
// applied after decoding: toml would otherwise decode new groups into the
// default slice's backing array.
func Parse(path string, data []byte) (*Project, error) {
	if data == nil {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
	}

	p := Default()
	p.Build.Files = Files{}
	md, err := toml.Decode(string(data), p)
	if err != nil {
		return nil, err
	}
	for _, key := range md.Undecoded() {
		log.Warn().Str("file", path).Str("key", key.String()).Msg("ignoring unknown key")
	}
	p.normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Encode renders p as a TOML document with a stable field order.
func Encode(p *Project) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes p to dir atomically.
func Save(dir string, p *Project) error {
	data, err := Encode(p)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", FileName, err)
	}
	path := filepath.Join(dir, FileName)
	if err := file.WriteAtomic(path, data, 0o644); err != nil {
		return errs.WithPath(errs.FileCreationFailed, path, err)
	}
	return nil
}
