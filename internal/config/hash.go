package config

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Hash returns a content hash of the whole document. The encoding is
// order-sensitive: reordering dependencies or variables changes the hash.
func (p *Project) Hash() uint64 {
	h := &hasher{d: xxhash.New()}
	h.project(p)
	return h.d.Sum64()
}

// hasher writes a canonical byte stream: every value carries a type tag,
// strings are length-prefixed and sequences count-prefixed, so distinct
// documents never share an encoding.
type hasher struct {
	d   *xxhash.Digest
	buf [9]byte
}

const (
	tagUint byte = iota + 1
	tagString
	tagBool
	tagFloat
	tagList
	tagNil
)

func (h *hasher) uint(tag byte, v uint64) {
	h.buf[0] = tag
	binary.LittleEndian.PutUint64(h.buf[1:], v)
	h.d.Write(h.buf[:])
}

func (h *hasher) str(s string) {
	h.uint(tagString, uint64(len(s)))
	h.d.WriteString(s)
}

func (h *hasher) bool(b bool) {
	var v uint64
	if b {
		v = 1
	}
	h.uint(tagBool, v)
}

func (h *hasher) float(f OrderedFloat) { h.uint(tagFloat, f.Bits()) }

func (h *hasher) list(n int) { h.uint(tagList, uint64(n)) }

func (h *hasher) strs(ss []string) {
	h.list(len(ss))
	for _, s := range ss {
		h.str(s)
	}
}

func (h *hasher) project(p *Project) {
	h.str(p.Project.Name)
	h.float(p.Project.Version)
	h.float(p.Build.MinimumToolVersion)
	h.files(&p.Build.Files)

	deps := &p.Dependencies
	h.list(len(deps.Located))
	for _, dep := range deps.Located {
		h.str(dep.Name)
		h.bool(dep.Required)
		h.str(dep.LinkName)
	}
	h.list(len(deps.Local))
	for i := range deps.Local {
		h.local(&deps.Local[i])
	}
	h.list(len(deps.FetchContent))
	for _, dep := range deps.FetchContent {
		h.str(dep.Name)
		h.str(dep.Repo)
		h.str(dep.Tag)
		h.str(dep.Branch)
		h.vars(dep.Variables)
	}
	h.strs(deps.ProjectDependencies)
}

func (h *hasher) local(dep *LocalDependency) {
	h.str(dep.Path)
	h.str(dep.Name)
	h.uint(tagUint, uint64(dep.Kind))
	if dep.Source == nil {
		h.uint(tagNil, 0)
	} else {
		h.files(&dep.Source.Files)
		h.strs(dep.Source.LinkAgainst)
	}
	h.vars(dep.Variables)
}

func (h *hasher) vars(vars []Variable) {
	h.list(len(vars))
	for _, v := range vars {
		h.str(v.Name)
		h.str(v.Value)
	}
}

func (h *hasher) files(f *Files) {
	h.list(len(f.SourceFiles))
	for _, g := range f.SourceFiles {
		h.uint(tagUint, uint64(g.Mode))
		h.strs(g.Paths)
	}
	h.list(len(f.IncludeDirs))
	for _, g := range f.IncludeDirs {
		h.uint(tagUint, uint64(g.Visibility))
		h.strs(g.Paths)
	}
	h.strs(f.ExcludeFiles)
}
