package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func terminal(input string) (*Terminal, *bytes.Buffer) {
	var out bytes.Buffer
	return NewTerminal(strings.NewReader(input), &out), &out
}

func TestText(t *testing.T) {
	tests := []struct {
		input string
		def   string
		want  string
	}{
		{"glfw\n", "", "glfw"},
		{"  spaced  \n", "", "spaced"},
		{"\n", "external", "external"},
		{"value", "", "value"},
	}
	for _, tt := range tests {
		p, _ := terminal(tt.input)
		got, err := p.Text("Name:", tt.def)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestTextCancelled(t *testing.T) {
	p, _ := terminal("")
	_, err := p.Text("Name:", "x")
	assert.True(t, errors.Is(err, ErrCancelled))
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		def   bool
		want  bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"maybe\nno\n", true, false},
	}
	for _, tt := range tests {
		p, _ := terminal(tt.input)
		got, err := p.Confirm("Continue?", tt.def)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestSelect(t *testing.T) {
	p, out := terminal("0\nfour\n2\n")
	got, err := p.Select("Choose:", []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.Contains(t, out.String(), "between 1 and 3")

	_, err = p.Select("Choose:", nil)
	assert.Error(t, err)
}

func TestMultiSelect(t *testing.T) {
	tests := []struct {
		input string
		want  []int
	}{
		{"\n", []int{}},
		{"3 1\n", []int{0, 2}},
		{"2,2, 1\n", []int{0, 1}},
		{"9\n1\n", []int{0}},
	}
	for _, tt := range tests {
		p, _ := terminal(tt.input)
		got, err := p.MultiSelect("Pick:", []string{"a", "b", "c"})
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestLines(t *testing.T) {
	p, _ := terminal("glfw\nOpenGL::GL\n\nignored\n")
	got, err := Lines(p, ">")
	require.NoError(t, err)
	assert.Equal(t, []string{"glfw", "OpenGL::GL"}, got)

	p, _ = terminal("only\n")
	got, err = Lines(p, ">")
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, got)
}

func TestRequired(t *testing.T) {
	p, _ := terminal("\n\nrepo\n")
	got, err := Required(p, "Repo:", "")
	require.NoError(t, err)
	assert.Equal(t, "repo", got)
}
