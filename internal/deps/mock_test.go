package deps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmakemake/cmm/internal/prompt"
)

// gitCall records one invocation of mockGit.
type gitCall struct {
	op   string
	dir  string
	args []string
}

// mockGit implements vcs.Git for unit testing.
type mockGit struct {
	calls []gitCall
	tags  []string

	addErr      func(repo string) error
	updateErr   error
	checkoutErr error
	tagsErr     error
}

func (m *mockGit) Init(ctx context.Context, dir string) error {
	m.calls = append(m.calls, gitCall{op: "init", dir: dir})
	return nil
}

func (m *mockGit) SubmoduleAdd(ctx context.Context, dir, repo, path string) error {
	m.calls = append(m.calls, gitCall{op: "submodule add", dir: dir, args: []string{repo, path}})
	if m.addErr != nil {
		return m.addErr(repo)
	}
	return nil
}

func (m *mockGit) SubmoduleUpdate(ctx context.Context, dir string) error {
	m.calls = append(m.calls, gitCall{op: "submodule update", dir: dir})
	return m.updateErr
}

func (m *mockGit) Checkout(ctx context.Context, dir string, args ...string) error {
	m.calls = append(m.calls, gitCall{op: "checkout", dir: dir, args: args})
	return m.checkoutErr
}

func (m *mockGit) Tags(ctx context.Context, remote string) ([]string, error) {
	m.calls = append(m.calls, gitCall{op: "tags", args: []string{remote}})
	return m.tags, m.tagsErr
}

func (m *mockGit) ops() []string {
	ops := make([]string, len(m.calls))
	for i, c := range m.calls {
		ops[i] = c.op
	}
	return ops
}

// scriptedPrompter answers prompts from a fixed script. Text answers are
// strings, Confirm answers bools, Select answers ints and MultiSelect
// answers []int. An empty Text answer yields the default. Running out of
// answers cancels the prompt.
type scriptedPrompter struct {
	answers []any
	labels  []string
}

func script(answers ...any) *scriptedPrompter {
	return &scriptedPrompter{answers: answers}
}

func (s *scriptedPrompter) next(label string) (any, error) {
	s.labels = append(s.labels, label)
	if len(s.answers) == 0 {
		return nil, prompt.ErrCancelled
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *scriptedPrompter) Text(label, def string) (string, error) {
	a, err := s.next(label)
	if err != nil {
		return "", err
	}
	v, ok := a.(string)
	if !ok {
		return "", fmt.Errorf("%q: want string answer, got %T", label, a)
	}
	if v == "" {
		return def, nil
	}
	return v, nil
}

func (s *scriptedPrompter) Confirm(label string, def bool) (bool, error) {
	a, err := s.next(label)
	if err != nil {
		return false, err
	}
	v, ok := a.(bool)
	if !ok {
		return false, fmt.Errorf("%q: want bool answer, got %T", label, a)
	}
	return v, nil
}

func (s *scriptedPrompter) Select(label string, options []string) (int, error) {
	a, err := s.next(label)
	if err != nil {
		return -1, err
	}
	v, ok := a.(int)
	if !ok || v < 0 || v >= len(options) {
		return -1, fmt.Errorf("%q: bad select answer %v for %s", label, a, strings.Join(options, ", "))
	}
	return v, nil
}

func (s *scriptedPrompter) MultiSelect(label string, options []string) ([]int, error) {
	a, err := s.next(label)
	if err != nil {
		return nil, err
	}
	v, ok := a.([]int)
	if !ok {
		return nil, fmt.Errorf("%q: want []int answer, got %T", label, a)
	}
	return v, nil
}
