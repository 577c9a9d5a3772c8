// Package prompt asks the user for the values the interactive commands need.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cmakemake/cmm/internal/term"
)

// ErrCancelled is returned when input ends before an answer was given.
var ErrCancelled = errors.New("prompt cancelled")

// Prompter asks questions and returns validated answers.
type Prompter interface {
	// Text asks for a line of text. An empty answer yields def.
	Text(label, def string) (string, error)

	// Confirm asks a yes/no question. An empty answer yields def.
	Confirm(label string, def bool) (bool, error)

	// Select asks for exactly one of options and returns its index.
	Select(label string, options []string) (int, error)

	// MultiSelect asks for any number of options and returns their
	// indices in ascending order.
	MultiSelect(label string, options []string) ([]int, error)
}

// Lines collects answers to label until an empty one or the end of input.
func Lines(p Prompter, label string) ([]string, error) {
	var lines []string
	for {
		line, err := p.Text(label, "")
		if errors.Is(err, ErrCancelled) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
		if line == "" {
			return lines, nil
		}
		lines = append(lines, line)
	}
}

// Required asks for text until a non-empty answer is given.
func Required(p Prompter, label, def string) (string, error) {
	for {
		v, err := p.Text(label, def)
		if err != nil || v != "" {
			return v, err
		}
	}
}

// Terminal is a line-oriented Prompter reading answers from in.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal returns a Prompter that writes questions to out and reads
// answers from in.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", ErrCancelled
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) Text(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(t.out, "%s %s ", term.Label(label), term.Hint("("+def+")"))
	} else {
		fmt.Fprintf(t.out, "%s ", term.Label(label))
	}
	v, err := t.readLine()
	if err != nil {
		return "", err
	}
	if v == "" {
		return def, nil
	}
	return v, nil
}

func (t *Terminal) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(t.out, "%s %s ", term.Label(label), term.Hint("("+hint+")"))
		v, err := t.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(v) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(t.out, term.Hint("answer y or n"))
	}
}

func (t *Terminal) printOptions(label string, options []string) {
	fmt.Fprintln(t.out, term.Label(label))
	for i, o := range options {
		fmt.Fprintf(t.out, "  %s %s\n", term.Hint(strconv.Itoa(i+1)+")"), o)
	}
}

func (t *Terminal) Select(label string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, errors.New("no options to select from")
	}
	t.printOptions(label, options)
	for {
		fmt.Fprint(t.out, "> ")
		v, err := t.readLine()
		if err != nil {
			return -1, err
		}
		if i, ok := choice(v, len(options)); ok {
			return i, nil
		}
		fmt.Fprintf(t.out, "%s\n", term.Hint(fmt.Sprintf("enter a number between 1 and %d", len(options))))
	}
}

func (t *Terminal) MultiSelect(label string, options []string) ([]int, error) {
	t.printOptions(label, options)
	fmt.Fprintln(t.out, term.Hint("numbers separated by spaces or commas, empty for none"))
	for {
		fmt.Fprint(t.out, "> ")
		v, err := t.readLine()
		if err != nil {
			return nil, err
		}
		if picked, ok := choices(v, len(options)); ok {
			return picked, nil
		}
		fmt.Fprintf(t.out, "%s\n", term.Hint(fmt.Sprintf("enter numbers between 1 and %d", len(options))))
	}
}

// choice parses a 1-based option number into an index.
func choice(s string, n int) (int, bool) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 || i > n {
		return -1, false
	}
	return i - 1, true
}

// choices parses a list of option numbers into sorted, distinct indices.
func choices(s string, n int) ([]int, bool) {
	seen := make([]bool, n)
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
		i, ok := choice(f, n)
		if !ok {
			return nil, false
		}
		seen[i] = true
	}
	picked := []int{}
	for i, ok := range seen {
		if ok {
			picked = append(picked, i)
		}
	}
	return picked, true
}
