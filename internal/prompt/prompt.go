// Package prompt asks the operator questions on a terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// ErrNotAValidChoice is returned when an answer is not one of the choices.
var ErrNotAValidChoice = errors.New("not a valid choice")

// Console reads answers line by line from in and writes questions to out.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole returns a Console.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// IsAffirmative reports whether answer means yes.
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// Confirm asks a yes/no question. An empty answer means yes.
func (c *Console) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := c.ask(ctx, question+" [Y/n]: ")
	if err != nil {
		return false, err
	}
	if answer == "" {
		return true, nil
	}
	return IsAffirmative(answer), nil
}

// Ask asks for free text. An empty answer returns def.
func (c *Console) Ask(ctx context.Context, question, def string) (string, error) {
	q := question + ": "
	if def != "" {
		q = fmt.Sprintf("%s (%s): ", question, def)
	}
	answer, err := c.ask(ctx, q)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Choose asks until the answer is one of choices. An empty answer returns def.
func (c *Console) Choose(ctx context.Context, question string, choices []string, def string) (string, error) {
	q := fmt.Sprintf("%s [%s]", question, strings.Join(choices, "/"))
	for {
		answer, err := c.Ask(ctx, q, def)
		if err != nil {
			return "", err
		}
		if slices.Contains(choices, answer) {
			return answer, nil
		}
		fmt.Fprintf(c.out, "Please select one of the available options\n")
	}
}

func (c *Console) ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(c.out, question)
	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
