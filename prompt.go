package raffle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
)

// Prompter asks the operator for values on a line-oriented input.
// Invalid answers are explained and asked again; end of input or "q" aborts.
type Prompter struct {
	scanner     *bufio.Scanner
	out         io.Writer
	interactive bool
}

// NewPrompter reads answers from in and writes prompts to out. Prompts are
// only printed when in is a terminal, so piped answers produce clean output.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	interactive := false
	if f, ok := in.(*os.File); ok {
		fd := f.Fd()
		interactive = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return &Prompter{
		scanner:     bufio.NewScanner(in),
		out:         out,
		interactive: interactive,
	}
}

// SetInteractive forces prompt printing on or off
func (p *Prompter) SetInteractive(interactive bool) { p.interactive = interactive }

// Interactive reports whether prompts are printed
func (p *Prompter) Interactive() bool { return p.interactive }

// PromptFor asks until parse accepts the trimmed answer. A parse error's
// message is shown to the operator before asking again.
func PromptFor[T any](p *Prompter, prompt string, parse func(string) (T, error)) (T, error) {
	var zero T
	for {
		if p.interactive {
			fmt.Fprint(p.out, prompt)
		}
		if !p.scanner.Scan() {
			if err := p.scanner.Err(); err != nil {
				return zero, ErrInputAborted.New().WithCause(err)
			}
			return zero, ErrInputAborted.New().WithDetails("end of input")
		}

		answer := strings.TrimSpace(p.scanner.Text())
		if strings.EqualFold(answer, "q") {
			return zero, ErrInputAborted.New().WithDetails("quit")
		}

		v, err := parse(answer)
		if err == nil {
			return v, nil
		}
		fmt.Fprintln(p.out, err.Error())
	}
}

type promptError string

func (e promptError) Error() string { return string(e) }

// AskString asks for a non-empty UTF-8 value
func (p *Prompter) AskString(prompt string) (string, error) {
	return PromptFor(p, prompt, func(s string) (string, error) {
		switch {
		case s == "":
			return "", promptError("A value is required.")
		case !utf8.ValidString(s):
			return "", promptError("Input is not valid UTF-8.")
		}
		return s, nil
	})
}

// AskText asks for a UTF-8 value that may be empty. A base seed is an
// arbitrary string, so an empty answer is a valid one.
func (p *Prompter) AskText(prompt string) (string, error) {
	return PromptFor(p, prompt, func(s string) (string, error) {
		if !utf8.ValidString(s) {
			return "", promptError("Input is not valid UTF-8.")
		}
		return s, nil
	})
}

// AskWinnerCount asks for a positive whole number. max is shown as a hint;
// larger answers are accepted and clamped by Verify.
func (p *Prompter) AskWinnerCount(max int) (int, error) {
	prompt := "Enter the Number of Winners announced for the draw: "
	if max > 0 {
		prompt = fmt.Sprintf("Enter the Number of Winners announced for the draw (max %d): ", max)
	}
	return PromptFor(p, prompt, func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, promptError("Invalid input. Please enter a whole number.")
		}
		if n <= 0 {
			return 0, promptError("Number of winners must be positive.")
		}
		return n, nil
	})
}
