package batch

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Expectation is one expected result and the input it applies to.
type Expectation struct {
	Line     int
	Expected bool
	Input    string
}

// ResultLiteralError is returned when a result literal is neither True nor False.
type ResultLiteralError struct {
	Literal string
}

func (e *ResultLiteralError) Error() string {
	return fmt.Sprintf("invalid result literal %q: want True or False", e.Literal)
}

// ExpectationLineError reports an expectations line that cannot be split or parsed.
type ExpectationLineError struct {
	Line int
	Text string
	Err  error
}

func (e *ExpectationLineError) Error() string {
	return fmt.Sprintf("expectations line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ExpectationLineError) Unwrap() error {
	return e.Err
}

// ParseResult parses the literal True or False. Anything else, including other
// spellings such as "true" or "1", is a *ResultLiteralError.
func ParseResult(literal string) (bool, error) {
	switch literal {
	case "True":
		return true, nil
	case "False":
		return false, nil
	default:
		return false, &ResultLiteralError{Literal: literal}
	}
}

// FormatResult renders b as the literal ParseResult accepts.
func FormatResult(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// ParseExpectations reads one expectation per non-blank line of r.
func ParseExpectations(r io.Reader) ([]Expectation, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []Expectation
	num := 0
	for scanner.Scan() {
		num++
		text := scanner.Text()
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) > 2 {
			return nil, &ExpectationLineError{Line: num, Text: text, Err: fmt.Errorf("want 2 fields, got %d", len(fields))}
		}
		expected, err := ParseResult(fields[0])
		if err != nil {
			return nil, &ExpectationLineError{Line: num, Text: text, Err: err}
		}
		exp := Expectation{Line: num, Expected: expected}
		if len(fields) == 2 {
			exp.Input = fields[1]
		}
		out = append(out, exp)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expectations: %w", err)
	}
	return out, nil
}

// FormatExpectations renders expectations in the form ParseExpectations reads.
func FormatExpectations(w io.Writer, expectations []Expectation) error {
	for _, e := range expectations {
		line := FormatResult(e.Expected)
		if e.Input != "" {
			line += " " + e.Input
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
