package domain

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Symbol is a single character of an automaton's alphabet.
type Symbol rune

// String returns the symbol as a one-character string.
func (s Symbol) String() string {
	return string(s)
}

// ParseSymbol converts a token into a Symbol. The token must be exactly one rune.
func ParseSymbol(token string) (Symbol, error) {
	r, size := utf8.DecodeRuneInString(token)
	if size == 0 || size != len(token) || r == utf8.RuneError {
		return 0, fmt.Errorf("%w: %q must be a single character", ErrInvalidSymbol, token)
	}
	sym := Symbol(r)
	if err := sym.validate(); err != nil {
		return 0, err
	}
	return sym, nil
}

// Symbols splits a string into its runes.
func Symbols(s string) []Symbol {
	out := make([]Symbol, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		out = append(out, Symbol(r))
	}
	return out
}

func (s Symbol) validate() error {
	if s == ',' || unicode.IsSpace(rune(s)) || !utf8.ValidRune(rune(s)) {
		return fmt.Errorf("%w: %q", ErrInvalidSymbol, string(s))
	}
	return nil
}

// EmptySetToken stands for an empty accept set in the tabular format,
// since a blank line would end the block.
const EmptySetToken = "-"

func validateLabel(label string) error {
	switch {
	case label == "":
		return fmt.Errorf("%w: empty label", ErrInvalidLabel)
	case label == EmptySetToken:
		return fmt.Errorf("%w: %q is reserved", ErrInvalidLabel, label)
	case strings.TrimSpace(label) != label:
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidLabel, label)
	case strings.ContainsAny(label, ",\r\n"):
		return fmt.Errorf("%w: %q contains a separator", ErrInvalidLabel, label)
	}
	return nil
}
