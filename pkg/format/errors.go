package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/automata/pkg/domain"
)

// ErrBlockCount is returned by Parse when the input does not hold exactly one automaton.
var ErrBlockCount = errors.New("expected exactly one automaton")

// MalformedHeaderError reports a problem in the four header lines of a block.
// Err carries the domain error when construction rejected the header.
type MalformedHeaderError struct {
	Line   int // 1-based line number in the source stream
	Reason string
	Err    error
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("line %d: malformed header: %s", e.Line, e.Reason)
}

func (e *MalformedHeaderError) Unwrap() error {
	return e.Err
}

// TransitionCountMismatchError reports a block whose transition section does not
// hold exactly |states| x |alphabet| lines.
type TransitionCountMismatchError struct {
	Line int // line where the block ended
	Want int
	Got  int
}

func (e *TransitionCountMismatchError) Error() string {
	return fmt.Sprintf("line %d: expected %d transition lines, found %d", e.Line, e.Want, e.Got)
}

// TransitionLineFormatError reports a transition line that cannot be used.
type TransitionLineFormatError struct {
	Line   int
	Text   string
	Reason string
}

func (e *TransitionLineFormatError) Error() string {
	return fmt.Sprintf("line %d: bad transition %q: %s", e.Line, e.Text, e.Reason)
}

// BlockError locates a parse failure within a multi-automaton stream.
type BlockError struct {
	Index int // 0-based position of the block among non-empty blocks
	Line  int // first line of the block
	Err   error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("automaton %d (line %d): %v", e.Index, e.Line, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}

// ErrNotTabular matches any *UnrepresentableError via errors.Is.
var ErrNotTabular = errors.New("automaton cannot be written in the tabular format")

// UnrepresentableError reports an automaton whose table the tabular format
// cannot hold: every state must map every alphabet symbol and nothing else.
type UnrepresentableError struct {
	Missing     []domain.MissingTransition
	OffAlphabet []domain.MissingTransition
}

func (e *UnrepresentableError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("%d missing transitions, first (%s, %s)",
			len(e.Missing), e.Missing[0].State, e.Missing[0].Symbol))
	}
	if len(e.OffAlphabet) > 0 {
		parts = append(parts, fmt.Sprintf("%d transitions outside the alphabet, first (%s, %s)",
			len(e.OffAlphabet), e.OffAlphabet[0].State, e.OffAlphabet[0].Symbol))
	}
	return ErrNotTabular.Error() + ": " + strings.Join(parts, "; ")
}

// Is reports whether target is ErrNotTabular.
func (e *UnrepresentableError) Is(target error) bool {
	return target == ErrNotTabular
}

// CheckTabular returns an *UnrepresentableError when Marshal(a) would not
// parse back: partial tables and off-alphabet entries.
func CheckTabular(a *domain.Automaton) error {
	var off []domain.MissingTransition
	for _, s := range a.States() {
		for _, t := range s.Transitions() {
			if !a.HasSymbol(t.Symbol) {
				off = append(off, domain.MissingTransition{State: s.Label(), Symbol: t.Symbol})
			}
		}
	}
	missing := a.Missing()
	if len(missing) == 0 && len(off) == 0 {
		return nil
	}
	return &UnrepresentableError{Missing: missing, OffAlphabet: off}
}
