// Package generator builds random automata and input strings for tests and
// experiments. All randomness comes from the *rand.Rand held by a Generator,
// so a seed fully determines the output.
package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/aretw0/automata/pkg/domain"
)

// UniversalAlphabet is the pool alphabets are drawn from, as a prefix.
const UniversalAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// ErrInvalidLimits is returned when Limits cannot produce an automaton.
var ErrInvalidLimits = errors.New("invalid generator limits")

// Limits bounds the size of generated automata. Each bound is an upper limit;
// the actual size is drawn uniformly from 1..limit.
type Limits struct {
	Alphabet int // capped at len(UniversalAlphabet)
	States   int
	Accepts  int // must not exceed States
}

// Validate checks that the limits are usable.
func (l Limits) Validate() error {
	switch {
	case l.Alphabet < 1:
		return fmt.Errorf("%w: alphabet limit %d", ErrInvalidLimits, l.Alphabet)
	case l.States < 1:
		return fmt.Errorf("%w: state limit %d", ErrInvalidLimits, l.States)
	case l.Accepts < 0 || l.Accepts > l.States:
		return fmt.Errorf("%w: accept limit %d with state limit %d", ErrInvalidLimits, l.Accepts, l.States)
	}
	return nil
}

// Generator produces random automata from an explicit source.
type Generator struct {
	rnd *rand.Rand
}

// New returns a generator seeded with seed.
func New(seed uint64) *Generator {
	return NewFromRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// NewFromRand wraps an existing source.
func NewFromRand(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Automaton returns a random automaton with a total transition table.
// States are labelled q_0..q_{n-1}, q_0 is the start state, and the accept
// set is a random sample of min(limits.Accepts, n) states.
func (g *Generator) Automaton(limits Limits) (*domain.Automaton, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}

	alphabetSize := min(limits.Alphabet, len(UniversalAlphabet))
	alphabetSize = 1 + g.rnd.IntN(alphabetSize)
	alphabet := domain.Symbols(UniversalAlphabet[:alphabetSize])

	n := 1 + g.rnd.IntN(limits.States)
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("q_%d", i)
	}

	states := make([]*domain.State, 0, n)
	for _, label := range labels {
		transitions := make([]domain.Transition, 0, len(alphabet))
		for _, sym := range alphabet {
			transitions = append(transitions, domain.Transition{Symbol: sym, To: labels[g.rnd.IntN(n)]})
		}
		s, err := domain.NewState(label, transitions...)
		if err != nil {
			return nil, err
		}
		states = append(states, s)
	}

	k := min(limits.Accepts, n)
	accepts := make([]string, 0, k)
	for _, i := range g.rnd.Perm(n)[:k] {
		accepts = append(accepts, labels[i])
	}

	return domain.New(states, alphabet, labels[0], accepts)
}

// String returns a random string of length n over alphabet.
func (g *Generator) String(alphabet []domain.Symbol, n int) string {
	if len(alphabet) == 0 || n <= 0 {
		return ""
	}
	out := make([]rune, n)
	for i := range out {
		out[i] = rune(alphabet[g.rnd.IntN(len(alphabet))])
	}
	return string(out)
}

// Case is a generated automaton with an input over its alphabet.
type Case struct {
	Automaton *domain.Automaton
	Input     string
}

// Cases generates count automata, each paired with an input of length
// 1..maxLen drawn from the automaton's own alphabet.
func (g *Generator) Cases(count int, limits Limits, maxLen int) ([]Case, error) {
	if maxLen < 1 {
		return nil, fmt.Errorf("%w: max input length %d", ErrInvalidLimits, maxLen)
	}
	out := make([]Case, 0, count)
	for i := 0; i < count; i++ {
		a, err := g.Automaton(limits)
		if err != nil {
			return nil, err
		}
		out = append(out, Case{Automaton: a, Input: g.String(a.Alphabet(), 1+g.rnd.IntN(maxLen))})
	}
	return out, nil
}
