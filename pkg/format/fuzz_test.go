package format_test

import (
	"strings"
	"testing"

	"github.com/aretw0/automata/pkg/format"
)

func FuzzParseAll(f *testing.F) {
	f.Add(endsInOne)
	f.Add("q1\n0\nq1\n-\nq1, 0, q1\n")
	f.Add("q1, q2\n0, 1\nq1\nq2\nq1, 0, q1\n")
	f.Add("\n\n")
	f.Add("a,b\nx\na\nb\na,x,b\nb,x,a\n\na\ny\na\na\na,y,a")

	f.Fuzz(func(t *testing.T, text string) {
		all, err := format.ParseAll(strings.NewReader(text))
		if err != nil {
			return // Rejected input is acceptable.
		}

		// Whatever parses must survive a round trip unchanged.
		again, err := format.ParseAll(strings.NewReader(string(format.MarshalAll(all))))
		if err != nil {
			t.Fatalf("re-parse failed: %v", err)
		}
		if len(again) != len(all) {
			t.Fatalf("got %d automata after round trip, want %d", len(again), len(all))
		}
		for i := range all {
			if !all[i].Equal(again[i]) {
				t.Fatalf("automaton %d changed after round trip", i)
			}
		}
	})
}
