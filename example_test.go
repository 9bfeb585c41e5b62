package automata_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/automata"
	"github.com/aretw0/automata/pkg/adapters/memory"
	"github.com/aretw0/automata/pkg/format"
)

// ExampleEngine_Check loads an automaton from the tabular format and evaluates an input.
func ExampleEngine_Check() {
	ctx := context.Background()
	eng := automata.New(automata.WithStore(memory.NewStore()))

	a, err := format.Parse([]byte(`q1, q2
0, 1
q1
q2
q1, 0, q1
q1, 1, q2
q2, 0, q1
q2, 1, q2
`))
	if err != nil {
		log.Fatal(err)
	}
	if err := eng.Put(ctx, "ends-in-one", a); err != nil {
		log.Fatal(err)
	}

	res, err := eng.Check(ctx, "ends-in-one", "0101")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Accepted, res.Trace)

	_, err = eng.Check(ctx, "ends-in-one", "012")
	fmt.Println(err)

	// Output:
	// true [q1 q1 q2 q1 q2]
	// undefined transition: state "q2" has no entry for symbol "2"
}

// Example_pretty shows the human-readable rendering.
func Example_pretty() {
	a, err := format.Parse([]byte("s\na, b\ns\ns\ns, a, s\ns, b, s\n"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(format.Pretty(a))

	// Output:
	// States: s
	// Alphabet: a, b
	// Start: s
	// Accept(s): s
	// Transitions:
	// (s, a) -> s
	// (s, b) -> s
}
