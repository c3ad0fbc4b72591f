package tms_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/tms"
	"github.com/aretw0/tms/pkg/domain"
)

const flip = `# flips leading 1s to 0 and stops on the first 0
q0 1011
qH
q0 1 q0 0 right
q0 0 qH 1 stay
`

// ExampleLoadString steps a machine defined in memory until it halts.
func ExampleLoadString() {
	sim, err := tms.LoadString("flip", flip)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(domain.TapeString(sim.Tape()))
	for !sim.IsHalted() {
		if err := sim.Step(); err != nil {
			log.Fatal(err)
		}
		fmt.Println(domain.TapeString(sim.Tape()), sim.Head(), sim.State())
	}
	// Output:
	// 1011
	// 0011 1 q0
	// 0111 1 qH
}

// ExampleRunner prints the tape before the first step and after each step.
func ExampleRunner() {
	sim, err := tms.LoadString("flip", flip)
	if err != nil {
		log.Fatal(err)
	}

	res, err := tms.NewRunner(os.Stdout).Run(context.Background(), sim)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("halted:", res.Halted, "steps:", res.Steps)
	// Output:
	// 1011
	// 0011
	// 0111
	// halted: true steps: 2
}
