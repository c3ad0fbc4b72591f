/*
Package tms is a single-tape Turing machine simulator.

A machine is described by a line-oriented text configuration: one line with the
initial state and the tape, one line with the halt state, and one line per
transition instruction. Comments start with '#'.

	# flips leading 1s to 0 and stops on the first 0
	q0 1011
	qH
	q0 1 q0 0 right
	q0 0 qH 1 stay

The Simulator applies the first instruction matching the current state and the
symbol under the head until the halt state is reached. The tape grows to the
right with a blank symbol ('_' by default); moving left from the first cell is a
TapeUnderflow error. Errors are values, never panics.

# Usage

	sim, err := tms.Load("flip.tm")
	if err != nil {
		log.Fatal(err)
	}

	for !sim.IsHalted() {
		if err := sim.Step(); err != nil {
			log.Println(err)
			break
		}
		fmt.Println(domain.TapeString(sim.Tape()))
	}

Drivers (the CLI batch loop, the interactive dashboard, the HTTP and MCP hosts)
only receive Snapshots, read-only copies of the machine.
*/
package tms
