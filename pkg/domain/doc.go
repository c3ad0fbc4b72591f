/*
Package domain contains the core domain models of the TMS Turing machine simulator.

It defines the data of a single-tape machine: symbols, head directions, transition
instructions, the loaded Program and the read-only Snapshot handed to drivers.
This package is kept pure and free of I/O, so every driver (CLI, dashboard, HTTP,
MCP) shares the same vocabulary.

# Key Entities

  - Instruction: a rule mapping (state, symbol) to (new state, new symbol, movement).
  - Program: the result of loading a configuration (initial state, halt state, tape, rules).
  - Snapshot: an immutable copy of a running machine, safe to render or persist.
  - ConfigError / StepError: the two error families raised by loading and stepping.
*/
package domain
