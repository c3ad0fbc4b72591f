package tms

// Version is the current release of the simulator.
var Version = "0.3.0"
