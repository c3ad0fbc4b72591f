package domain

// DefaultBlank is the symbol written when the head moves past the right end of the tape.
const DefaultBlank Symbol = '_'

// Direction literals used by the configuration format.
const (
	KeyLeft  = "left"
	KeyRight = "right"
	KeyStay  = "stay"
)
