package domain

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on a client.
type SnapshotDiff struct {
	State  *string `json:"state,omitempty"`
	Head   *int    `json:"head,omitempty"`
	Halted *bool   `json:"halted,omitempty"`

	// Length is set when the tape grew or shrank. Cells past it are gone.
	Length *int `json:"length,omitempty"`

	// Cells maps changed (or appended) tape indexes to their new symbol.
	Cells map[int]Symbol `json:"cells,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, the diff describes the entire newSnap.
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}
	if oldSnap == nil {
		oldSnap = &Snapshot{Head: -1}
	}

	d := &SnapshotDiff{}
	changed := false

	if oldSnap.State != newSnap.State {
		s := newSnap.State
		d.State = &s
		changed = true
	}
	if oldSnap.Head != newSnap.Head {
		h := newSnap.Head
		d.Head = &h
		changed = true
	}
	if oldSnap.Halted != newSnap.Halted {
		h := newSnap.Halted
		d.Halted = &h
		changed = true
	}

	oldTape := []rune(oldSnap.Tape)
	newTape := []rune(newSnap.Tape)
	if len(oldTape) != len(newTape) {
		n := len(newTape)
		d.Length = &n
		changed = true
	}
	for i, r := range newTape {
		if i < len(oldTape) && oldTape[i] == r {
			continue
		}
		if d.Cells == nil {
			d.Cells = make(map[int]Symbol)
		}
		d.Cells[i] = Symbol(r)
		changed = true
	}

	if !changed {
		return nil
	}
	return d
}
