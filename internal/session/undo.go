package session

// UndoState is the queue state captured before a rating's effects are
// applied. Restoring it undoes the rating's local consequences verbatim;
// it makes no attempt to reverse the corresponding server write.
type UndoState struct {
	Cards    []PracticeCard `json:"cards"`
	Position int            `json:"position"`
	Revealed bool           `json:"revealed"`
	Reviewed int            `json:"reviewed"`
}

// snapshotStack is a fixed-depth stack of undo states. Depth 1 matches the
// single-level undo the session exposes; the stack shape leaves room to
// deepen it without touching the queue mechanics.
type snapshotStack struct {
	depth int
	items []UndoState
}

func newSnapshotStack(depth int) snapshotStack {
	if depth < 1 {
		depth = 1
	}
	return snapshotStack{depth: depth}
}

// push adds a state, evicting the oldest once the stack is full.
func (s *snapshotStack) push(u UndoState) {
	s.items = append(s.items, u)
	if len(s.items) > s.depth {
		s.items = s.items[len(s.items)-s.depth:]
	}
}

// pop removes and returns the most recent state.
func (s *snapshotStack) pop() (UndoState, bool) {
	if len(s.items) == 0 {
		return UndoState{}, false
	}
	u := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return u, true
}

// peek returns the most recent state without removing it.
func (s *snapshotStack) peek() (UndoState, bool) {
	if len(s.items) == 0 {
		return UndoState{}, false
	}
	return s.items[len(s.items)-1], true
}

func (s *snapshotStack) len() int {
	return len(s.items)
}
