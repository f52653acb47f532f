package compile

import "fmt"

// State is a step of the assembler. Per-curve states repeat once per curve.
type State int

const (
	Uninitialized State = iota
	Preamble
	Retract  // per curve: climb to safe height
	Approach // per curve: rapid to the curve start
	Plunge   // per curve: descend to working depth
	Cut      // per curve: walk the curve
	Postamble
	Done
	Aborted
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Preamble:
		return "preamble"
	case Retract:
		return "retract"
	case Approach:
		return "approach"
	case Plunge:
		return "plunge"
	case Cut:
		return "cut"
	case Postamble:
		return "postamble"
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Done || s == Aborted
}

// next lists the legal successors of each state. Aborted is reachable from
// every non-terminal state and is not listed.
var next = map[State][]State{
	Uninitialized: {Preamble},
	Preamble:      {Retract, Postamble},
	Retract:       {Approach},
	Approach:      {Plunge},
	Plunge:        {Cut},
	Cut:           {Retract, Postamble},
	Postamble:     {Done},
}

func canMove(from, to State) bool {
	if from.Terminal() {
		return false
	}
	if to == Aborted {
		return true
	}
	for _, s := range next[from] {
		if s == to {
			return true
		}
	}
	return false
}
