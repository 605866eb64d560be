package book

import (
	"github.com/go-data-exporter/bookexport/exporterr"
)

// State is the position of a Book in its write sequence.
type State int

const (
	Empty State = iota
	HeaderWritten
	Appending
	Finalized
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case HeaderWritten:
		return "header-written"
	case Appending:
		return "appending"
	case Finalized:
		return "finalized"
	}
	return "unknown"
}

// Op is a Book operation subject to the lifecycle.
type Op int

const (
	OpSetColumns Op = iota
	OpAddRows
	OpFinalize
)

func (o Op) String() string {
	switch o {
	case OpSetColumns:
		return "SetColumns"
	case OpAddRows:
		return "AddRows"
	case OpFinalize:
		return "Finalize"
	}
	return "unknown"
}

// Transition returns the state reached by applying op in state s.
func Transition(s State, op Op) (State, error) {
	if s == Finalized {
		return s, exporterr.ErrBookFinalized
	}
	switch op {
	case OpSetColumns:
		if s != Empty {
			return s, exporterr.ErrInvalidState
		}
		return HeaderWritten, nil
	case OpAddRows:
		if s == Empty {
			return s, exporterr.ErrInvalidState
		}
		return Appending, nil
	case OpFinalize:
		if s == Empty {
			return s, exporterr.ErrInvalidState
		}
		return Finalized, nil
	}
	return s, exporterr.ErrInvalidState
}

// Lifecycle tracks the State of one Book.
type Lifecycle struct {
	Component string
	state     State
}

// Check reports whether op is allowed now without changing state.
func (l *Lifecycle) Check(op Op) error {
	if _, err := Transition(l.state, op); err != nil {
		return exporterr.New(l.Component, op.String(), "", err)
	}
	return nil
}

// Advance applies op.
func (l *Lifecycle) Advance(op Op) error {
	next, err := Transition(l.state, op)
	if err != nil {
		return exporterr.New(l.Component, op.String(), "", err)
	}
	l.state = next
	return nil
}

// State returns the current state.
func (l *Lifecycle) State() State {
	return l.state
}
