// Package order contains the pure business logic for work orders.
// This is part of the Functional Core - no I/O, only pure functions.
package order

import (
	"fmt"
	"strings"
)

// Status is the wire value of a work order's lifecycle state.
// The backend stores the human-readable label verbatim.
type Status string

const (
	StatusNew             Status = "Pendiente de asignación"
	StatusInProgress      Status = "En proceso"
	StatusDoneWaitingSign Status = "Finalizada (pendiente firma)"
	StatusClosed          Status = "Cerrada con PDF"
)

// Statuses lists every status in forward lifecycle order.
var Statuses = []Status{StatusNew, StatusInProgress, StatusDoneWaitingSign, StatusClosed}

var statusKeys = map[Status]string{
	StatusNew:             "NEW",
	StatusInProgress:      "IN_PROGRESS",
	StatusDoneWaitingSign: "DONE_WAITING_SIGN",
	StatusClosed:          "CLOSED",
}

// transitions is the allow-list of lifecycle moves.
// A status that maps to itself can be re-applied (re-save, re-issue report).
var transitions = map[Status][]Status{
	StatusNew:             {StatusInProgress},
	StatusInProgress:      {StatusDoneWaitingSign, StatusClosed},
	StatusDoneWaitingSign: {StatusDoneWaitingSign, StatusClosed},
	StatusClosed:          {StatusClosed},
}

// Key returns the symbolic name of the status (NEW, IN_PROGRESS, ...).
func (s Status) Key() string {
	if k, ok := statusKeys[s]; ok {
		return k
	}
	return string(s)
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	_, ok := statusKeys[s]
	return ok
}

// Rank returns the position of the status in the lifecycle, or -1 if unknown.
func (s Status) Rank() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

// ParseStatus accepts a symbolic key (case-insensitive, "-" or "_") or the wire label.
func ParseStatus(v string) (Status, error) {
	v = strings.TrimSpace(v)
	for _, st := range Statuses {
		if v == string(st) {
			return st, nil
		}
	}
	norm := strings.ToUpper(strings.ReplaceAll(v, "-", "_"))
	for st, key := range statusKeys {
		if key == norm {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (expected one of NEW, IN_PROGRESS, DONE_WAITING_SIGN, CLOSED)", v)
}

// CanTransition reports whether the lifecycle allows moving from -> to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s.
func NextStatuses(s Status) []Status {
	out := make([]Status, len(transitions[s]))
	copy(out, transitions[s])
	return out
}
