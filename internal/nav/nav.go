// Package nav owns the navigation cursor and turns user actions into
// fetch targets.
package nav

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrEmptyQuery = errors.New("empty query")
	ErrOutOfRange = errors.New("id out of range")
)

// Target is what the next fetch asks for: an id or a lowercase name.
type Target struct {
	ID   int
	Name string
}

// Key is the lookup key sent to the gateway.
func (t Target) Key() string {
	if t.Name != "" {
		return t.Name
	}
	return strconv.Itoa(t.ID)
}

func (t Target) String() string { return t.Key() }

// Navigator holds the cursor (id on screen, 0 before the first success)
// and the id of a pending numeric request, if any.
type Navigator struct {
	maxID   int
	cursor  int
	pending int
}

// New returns a navigator bounded to [1, maxID].
func New(maxID int) *Navigator {
	if maxID < 1 {
		maxID = 1
	}
	return &Navigator{maxID: maxID}
}

func (n *Navigator) MaxID() int  { return n.maxID }
func (n *Navigator) Cursor() int { return n.cursor }

// Defined reports whether a record has been displayed yet.
func (n *Navigator) Defined() bool { return n.cursor != 0 }

func (n *Navigator) base() int {
	if n.pending != 0 {
		return n.pending
	}
	return n.cursor
}

// CanPrev and CanNext drive control state; both are false at the bounds.
func (n *Navigator) CanPrev() bool { return n.base() > 1 }
func (n *Navigator) CanNext() bool { b := n.base(); return b != 0 && b < n.maxID }

// Prev returns the previous id. ok is false at 1 or before anything was shown.
func (n *Navigator) Prev() (Target, bool) {
	if !n.CanPrev() {
		return Target{}, false
	}
	return Target{ID: n.base() - 1}, true
}

// Next returns the next id. ok is false at maxID or before anything was shown.
func (n *Navigator) Next() (Target, bool) {
	if !n.CanNext() {
		return Target{}, false
	}
	return Target{ID: n.base() + 1}, true
}

// Current re-targets the record on screen.
func (n *Navigator) Current() (Target, bool) {
	if n.cursor == 0 {
		return Target{}, false
	}
	return Target{ID: n.cursor}, true
}

// Parse turns search input into a target. Numbers are ids and must be in
// range; anything else is a case-insensitive name.
func (n *Navigator) Parse(query string) (Target, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	q = strings.TrimPrefix(q, "#")
	if q == "" {
		return Target{}, ErrEmptyQuery
	}
	if id, err := strconv.Atoi(q); err == nil {
		if id < 1 || id > n.maxID {
			return Target{}, fmt.Errorf("%w: %d not in [1, %d]", ErrOutOfRange, id, n.maxID)
		}
		return Target{ID: id}, nil
	}
	return Target{Name: q}, nil
}

// MarkPending records the id an in-flight request is heading to.
// Name targets clear it since their id is unknown until resolved.
func (n *Navigator) MarkPending(t Target) { n.pending = t.ID }

// Commit moves the cursor to the id the gateway returned.
func (n *Navigator) Commit(id int) {
	n.pending = 0
	if id >= 1 && id <= n.maxID {
		n.cursor = id
	}
}

// Abort drops the pending id and leaves the cursor where it was.
func (n *Navigator) Abort() { n.pending = 0 }
