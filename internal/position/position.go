// Package position provides the source position tag carried by every IR
// node. Positions exist purely for error reporting in the surrounding
// pipeline: the IR itself never consults them, and structural equality of
// expressions ignores them entirely.
package position

import "fmt"

// Position identifies a point in the original program together with an
// identifier assigned by the fact harvester. The zero value is the
// distinguished "unknown" position.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	ID     int // identifier assigned during fact extraction
}

// Unknown returns the distinguished unknown position.
func Unknown() Position {
	return Position{}
}

// New creates a position from a line, column, and extraction identifier.
func New(line, column, id int) Position {
	return Position{Line: line, Column: column, ID: id}
}

// IsKnown returns true unless the position is the unknown tag.
func (p Position) IsKnown() bool {
	return p != Position{}
}

// String returns a string representation of the position.
func (p Position) String() string {
	if !p.IsKnown() {
		return "?"
	}
	return fmt.Sprintf("%d:%d (%d)", p.Line, p.Column, p.ID)
}
