package dataset

import (
	"strconv"
	"strings"
	"time"
)

// CellKind discriminates the closed set of scalar types a cell can hold.
type CellKind int

const (
	KindNull CellKind = iota
	KindNumber
	KindText
	KindBool
	KindTime
)

// Cell is a tagged scalar value. Every cell in a Dataset is exactly one of
// number, text, boolean, time, or null; downstream statistics match on the
// kind instead of doing runtime type tests on interface{}.
type Cell struct {
	kind CellKind
	num  float64
	text string
	b    bool
	ts   time.Time
}

// Constructors

func Null() Cell                { return Cell{kind: KindNull} }
func Number(v float64) Cell     { return Cell{kind: KindNumber, num: v} }
func Text(s string) Cell        { return Cell{kind: KindText, text: s} }
func Bool(v bool) Cell          { return Cell{kind: KindBool, b: v} }
func TimeVal(t time.Time) Cell  { return Cell{kind: KindTime, ts: t} }

// Kind returns the cell's discriminator
func (c Cell) Kind() CellKind { return c.kind }

// IsNull reports whether the cell holds no value
func (c Cell) IsNull() bool { return c.kind == KindNull }

// Number returns the numeric value when the cell is a number
func (c Cell) Number() (float64, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	return c.num, true
}

// Text returns the text value when the cell is text
func (c Cell) Text() (string, bool) {
	if c.kind != KindText {
		return "", false
	}
	return c.text, true
}

// Bool returns the boolean value when the cell is a boolean
func (c Cell) Bool() (bool, bool) {
	if c.kind != KindBool {
		return false, false
	}
	return c.b, true
}

// Time returns the time value when the cell is a timestamp
func (c Cell) Time() (time.Time, bool) {
	if c.kind != KindTime {
		return time.Time{}, false
	}
	return c.ts, true
}

// Float attempts a loose numeric coercion, mirroring how spreadsheet cells
// are pulled into numeric analysis: numbers pass through, numeric-looking
// text parses, booleans map to 1/0, timestamps yield epoch milliseconds.
func (c Cell) Float() (float64, bool) {
	switch c.kind {
	case KindNumber:
		return c.num, true
	case KindText:
		v, err := strconv.ParseFloat(strings.TrimSpace(c.text), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	case KindBool:
		if c.b {
			return 1, true
		}
		return 0, true
	case KindTime:
		return float64(c.ts.UnixMilli()), true
	default:
		return 0, false
	}
}

// String renders the cell for display and frequency counting. Null renders
// as the empty string; callers that need a placeholder (e.g. group keys)
// substitute their own.
func (c Cell) String() string {
	switch c.kind {
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindText:
		return c.text
	case KindBool:
		return strconv.FormatBool(c.b)
	case KindTime:
		return c.ts.Format(time.RFC3339)
	default:
		return ""
	}
}

// Canonical returns a serialization that distinguishes kind as well as
// value, so the text "1" and the number 1 never collide in fingerprints.
func (c Cell) Canonical() string {
	switch c.kind {
	case KindNumber:
		return "n:" + strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindText:
		return "s:" + c.text
	case KindBool:
		return "b:" + strconv.FormatBool(c.b)
	case KindTime:
		return "t:" + c.ts.Format(time.RFC3339Nano)
	default:
		return "_"
	}
}
