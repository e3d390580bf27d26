package table

import (
	"cmp"
	"strconv"
	"time"
)

// Kind identifies the type held by a Cell.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindTime
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindTime:
		return "time"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// UnsetLabel is how an unset instant is displayed.
const UnsetLabel = "N/A"

// TimeLayout is the display layout for instants.
const TimeLayout = "2006-01-02T15:04:05"

// Cell is a single typed table value. The zero Cell is an empty string.
type Cell struct {
	kind  Kind
	str   string
	num   int64
	at    time.Time
	unset bool
}

// String builds a string cell.
func String(s string) Cell {
	return Cell{kind: KindString, str: s}
}

// Int builds an integer cell.
func Int(n int64) Cell {
	return Cell{kind: KindInt, num: n}
}

// Time builds an instant cell.
func Time(t time.Time) Cell {
	return Cell{kind: KindTime, at: t}
}

// Unset builds the explicit "unset" instant.
func Unset() Cell {
	return Cell{kind: KindTime, unset: true}
}

// Kind reports the cell type.
func (c Cell) Kind() Kind { return c.kind }

// IsUnset reports whether c is the unset instant.
func (c Cell) IsUnset() bool { return c.kind == KindTime && c.unset }

// Text returns the raw string of a string cell.
func (c Cell) Text() string { return c.str }

// Int64 returns the value of an integer cell.
func (c Cell) Int64() int64 { return c.num }

// Instant returns the instant of a time cell; unset cells return the zero time.
func (c Cell) Instant() time.Time {
	if c.unset {
		return time.Time{}
	}
	return c.at
}

// String renders the cell for display.
func (c Cell) String() string {
	switch c.kind {
	case KindInt:
		return strconv.FormatInt(c.num, 10)
	case KindTime:
		if c.unset {
			return UnsetLabel
		}
		return c.at.Local().Format(TimeLayout)
	default:
		return c.str
	}
}

// Compare orders two cells by their natural order: lexicographic strings,
// numeric integers, chronological instants with unset before every real
// instant. Cells of different kinds order by kind.
func Compare(a, b Cell) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}
	switch a.kind {
	case KindInt:
		return cmp.Compare(a.num, b.num)
	case KindTime:
		switch {
		case a.unset && b.unset:
			return 0
		case a.unset:
			return -1
		case b.unset:
			return 1
		}
		return a.at.Compare(b.at)
	default:
		return cmp.Compare(a.str, b.str)
	}
}

// Equal reports whether two cells hold the same value.
func (c Cell) Equal(other Cell) bool {
	return Compare(c, other) == 0
}
