package model

// Suffix is what follows a list label.
type Suffix uint8

const (
	SuffixTab Suffix = iota
	SuffixSpace
	SuffixNone
)

func (s Suffix) String() string {
	switch s {
	case SuffixSpace:
		return "space"
	case SuffixNone:
		return "nothing"
	default:
		return "tab"
	}
}

// MaxListLevels is the number of levels a list definition can declare.
const MaxListLevels = 9

// NumberingLevel is a resolved list level.
//
// Formats and Starts hold the number format and start value of every level
// of the same list so that patterns such as "%1.%2." can be expanded
// without going back to the catalog.
type NumberingLevel struct {
	ListID string // abstract list id; counters are keyed by ListID and Level
	NumID  string
	Level  int

	Ordered       bool
	Start         int
	Format        string // decimal, lowerLetter, bullet, ...
	Text          string // label pattern with %1..%9 placeholders
	Justification string
	Suffix        Suffix
	Font          string

	Indent  Indent
	Spacing Spacing

	Formats [MaxListLevels]string
	Starts  [MaxListLevels]int
}
