package numbering

import (
	"strconv"
	"strings"

	"github.com/tsawler/folio/model"
)

type counterKey struct {
	list  string
	level int
}

// Counters track list numbering during one render pass. They are keyed by
// (list id, level); reaching a level resets every deeper level of the same
// list.
type Counters struct {
	values map[counterKey]int
}

// NewCounters returns an empty counter set.
func NewCounters() *Counters {
	return &Counters{values: make(map[counterKey]int)}
}

// Next advances the counter of lvl and returns its label. Bullet levels
// return the bullet glyph.
func (c *Counters) Next(lvl model.NumberingLevel) string {
	key := counterKey{lvl.ListID, lvl.Level}
	cur, ok := c.values[key]
	if !ok {
		cur = lvl.Start - 1
	}
	cur++
	c.values[key] = cur
	for deeper := lvl.Level + 1; deeper < model.MaxListLevels; deeper++ {
		delete(c.values, counterKey{lvl.ListID, deeper})
	}

	if !lvl.Ordered {
		return Bullet(lvl.Text, lvl.Level)
	}
	return c.expand(lvl)
}

// Reset forgets all counters.
func (c *Counters) Reset() {
	clear(c.values)
}

// expand substitutes %1..%9 in the level text. A placeholder for a level
// that has not been reached yet in this list takes that level's start value.
func (c *Counters) expand(lvl model.NumberingLevel) string {
	text := lvl.Text
	if !strings.Contains(text, "%") {
		return text
	}
	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch != '%' || i+1 >= len(text) || text[i+1] < '1' || text[i+1] > '9' {
			sb.WriteByte(ch)
			continue
		}
		level := int(text[i+1] - '1')
		i++

		value, ok := c.values[counterKey{lvl.ListID, level}]
		if !ok {
			value = lvl.Starts[level]
		}
		format := lvl.Formats[level]
		if level == lvl.Level {
			format = lvl.Format
		}
		sb.WriteString(Format(value, format))
	}
	return sb.String()
}

// Format renders n in a w:numFmt number format. Unknown formats fall back to
// decimal.
func Format(n int, format string) string {
	switch format {
	case "none":
		return ""
	case "decimalZero":
		if n >= 0 && n < 10 {
			return "0" + strconv.Itoa(n)
		}
		return strconv.Itoa(n)
	case "lowerLetter":
		return letters(n, 'a')
	case "upperLetter":
		return letters(n, 'A')
	case "lowerRoman":
		return strings.ToLower(roman(n))
	case "upperRoman":
		return roman(n)
	case "ordinal":
		return strconv.Itoa(n) + ordinalSuffix(n)
	default:
		return strconv.Itoa(n)
	}
}

// letters renders 1 as a, 26 as z, 27 as aa and 53 as aaa, the way word
// processors repeat the letter rather than counting in base 26.
func letters(n int, base byte) string {
	if n <= 0 {
		return strconv.Itoa(n)
	}
	ch := base + byte((n-1)%26)
	return strings.Repeat(string(ch), (n-1)/26+1)
}

var romanNumerals = []struct {
	value int
	text  string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(n int) string {
	if n <= 0 || n >= 4000 {
		return strconv.Itoa(n)
	}
	var sb strings.Builder
	for _, r := range romanNumerals {
		for n >= r.value {
			sb.WriteString(r.text)
			n -= r.value
		}
	}
	return sb.String()
}

func ordinalSuffix(n int) string {
	switch {
	case n%100 >= 11 && n%100 <= 13:
		return "th"
	case n%10 == 1:
		return "st"
	case n%10 == 2:
		return "nd"
	case n%10 == 3:
		return "rd"
	default:
		return "th"
	}
}
