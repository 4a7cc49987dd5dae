package docx

import (
	"regexp"
	"strings"
)

// fieldState is the state of one open complex field.
type fieldState uint8

const (
	// fieldIdle is a field that is not a hyperlink, or whose instruction
	// could not be parsed.
	fieldIdle fieldState = iota
	// fieldCapturing is a field between begin and separate.
	fieldCapturing
	// fieldResolved is a hyperlink field with a known target.
	fieldResolved
)

type field struct {
	state fieldState
	href  string
}

// fieldStack tracks nested complex fields (w:fldChar begin/separate/end).
type fieldStack struct {
	open  []field
	instr strings.Builder
}

func (s *fieldStack) begin() {
	s.open = append(s.open, field{state: fieldCapturing})
	s.instr.Reset()
}

// instruction appends w:instrText content while the innermost field is
// still capturing.
func (s *fieldStack) instruction(text string) {
	if n := len(s.open); n > 0 && s.open[n-1].state == fieldCapturing {
		s.instr.WriteString(text)
	}
}

func (s *fieldStack) separate() {
	n := len(s.open)
	if n == 0 {
		return
	}
	if href, ok := parseHyperlinkInstruction(s.instr.String()); ok {
		s.open[n-1] = field{state: fieldResolved, href: href}
	} else {
		s.open[n-1] = field{state: fieldIdle}
	}
	s.instr.Reset()
}

// end closes the innermost field. An end without a matching begin is
// ignored.
func (s *fieldStack) end() {
	if n := len(s.open); n > 0 {
		s.open = s.open[:n-1]
	}
}

// currentHyperlink returns the target of the innermost resolved hyperlink
// field.
func (s *fieldStack) currentHyperlink() (string, bool) {
	for i := len(s.open) - 1; i >= 0; i-- {
		if s.open[i].state == fieldResolved {
			return s.open[i].href, true
		}
	}
	return "", false
}

var hyperlinkInstruction = regexp.MustCompile(`^\s*HYPERLINK\s+(\\l\s+)?"([^"]*)"`)

// parseHyperlinkInstruction extracts the target of a HYPERLINK field
// instruction. A \l switch makes the target a bookmark in this document.
func parseHyperlinkInstruction(instr string) (string, bool) {
	m := hyperlinkInstruction.FindStringSubmatch(instr)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return "#" + m[2], true
	}
	return m[2], true
}
