package styles

import (
	"strconv"
	"strings"

	"github.com/tsawler/folio/model"
)

// HeadingLevel returns the heading level (1-9) of a paragraph, or 0 when it
// is not a heading. Built-in heading style ids win, then style names such as
// "heading 2", then the outline level.
func HeadingLevel(p model.ParagraphProperties) int {
	if level := builtInHeading(p.StyleID); level > 0 {
		return level
	}

	name := strings.ToLower(p.StyleName)
	if strings.HasPrefix(name, "heading") {
		for i := 1; i <= 9; i++ {
			if strings.HasSuffix(name, strconv.Itoa(i)) {
				return i
			}
		}
		return 1
	}

	// Outline level 9 means body text.
	if p.OutlineLevel.Set && p.OutlineLevel.Value >= 0 && p.OutlineLevel.Value <= 8 {
		return p.OutlineLevel.Value + 1
	}
	return 0
}

var headingIDs = map[string]int{
	"heading1": 1, "heading2": 2, "heading3": 3,
	"heading4": 4, "heading5": 5, "heading6": 6,
	"heading7": 7, "heading8": 8, "heading9": 9,
	"title": 1, "subtitle": 2,
}

func builtInHeading(styleID string) int {
	return headingIDs[strings.ToLower(styleID)]
}
