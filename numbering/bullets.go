package numbering

// Common Word bullet characters (standard Unicode), by level.
var levelBullets = []string{"•", "○", "■", "□", "▪", "▫", "►", "◦"}

// symbolBullets maps Private Use Area glyphs from the Symbol and Wingdings
// fonts to Unicode equivalents.
var symbolBullets = map[rune]string{
	0xF0B7: "•",
	0xF0A7: "▪",
	0xF0A8: "□",
	0xF06E: "■",
	0xF0D8: "➢",
	0xF0FC: "✓",
	0xF076: "❖",
	0xF0E0: "➔",
	0xF06F: "○",
}

// Bullet returns a renderable bullet for a level text.
func Bullet(lvlText string, level int) string {
	if lvlText != "" && isRenderableBullet(lvlText) {
		return lvlText
	}
	for _, r := range lvlText {
		if b, ok := symbolBullets[r]; ok {
			return b
		}
	}
	if level >= 0 && level < len(levelBullets) {
		return levelBullets[level]
	}
	return "•"
}

// isRenderableBullet checks if a bullet character will render properly.
// Returns false for Private Use Area characters that require special fonts.
func isRenderableBullet(s string) bool {
	for _, r := range s {
		// Word commonly uses U+F0xx for Symbol/Wingdings characters
		if r >= 0xE000 && r <= 0xF8FF {
			return false
		}
		if r < 0x20 {
			return false
		}
	}
	return len(s) > 0
}
