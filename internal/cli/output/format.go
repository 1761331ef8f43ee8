package output

import (
	"fmt"
	"strings"
)

// FormatHeader returns a markdown heading line.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue returns a markdown key-value bullet.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}

// FormatCodeBlock fences code with a language tag.
func FormatCodeBlock(lang, code string) string {
	return "```" + lang + "\n" + code + "\n```"
}
