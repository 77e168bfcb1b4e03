package telegramutil

import (
	"regexp"
	"strings"
)

var markdownV2Escapes = map[byte]bool{
	'\\': true,
	'_':  true,
	'*':  true,
	'[':  true,
	']':  true,
	'(':  true,
	')':  true,
	'~':  true,
	'`':  true,
	'>':  true,
	'#':  true,
	'+':  true,
	'-':  true,
	'=':  true,
	'|':  true,
	'{':  true,
	'}':  true,
	'.':  true,
	'!':  true,
}

var newlineRuns = regexp.MustCompile(`\n{3,}`)

// EscapeMarkdownV2 escapes every MarkdownV2 reserved character, and the
// backslash itself, in a single left-to-right pass.
func EscapeMarkdownV2(text string) string {
	return escape(text, 0)
}

// FormatForDisplay converts Gemini markup to Telegram markup: **bold**
// markers become single-asterisk bold, runs of three or more newlines
// collapse to exactly two, and lines starting with "* " become bullet
// points.
func FormatForDisplay(text string) string {
	text = strings.ReplaceAll(text, "**", "*")
	text = newlineRuns.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "* ") {
			lines[i] = "• " + line[2:]
		}
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdownV2 prepares Gemini output for sending with MarkdownV2
// enabled. The bold markers FormatForDisplay just emitted have to stay
// raw, so the asterisk is exempt from the escape pass. A literal asterisk
// in the source text outside a bold span therefore stays raw as well.
func RenderMarkdownV2(text string) string {
	return escape(FormatForDisplay(text), '*')
}

func escape(text string, skip byte) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 8)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch != skip && markdownV2Escapes[ch] {
			b.WriteByte('\\')
		}
		b.WriteByte(ch)
	}
	return b.String()
}
