// Package format provides shared text formatting utilities for terminal output.
package format

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/spiffcs/pulse/internal/constants"
)

// ansiRegex matches ANSI SGR escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

const variationSelector16 = '\uFE0F'

// StripAnsi removes ANSI escape sequences from a string.
func StripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// DisplayWidth returns the visible width of a string in terminal columns.
// ANSI sequences are ignored and an emoji followed by VS16 counts as two columns.
func DisplayWidth(s string) int {
	runes := []rune(StripAnsi(s))
	width := 0
	for i := 0; i < len(runes); i++ {
		if i+1 < len(runes) && runes[i+1] == variationSelector16 {
			width += 2
			i++
			continue
		}
		if runes[i] == variationSelector16 {
			continue
		}
		width += runewidth.RuneWidth(runes[i])
	}
	return width
}

// TruncateToWidth truncates s to fit within maxWidth display columns and
// returns the result with its visible width. Truncated strings end in "...",
// followed by a reset code if any ANSI sequence was kept.
func TruncateToWidth(s string, maxWidth int) (string, int) {
	width := DisplayWidth(s)
	if width <= maxWidth {
		return s, width
	}

	targetWidth := maxWidth - constants.TruncationSuffixWidth
	if targetWidth < 0 {
		targetWidth = 0
	}

	matches := ansiRegex.FindAllStringIndex(s, -1)

	var result strings.Builder
	visibleWidth := 0
	pos := 0
	matchIdx := 0
	sawAnsi := false

	for pos < len(s) && visibleWidth < targetWidth {
		if matchIdx < len(matches) && pos == matches[matchIdx][0] {
			result.WriteString(s[matches[matchIdx][0]:matches[matchIdx][1]])
			pos = matches[matchIdx][1]
			matchIdx++
			sawAnsi = true
			continue
		}

		r, size := utf8.DecodeRuneInString(s[pos:])

		next := pos + size
		if next < len(s) {
			if nr, nsize := utf8.DecodeRuneInString(s[next:]); nr == variationSelector16 {
				if visibleWidth+2 > targetWidth {
					break
				}
				result.WriteString(s[pos : next+nsize])
				visibleWidth += 2
				pos = next + nsize
				continue
			}
		}

		if r == variationSelector16 {
			pos += size
			continue
		}

		rw := runewidth.RuneWidth(r)
		if visibleWidth+rw > targetWidth {
			break
		}

		result.WriteString(s[pos:next])
		visibleWidth += rw
		pos = next
	}

	result.WriteString("...")
	if sawAnsi {
		result.WriteString("\033[0m")
	}

	return result.String(), visibleWidth + constants.TruncationSuffixWidth
}

// PadRight pads a string with spaces to reach the target visible width.
func PadRight(s string, visibleWidth, targetWidth int) string {
	if visibleWidth >= targetWidth {
		return s
	}
	return s + strings.Repeat(" ", targetWidth-visibleWidth)
}
