package chat

import (
	"errors"
	"regexp"
	"strings"
)

// MaxInputLength is the cap applied to user input before prompt
// construction; longer input is truncated with an ellipsis.
const MaxInputLength = 1000

// ErrEmptyInput is returned when input is empty after sanitization.
var ErrEmptyInput = errors.New("input is empty")

var (
	controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Sanitize normalizes raw user input: control characters are stripped,
// backticks escaped, whitespace collapsed, and over-long input truncated.
// Returns ErrEmptyInput when nothing usable remains.
func Sanitize(text string) (string, error) {
	text = controlChars.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "`", "\\`")
	text = whitespace.ReplaceAllString(strings.TrimSpace(text), " ")

	if runes := []rune(text); len(runes) > MaxInputLength {
		text = string(runes[:MaxInputLength]) + "..."
	}

	if text == "" {
		return "", ErrEmptyInput
	}
	return text, nil
}
