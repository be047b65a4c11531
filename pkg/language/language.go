// Package language provides script-based detection of the conversation
// languages supported by Vidya: English, Hindi, and Telugu.
//
// Detection is a pure heuristic over Unicode script blocks. There is no
// statistical model and no confidence score: text containing Devanagari is
// Hindi, text containing Telugu script is Telugu, predominantly Latin text
// is English, and anything else is Unknown.
package language

import "fmt"

// Language identifies a supported conversation language.
type Language string

const (
	English Language = "en"
	Hindi   Language = "hi"
	Telugu  Language = "te"
	Unknown Language = "unknown"
)

var names = map[Language]string{
	English: "English",
	Hindi:   "Hindi",
	Telugu:  "Telugu",
	Unknown: "Unknown",
}

// Name returns the human-readable English name of the language.
func (l Language) Name() string {
	if name, ok := names[l]; ok {
		return name
	}
	return names[Unknown]
}

// Supported reports whether the language can be used as a response target.
func (l Language) Supported() bool {
	switch l {
	case English, Hindi, Telugu:
		return true
	}
	return false
}

// OrDefault returns the language itself when it is supported, English
// otherwise. Prompt construction always receives a concrete target language.
func (l Language) OrDefault() Language {
	if l.Supported() {
		return l
	}
	return English
}

// Supported lists the languages Vidya can respond in.
func Supported() []Language {
	return []Language{English, Hindi, Telugu}
}

// Parse converts a language code to a Language. It accepts the codes used
// on the CLI --lang flag and in config files.
func Parse(code string) (Language, error) {
	switch Language(code) {
	case English, Hindi, Telugu:
		return Language(code), nil
	case "":
		return Unknown, fmt.Errorf("language code is empty")
	default:
		return Unknown, fmt.Errorf("unsupported language code: %s (supported: en, hi, te)", code)
	}
}
