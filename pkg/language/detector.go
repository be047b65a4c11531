package language

import "unicode"

// latinThreshold is the minimum share of Latin letters among non-space
// characters for text to be classified as English.
const latinThreshold = 0.7

// Detector classifies raw input text into one of the supported languages
// by inspecting Unicode script blocks.
type Detector struct {
	latinThreshold float64
}

// NewDetector creates a detector with the default Latin-letter threshold.
func NewDetector() *Detector {
	return &Detector{latinThreshold: latinThreshold}
}

// Detect returns the language of the given text. Empty input and text with
// no recognizable script yield Unknown; callers map Unknown to an English
// fallback response.
func (d *Detector) Detect(text string) Language {
	var devanagari, telugu, latin, total int

	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++

		switch {
		case unicode.Is(unicode.Devanagari, r):
			devanagari++
		case unicode.Is(unicode.Telugu, r):
			telugu++
		case isLatinLetter(r):
			latin++
		}
	}

	if total == 0 {
		return Unknown
	}

	// Indic scripts are unambiguous: any Devanagari or Telugu content marks
	// the text, with the larger count winning on mixed input.
	if devanagari > 0 || telugu > 0 {
		if telugu > devanagari {
			return Telugu
		}
		return Hindi
	}

	if float64(latin)/float64(total) > d.latinThreshold {
		return English
	}

	return Unknown
}

func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || unicode.Is(unicode.Latin, r)
}
