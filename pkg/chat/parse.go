package chat

import (
	"regexp"
	"strings"

	"github.com/harun/vidya/pkg/language"
)

// Answer is an LLM response split into the three teacher-format sections.
// Raw always holds the full response text; the structured fields are empty
// when the model ignored the format.
type Answer struct {
	Raw         string   `json:"raw"`
	Definition  string   `json:"definition,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	Application string   `json:"application,omitempty"`
}

// sectionMarkers maps each language to regexes recognizing its localized
// section headings.
type sectionMarkers struct {
	definition  *regexp.Regexp
	examples    *regexp.Regexp
	application *regexp.Regexp
}

var markers = map[language.Language]sectionMarkers{
	language.English: {
		definition:  regexp.MustCompile(`(?i)definition|explanation`),
		examples:    regexp.MustCompile(`(?i)examples?`),
		application: regexp.MustCompile(`(?i)application|tip`),
	},
	language.Hindi: {
		definition:  regexp.MustCompile(`परिभाषा|स्पष्टीकरण`),
		examples:    regexp.MustCompile(`उदाहरण`),
		application: regexp.MustCompile(`अनुप्रयोग|टिप`),
	},
	language.Telugu: {
		definition:  regexp.MustCompile(`నిర్వచనం|వివరణ`),
		examples:    regexp.MustCompile(`ఉదాహరణ`),
		application: regexp.MustCompile(`అప్లికేషన్|చిట్కా`),
	},
}

var listMarker = regexp.MustCompile(`^(\d+[.)]|[-*•])\s*`)

// ParseAnswer splits a teacher-format response into definition, examples,
// and application sections using the language's localized headings. Lines
// before the first recognized heading, and responses with no headings at
// all, are preserved only in Raw.
func ParseAnswer(text string, lang language.Language) Answer {
	answer := Answer{Raw: strings.TrimSpace(text)}

	m, ok := markers[lang.OrDefault()]
	if !ok {
		return answer
	}

	const (
		none = iota
		definition
		examples
		application
	)

	section := none
	var defLines, appLines []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		heading := listMarker.MatchString(line) || strings.Contains(line, ":")
		switch {
		case heading && m.definition.MatchString(line):
			section = definition
			line = contentAfterHeading(line)
		case heading && m.examples.MatchString(line):
			section = examples
			line = contentAfterHeading(line)
		case heading && m.application.MatchString(line):
			section = application
			line = contentAfterHeading(line)
		default:
			line = listMarker.ReplaceAllString(line, "")
		}
		if line == "" {
			continue
		}

		switch section {
		case definition:
			defLines = append(defLines, line)
		case examples:
			answer.Examples = append(answer.Examples, line)
		case application:
			appLines = append(appLines, line)
		}
	}

	answer.Definition = strings.Join(defLines, " ")
	answer.Application = strings.Join(appLines, " ")
	return answer
}

// contentAfterHeading returns the text following the heading's colon, if
// the model put content on the heading line itself.
func contentAfterHeading(line string) string {
	if i := strings.Index(line, ":"); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	return ""
}
