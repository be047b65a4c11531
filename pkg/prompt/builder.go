// Package prompt renders the teacher-style instruction string sent to the
// LLM: a role preamble, the target language, the three-part formatting
// contract, and the truncated conversation history. Assembly is
// deterministic string concatenation; the only branching is the language
// lookup.
package prompt

import (
	"fmt"
	"strings"

	"github.com/harun/vidya/pkg/language"
	"github.com/harun/vidya/pkg/session"
)

// DefaultContextTurns is how many prior turns are included for continuity.
const DefaultContextTurns = 3

// Builder renders prompts from per-language templates.
type Builder struct {
	templates    map[language.Language]Templates
	contextTurns int
}

// Option configures a Builder.
type Option func(*Builder)

// WithContextTurns sets how many prior turns are included in the prompt.
func WithContextTurns(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.contextTurns = n
		}
	}
}

// WithTemplatePack overlays templates loaded from a pack file on top of the
// built-in defaults.
func WithTemplatePack(pack *Pack) Option {
	return func(b *Builder) {
		if pack == nil {
			return
		}
		for lang, overrides := range pack.Templates {
			base := b.templates[lang]
			b.templates[lang] = merge(base, overrides)
		}
	}
}

// NewBuilder creates a Builder with the built-in localized templates.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		templates:    defaultTemplates(),
		contextTurns: DefaultContextTurns,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build renders the instruction string for one question: truncated
// history, formatting contract, the question tagged with its target
// language, and the closing instruction. The role preamble is returned
// separately by System so providers can carry it as a system instruction.
// Unknown or unsupported languages fall back to English.
func (b *Builder) Build(lang language.Language, question string, history []session.Turn) string {
	lang = lang.OrDefault()
	t := b.templates[lang]

	var parts []string

	if ctx := b.formatContext(t, history); ctx != "" {
		parts = append(parts, ctx)
	}

	parts = append(parts,
		t.Format,
		fmt.Sprintf("User Question (%s): %s", lang.Name(), question),
		t.FinalInstruction,
	)

	return strings.Join(parts, "\n\n")
}

// System returns the role preamble alone, for providers that accept a
// separate system instruction.
func (b *Builder) System(lang language.Language) string {
	return b.templates[lang.OrDefault()].System
}

// Greeting returns the localized conversation-start greeting.
func (b *Builder) Greeting(lang language.Language) string {
	return b.templates[lang.OrDefault()].Greeting
}

// APIErrorNotice returns the localized user-visible message shown after the
// LLM call fails for good.
func (b *Builder) APIErrorNotice(lang language.Language) string {
	return b.templates[lang.OrDefault()].APIErrorNotice
}

func (b *Builder) formatContext(t Templates, history []session.Turn) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) > b.contextTurns {
		history = history[len(history)-b.contextTurns:]
	}

	lines := []string{t.ContextHeader}
	for i, turn := range history {
		lines = append(lines, fmt.Sprintf("%d. Q: %s", i+1, turn.Question))
		if turn.Answer != "" {
			lines = append(lines, fmt.Sprintf("   A: %s", turn.Answer))
		}
	}
	return strings.Join(lines, "\n")
}

func merge(base, overrides Templates) Templates {
	if overrides.System != "" {
		base.System = overrides.System
	}
	if overrides.Format != "" {
		base.Format = overrides.Format
	}
	if overrides.ContextHeader != "" {
		base.ContextHeader = overrides.ContextHeader
	}
	if overrides.FinalInstruction != "" {
		base.FinalInstruction = overrides.FinalInstruction
	}
	if overrides.Greeting != "" {
		base.Greeting = overrides.Greeting
	}
	if overrides.APIErrorNotice != "" {
		base.APIErrorNotice = overrides.APIErrorNotice
	}
	return base
}
