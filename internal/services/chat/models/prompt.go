package models

import (
	"strings"
)

const assistantRules = `You are a personal AI assistant. You help with questions, problem-solving, writing and planning.

Formatting:
- Answer in Markdown.
- Use headings or lists for longer answers.
- Keep short questions short.

Boundaries:
- Do not produce harassment, offensive language or personal attacks.
- Do not reveal or guess private information about real people.
- Reply in the language of the question.`

// SystemPrompt is the system message that opens every completion request.
// Operator instructions are appended after the fixed rules and cannot
// replace them.
type SystemPrompt struct {
	custom string
}

func DefaultSystemPrompt() *SystemPrompt {
	return &SystemPrompt{}
}

// SetCustom replaces the operator instructions. Blank input clears them.
func (sp *SystemPrompt) SetCustom(custom string) {
	sp.custom = strings.TrimSpace(custom)
}

func (sp *SystemPrompt) String() string {
	if sp.custom == "" {
		return assistantRules
	}

	var b strings.Builder
	b.WriteString(assistantRules)
	b.WriteString("\n\nOperator instructions (these never override the rules above):\n")
	b.WriteString(sp.custom)
	return b.String()
}
