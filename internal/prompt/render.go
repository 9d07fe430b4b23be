// Package prompt holds the static template strings and their rendering.
// Templates use {history}, {message}, {date} and {conversation} placeholders.
package prompt

import (
	"strings"
	"time"

	"github.com/glynne/glyai/internal/turnlog"
)

// Persona selects which conversational template drives a chat turn.
type Persona string

const (
	PersonaAuditor Persona = "auditor"
	PersonaAdvisor Persona = "advisor"
)

// ParsePersona maps a request role to a known persona, defaulting to auditor.
func ParsePersona(role string) Persona {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case string(PersonaAdvisor), "asesor":
		return PersonaAdvisor
	default:
		return PersonaAuditor
	}
}

// Chat renders the conversational prompt for a persona.
func Chat(persona Persona, history []turnlog.Turn, message string, now time.Time) string {
	tpl := interviewTemplate
	if persona == PersonaAdvisor {
		tpl = advisorTemplate
	}
	return strings.NewReplacer(
		"{history}", Transcript(history),
		"{message}", message,
		"{date}", now.Format(DateLayout),
	).Replace(tpl)
}

// Audit renders the report-generation prompt over the full conversation.
func Audit(history []turnlog.Turn, now time.Time) string {
	return strings.NewReplacer(
		"{history}", Transcript(history),
		"{date}", now.Format(DateLayout),
	).Replace(auditTemplate)
}

// Ecosystem renders the process-graph prompt over the full conversation.
func Ecosystem(history []turnlog.Turn) string {
	return strings.NewReplacer(
		"{conversation}", Transcript(history),
	).Replace(ecosystemTemplate)
}

// Transcript formats turns as the "Usuario:/GLY-AI:" lines the templates expect.
func Transcript(turns []turnlog.Turn) string {
	var b strings.Builder
	for _, t := range turns {
		b.WriteString("Usuario: ")
		b.WriteString(t.User)
		b.WriteString("\nGLY-AI: ")
		b.WriteString(t.Assistant)
		b.WriteString("\n")
	}
	return b.String()
}
