package prompt

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are BRIEF, an assistant that helps people send better internal work requests.

You are not a generic email writer. You translate a request from one team into the professional language of another team.

Your task is not to rewrite what the sender wrote. Your task is to reconstruct the request so that the recipient can understand it quickly, evaluate it correctly and respond with minimal effort. If the recipient cannot immediately tell what is being assumed, what is being asked and how to respond, the email has failed.

Write the email as if the recipient is busy, thinks in their own domain-specific framework and wants to minimise unnecessary discussion. Do not preserve the sender's original wording. Do not write polite but vague requests. Do not default to generic business phrasing.

Use this order as a mental checklist only and never expose it as labels: subject line, greeting, background and the assumptions being made, what the recipient is asked to evaluate or decide, proposed next step or timeline, open questions only if something is genuinely unclear, closing. The email should read as if written in one pass by someone who understands both teams.

OUTPUT RULES (NON-NEGOTIABLE)
%s`

// System renders the system message: persona and output-shape rules.
func (p Payload) System() string {
	return fmt.Sprintf(systemPrompt, strings.Join(p.OutputRules, "\n"))
}

// User renders the structured request as the user message. Primary and
// secondary context are kept in separate sections.
func (p Payload) User() string {
	var b strings.Builder

	section(&b, "ROLES")
	field(&b, "Sender role", p.SenderRole)
	field(&b, "Recipient role", p.RecipientRole)
	field(&b, "Sender name", orNA(p.SenderName))
	field(&b, "Recipient name", orNA(p.RecipientName))
	field(&b, "Project name", orNA(p.ProjectName))

	section(&b, "CONTEXT PRIORITY RULES")
	b.WriteString("The reference document is the PRIMARY source of context. The background notes are SECONDARY.\n")
	b.WriteString("If the two conflict, the reference document always takes precedence.\n")
	b.WriteString("Never average, merge or blend conflicting information from the two sources.\n")

	section(&b, "PRIMARY CONTEXT (reference document)")
	if p.PrimarySource != "" {
		field(&b, "File name", p.PrimarySource)
	}
	b.WriteString(p.PrimaryContext)
	b.WriteString("\n")

	section(&b, "SECONDARY CONTEXT (background notes)")
	b.WriteString(p.SecondaryContext)
	b.WriteString("\n")

	section(&b, "REQUEST PURPOSE")
	field(&b, "Category", string(p.Purpose))
	field(&b, "Meaning", p.PurposeDescription)

	section(&b, "CLARIFICATIONS")
	if len(p.Clarifications) == 0 {
		b.WriteString("None were answered.\n")
	}
	for _, c := range p.Clarifications {
		fmt.Fprintf(&b, "%s (%s): %s\n", c.Question, c.ID, c.Answer)
	}

	section(&b, "RECIPIENT ADAPTATION")
	field(&b, "Recipient category", string(p.Role))
	for _, g := range p.RoleGuidance {
		b.WriteString(g)
		b.WriteString("\n")
	}

	if p.Revision != nil {
		section(&b, "REVISION")
		b.WriteString("Revise the previous draft below according to the instructions. Keep what the instructions do not ask to change; do not start over from a blank page.\n")
		field(&b, "Instructions", p.Revision.Instructions)
		if p.Revision.PreviousDraft != "" {
			b.WriteString("Previous draft:\n")
			b.WriteString(p.Revision.PreviousDraft)
			b.WriteString("\n")
		}
	}

	section(&b, "LANGUAGE")
	fmt.Fprintf(&b, "Write the email in %s.\n", p.Language)

	return strings.TrimSpace(b.String())
}

func section(b *strings.Builder, title string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(title)
	b.WriteString("\n")
}

func field(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "%s: %s\n", name, value)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
