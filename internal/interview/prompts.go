package interview

import (
	"fmt"
	"strings"

	_ "embed"
)

//go:embed prompts/system.md
var systemPrompt string

//go:embed prompts/analysis.md
var analysisTemplate string

//go:embed prompts/acknowledgment.md
var ackTemplate string

//go:embed prompts/turn.md
var turnTemplate string

func buildAnalysisPrompt(resumeText string) string {
	return strings.ReplaceAll(analysisTemplate, "{{RESUME_TEXT}}", resumeText)
}

func buildAckPrompt(analysis string) string {
	return strings.ReplaceAll(ackTemplate, "{{ANALYSIS}}", analysis)
}

func buildTurnPrompt(session *Session, message string) string {
	prompt := strings.ReplaceAll(turnTemplate, "{{SYSTEM}}", strings.TrimSpace(systemPrompt))
	prompt = strings.ReplaceAll(prompt, "{{CONTEXT}}", session.Transcript.Render())
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATE}}", candidateContext(&session.Profile))
	prompt = strings.ReplaceAll(prompt, "{{MESSAGE}}", message)

	if session.Profile.ResumeText != "" {
		prompt += "\n\nRESUME CONTENT:\n" + session.Profile.ResumeText
	}

	return prompt
}

// candidateContext renders the already collected profile fields so the
// completion service does not ask for them again.
func candidateContext(p *Profile) string {
	var b strings.Builder
	if p.FullName != "" {
		b.WriteString("\nCandidate Name: " + p.FullName)
	}
	if p.TechStack != "" {
		b.WriteString("\nTech Stack: " + p.TechStack)
	}
	if p.DesiredPosition != "" {
		b.WriteString("\nDesired Position: " + p.DesiredPosition)
	}
	if p.ResumeAnalysis != "" {
		b.WriteString("\nResume Analysis: " + p.ResumeAnalysis)
	}
	return b.String()
}

// farewellMessage is the deterministic closing turn. No completion call is
// made on the exit path, so a candidate can always leave cleanly.
func farewellMessage(p *Profile, sessionID string) string {
	name := orFallback(p.FullName, "Not provided")
	position := orFallback(p.DesiredPosition, "Not specified")
	techStack := orFallback(p.TechStack, "Not specified")
	id := orFallback(sessionID, "Local session")

	return fmt.Sprintf(`Thank you so much for taking the time to speak with me today!

Here's a summary of what we collected:
- Name: %s
- Position: %s
- Tech Stack: %s

Next steps: our HR team will review your application and get back to you within 3-5 business days.

Best of luck with your application!

Session ID: %s`, name, position, techStack, id)
}

func apologyMessage(err error) string {
	return fmt.Sprintf("I apologize, but I encountered an issue. Please try again. (Error: %v)", err)
}

func orFallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
