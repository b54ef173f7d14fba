package ai

import (
	"fmt"
	"strings"
)

// Prompt templates for the generation upstream. Placeholders use the
// {{name}} form and are substituted via render, which only ever touches
// the names present in the values map.

const reportTemplate = `Generate a professional sleep analysis report from the user's sleep data.

User sleep data:
- Sleep score: {{sleepScore}}/100
- Deep sleep duration: {{deepSleep}} minutes
- Total sleep duration: {{totalDuration}} minutes
- Date of sleep: {{date}}

Write a natural-language report with these sections:
1. [Strengths] - positive aspects of the sleep data
2. [Weaknesses] - what needs improvement
3. [Advice] - three concrete, actionable suggestions

Requirements:
- Plain language, no jargon
- Suggestions must be specific and practical
- Warm and friendly tone
- Keep it under 300 words`

const chatTemplate = `You are a professional sleep-health assistant. Answer the user's question with expertise and warmth.

Current question: {{userMessage}}

Conversation so far:
{{history}}

Answer requirements:
- Ground answers in sleep-health knowledge
- Plain language, concrete and actionable advice
- Warm and friendly tone
- If the question is unrelated to sleep, gently steer back to sleep health
- Keep the answer under 200 words`

// noHistoryMarker stands in for the history block on a user's first message.
const noHistoryMarker = "No prior conversation."

// ReportPrompt renders the sleep-report template. Callers guarantee the
// ranges (score 0-100, durations non-negative); no validation happens here.
func ReportPrompt(score, deepSleepMinutes, totalMinutes int, date string) string {
	return render(reportTemplate, map[string]string{
		"sleepScore":    fmt.Sprintf("%d", score),
		"deepSleep":     fmt.Sprintf("%d", deepSleepMinutes),
		"totalDuration": fmt.Sprintf("%d", totalMinutes),
		"date":          date,
	})
}

// ChatPrompt renders the multi-turn chat template. An empty history is
// replaced by a fixed marker so the model never sees a dangling block.
func ChatPrompt(message, formattedHistory string) string {
	if formattedHistory == "" {
		formattedHistory = noHistoryMarker
	}
	return render(chatTemplate, map[string]string{
		"userMessage": message,
		"history":     formattedHistory,
	})
}

// FormatHistory renders stored turns oldest-first as numbered lines.
func FormatHistory(turns []string) string {
	if len(turns) == 0 {
		return ""
	}
	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "turn %d: %s", i+1, turn)
	}
	return b.String()
}

func render(template string, values map[string]string) string {
	out := template
	for name, value := range values {
		out = strings.ReplaceAll(out, "{{"+name+"}}", value)
	}
	return out
}
