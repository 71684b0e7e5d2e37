package analysis

import (
	_ "embed"
	"strings"
)

//go:embed prompts/analyze.txt
var analyzeTemplate string

// buildPrompt embeds the raw consent text into the fixed analysis
// instruction template.
func buildPrompt(text string) string {
	return strings.NewReplacer("{{CONSENT_TEXT}}", text).Replace(analyzeTemplate)
}
